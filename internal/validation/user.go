// Package validation holds input validation rules shared by handlers and
// services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	minUsernameLength = 3
	maxUsernameLength = 30
	maxEmailLength    = 254
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z0-9-]+$`)
)

// ValidatePassword enforces length bounds only. Composition rules push
// users toward predictable substitutions, so length is the single knob.
func ValidatePassword(password string) error {
	length := utf8.RuneCountInString(password)
	if length < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if length > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// ValidateUsername enforces username format.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("username must be %d-%d characters", minUsernameLength, maxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may contain only letters, numbers, underscores, and hyphens")
	}
	first, last := username[0], username[len(username)-1]
	if first == '-' || first == '_' || last == '-' || last == '_' {
		return fmt.Errorf("username cannot start or end with a hyphen or underscore")
	}
	return nil
}

// ValidateEmail enforces a pragmatic email shape, not full RFC 5322.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if strings.Count(email, "@") != 1 || !emailRegex.MatchString(email) {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}
