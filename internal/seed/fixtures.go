package seed

import (
	"errors"
	"fmt"
	"os"

	"plusnine/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// UserFixture is one deterministic account in a fixture file. These are
// the accounts developers actually log in with, so unlike generated users
// their usernames and passwords are stable across reseeds.
type UserFixture struct {
	Username   string `yaml:"username"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Role       string `yaml:"role"`
	CustomerID string `yaml:"customerId"`
}

// Fixtures describes the deterministic portion of a seed run.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
	// Friendships lists username pairs that should start out as friends.
	Friendships [][2]string `yaml:"friendships"`
}

// LoadFixtures reads a YAML fixture file from disk.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path) // #nosec G304: path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return ParseFixtures(raw)
}

// ParseFixtures decodes fixture YAML and validates it.
func ParseFixtures(raw []byte) (*Fixtures, error) {
	var fixtures Fixtures
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	seen := make(map[string]bool, len(fixtures.Users))
	for i, u := range fixtures.Users {
		if u.Username == "" || u.Email == "" {
			return nil, fmt.Errorf("fixture user %d: username and email are required", i)
		}
		if seen[u.Username] {
			return nil, fmt.Errorf("fixture user %q listed twice", u.Username)
		}
		seen[u.Username] = true
		switch u.Role {
		case "", models.RoleMember, models.RolePremium:
		default:
			return nil, fmt.Errorf("fixture user %q: unknown role %q", u.Username, u.Role)
		}
	}
	for _, pair := range fixtures.Friendships {
		for _, name := range pair {
			if !seen[name] {
				return nil, fmt.Errorf("friendship references unknown fixture user %q", name)
			}
		}
	}
	return &fixtures, nil
}

// Apply creates the fixture users and friendships through the factory.
// Existing users with the same username are left untouched.
func (fx *Fixtures) Apply(db *gorm.DB, factory *Factory) (map[string]*models.User, error) {
	byName := make(map[string]*models.User, len(fx.Users))

	for _, spec := range fx.Users {
		var existing models.User
		err := db.Where("username = ?", spec.Username).First(&existing).Error
		if err == nil {
			byName[spec.Username] = &existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		password := spec.Password
		if password == "" {
			password = DefaultPassword
		}
		hash, salt, err := factory.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("hash fixture password for %s: %w", spec.Username, err)
		}

		user, err := factory.CreateUser(func(u *models.User) {
			u.Username = spec.Username
			u.Email = spec.Email
			u.PasswordHash = hash
			u.PasswordSalt = salt
			u.CustomerID = spec.CustomerID
			if spec.Role != "" {
				u.Role = spec.Role
			}
		})
		if err != nil {
			return nil, fmt.Errorf("create fixture user %s: %w", spec.Username, err)
		}
		byName[spec.Username] = user
	}

	for _, pair := range fx.Friendships {
		a, b := byName[pair[0]], byName[pair[1]]
		if err := factory.CreateFriendship(a, b); err != nil {
			return nil, fmt.Errorf("create fixture friendship %s <-> %s: %w", pair[0], pair[1], err)
		}
	}

	return byName, nil
}
