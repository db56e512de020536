package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "plusnine-api"
	tokenAudience = "plusnine-client"

	// refreshTokenSize is the length in bytes of the random refresh token.
	refreshTokenSize = 64
)

// Typed sentinel errors so callers can distinguish an expired token from
// a malformed or tampered one.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessClaims is the verified content of an access token.
type AccessClaims struct {
	UserID   uint
	Username string
}

// RefreshToken is an opaque rotating credential paired with its lifetime.
type RefreshToken struct {
	Token   string
	Created time.Time
	Expires time.Time
}

// Issuer creates and verifies session credentials. Access tokens are
// HS256 JWTs; refresh tokens are opaque random strings stored server side.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer returns an Issuer signing with secret. TTLs must be positive.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssueAccessToken signs a new access token for the user.
func (i *Issuer) IssueAccessToken(userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"username": username,                               // Username (cached in token)
		"iss":      tokenIssuer,                            // Issuer
		"aud":      tokenAudience,                          // Audience
		"exp":      now.Add(i.accessTTL).Unix(),            // Expiration
		"iat":      now.Unix(),                             // Issued at
		"nbf":      now.Unix(),                             // Not before
		"jti":      generateJTI(),                          // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ParseAccessToken verifies the token signature, lifetime, issuer, and
// audience, returning the embedded claims.
func (i *Issuer) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	username, _ := claims["username"].(string)

	return &AccessClaims{UserID: uint(userID), Username: username}, nil
}

// IssueRefreshToken generates a fresh opaque refresh token. The token is
// 64 random bytes, base64 encoded.
func (i *Issuer) IssueRefreshToken() (RefreshToken, error) {
	buf := make([]byte, refreshTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	return RefreshToken{
		Token:   base64.StdEncoding.EncodeToString(buf),
		Created: now,
		Expires: now.Add(i.refreshTTL),
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// RefreshTTL returns the configured refresh token lifetime.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
