// Package auth grants the write capability behind the shared admin password.
//
// This is a convenience gate for a single shop, not access control: anyone who
// knows the password can write. Reads stay open to guests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Role is the capability level carried by a token.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

var (
	// ErrInvalidPassword is returned when the shared password does not match.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidToken is returned for expired, tampered or malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload of a capability token.
type Claims struct {
	Role Role `json:"role"`
	jwt.StandardClaims
}

// CanWrite reports whether the holder may mutate the inventory.
func (c *Claims) CanWrite() bool {
	return c != nil && c.Role == RoleAdmin
}

// Authenticator checks the shared password and issues capability tokens.
type Authenticator struct {
	passwordHash []byte
	signingKey   []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAuthenticator hashes the shared password with bcrypt so the plain text is
// not kept in memory after startup.
func NewAuthenticator(password, signingKey string, ttl time.Duration) (*Authenticator, error) {
	if password == "" {
		return nil, errors.New("admin password must not be empty")
	}
	if signingKey == "" {
		return nil, errors.New("token signing key must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{
		passwordHash: hash,
		signingKey:   []byte(signingKey),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// Login exchanges the shared password for a signed admin token.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidPassword
	}

	expiresAt := a.now().Add(a.ttl)
	claims := &Claims{
		Role: RoleAdmin,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  a.now().Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses a token and returns its claims.
func (a *Authenticator) Verify(signed string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(signed, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
