// internal/auth/auth.go
//
// Account helpers for the 2048 server.
// Responsibilities:
//   - Username/password validation and bcrypt hashing.
//   - HS256 JWT signing/verification carrying {id, username}.
//   - Auth cookie handling (bearer header takes precedence over the cookie).
//   - Random URL-safe identifiers for users and anonymous players.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrUsernameTaken = errors.New("username taken")
)

// User is the identity carried in a token and placed in request context.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Config holds token and cookie settings.
type Config struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool // production: Secure + SameSite=None
}

// Sign creates an HS256 JWT for the user, valid for c.TTL.
func (c Config) Sign(u User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(c.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(c.Secret)
	return ss, exp, err
}

// Parse verifies tok and returns the user it names.
func (c Config) Parse(tok string) (User, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return c.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return User{}, ErrInvalidToken
	}
	return User{ID: id, Username: username}, nil
}

// TokenFromRequest extracts a bearer token from the Authorization header or
// the auth cookie.
func (c Config) TokenFromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if ck, err := r.Cookie(c.CookieName); err == nil {
		return ck.Value
	}
	return ""
}

// SetCookie writes the auth token cookie.
func (c Config) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	ck := c.cookie(c.CookieName, token)
	ck.Expires = exp
	http.SetCookie(w, ck)
}

// ClearCookie deletes the auth token cookie.
func (c Config) ClearCookie(w http.ResponseWriter) {
	ck := c.cookie(c.CookieName, "")
	ck.MaxAge = -1
	http.SetCookie(w, ck)
}

// cookie builds a cookie with this config's security attributes.
func (c Config) cookie(name, value string) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if c.Secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: sameSite,
	}
}

// SetLongCookie writes a non-auth cookie (e.g. the anonymous player id) that
// lives for ttl.
func (c Config) SetLongCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	ck := c.cookie(name, value)
	ck.Expires = time.Now().Add(ttl)
	http.SetCookie(w, ck)
}

// NormalizeUsername trims whitespace.
func NormalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8-72 chars")
	}
	return nil
}

// HashPassword returns a bcrypt hash at the default cost.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NewID creates a 22-char URL-safe, crypto-random identifier (no padding).
func NewID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
