package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
)

// Identity is the authenticated principal together with the access
// credential that authenticates it. The pair is always replaced as a whole.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	AccessToken string `json:"token"`
}

var ErrIncompleteIdentity = errors.New("identity has no user id or access token")

// Validate reports whether the identity can be installed.
func (i Identity) Validate() error {
	if i.ID == "" || i.AccessToken == "" {
		return ErrIncompleteIdentity
	}
	return nil
}

// TokenExpiry reads the exp claim of the access token without verifying it.
// The client cannot verify server signatures; the value is informational.
func (i Identity) TokenExpiry() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(i.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (i *Identity) clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
