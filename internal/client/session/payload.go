package session

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserID accepts the user id as either a JSON string or a JSON number.
type UserID string

func (u *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*u = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// UserPayload is the "user" object returned by the auth endpoints.
type UserPayload struct {
	ID    UserID `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// AuthPayload is the data member of login, register, validate and refresh
// responses. Depending on the endpoint either part may be missing.
type AuthPayload struct {
	User        *UserPayload `json:"user"`
	Token       string       `json:"token"`
	AccessToken string       `json:"accessToken"`
}

func (p AuthPayload) token() string {
	if p.Token != "" {
		return p.Token
	}
	return p.AccessToken
}

// Merge builds the identity described by p on top of base. Fields p does
// not carry are taken from base, which may be nil.
func (p AuthPayload) Merge(base *Identity) Identity {
	var id Identity
	if base != nil {
		id = *base
	}
	if p.User != nil {
		id.ID = string(p.User.ID)
		id.Email = p.User.Email
		id.Name = p.User.Name
		id.Role = p.User.Role
	}
	if t := p.token(); t != "" {
		id.AccessToken = t
	}
	return id
}
