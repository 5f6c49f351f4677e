// Package services contains application services for the LearnSphere client.
// This file defines the authentication service: credential exchange for
// login and registration, logout, and the remembered login email.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/repositories/metadata"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/session"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
)

// LastEmailKey holds the email of the last successful login.
const LastEmailKey = "auth.last_email"

const (
	minPasswordLen = 6
	minNameLen     = 3
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email address", common.ErrInvalidInput)
	ErrShortPassword   = fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, minPasswordLen)
	ErrShortName       = fmt.Errorf("%w: name must be at least %d characters", common.ErrInvalidInput, minNameLen)
	ErrUnknownRole     = fmt.Errorf("%w: role must be Student or Instructor", common.ErrInvalidInput)
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrEmailRegistered = errors.New("email already registered")
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for an identity and install it in the
//     session manager.
//   - Register: create an account. It does not log in.
//   - Logout: end the session; never fails.
//   - WhoAmI: the current identity, or nil.
//   - LastEmail: the email of the last successful login, or "".
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*session.Identity, error)
	Register(ctx context.Context, name, email string, password []byte, role session.Role) error
	Logout(ctx context.Context)
	WhoAmI() *session.Identity
	LastEmail(ctx context.Context) string
}

// authService is the concrete AuthService. Login and register go straight
// to the transport: they carry no credential and a 401 there means bad
// credentials, not an expired session.
type authService struct {
	transport client.Transport
	manager   *session.Manager
	repo      metadata.Repository
	log       logging.Logger
}

// NewAuthService constructs an AuthService. repo may be nil, in which case
// no email is remembered.
func NewAuthService(t client.Transport, m *session.Manager, repo metadata.Repository, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{transport: t, manager: m, repo: repo, log: log}
}

func validateLogin(email string, password []byte) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return ErrShortPassword
	}
	return nil
}

// Login validates the input locally, then exchanges it for an identity.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*session.Identity, error) {
	email = strings.TrimSpace(email)
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}

	body := map[string]string{"email": email, "password": string(password)}
	resp, err := a.transport.Send(ctx, client.NewRequest(http.MethodPost, common.LoginPath, body))
	if err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %w", ErrBadCredentials, err)
		}
		return nil, fmt.Errorf("login error: %w", err)
	}

	var payload session.AuthPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}
	id := payload.Merge(nil)
	if err := a.manager.Login(ctx, id); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	a.rememberEmail(ctx, email)
	a.log.Info(ctx, "logged in", "user_id", id.ID, "role", id.Role)
	return a.manager.Current(), nil
}

// Register creates an account. The caller logs in separately.
func (a *authService) Register(ctx context.Context, name, email string, password []byte, role session.Role) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if len([]rune(name)) < minNameLen {
		return ErrShortName
	}
	if err := validateLogin(email, password); err != nil {
		return err
	}
	if role == "" {
		role = session.RoleStudent
	}
	if role != session.RoleStudent && role != session.RoleInstructor {
		return ErrUnknownRole
	}

	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": string(password),
		"role":     string(role),
	}
	if _, err := a.transport.Send(ctx, client.NewRequest(http.MethodPost, common.RegisterPath, body)); err != nil {
		if isStatus(err, http.StatusConflict) {
			return fmt.Errorf("%w: %w", ErrEmailRegistered, err)
		}
		return fmt.Errorf("register error: %w", err)
	}
	a.log.Info(ctx, "registered", "role", role)
	return nil
}

func (a *authService) Logout(ctx context.Context) {
	a.manager.Logout(ctx)
}

func (a *authService) WhoAmI() *session.Identity {
	return a.manager.Current()
}

func (a *authService) LastEmail(ctx context.Context) string {
	if a.repo == nil {
		return ""
	}
	v, err := a.repo.Get(ctx, LastEmailKey)
	if err != nil {
		a.log.Warn(ctx, "read last email", "error", err)
		return ""
	}
	return string(v)
}

func (a *authService) rememberEmail(ctx context.Context, email string) {
	if a.repo == nil {
		return
	}
	if err := a.repo.Set(ctx, LastEmailKey, []byte(email)); err != nil {
		a.log.Warn(ctx, "remember email", "error", err)
	}
}

func isStatus(err error, code int) bool {
	var se *client.StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Landing names the view a role starts on after login.
func Landing(role session.Role) string {
	if role == session.RoleStudent {
		return "student-dashboard"
	}
	return "dashboard"
}
