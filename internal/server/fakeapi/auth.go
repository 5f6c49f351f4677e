package fakeapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/cryptox"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshCookiePath limits the refresh cookie to the auth endpoints.
const refreshCookiePath = BasePath + "/auth"

var errEmailTaken = errors.New("email already registered")

type contextKey int

const userKey contextKey = iota

func userFromContext(ctx context.Context) User {
	u, _ := ctx.Value(userKey).(User)
	return u
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Role == "" {
		in.Role = RoleStudent
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if in.Role != RoleStudent && in.Role != RoleInstructor {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	s.mu.Lock()
	acc, err := s.createAccountLocked(in.Email, in.Name, in.Password, in.Role)
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	access, refresh, err := s.issueTokensLocked(acc.User)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	s.setRefreshCookie(w, refresh)
	writeData(w, http.StatusCreated, authResponse{User: acc.User, Token: access})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acc := s.accounts[s.byEmail[strings.ToLower(in.Email)]]
	if acc == nil || !checkPassword(acc, in.Password) {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	access, refresh, err := s.issueTokensLocked(acc.User)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	s.setRefreshCookie(w, refresh)
	writeData(w, http.StatusOK, authResponse{User: acc.User, Token: access})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, authResponse{User: userFromContext(r.Context())})
}

// refreshToken rotates the refresh cookie and mints a new access token.
func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delay := s.refreshDelay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	cookie, err := r.Cookie(common.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	s.mu.Lock()
	if s.denyRefresh {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Refresh token revoked")
		return
	}
	rt, ok := s.refresh[cookie.Value]
	delete(s.refresh, cookie.Value)
	acc := s.accounts[rt.userID]
	if !ok || rt.expires.Before(time.Now()) || acc == nil {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	access, refresh, err := s.issueTokensLocked(acc.User)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	s.setRefreshCookie(w, refresh)
	writeData(w, http.StatusOK, authResponse{User: acc.User, Token: access})
}

// logout forgets the refresh token if one was sent. It never fails.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(common.RefreshCookieName); err == nil {
		s.mu.Lock()
		delete(s.refresh, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeData(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(s.refreshTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// requireAuth checks the bearer token and puts the caller into the context.
// Every failure is a 401 so clients can tell it apart from a 403.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := auth.ParseToken(token, s.secret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		s.mu.Lock()
		_, revoked := s.revoked[claims.ID]
		acc := s.accounts[claims.UserID]
		s.mu.Unlock()
		if revoked {
			writeError(w, http.StatusUnauthorized, "Token expired")
			return
		}
		if acc == nil {
			writeError(w, http.StatusUnauthorized, "Unknown user")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, acc.User)))
	})
}

func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userFromContext(r.Context()).Role != role {
				writeError(w, http.StatusForbidden, fmt.Sprintf("%s access required", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) createAccountLocked(email, name, password, role string) (*account, error) {
	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return nil, errEmailTaken
	}
	salt := common.GenerateRandByteArray(16)
	acc := &account{
		User:     User{ID: uuid.NewString(), Email: email, Name: name, Role: role},
		salt:     salt,
		verifier: cryptox.DeriveKey([]byte(password), salt),
	}
	s.accounts[acc.ID] = acc
	s.byEmail[key] = acc.ID
	return acc, nil
}

func checkPassword(acc *account, password string) bool {
	return subtle.ConstantTimeCompare(acc.verifier, cryptox.DeriveKey([]byte(password), acc.salt)) == 1
}

func (s *Server) issueTokensLocked(u User) (string, string, error) {
	access, err := auth.GenerateToken(u.ID, u.Role, s.secret, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	// the token may already be expired when the TTL is not positive
	claims := &auth.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return "", "", err
	}
	s.issued = append(s.issued, claims.ID)

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return "", "", err
	}
	s.refresh[refresh] = refreshToken{userID: u.ID, expires: time.Now().Add(s.refreshTTL)}
	return access, refresh, nil
}
