package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCookieStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func (m *memCookieStore) LoadCookies(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *memCookieStore) SaveCookies(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSend_SuccessCarriesHeadersAndDecodesEnvelope(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"title": "Go 101"}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/api/")
	req := NewRequest(http.MethodPost, "/courses", map[string]string{"title": "Go 101"},
		WithQuery("instructorId", "7"), WithHeader("X-Trace", "t1"))

	resp, err := c.Send(context.Background(), req.WithToken("tok-1"))
	require.NoError(t, err)

	assert.Equal(t, "/api/courses", got.URL.Path)
	assert.Equal(t, "7", got.URL.Query().Get("instructorId"))
	assert.Equal(t, "Bearer tok-1", got.Header.Get("Authorization"))
	assert.Equal(t, "t1", got.Header.Get("X-Trace"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.NotEmpty(t, got.Header.Get(common.RequestIDHeaderName))
	assert.JSONEq(t, `{"title":"Go 101"}`, string(gotBody))

	var course struct {
		Title string `json:"title"`
	}
	require.NoError(t, resp.Decode(&course))
	assert.Equal(t, "Go 101", course.Title)
	assert.Empty(t, req.Token, "WithToken must not mutate the original")
}

func TestSend_NoTokenNoAuthorizationHeader(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"categories": []string{"go"}})
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL).Send(context.Background(), NewRequest(http.MethodGet, "/category", nil))
	require.NoError(t, err)
	assert.Empty(t, auth)

	var out struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, []string{"go"}, out.Categories)
}

func TestSend_StatusErrorsMapToSentinels(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		want    error
		message string
	}{
		{name: "401", status: 401, body: map[string]string{"error": "token expired"}, want: common.ErrExpiredCredential, message: "token expired"},
		{name: "403", status: 403, body: map[string]string{"message": "instructors only"}, want: common.ErrForbidden, message: "instructors only"},
		{name: "404", status: 404, body: map[string]string{"error": "course not found"}, want: common.ErrBusiness, message: "course not found"},
		{name: "500 no body", status: 500, want: common.ErrBusiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL).Send(context.Background(), NewRequest(http.MethodGet, "/x", nil))
			require.ErrorIs(t, err, tt.want)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.status == http.StatusNotFound, errors.Is(err, common.ErrorNotFound))
		})
	}
}

func TestSend_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, WithTimeout(time.Second)).Send(context.Background(), NewRequest(http.MethodGet, "/x", nil))
	require.ErrorIs(t, err, common.ErrNetworkFailure)
	assert.NotErrorIs(t, err, common.ErrExpiredCredential)
}

func TestSend_RateLimitRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": 1})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithRateLimit(0.001, 1))
	_, err := c.Send(context.Background(), NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Send(ctx, NewRequest(http.MethodGet, "/x", nil))
	require.ErrorIs(t, err, common.ErrNetworkFailure)
}

func TestCookies_PersistRestoreAndReset(t *testing.T) {
	var seenCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: common.RefreshCookieName, Value: "r1", Path: "/", HttpOnly: true, MaxAge: 3600})
		case "/api/auth/refresh-token":
			if c, err := r.Cookie(common.RefreshCookieName); err == nil {
				seenCookie = c.Value
			} else {
				seenCookie = ""
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})
	}))
	defer srv.Close()

	store := &memCookieStore{}
	ctx := context.Background()

	c1 := NewHTTPClient(srv.URL+"/api", WithCookieStore(store))
	_, err := c1.Send(ctx, NewRequest(http.MethodPost, "/auth/login", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	_, err = c1.Send(ctx, NewRequest(http.MethodPost, "/auth/refresh-token", nil))
	require.NoError(t, err)
	assert.Equal(t, "r1", seenCookie)
	assert.Equal(t, 1, store.saves, "unchanged jar must not be saved again")

	c2 := NewHTTPClient(srv.URL+"/api", WithCookieStore(store))
	require.NoError(t, c2.RestoreCookies(ctx))
	_, err = c2.Send(ctx, NewRequest(http.MethodPost, "/auth/refresh-token", nil))
	require.NoError(t, err)
	assert.Equal(t, "r1", seenCookie, "restored client must present the cookie")

	require.NoError(t, c2.ResetCredentials(ctx))
	_, err = c2.Send(ctx, NewRequest(http.MethodPost, "/auth/refresh-token", nil))
	require.NoError(t, err)
	assert.Empty(t, seenCookie)

	c3 := NewHTTPClient(srv.URL+"/api", WithCookieStore(store))
	require.NoError(t, c3.RestoreCookies(ctx))
	assert.Empty(t, c3.jar.Cookies(mustURL(t, srv.URL+"/api/auth/refresh-token")))
}

func TestCookies_HeldUntilCommitted(t *testing.T) {
	var seenCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: common.RefreshCookieName, Value: "r1", Path: "/", HttpOnly: true, MaxAge: 3600})
		case "/api/auth/refresh-token":
			if c, err := r.Cookie(common.RefreshCookieName); err == nil {
				seenCookie = c.Value
			}
			http.SetCookie(w, &http.Cookie{Name: common.RefreshCookieName, Value: "r2", Path: "/", HttpOnly: true, MaxAge: 3600})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})
	}))
	defer srv.Close()

	store := &memCookieStore{}
	ctx := context.Background()
	refreshURL := mustURL(t, srv.URL+"/api/auth/refresh-token")

	c := NewHTTPClient(srv.URL+"/api", WithCookieStore(store))
	_, err := c.Send(ctx, NewRequest(http.MethodPost, "/auth/login", nil))
	require.NoError(t, err)
	saved := string(store.data)

	resp, err := c.Send(ctx, NewRequest(http.MethodPost, "/auth/refresh-token", nil, WithHeldCookies()))
	require.NoError(t, err)
	assert.Equal(t, "r1", seenCookie, "held request still presents the jar")

	jarred := c.jar.Cookies(refreshURL)
	require.Len(t, jarred, 1)
	assert.Equal(t, "r1", jarred[0].Value)
	assert.Equal(t, saved, string(store.data))
	assert.Equal(t, 1, store.saves)

	require.NoError(t, c.CommitCookies(ctx, resp))
	jarred = c.jar.Cookies(refreshURL)
	require.Len(t, jarred, 1)
	assert.Equal(t, "r2", jarred[0].Value)
	assert.Contains(t, string(store.data), "r2")
	assert.Equal(t, 2, store.saves)

	require.NoError(t, c.CommitCookies(ctx, nil))
	assert.Equal(t, 2, store.saves)
}
