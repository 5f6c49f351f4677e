package services

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/repositories/metadata"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/session"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type memStore struct {
	mu sync.Mutex
	id *session.Identity
}

func (s *memStore) Load(context.Context) (*session.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return nil, nil
	}
	cp := *s.id
	return &cp, nil
}

func (s *memStore) Save(_ context.Context, id session.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = &id
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = nil
	return nil
}

// countingTransport fails every call and records how many were made.
type countingTransport struct {
	calls int
}

func (c *countingTransport) Send(context.Context, *client.Request) (*client.Response, error) {
	c.calls++
	return nil, common.ErrNetworkFailure
}

type env struct {
	api   *fakeapi.Server
	svc   AuthService
	mgr   *session.Manager
	repo  metadata.Repository
	store *memStore
}

func setup(t *testing.T) *env {
	t.Helper()
	api := fakeapi.New()
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hc := client.NewHTTPClient(ts.URL + fakeapi.BasePath)
	store := &memStore{}
	mgr := session.New(hc, store)
	repo := metadata.NewSQLiteRepository(db)
	return &env{api: api, svc: NewAuthService(hc, mgr, repo, nil), mgr: mgr, repo: repo, store: store}
}

// ---- tests ----

func TestLogin_InstallsIdentityAndRemembersEmail(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.api.SeedUser("ann@example.com", "Ann", "secret1", fakeapi.RoleInstructor)
	require.NoError(t, err)

	assert.Empty(t, e.svc.LastEmail(ctx))

	id, err := e.svc.Login(ctx, "  ann@example.com ", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, "Ann", id.Name)
	assert.Equal(t, session.RoleInstructor, id.Role)
	assert.NotEmpty(t, id.AccessToken)

	assert.Equal(t, session.StateAuthenticated, e.mgr.State())
	assert.Equal(t, id, e.svc.WhoAmI())
	assert.NotNil(t, e.store.id)
	assert.Equal(t, "ann@example.com", e.svc.LastEmail(ctx))
}

func TestLogin_WrongPassword(t *testing.T) {
	e := setup(t)
	_, err := e.api.SeedUser("ann@example.com", "Ann", "secret1", fakeapi.RoleStudent)
	require.NoError(t, err)

	_, err = e.svc.Login(context.Background(), "ann@example.com", []byte("secret2"))

	require.ErrorIs(t, err, ErrBadCredentials)
	assert.Nil(t, e.svc.WhoAmI())
	assert.Empty(t, e.svc.LastEmail(context.Background()))
	assert.Zero(t, e.api.Calls(common.RefreshTokenPath))
}

func TestInputValidationMakesNoCall(t *testing.T) {
	tr := &countingTransport{}
	svc := NewAuthService(tr, session.New(tr, &memStore{}), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"login bad email", func() error { _, err := svc.Login(ctx, "ann.example.com", []byte("secret1")); return err }, ErrInvalidEmail},
		{"login short password", func() error { _, err := svc.Login(ctx, "ann@example.com", []byte("12345")); return err }, ErrShortPassword},
		{"register short name", func() error {
			return svc.Register(ctx, "Al", "al@example.com", []byte("secret1"), session.RoleStudent)
		}, ErrShortName},
		{"register bad email", func() error {
			return svc.Register(ctx, "Alice", "alice@", []byte("secret1"), session.RoleStudent)
		}, ErrInvalidEmail},
		{"register unknown role", func() error {
			return svc.Register(ctx, "Alice", "alice@example.com", []byte("secret1"), "Admin")
		}, ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
	assert.Zero(t, tr.calls)
}

func TestRegister_DoesNotLogIn(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	require.NoError(t, e.svc.Register(ctx, "Alice", "alice@example.com", []byte("secret1"), ""))
	assert.Nil(t, e.svc.WhoAmI())

	id, err := e.svc.Login(ctx, "alice@example.com", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, session.RoleStudent, id.Role)
}

func TestRegister_Duplicate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.svc.Register(ctx, "Alice", "alice@example.com", []byte("secret1"), session.RoleInstructor))

	err := e.svc.Register(ctx, "Alice", "alice@example.com", []byte("secret1"), session.RoleInstructor)
	assert.ErrorIs(t, err, ErrEmailRegistered)
}

func TestLogout_ClearsSession(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.api.SeedUser("ann@example.com", "Ann", "secret1", fakeapi.RoleStudent)
	require.NoError(t, err)
	_, err = e.svc.Login(ctx, "ann@example.com", []byte("secret1"))
	require.NoError(t, err)

	e.svc.Logout(ctx)

	assert.Nil(t, e.svc.WhoAmI())
	assert.Nil(t, e.store.id)
	assert.Equal(t, 1, e.api.Calls(common.LogoutPath))
	// the remembered email outlives the session
	assert.Equal(t, "ann@example.com", e.svc.LastEmail(ctx))
}

func TestLanding(t *testing.T) {
	assert.Equal(t, "student-dashboard", Landing(session.RoleStudent))
	assert.Equal(t, "dashboard", Landing(session.RoleInstructor))
	assert.Equal(t, "dashboard", Landing(""))
}
