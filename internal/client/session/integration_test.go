package session_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/metrics"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/session"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/snapshot"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// process is one client run: transport, snapshot and manager over a
// database that outlives it.
type process struct {
	http    *client.HTTPClient
	store   *snapshot.Store
	manager *session.Manager
	metrics *metrics.Metrics
}

func startProcess(t *testing.T, baseURL string, db *sql.DB) *process {
	t.Helper()
	ctx := context.Background()

	store, err := snapshot.Open(ctx, db, snapshot.WithSecret("device-secret"))
	require.NoError(t, err)

	hc := client.NewHTTPClient(baseURL, client.WithCookieStore(store))
	require.NoError(t, hc.RestoreCookies(ctx))

	mt := metrics.New(true)
	return &process{
		http:    hc,
		store:   store,
		manager: session.New(hc, store, session.WithMetrics(mt)),
		metrics: mt,
	}
}

func (p *process) login(t *testing.T, email, password string) {
	t.Helper()
	ctx := context.Background()
	resp, err := p.http.Send(ctx, client.NewRequest(http.MethodPost, common.LoginPath,
		map[string]string{"email": email, "password": password}))
	require.NoError(t, err)

	var payload session.AuthPayload
	require.NoError(t, resp.Decode(&payload))
	require.NoError(t, p.manager.Login(ctx, payload.Merge(nil)))
}

func setup(t *testing.T) (*fakeapi.Server, string, *sql.DB) {
	t.Helper()
	api := fakeapi.New()
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = api.SeedUser("ann@example.com", "Ann", "pw", fakeapi.RoleStudent)
	require.NoError(t, err)
	return api, ts.URL + fakeapi.BasePath, db
}

func TestTwoExpiredCallsShareOneRefresh(t *testing.T) {
	api, baseURL, db := setup(t)
	p := startProcess(t, baseURL, db)
	p.login(t, "ann@example.com", "pw")
	before := p.manager.Current().AccessToken

	api.ExpireAccessTokens()
	// keep the refresh open long enough for both calls to see the 401
	api.SetRefreshDelay(100 * time.Millisecond)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.manager.Request(context.Background(), http.MethodGet, "/courses", nil)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, api.Calls(common.RefreshTokenPath))
	assert.Equal(t, 4, api.Calls("/courses"))
	assert.NotEqual(t, before, p.manager.Current().AccessToken)
	assert.Equal(t, float64(1), p.metrics.RefreshCount(metrics.RefreshSuccess))
}

func TestRestartRestoresSessionAndRefreshCookie(t *testing.T) {
	api, baseURL, db := setup(t)
	first := startProcess(t, baseURL, db)
	first.login(t, "ann@example.com", "pw")

	api.ExpireAccessTokens()

	second := startProcess(t, baseURL, db)
	require.NoError(t, second.manager.Initialize(context.Background()))

	assert.Equal(t, session.StateAuthenticated, second.manager.State())
	cur := second.manager.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "Ann", cur.Name)
	assert.Equal(t, 1, api.Calls(common.RefreshTokenPath))
	assert.Equal(t, 2, api.Calls(common.ValidatePath))

	stored, err := second.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cur.AccessToken, stored.AccessToken)
}

func TestStartupWithDeniedRefreshEndsAnonymous(t *testing.T) {
	api, baseURL, db := setup(t)
	first := startProcess(t, baseURL, db)
	first.login(t, "ann@example.com", "pw")

	api.ExpireAccessTokens()
	api.DenyRefresh(true)

	second := startProcess(t, baseURL, db)
	err := second.manager.Initialize(context.Background())

	require.ErrorIs(t, err, common.ErrRefreshDenied)
	assert.Equal(t, session.StateAnonymous, second.manager.State())
	assert.Nil(t, second.manager.Current())

	stored, err := second.store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
	cookies, err := second.store.LoadCookies(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(cookies))
}

func TestForbiddenCallIsNotRecovered(t *testing.T) {
	api, baseURL, db := setup(t)
	p := startProcess(t, baseURL, db)
	p.login(t, "ann@example.com", "pw")

	_, err := p.manager.Request(context.Background(), http.MethodPost, "/courses", map[string]string{"title": "Mine"})

	require.ErrorIs(t, err, common.ErrForbidden)
	assert.Zero(t, api.Calls(common.RefreshTokenPath))
	assert.Equal(t, session.StateAuthenticated, p.manager.State())
}

func TestLogoutRevokesRefreshCookie(t *testing.T) {
	api, baseURL, db := setup(t)
	p := startProcess(t, baseURL, db)
	p.login(t, "ann@example.com", "pw")

	p.manager.Logout(context.Background())
	assert.Equal(t, 1, api.Calls(common.LogoutPath))
	assert.Nil(t, p.manager.Current())

	// a restarted client has nothing to restore
	next := startProcess(t, baseURL, db)
	require.NoError(t, next.manager.Initialize(context.Background()))
	assert.Equal(t, session.StateAnonymous, next.manager.State())
	assert.Zero(t, api.Calls(common.ValidatePath))
}

func waitRefreshInFlight(t *testing.T, p *process) {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.manager.State() == session.StateRefreshInFlight
	}, time.Second, 5*time.Millisecond)
}

func TestLogoutDuringRefreshLeavesNoRefreshCookie(t *testing.T) {
	api, baseURL, db := setup(t)
	p := startProcess(t, baseURL, db)
	p.login(t, "ann@example.com", "pw")
	ctx := context.Background()

	api.ExpireAccessTokens()
	api.SetRefreshDelay(300 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := p.manager.Request(ctx, http.MethodGet, "/courses", nil)
		done <- err
	}()
	waitRefreshInFlight(t, p)

	p.manager.Logout(ctx)
	require.ErrorIs(t, <-done, common.ErrNotAuthenticated)
	api.SetRefreshDelay(0)

	assert.Nil(t, p.manager.Current())
	cookies, err := p.store.LoadCookies(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(cookies))

	// nothing left in memory either
	_, err = p.http.Send(ctx, client.NewRequest(http.MethodPost, common.RefreshTokenPath, nil))
	require.ErrorIs(t, err, common.ErrExpiredCredential)
}

func TestLoginDuringRefreshKeepsNewUser(t *testing.T) {
	api, baseURL, db := setup(t)
	_, err := api.SeedUser("bob@example.com", "Bob", "pw", fakeapi.RoleStudent)
	require.NoError(t, err)
	p := startProcess(t, baseURL, db)
	p.login(t, "ann@example.com", "pw")
	ctx := context.Background()

	api.ExpireAccessTokens()
	api.SetRefreshDelay(300 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := p.manager.Request(ctx, http.MethodGet, "/courses", nil)
		done <- err
	}()
	waitRefreshInFlight(t, p)

	p.login(t, "bob@example.com", "pw")
	require.ErrorIs(t, <-done, common.ErrNotAuthenticated)

	// bob's own credential expires; his refresh must bring bob back
	api.SetRefreshDelay(0)
	api.ExpireAccessTokens()
	_, err = p.manager.Request(ctx, http.MethodGet, "/courses", nil)
	require.NoError(t, err)

	cur := p.manager.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "bob@example.com", cur.Email)

	stored, err := p.store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "bob@example.com", stored.Email)
}
