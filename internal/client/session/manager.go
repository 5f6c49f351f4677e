package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/metrics"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
)

// SnapshotStore is the durable copy of the identity.
//
// Load returns (nil, nil) when nothing usable is stored.
type SnapshotStore interface {
	Load(ctx context.Context) (*Identity, error)
	Save(ctx context.Context, id Identity) error
	Clear(ctx context.Context) error
}

// Manager owns the current identity and issues authenticated requests,
// refreshing the access credential at most once per burst of expired calls.
// It is safe for concurrent use.
type Manager struct {
	transport client.Transport
	store     SnapshotStore
	log       logging.Logger
	metrics   *metrics.Metrics
	endpoints Endpoints

	refreshTimeout time.Duration
	logoutTimeout  time.Duration
	onSessionEnd   SessionEndHandler

	// writeMu serialises identity changes together with their durable
	// counterpart. Lock order: writeMu, then mu.
	writeMu sync.Mutex

	mu         sync.Mutex
	identity   *Identity
	generation uint64
	state      State
	pending    *pendingRefresh

	ready     chan struct{}
	readyOnce sync.Once
}

func New(t client.Transport, store SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		transport:      t,
		store:          store,
		log:            logging.Nop(),
		metrics:        metrics.New(false),
		endpoints:      DefaultEndpoints(),
		refreshTimeout: DefaultRefreshTimeout,
		logoutTimeout:  DefaultLogoutTimeout,
		state:          StateUninitialized,
		ready:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns a copy of the installed identity, or nil.
func (m *Manager) Current() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity.clone()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Ready is closed once Initialize has settled.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) setStateLocked(s State) {
	m.state = s
	m.metrics.SetState(int(s))
}

// installLocked replaces the identity. A new session also abandons any
// refresh still in flight for the previous one. Callers hold writeMu and mu.
func (m *Manager) installLocked(id Identity, newSession bool) {
	m.identity = &id
	if newSession {
		m.generation++
		m.abandonPendingLocked()
	}
}

// settleStateLocked moves to s, or defers the move until a refresh in
// flight settles.
func (m *Manager) settleStateLocked(s State) {
	if m.pending != nil {
		m.pending.resume = s
		return
	}
	m.setStateLocked(s)
}

// Login installs an identity obtained by the caller's own credential
// exchange and persists it. No network call is made.
func (m *Manager) Login(ctx context.Context, id Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.store.Save(ctx, id); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.installLocked(id, true)
	m.setStateLocked(StateAuthenticated)
	m.mu.Unlock()

	m.log.Info(ctx, "session started", "user_id", id.ID, "role", id.Role)
	return nil
}

// Logout tells the server the session is over, then clears local state no
// matter what the server said. Calling it while logged out only clears.
func (m *Manager) Logout(ctx context.Context) {
	if cur := m.Current(); cur != nil {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.logoutTimeout)
		req := client.NewRequest(http.MethodPost, m.endpoints.Logout, nil).WithToken(cur.AccessToken)
		if _, err := m.transport.Send(lctx, req); err != nil {
			m.log.Warn(ctx, "server logout failed, clearing locally", "err", err)
		}
		cancel()
	}

	m.clearSession(ctx)
	m.log.Info(ctx, "session ended by user")
}

// clearSession drops the identity, the snapshot and transport credentials.
// Store failures are logged; memory is cleared regardless.
func (m *Manager) clearSession(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.clearLocked(ctx)
}

// clearGeneration clears the session only if generation gen is still the
// installed one. It reports whether it did.
func (m *Manager) clearGeneration(ctx context.Context, gen uint64) bool {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	current := m.generation == gen
	m.mu.Unlock()
	if !current {
		return false
	}
	m.clearLocked(ctx)
	return true
}

// clearLocked does the work of clearSession. Callers hold writeMu.
func (m *Manager) clearLocked(ctx context.Context) {
	m.mu.Lock()
	m.identity = nil
	m.generation++
	m.abandonPendingLocked()
	m.setStateLocked(StateAnonymous)
	m.mu.Unlock()

	m.wipeDurable(ctx)
}

// wipeDurable removes persisted credentials. Callers hold writeMu.
func (m *Manager) wipeDurable(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear session snapshot", "err", err)
	}
	if r, ok := m.transport.(client.CredentialResetter); ok {
		if err := r.ResetCredentials(ctx); err != nil {
			m.log.Error(ctx, "failed to reset transport credentials", "err", err)
		}
	}
}

func (m *Manager) endSession(ctx context.Context, cause error) {
	if m.onSessionEnd != nil {
		m.onSessionEnd(ctx, cause)
	}
}

// Initialize validates the stored snapshot against the server and settles
// on Authenticated or Anonymous. An expired credential gets exactly one
// refresh; any other failure clears the stored session. Ready is closed
// when it returns. Only the first call does any work.
func (m *Manager) Initialize(ctx context.Context) error {
	defer m.readyOnce.Do(func() { close(m.ready) })

	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return nil
	}
	m.setStateLocked(StateInitializing)
	m.mu.Unlock()

	stored, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "session snapshot unreadable, starting anonymous", "err", err)
		m.clearSession(ctx)
		return nil
	}
	if stored == nil || stored.Validate() != nil {
		m.clearSession(ctx)
		return nil
	}

	m.writeMu.Lock()
	m.mu.Lock()
	m.installLocked(*stored, true)
	gen := m.generation
	m.mu.Unlock()
	m.writeMu.Unlock()

	resp, err := m.Do(ctx, client.NewRequest(http.MethodGet, m.endpoints.Validate, nil))
	if err != nil {
		var rerr *RefreshError
		if errors.As(err, &rerr) {
			// the refresh path already cleared the session and told the handler
			m.log.Info(ctx, "stored session rejected", "err", err)
			return err
		}
		return m.rejectStored(ctx, gen, fmt.Errorf("%w: %w", common.ErrValidationDenied, err))
	}

	var payload AuthPayload
	if err := resp.Decode(&payload); err != nil {
		return m.rejectStored(ctx, gen, fmt.Errorf("%w: decode validate response: %w", common.ErrValidationDenied, err))
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	cur := m.identity.clone()
	replaced := m.generation != gen
	m.mu.Unlock()
	if cur == nil || replaced {
		// logged out or in again while validating
		return nil
	}

	fresh := payload.Merge(cur)
	if err := m.store.Save(ctx, fresh); err != nil {
		m.log.Error(ctx, "failed to persist validated session", "err", err)
	}

	m.mu.Lock()
	m.installLocked(fresh, false)
	m.settleStateLocked(StateAuthenticated)
	m.mu.Unlock()

	m.log.Info(ctx, "session restored", "user_id", fresh.ID, "role", fresh.Role)
	return nil
}

// rejectStored ends the restored session after a failed validation. A
// session installed or ended meanwhile is left alone.
func (m *Manager) rejectStored(ctx context.Context, gen uint64, verr error) error {
	if !m.clearGeneration(ctx, gen) {
		m.log.Info(ctx, "validation outcome dropped, session changed meanwhile", "err", verr)
		return nil
	}
	m.log.Info(ctx, "stored session rejected", "err", verr)
	m.endSession(ctx, verr)
	return verr
}

// Request builds a request and sends it with Do.
func (m *Manager) Request(ctx context.Context, method, path string, body any, opts ...client.RequestOption) (*client.Response, error) {
	return m.Do(ctx, client.NewRequest(method, path, body, opts...))
}

// Do sends req with the current access credential. An expired-credential
// answer triggers (or joins) a refresh and the request is replayed once
// with the new credential. Every other failure is returned untouched.
func (m *Manager) Do(ctx context.Context, req *client.Request) (*client.Response, error) {
	cur := m.Current()
	token := ""
	if cur != nil {
		token = cur.AccessToken
	}

	resp, err := m.transport.Send(ctx, req.WithToken(token))
	if err == nil {
		m.metrics.RecordRequest("ok")
		return resp, nil
	}
	if !errors.Is(err, common.ErrExpiredCredential) {
		m.metrics.RecordRequest("error")
		return nil, err
	}

	if req.Path == m.endpoints.Refresh {
		m.metrics.RecordRequest("refresh_denied")
		m.clearSession(ctx)
		rerr := &RefreshError{Err: err}
		m.endSession(ctx, rerr)
		return nil, rerr
	}

	if token == "" {
		m.metrics.RecordRequest("unauthenticated")
		return nil, err
	}

	fresh, rerr := m.awaitRefresh(ctx, token)
	if rerr != nil {
		if ctx.Err() != nil && errors.Is(rerr, ctx.Err()) {
			m.metrics.RecordRequest("canceled")
			return nil, rerr
		}
		if errors.Is(rerr, common.ErrNotAuthenticated) {
			// the session ended or was replaced while this request waited
			m.metrics.RecordRequest("unauthenticated")
			return nil, rerr
		}
		m.metrics.RecordRequest("refresh_denied")
		return nil, &RefreshError{Err: rerr, Original: err}
	}

	m.metrics.RecordReplay()
	resp, err = m.transport.Send(ctx, req.WithToken(fresh.AccessToken))
	if err != nil {
		m.metrics.RecordRequest("error")
		return nil, err
	}
	m.metrics.RecordRequest("ok")
	return resp, nil
}
