package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/metrics"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

// pendingRefresh is the single refresh in flight. done is closed once
// identity or err is set; both are read-only afterwards.
type pendingRefresh struct {
	done       chan struct{}
	generation uint64
	stale      Identity
	// cancel aborts the refresh call once the session it serves is gone.
	cancel context.CancelFunc
	// resume is the state to return to on success.
	resume State

	identity *Identity
	err      error
}

var (
	errNoAccessToken   = errors.New("refresh response carries no access token")
	errSessionReplaced = fmt.Errorf("%w: session changed during refresh", common.ErrNotAuthenticated)
)

// awaitRefresh returns an identity whose credential differs from
// staleToken, starting a refresh only when none is in flight and the
// current credential is still the stale one.
func (m *Manager) awaitRefresh(ctx context.Context, staleToken string) (*Identity, error) {
	m.mu.Lock()
	if m.identity == nil {
		m.mu.Unlock()
		return nil, common.ErrNotAuthenticated
	}
	if m.identity.AccessToken != staleToken {
		// a refresh settled since this request was sent
		id := m.identity.clone()
		m.mu.Unlock()
		return id, nil
	}

	p := m.pending
	if p == nil {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.refreshTimeout)
		p = &pendingRefresh{
			cancel:     cancel,
			done:       make(chan struct{}),
			generation: m.generation,
			stale:      *m.identity,
			resume:     m.state,
		}
		if p.resume == StateRefreshInFlight {
			p.resume = StateAuthenticated
		}
		m.pending = p
		m.setStateLocked(StateRefreshInFlight)
		go m.runRefresh(rctx, p)
	} else {
		m.metrics.RecordWaiter()
	}
	m.mu.Unlock()

	select {
	case <-p.done:
		if p.err != nil {
			return nil, p.err
		}
		return p.identity.clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// abandonPendingLocked aborts the refresh in flight, if any. Its outcome is
// dropped when it settles. Callers hold mu.
func (m *Manager) abandonPendingLocked() {
	if m.pending != nil {
		m.pending.cancel()
		m.pending = nil
	}
}

func (m *Manager) runRefresh(ctx context.Context, p *pendingRefresh) {
	defer p.cancel()

	start := time.Now()
	fresh, resp, err := m.callRefresh(ctx, p.stale)
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		// abandoned by logout or a new login
	case err == nil:
		m.metrics.RecordRefresh(metrics.RefreshSuccess, elapsed)
	case errors.Is(err, common.ErrExpiredCredential), errors.Is(err, common.ErrForbidden):
		m.metrics.RecordRefresh(metrics.RefreshDenied, elapsed)
	default:
		m.metrics.RecordRefresh(metrics.RefreshFailed, elapsed)
	}

	m.settle(context.WithoutCancel(ctx), p, fresh, resp, err)
}

// callRefresh exchanges the refresh cookie for a new access credential.
// The expired bearer is not sent. The rotated cookie stays held in resp
// until settle accepts it.
func (m *Manager) callRefresh(ctx context.Context, stale Identity) (*Identity, *client.Response, error) {
	resp, err := m.transport.Send(ctx, client.NewRequest(http.MethodPost, m.endpoints.Refresh, nil, client.WithHeldCookies()))
	if err != nil {
		return nil, nil, err
	}

	var payload AuthPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("decode refresh response: %w", err)
	}
	if payload.token() == "" {
		return nil, nil, errNoAccessToken
	}

	id := payload.Merge(&stale)
	return &id, resp, nil
}

// settle publishes the outcome to every waiter. Memory, the snapshot and the
// refresh cookie are updated before the waiters are released. A superseded
// refresh commits nothing.
func (m *Manager) settle(ctx context.Context, p *pendingRefresh, fresh *Identity, resp *client.Response, err error) {
	m.writeMu.Lock()

	m.mu.Lock()
	superseded := m.generation != p.generation
	m.mu.Unlock()

	switch {
	case superseded:
		// logout or a new login happened meanwhile; leave that state alone
		m.mu.Lock()
		if m.pending == p {
			m.pending = nil
		}
		p.err = errSessionReplaced
		anonymous := m.identity == nil
		m.mu.Unlock()
		if anonymous {
			m.wipeDurable(ctx)
		}

	case err != nil:
		m.mu.Lock()
		m.identity = nil
		m.generation++
		m.pending = nil
		m.setStateLocked(StateAnonymous)
		p.err = err
		m.mu.Unlock()
		m.wipeDurable(ctx)

	default:
		if cc, ok := m.transport.(client.CookieCommitter); ok {
			if cerr := cc.CommitCookies(ctx, resp); cerr != nil {
				m.log.Error(ctx, "failed to keep rotated refresh cookie", "err", cerr)
			}
		}
		if serr := m.store.Save(ctx, *fresh); serr != nil {
			// memory keeps the new credential
			m.log.Error(ctx, "failed to persist refreshed session", "err", serr)
		}
		m.mu.Lock()
		m.installLocked(*fresh, false)
		if m.pending == p {
			m.pending = nil
		}
		m.setStateLocked(p.resume)
		p.identity = fresh.clone()
		m.mu.Unlock()
	}

	m.writeMu.Unlock()
	close(p.done)

	if err != nil && !superseded {
		m.log.Warn(ctx, "refresh denied, session cleared", "err", err)
		m.endSession(ctx, &RefreshError{Err: err})
	} else if err == nil && !superseded {
		m.log.Debug(ctx, "access credential refreshed", "user_id", fresh.ID)
	}
}
