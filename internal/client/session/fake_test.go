package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

// memStore is an in-memory SnapshotStore.
type memStore struct {
	mu      sync.Mutex
	saved   *Identity
	saves   int
	clears  int
	loadErr error
	saveErr error
}

func (s *memStore) Load(context.Context) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.saved.clone(), nil
}

func (s *memStore) Save(_ context.Context, id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = &id
	s.saves++
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = nil
	s.clears++
	return nil
}

func (s *memStore) snapshot() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved.clone()
}

// fakeAPI plays the server: it accepts exactly one access token at a time
// and hands out tok-1, tok-2, ... on refresh.
type fakeAPI struct {
	mu          sync.Mutex
	current     string
	issued      int
	denyRefresh bool
	// refreshGate, when set, holds refresh calls until closed.
	refreshGate chan struct{}
	// hold, when set, holds calls to the given path until closed.
	holdPath string
	hold     chan struct{}
	// statusFor forces a status for a path regardless of the token.
	statusFor map[string]int
	netFail   map[string]bool
	user      map[string]any

	sent   []client.Request
	resets int
}

func newFakeAPI(current string) *fakeAPI {
	return &fakeAPI{
		current:   current,
		statusFor: map[string]int{},
		netFail:   map[string]bool{},
		user:      map[string]any{"id": "u1", "email": "ann@example.com", "name": "Ann", "role": "Student"},
	}
}

func (f *fakeAPI) Send(ctx context.Context, req *client.Request) (*client.Response, error) {
	f.mu.Lock()
	f.sent = append(f.sent, *req)
	gate := f.refreshGate
	hold := f.hold
	holdPath := f.holdPath
	f.mu.Unlock()

	if req.Path == holdPath && hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", common.ErrNetworkFailure, ctx.Err())
		}
	}

	if req.Path == common.RefreshTokenPath && gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", common.ErrNetworkFailure, ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.netFail[req.Path] {
		return nil, fmt.Errorf("%w: connection refused", common.ErrNetworkFailure)
	}
	if code, ok := f.statusFor[req.Path]; ok {
		return nil, status(req, code)
	}

	switch req.Path {
	case common.RefreshTokenPath:
		if f.denyRefresh {
			return nil, status(req, http.StatusUnauthorized)
		}
		f.issued++
		f.current = fmt.Sprintf("tok-%d", f.issued)
		return data(map[string]any{"user": f.user, "token": f.current}), nil
	case common.LogoutPath:
		return data(map[string]any{"message": "ok"}), nil
	}

	if req.Token == "" || req.Token != f.current {
		return nil, status(req, http.StatusUnauthorized)
	}
	if req.Path == common.ValidatePath {
		return data(map[string]any{"user": f.user}), nil
	}
	return data(map[string]any{"path": req.Path, "token": req.Token}), nil
}

func (f *fakeAPI) ResetCredentials(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.sent {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) tokensFor(path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.sent {
		if r.Path == path {
			out = append(out, r.Token)
		}
	}
	return out
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func status(req *client.Request, code int) error {
	return &client.StatusError{Method: req.Method, Path: req.Path, StatusCode: code}
}

func data(v any) *client.Response {
	b, err := json.Marshal(map[string]any{"data": v})
	if err != nil {
		panic(err)
	}
	return &client.Response{StatusCode: http.StatusOK, Body: b}
}

var errStore = errors.New("disk full")
