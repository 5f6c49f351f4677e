package session

import (
	"context"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/metrics"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
)

// Endpoints are the auth paths the manager calls itself.
type Endpoints struct {
	Validate string
	Refresh  string
	Logout   string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Validate: common.ValidatePath,
		Refresh:  common.RefreshTokenPath,
		Logout:   common.LogoutPath,
	}
}

const (
	DefaultRefreshTimeout = 10 * time.Second
	DefaultLogoutTimeout  = 5 * time.Second
)

// SessionEndHandler is told when the session was ended by the server
// rather than by the user: a denied refresh or a failed startup validation.
type SessionEndHandler func(ctx context.Context, cause error)

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithRefreshTimeout bounds the refresh call. The call is detached from the
// cancellation of the request that started it.
func WithRefreshTimeout(d time.Duration) Option {
	return func(m *Manager) { m.refreshTimeout = d }
}

// WithLogoutTimeout bounds the best-effort server notification on Logout.
func WithLogoutTimeout(d time.Duration) Option {
	return func(m *Manager) { m.logoutTimeout = d }
}

func WithSessionEndHandler(h SessionEndHandler) Option {
	return func(m *Manager) { m.onSessionEnd = h }
}

func WithEndpoints(e Endpoints) Option {
	return func(m *Manager) { m.endpoints = e }
}
