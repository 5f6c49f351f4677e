package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/api"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/config"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/metrics"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/repositories/metadata"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/services"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/session"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/snapshot"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/filex"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	manager *session.Manager
	auth    services.AuthService
	api     *api.Client
	metrics *metrics.Metrics
	reader  *bufio.Reader
	out     io.Writer

	mu    sync.Mutex
	ended error
}

// NewApp opens the local database, restores the refresh cookie and builds
// the session manager and services on top of it. The session is not
// validated until Run.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	path, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store, err := snapshot.Open(ctx, db,
		snapshot.WithTTL(c.SnapshotTTL),
		snapshot.WithSecret(c.SnapshotSecret),
		snapshot.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	opts := []client.HTTPOption{
		client.WithTimeout(c.RequestTimeout),
		client.WithCookieStore(store),
		client.WithHTTPLogger(log),
	}
	if c.RequestsPerSecond > 0 {
		opts = append(opts, client.WithRateLimit(c.RequestsPerSecond, 1))
	}
	hc := client.NewHTTPClient(c.APIBaseURL, opts...)
	if err := hc.RestoreCookies(ctx); err != nil {
		log.Warn(ctx, "refresh cookie not restored", "error", err)
	}

	a := &App{
		config:  c,
		log:     log,
		db:      db,
		metrics: metrics.New(c.MetricsEnabled),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	a.manager = session.New(hc, store,
		session.WithLogger(log),
		session.WithMetrics(a.metrics),
		session.WithRefreshTimeout(c.RefreshTimeout),
		session.WithLogoutTimeout(c.LogoutTimeout),
		session.WithSessionEndHandler(a.onSessionEnd),
	)
	a.auth = services.NewAuthService(hc, a.manager, metadata.NewSQLiteRepository(db), log)
	a.api = api.New(a.manager)
	return a, nil
}

// Run validates the stored session, then runs the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.manager.Initialize(ctx); err != nil {
		a.log.Warn(ctx, "stored session not restored", "error", err)
	}
	// a session rejected at startup is not news to the user
	a.takeEnded()

	if id := a.manager.Current(); id != nil {
		fmt.Fprintf(a.out, "Welcome back, %s (%s)\n", id.Name, services.Landing(id.Role))
	} else {
		fmt.Fprintln(a.out, "Not logged in. Type 'login' or 'register'.")
	}
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.manager.Current() != nil
}

func (a *App) isInstructor() bool {
	id := a.manager.Current()
	return id != nil && id.Role == session.RoleInstructor
}

// onSessionEnd runs on the goroutine that observed the end, possibly in the
// middle of a command. The REPL reports it once the command returns.
func (a *App) onSessionEnd(_ context.Context, cause error) {
	a.mu.Lock()
	a.ended = cause
	a.mu.Unlock()
}

func (a *App) takeEnded() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.ended
	a.ended = nil
	return err
}

// afterCommand sends the user back to the login prompt when the server
// ended the session during the last command.
func (a *App) afterCommand(ctx context.Context) {
	cause := a.takeEnded()
	if cause == nil {
		return
	}
	fmt.Fprintf(a.out, "Your session has ended (%s). Please log in again.\n", describe(cause))
	if err := a.Login(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
	}
}

func (a *App) getStatus() string {
	id := a.manager.Current()
	if id == nil {
		return a.manager.State().String()
	}
	return fmt.Sprintf("%s %s", id.Email, id.Role)
}
