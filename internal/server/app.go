// Package server runs the LearnSphere development API: the in-memory
// fakeapi backend behind a plain HTTP server, with graceful shutdown on
// SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server/config"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server/fakeapi"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config *config.Config
	logger logging.Logger
	api    *fakeapi.Server
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	opts := []fakeapi.Option{
		fakeapi.WithAccessTokenTTL(c.AccessTokenValidityDuration),
		fakeapi.WithRefreshTokenTTL(c.RefreshTokenValidityDuration),
		fakeapi.WithLogger(logger),
	}
	if c.SecretKey != "" {
		opts = append(opts, fakeapi.WithSecret([]byte(c.SecretKey)))
	}
	api := fakeapi.New(opts...)

	if c.DemoData {
		if err := seedDemo(api); err != nil {
			return nil, err
		}
	}

	return &App{config: c, logger: logger, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the API until ctx is cancelled or a signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.EndpointAddr)
	if err != nil {
		return err
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     app.api.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	app.logger.Info(ctx, "starting API", "addr", ln.Addr().String(), "base_path", fakeapi.BasePath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(ctx, "shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
