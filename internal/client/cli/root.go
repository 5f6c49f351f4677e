package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/services"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

// Root runs the REPL over the app's input.
func (a *App) Root(ctx context.Context) {
	printlnFn("LearnSphere CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// describe turns an error into a line for the user.
func describe(err error) string {
	var se *client.StatusError
	switch {
	case errors.Is(err, common.ErrRefreshDenied):
		return "your session expired"
	case errors.Is(err, common.ErrValidationDenied):
		return "your saved session is no longer valid"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "you are not logged in"
	case errors.Is(err, services.ErrBadCredentials):
		return "invalid email or password"
	case errors.Is(err, common.ErrForbidden):
		return "you are not allowed to do that"
	case errors.Is(err, common.ErrNetworkFailure):
		return "the server is unreachable"
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	default:
		return err.Error()
	}
}

// Metrics prints the session counters collected in this run.
func (a *App) Metrics(_ context.Context) error {
	if !a.config.MetricsEnabled {
		fmt.Fprintln(a.out, "Metrics are disabled; start with -m to collect them.")
		return nil
	}
	return a.metrics.WriteSummary(a.out)
}
