package session

import (
	"fmt"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

// RefreshError is returned to every request that waited on a failed
// refresh. It matches common.ErrRefreshDenied and, through Original, the
// expired-credential failure that triggered the refresh.
type RefreshError struct {
	// Err is the failure of the refresh call itself.
	Err error
	// Original is the request's own failure before the refresh.
	Original error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%v: %v", common.ErrRefreshDenied, e.Err)
}

func (e *RefreshError) Unwrap() []error {
	errs := []error{common.ErrRefreshDenied}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Original != nil {
		errs = append(errs, e.Original)
	}
	return errs
}
