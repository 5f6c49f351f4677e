package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

// StatusError is a non-2xx API response. It unwraps to the sentinel for its
// class: 401 to common.ErrExpiredCredential, 403 to common.ErrForbidden and
// everything else to common.ErrBusiness. A 404 also matches
// common.ErrorNotFound.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the server's "error" (or "message") field, if any.
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *StatusError) Unwrap() []error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return []error{common.ErrExpiredCredential}
	case http.StatusForbidden:
		return []error{common.ErrForbidden}
	case http.StatusNotFound:
		return []error{common.ErrBusiness, common.ErrorNotFound}
	default:
		return []error{common.ErrBusiness}
	}
}

func newStatusError(req *Request, status int, body []byte) *StatusError {
	se := &StatusError{Method: req.Method, Path: req.Path, StatusCode: status}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		se.Message = payload.Error
		if se.Message == "" {
			se.Message = payload.Message
		}
	}
	return se
}

func networkError(req *Request, err error) error {
	return fmt.Errorf("%w: %s %s: %w", common.ErrNetworkFailure, req.Method, req.Path, err)
}
