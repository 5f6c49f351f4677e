package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// Transport sends one API request and returns its response. It never
// retries and never refreshes credentials; both belong to the session layer.
//
// A non-2xx answer is returned as a *StatusError, a failure to get any
// answer wraps common.ErrNetworkFailure.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// CredentialResetter is implemented by transports that hold credentials of
// their own, such as the refresh cookie. The session layer calls it when a
// session ends.
type CredentialResetter interface {
	ResetCredentials(ctx context.Context) error
}

// CookieCommitter is implemented by transports that can hold back the
// cookies of a response sent with WithHeldCookies until the caller accepts
// them.
type CookieCommitter interface {
	CommitCookies(ctx context.Context, resp *Response) error
}

// Request describes a call relative to the API base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is JSON-encoded when non-nil.
	Body any
	// Token is sent as a bearer credential when non-empty.
	Token string
	// HoldCookies keeps cookies set by the response out of the jar until
	// CommitCookies is called.
	HoldCookies bool
}

// RequestOption customises a Request built by NewRequest.
type RequestOption func(*Request)

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = url.Values{}
		}
		r.Query.Add(key, value)
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// WithHeldCookies marks the request's response cookies as pending.
func WithHeldCookies() RequestOption {
	return func(r *Request) { r.HoldCookies = true }
}

func NewRequest(method, path string, body any, opts ...RequestOption) *Request {
	r := &Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithToken returns a shallow copy of r carrying token. The original request
// is left untouched so it can be replayed with a different credential.
func (r *Request) WithToken(token string) *Request {
	c := *r
	c.Token = token
	return &c
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// cookies held back from the jar, see Request.HoldCookies
	cookieURL *url.URL
	cookies   []*http.Cookie
}

var ErrEmptyBody = errors.New("empty response body")

// Decode unmarshals the payload into v. The API wraps most payloads as
// {"data": ...}; bodies without a data member are decoded as a whole.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return ErrEmptyBody
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return json.Unmarshal(envelope.Data, v)
	}
	return json.Unmarshal(r.Body, v)
}
