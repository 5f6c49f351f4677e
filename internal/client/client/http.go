package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// CookieStore persists the exported cookie jar between runs.
type CookieStore interface {
	LoadCookies(ctx context.Context) ([]byte, error)
	SaveCookies(ctx context.Context, data []byte) error
}

// HTTPClient is the Transport for the LearnSphere REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	jar     *PersistentJar
	limiter *rate.Limiter
	cookies CookieStore
	log     logging.Logger
}

var (
	_ Transport          = (*HTTPClient)(nil)
	_ CredentialResetter = (*HTTPClient)(nil)
	_ CookieCommitter    = (*HTTPClient)(nil)
)

type HTTPOption func(*HTTPClient)

// WithTimeout bounds every call, including reading the body.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithRateLimit throttles outgoing calls to rps with the given burst.
// rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) HTTPOption {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCookieStore saves the jar after any response that changed it.
func WithCookieStore(s CookieStore) HTTPOption {
	return func(c *HTTPClient) { c.cookies = s }
}

func WithHTTPLogger(l logging.Logger) HTTPOption {
	return func(c *HTTPClient) { c.log = l }
}

// WithRoundTripper replaces the underlying transport, mostly for tests.
func WithRoundTripper(rt http.RoundTripper) HTTPOption {
	return func(c *HTTPClient) { c.http.Transport = rt }
}

func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	jar := NewPersistentJar()
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
		jar:     jar,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RestoreCookies loads the persisted jar. A missing record leaves the jar
// empty.
func (c *HTTPClient) RestoreCookies(ctx context.Context) error {
	if c.cookies == nil {
		return nil
	}
	data, err := c.cookies.LoadCookies(ctx)
	if err != nil {
		return fmt.Errorf("restore cookies: %w", err)
	}
	return c.jar.Import(data)
}

// ResetCredentials forgets the refresh cookie, locally and in the store.
func (c *HTTPClient) ResetCredentials(ctx context.Context) error {
	c.jar.Clear()
	return c.persistCookies(ctx)
}

func (c *HTTPClient) persistCookies(ctx context.Context) error {
	if c.cookies == nil || !c.jar.Dirty() {
		return nil
	}
	data, err := c.jar.Export()
	if err != nil {
		return err
	}
	if err := c.cookies.SaveCookies(ctx, data); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	return nil
}

func (c *HTTPClient) Send(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, networkError(req, err)
		}
	}

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	hc := c.http
	if req.HoldCookies {
		// same client without the jar: cookies go out, nothing comes back in
		bare := *c.http
		bare.Jar = nil
		hc = &bare
		for _, ck := range c.jar.Cookies(httpReq.URL) {
			httpReq.AddCookie(ck)
		}
	}

	start := time.Now()
	resp, err := hc.Do(httpReq)
	if err != nil {
		c.log.Debug(ctx, "api call failed",
			"method", req.Method, "path", req.Path, "request_id", httpReq.Header.Get(common.RequestIDHeaderName), "err", err)
		return nil, networkError(req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(req, err)
	}

	c.log.Debug(ctx, "api call",
		"method", req.Method, "path", req.Path, "status", resp.StatusCode,
		"elapsed", time.Since(start), "request_id", httpReq.Header.Get(common.RequestIDHeaderName))

	if err := c.persistCookies(ctx); err != nil {
		c.log.Warn(ctx, "cookie jar not persisted", "err", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(req, resp.StatusCode, body)
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if req.HoldCookies {
		out.cookieURL = httpReq.URL
		out.cookies = resp.Cookies()
	}
	return out, nil
}

// CommitCookies stores the cookies held back from resp and persists the jar.
func (c *HTTPClient) CommitCookies(ctx context.Context, resp *Response) error {
	if resp == nil || len(resp.cookies) == 0 {
		return nil
	}
	c.jar.SetCookies(resp.cookieURL, resp.cookies)
	return c.persistCookies(ctx)
}

func (c *HTTPClient) build(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get(common.RequestIDHeaderName) == "" {
		httpReq.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	if req.Token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+req.Token)
	}

	return httpReq, nil
}
