// ABOUTME: HTTP client for the study-portal backend API
// ABOUTME: Runs every exchange through an ordered request/response interceptor chain

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request so a hung backend cannot stall a run
const DefaultTimeout = 30 * time.Second

// RequestInterceptor transforms an outgoing request before it is sent
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor sees every inbound response or failure, in order.
// It returns the (possibly replaced) response and error for the next one.
type ResponseInterceptor func(ctx context.Context, resp *Response, err error) (*Response, error)

// Response is a fully-read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON unmarshals the body into v
func (r *Response) DecodeJSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// Client is the API client for the study-portal backend
type Client struct {
	baseURL              string
	httpClient           *http.Client
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport replaces the HTTP transport, e.g. for a proxy dialer
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithRequestInterceptors appends request interceptors, run in the given order
func WithRequestInterceptors(in ...RequestInterceptor) Option {
	return func(c *Client) {
		c.requestInterceptors = append(c.requestInterceptors, in...)
	}
}

// WithResponseInterceptors appends response interceptors, run in the given order
func WithResponseInterceptors(in ...ResponseInterceptor) Option {
	return func(c *Client) {
		c.responseInterceptors = append(c.responseInterceptors, in...)
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint this client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request. body may be nil; a []byte body is sent as-is.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	req, err := c.newJSONRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req)
}

// DoAuthorized is Do with an explicit bearer token, for callers that keep
// credentials outside the session.
func (c *Client) DoAuthorized(ctx context.Context, method, path string, body interface{}, token string) (*Response, error) {
	req, err := c.newJSONRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.send(ctx, req)
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// DoForm sends a form-url-encoded POST, used by the legacy login flow
func (c *Client) DoForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.send(ctx, req)
}

// send runs the interceptor chain around a single exchange
func (c *Client) send(ctx context.Context, req *http.Request) (*Response, error) {
	for _, in := range c.requestInterceptors {
		if err := in(req); err != nil {
			return nil, err
		}
	}

	resp, err := c.roundTrip(ctx, req)
	for _, in := range c.responseInterceptors {
		resp, err = in(ctx, resp, err)
	}
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, req *http.Request) (*Response, error) {
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Message: "failed to read response", Err: err}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return &TransportError{Message: "request canceled", Err: err}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return &TransportError{Message: "request timed out", Err: err}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &TransportError{Message: "request timed out", Err: err}
	}
	return &TransportError{Message: fmt.Sprintf("cannot connect to backend at %s", c.baseURL), Err: err}
}
