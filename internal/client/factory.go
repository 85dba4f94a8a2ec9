// ABOUTME: Builds the canonical session-bound client and bare auxiliary clients
// ABOUTME: Init may be called repeatedly; each call replaces the canonical instance

package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/markalston/study-portal/internal/session"
)

// Settings describe how clients are built
type Settings struct {
	BaseURL    string
	Timeout    time.Duration
	AllProxy   string
	Session    *session.Session
	Notifier   Notifier
	Navigator  Navigator
	EntryPoint string
}

// Factory owns the canonical client used in request flows
type Factory struct {
	mu        sync.Mutex
	canonical *Client
}

// Init composes a fresh canonical client from settings and installs it.
// Calling Init again yields a client with identical interceptor behavior.
func (f *Factory) Init(s Settings) (*Client, error) {
	if s.Session == nil {
		return nil, fmt.Errorf("client factory requires a session")
	}
	if s.Notifier == nil {
		s.Notifier = NotifierFunc(func(string) {})
	}
	if s.Navigator == nil {
		s.Navigator = NavigatorFunc(func(string) {})
	}
	if s.EntryPoint == "" {
		s.EntryPoint = "/"
	}

	opts, err := baseOptions(s)
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		WithRequestInterceptors(RequestID(), BearerToken(s.Session)),
		WithResponseInterceptors(LogExchange(), ClassifyErrors(), HandleFailures(s.Session, s.Notifier, s.Navigator, s.EntryPoint)),
	)

	c := New(s.BaseURL, opts...)

	f.mu.Lock()
	f.canonical = c
	f.mu.Unlock()
	return c, nil
}

// Default returns the canonical client, or nil before Init
func (f *Factory) Default() *Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canonical
}

// NewBare builds a client with transport settings and request IDs but no
// session coupling, for login exchanges and the smoke-test harness.
func NewBare(s Settings) (*Client, error) {
	opts, err := baseOptions(s)
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		WithRequestInterceptors(RequestID()),
		WithResponseInterceptors(LogExchange()),
	)
	return New(s.BaseURL, opts...), nil
}

func baseOptions(s Settings) ([]Option, error) {
	var opts []Option
	if s.Timeout > 0 {
		opts = append(opts, WithTimeout(s.Timeout))
	}
	if s.AllProxy != "" {
		transport, err := NewProxyTransport(s.AllProxy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTransport(transport))
	}
	return opts, nil
}
