// ABOUTME: SSH+SOCKS5 proxy transport for reaching backends behind a jumpbox
// ABOUTME: Accepts ssh+socks5://user@host:port?private-key=/path/to/key

package client

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
)

// NewProxyTransport builds a transport that dials through an SSH tunnel.
// The tunnel is opened lazily on first use and then reused.
func NewProxyTransport(allProxy string) (*http.Transport, error) {
	proxyURL, err := url.Parse(strings.TrimPrefix(allProxy, "ssh+"))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	keyPath := proxyURL.Query().Get("private-key")
	if keyPath == "" {
		return nil, fmt.Errorf("proxy URL missing required 'private-key' query param")
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading proxy private key: %w", err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)
	lazy := &lazyDialer{
		connect: func() (proxy.DialFunc, error) {
			return socks5Proxy.Dialer(username, string(key), proxyURL.Host)
		},
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = lazy.DialContext
	return transport, nil
}

// lazyDialer opens the tunnel on first dial. Once it exists, dials only
// take the read lock and run concurrently.
type lazyDialer struct {
	connect func() (proxy.DialFunc, error)

	mu     sync.RWMutex
	dialer proxy.DialFunc
}

func (l *lazyDialer) DialContext(_ context.Context, network, address string) (net.Conn, error) {
	l.mu.RLock()
	dialer := l.dialer
	l.mu.RUnlock()

	if dialer == nil {
		var err error
		if dialer, err = l.open(); err != nil {
			return nil, err
		}
	}
	return dialer(network, address)
}

func (l *lazyDialer) open() (proxy.DialFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dialer == nil {
		d, err := l.connect()
		if err != nil {
			return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
		}
		l.dialer = d
	}
	return l.dialer, nil
}
