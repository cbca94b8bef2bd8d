// Package clientpool builds and pools named HTTP client profiles. A profile
// is a named configuration (timeout, redirects, TLS validation, proxy,
// default headers); the registry lazily constructs one shared *http.Client
// per profile and hands the same instance back on every lookup.
package clientpool

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// DefaultProfile is the profile name used when none is configured.
	DefaultProfile = "default"
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Profile describes a named client configuration. Zero values fall back to
// the package defaults; pointer bools distinguish "unset" from false.
type Profile struct {
	Timeout         time.Duration
	FollowRedirects *bool
	MaxRedirects    int
	ValidateSSL     *bool
	Proxy           string
	Headers         map[string]string
}

// Registry hands out pooled clients keyed by profile name. Safe for
// concurrent use.
type Registry struct {
	mu       sync.Mutex
	profiles map[string]Profile
	clients  map[string]*http.Client
}

// NewRegistry creates a registry pre-seeded with a default profile.
func NewRegistry() *Registry {
	return &Registry{
		profiles: map[string]Profile{DefaultProfile: {}},
		clients:  make(map[string]*http.Client),
	}
}

// Register adds or replaces a profile. Replacing a profile drops its cached
// client so the next lookup rebuilds it.
func (r *Registry) Register(name string, p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[name] = p
	delete(r.clients, name)
}

// Client returns the pooled client for the named profile, building it on
// first use. Unknown profile names are an error.
func (r *Registry) Client(name string) (*http.Client, error) {
	if name == "" {
		name = DefaultProfile
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}
	p, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown client profile %q", name)
	}
	c, err := buildClient(p)
	if err != nil {
		return nil, err
	}
	r.clients[name] = c
	return c, nil
}

func buildClient(p Profile) (*http.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if p.ValidateSSL != nil && !*p.ValidateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if p.Proxy != "" {
		proxyURL, err := url.Parse(p.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	var rt http.RoundTripper = transport
	if len(p.Headers) > 0 {
		rt = &headerRoundTripper{base: transport, headers: p.Headers}
	}

	follow := p.FollowRedirects == nil || *p.FollowRedirects
	maxRedirects := p.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}
	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !follow {
			return http.ErrUseLastResponse
		}
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport:     rt,
		Timeout:       timeout,
		CheckRedirect: redirectPolicy,
	}, nil
}

// headerRoundTripper applies a profile's default headers to every request
// that does not already set them.
type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		if clone.Header.Get(k) == "" {
			clone.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(clone)
}
