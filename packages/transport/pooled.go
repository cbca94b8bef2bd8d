package transport

import (
	"context"
	"net/http"

	"github.com/BBGONE/courier/packages/clientpool"
	"go.uber.org/zap"
)

// Options configures a Pooled transport. URL may be absolute or relative
// against BaseAddress; Body is a string, []byte or io.Reader; Profile names
// the client profile to obtain the pooled client from.
type Options struct {
	Method      string
	URL         string
	BaseAddress string
	Headers     []Header
	Cookies     []*http.Cookie
	Body        any
	Charset     string
	Profile     string
	Logger      *zap.Logger
}

// Pooled is the generic-body transport variant. It sends through a shared
// client obtained from a registry by profile name; timeouts are owned
// entirely by the profile.
type Pooled struct {
	engine
}

// NewPooled creates a pooled transport over the given registry.
func NewPooled(registry *clientpool.Registry, opts Options) *Pooled {
	p := &Pooled{engine: newEngine()}
	p.method = opts.Method
	p.target = opts.URL
	p.base = opts.BaseAddress
	p.headers = opts.Headers
	p.cookies = opts.Cookies
	p.body = opts.Body
	p.charset = opts.Charset
	if opts.Logger != nil {
		p.logger = opts.Logger
	}
	profile := opts.Profile
	p.clientFunc = func() (*http.Client, error) {
		return registry.Client(profile)
	}
	return p
}

// Execute runs one build → send → capture → notify cycle and reports
// success. All failures are delivered through the lifecycle notifications
// and the Result; Execute itself never panics or returns an error.
func (p *Pooled) Execute(ctx context.Context) bool {
	return p.execute(ctx)
}
