package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout applies to Direct transports that specify no timeout.
const DefaultTimeout = 60 * time.Second

// CertVerifier is a custom certificate validation hook. When set it replaces
// the default chain verification, receiving the raw peer certificates.
type CertVerifier func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error

// Direct is the string-body, certificate-aware transport variant. It
// constructs a fresh HTTP client for every call.
type Direct struct {
	engine
	timeout time.Duration
	cert    *tls.Certificate
	verify  CertVerifier
}

// DirectOption configures a Direct transport.
type DirectOption func(*Direct)

// NewDirect creates a direct transport for a single method and URL.
func NewDirect(method, rawURL string, opts ...DirectOption) *Direct {
	d := &Direct{engine: newEngine(), timeout: DefaultTimeout}
	d.method = method
	d.target = rawURL
	for _, opt := range opts {
		opt(d)
	}
	d.clientFunc = d.buildClient
	return d
}

// WithHeader appends one request header, preserving order.
func WithHeader(name, value string) DirectOption {
	return func(d *Direct) {
		d.headers = append(d.headers, Header{Name: name, Value: value})
	}
}

// WithHeaders appends request headers, preserving order.
func WithHeaders(headers []Header) DirectOption {
	return func(d *Direct) {
		d.headers = append(d.headers, headers...)
	}
}

// WithBody sets the plain string request body.
func WithBody(body string) DirectOption {
	return func(d *Direct) {
		d.body = body
	}
}

// WithCookies sets the cookies serialized into the Cookie header.
func WithCookies(cookies ...*http.Cookie) DirectOption {
	return func(d *Direct) {
		d.cookies = append(d.cookies, cookies...)
	}
}

// WithTimeout overrides the default 60 second timeout.
func WithTimeout(timeout time.Duration) DirectOption {
	return func(d *Direct) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithCharset sets the charset used to encode the request body and to decode
// textual response bodies without an explicit charset.
func WithCharset(charset string) DirectOption {
	return func(d *Direct) {
		d.charset = charset
	}
}

// WithClientCertificate attaches a client certificate to the per-call TLS
// configuration.
func WithClientCertificate(cert tls.Certificate) DirectOption {
	return func(d *Direct) {
		d.cert = &cert
	}
}

// WithCertVerifier installs a custom certificate validation hook in place of
// the default chain verification.
func WithCertVerifier(verify CertVerifier) DirectOption {
	return func(d *Direct) {
		d.verify = verify
	}
}

// WithLogger sets the debug logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) DirectOption {
	return func(d *Direct) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Execute runs one build → send → capture → notify cycle and reports
// success; failures are delivered through the notifications and the Result.
func (d *Direct) Execute(ctx context.Context) bool {
	return d.execute(ctx)
}

// buildClient constructs the fresh per-call client. The certificate and the
// custom verifier are only wired when configured.
func (d *Direct) buildClient() (*http.Client, error) {
	transport := &http.Transport{}
	if d.cert != nil || d.verify != nil {
		cfg := &tls.Config{}
		if d.cert != nil {
			cfg.Certificates = []tls.Certificate{*d.cert}
		}
		if d.verify != nil {
			// Default verification is bypassed so the custom hook is
			// the single authority on peer certificates.
			cfg.InsecureSkipVerify = true
			cfg.VerifyPeerCertificate = d.verify
		}
		transport.TLSClientConfig = cfg
	}
	return &http.Client{
		Transport: transport,
		Timeout:   d.timeout,
	}, nil
}
