// Package requestfile loads YAML request documents for the courier CLI and
// validates them against a JSON schema before anything is sent.
package requestfile

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BBGONE/courier/packages/transport"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Document describes a single request. Exactly one of Body, BodyFile and
// BodyBase64 may be set: Body is sent as text, BodyBase64 as raw bytes and
// BodyFile is streamed from disk.
type Document struct {
	Name       string   `yaml:"name"`
	Method     string   `yaml:"method"`
	URL        string   `yaml:"url"`
	BaseURL    string   `yaml:"baseURL"`
	Profile    string   `yaml:"profile"`
	Timeout    string   `yaml:"timeout"`
	Charset    string   `yaml:"charset"`
	Headers    []Pair   `yaml:"headers"`
	Cookies    []Pair   `yaml:"cookies"`
	Body       string   `yaml:"body"`
	BodyFile   string   `yaml:"bodyFile"`
	BodyBase64 string   `yaml:"bodyBase64"`
	Extract    []string `yaml:"extract"`
}

// Pair is one ordered name/value entry.
type Pair struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Load reads, validates and decodes a request document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing request file: %w", err)
	}
	return &doc, nil
}

// Validate checks a YAML request document against the schema.
func Validate(data []byte) error {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("parsing request file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewGoLoader(value),
	)
	if err != nil {
		return fmt.Errorf("validating request file: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid request file: %s", strings.Join(msgs, "; "))
}

// TransportHeaders converts the document headers for the transport layer.
func (d *Document) TransportHeaders() []transport.Header {
	headers := make([]transport.Header, 0, len(d.Headers))
	for _, h := range d.Headers {
		headers = append(headers, transport.Header{Name: h.Name, Value: h.Value})
	}
	return headers
}

// TransportCookies converts the document cookies for the transport layer.
func (d *Document) TransportCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(d.Cookies))
	for _, c := range d.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies
}

// RequestBody resolves the configured body into the shape the transport
// expects: nil, string, []byte or io.Reader.
func (d *Document) RequestBody() (any, error) {
	set := 0
	for _, s := range []string{d.Body, d.BodyFile, d.BodyBase64} {
		if s != "" {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("only one of body, bodyFile and bodyBase64 may be set")
	}

	switch {
	case d.BodyBase64 != "":
		raw, err := base64.StdEncoding.DecodeString(d.BodyBase64)
		if err != nil {
			return nil, fmt.Errorf("decoding bodyBase64: %w", err)
		}
		return raw, nil
	case d.BodyFile != "":
		f, err := os.Open(d.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("opening body file: %w", err)
		}
		return f, nil
	case d.Body != "":
		return d.Body, nil
	default:
		return nil, nil
	}
}

// TimeoutDuration parses the timeout field, returning zero when unset.
func (d *Document) TimeoutDuration() (time.Duration, error) {
	if d.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parsing timeout: %w", err)
	}
	return timeout, nil
}
