package transport

import (
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// ResponseBody is the tagged choice between the textual and the raw-byte
// representation of a response body. Assigned is false until a successful
// response has been captured.
type ResponseBody struct {
	Text     string
	Raw      []byte
	IsRaw    bool
	Assigned bool
}

// Result is the captured state of the most recent execution. It is reset at
// the start of each Execute call and populated exactly once per execution.
type Result struct {
	ID         uuid.UUID
	Method     string
	URL        string
	StatusCode int
	Status     string
	Headers    map[string]string
	Cookies    []*http.Cookie
	Body       ResponseBody
	// RequestLog and ResponseLog are the rendered human-readable logs; on
	// a failed send ResponseLog carries the error message instead.
	RequestLog  string
	ResponseLog string
	Duration    time.Duration
	Failure     *Failure
}

// OK reports whether the execution succeeded.
func (r *Result) OK() bool {
	return r.Failure == nil
}

// Header returns the first captured header matching key, case-insensitively.
func (r *Result) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// ContentType returns the captured Content-Type header.
func (r *Result) ContentType() string {
	return r.Header("Content-Type")
}

// IsJSON reports whether the captured body is JSON text.
func (r *Result) IsJSON() bool {
	return !r.Body.IsRaw && strings.Contains(r.ContentType(), "application/json")
}

// rawMediaTypes are buffered as raw bytes instead of decoded text.
var rawMediaTypes = map[string]bool{
	"application/octet-stream": true,
	"application/pdf":          true,
	"application/rtf":          true,
	"application/zip":          true,
}

// mergeHeaders flattens header collections into a plain map. Within one
// collection multiple values for a key are joined with ", "; across
// collections the first-seen value for a key wins.
func mergeHeaders(collections ...http.Header) map[string]string {
	merged := make(map[string]string)
	for _, h := range collections {
		for k, values := range h {
			if _, seen := merged[k]; seen {
				continue
			}
			merged[k] = strings.Join(values, ", ")
		}
	}
	return merged
}

// captureCookies replays the response's Set-Cookie headers into a fresh
// cookie jar scoped to the response URL and returns what the jar hands back,
// so domain, path and expiry matching follow standard RFC 6265 rules.
func captureCookies(respURL *url.URL, setCookies []*http.Cookie) ([]*http.Cookie, error) {
	if len(setCookies) == 0 {
		return nil, nil
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	jar.SetCookies(respURL, setCookies)
	return jar.Cookies(respURL), nil
}

// classifyResponseBody fills the response body union from the buffered
// bytes: raw for the raw media types and for stream-shaped exchanges,
// decoded text otherwise. The charset comes from the Content-Type parameter,
// falling back to the configured default.
func classifyResponseBody(data []byte, contentType, defaultCharset string, streamed bool) (ResponseBody, error) {
	mediaType := contentType
	charset := ""
	if contentType != "" {
		if mt, params, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = mt
			charset = params["charset"]
		}
	}

	if streamed || rawMediaTypes[mediaType] {
		return ResponseBody{Raw: data, IsRaw: true, Assigned: true}, nil
	}

	if charset == "" {
		charset = defaultCharset
	}
	if charset == "" {
		charset = DefaultCharset
	}
	text, err := decodeText(data, charset)
	if err != nil {
		return ResponseBody{}, err
	}
	return ResponseBody{Text: text, Assigned: true}, nil
}
