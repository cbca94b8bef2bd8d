package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport is a single-call HTTP request/response wrapper. Execute runs the
// build → send → capture → notify pipeline and reports success; it never
// returns an error. Result exposes the captured state of the most recent
// execution. A Transport must not be used for overlapping executions.
type Transport interface {
	Execute(ctx context.Context) bool
	Result() *Result
	Subscribe(l Listener)
}

// engine is the pipeline shared by Pooled and Direct. The two variants
// differ only in how the request fields are populated and in clientFunc.
type engine struct {
	method  string
	target  string
	base    string
	headers []Header
	cookies []*http.Cookie
	body    any
	charset string

	clientFunc func() (*http.Client, error)
	listeners  listeners
	logger     *zap.Logger

	last *Result
}

func newEngine() engine {
	return engine{logger: zap.NewNop()}
}

// Subscribe registers a lifecycle listener. Not safe to call concurrently
// with Execute.
func (e *engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Result returns the snapshot captured by the most recent execution, or nil
// before the first one.
func (e *engine) Result() *Result {
	return e.last
}

func (e *engine) execute(ctx context.Context) bool {
	res := &Result{ID: uuid.New(), Method: e.method}
	e.last = res

	req, cnt, failure := e.buildRequest(ctx)
	if failure != nil {
		return e.fail(res, failure)
	}
	res.URL = req.URL.String()
	res.RequestLog = renderRequest(req, cnt)
	e.listeners.requestBuilt(RequestEvent{
		ID:     res.ID,
		Method: req.Method,
		URL:    res.URL,
		Log:    res.RequestLog,
	})
	e.logger.Debug("request built",
		zap.String("id", res.ID.String()),
		zap.String("method", req.Method),
		zap.String("url", res.URL))

	client, err := e.clientFunc()
	if err != nil {
		return e.fail(res, &Failure{Kind: KindConfig, Err: err})
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		return e.fail(res, &Failure{Kind: KindTransport, Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return e.fail(res, &Failure{Kind: KindTransport, Err: err})
	}

	res.StatusCode = resp.StatusCode
	res.Status = resp.Status
	e.logger.Debug("response received",
		zap.String("id", res.ID.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", res.Duration))

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok {
		if failure := e.capture(res, resp, data); failure != nil {
			return e.fail(res, failure)
		}
		res.ResponseLog = renderResponse(resp, data, res.Body.IsRaw, res.Body.Text)
	} else {
		// Non-success responses are still logged, but headers, cookies
		// and the body union stay unassigned.
		res.ResponseLog = renderResponse(resp, data, false, "")
	}

	e.listeners.responseReceived(ResponseEvent{
		ID:         res.ID,
		StatusCode: res.StatusCode,
		Log:        res.ResponseLog,
	})

	if !ok {
		res.Failure = &Failure{
			Kind: KindStatus,
			Err:  fmt.Errorf("unexpected status %s", resp.Status),
		}
		e.listeners.failed(ResultEvent{ID: res.ID, Result: res})
		return false
	}

	e.listeners.succeeded(ResultEvent{ID: res.ID, Result: res})
	return true
}

// fail records the failure, reports the error message through the
// response-received notification, then fires the failed notification.
func (e *engine) fail(res *Result, f *Failure) bool {
	res.Failure = f
	if res.ResponseLog == "" {
		res.ResponseLog = f.Err.Error()
	}
	e.logger.Debug("execution failed",
		zap.String("id", res.ID.String()),
		zap.String("kind", f.Kind.String()),
		zap.Error(f.Err))
	e.listeners.responseReceived(ResponseEvent{ID: res.ID, Log: res.ResponseLog})
	e.listeners.failed(ResultEvent{ID: res.ID, Result: res})
	return false
}

func (e *engine) buildRequest(ctx context.Context) (*http.Request, *content, *Failure) {
	target, err := e.resolveTarget()
	if err != nil {
		return nil, nil, &Failure{Kind: KindConfig, Err: err}
	}

	// Content-Type is applied to the body instead of being set as a plain
	// header.
	contentType := ""
	plain := make([]Header, 0, len(e.headers))
	for _, h := range e.headers {
		if strings.EqualFold(h.Name, "Content-Type") {
			contentType = h.Value
			continue
		}
		plain = append(plain, h)
	}

	cnt, err := buildContent(e.body, contentType, e.charset)
	if err != nil {
		return nil, nil, &Failure{Kind: KindBody, Err: err}
	}

	var body io.Reader
	if cnt != nil {
		body = bytes.NewReader(cnt.data)
	}
	req, err := http.NewRequestWithContext(ctx, e.method, target.String(), body)
	if err != nil {
		return nil, nil, &Failure{Kind: KindConfig, Err: err}
	}

	for _, h := range plain {
		req.Header.Add(h.Name, h.Value)
	}
	if len(e.cookies) > 0 {
		pairs := make([]string, 0, len(e.cookies))
		for _, c := range e.cookies {
			pairs = append(pairs, c.Name+"="+c.Value)
		}
		req.Header.Set("Cookie", strings.Join(pairs, "; "))
	}
	if cnt != nil && cnt.contentType != "" {
		req.Header.Set("Content-Type", cnt.contentType)
	}

	return req, cnt, nil
}

// resolveTarget yields the absolute request URL from either an absolute
// target or a base address plus relative reference.
func (e *engine) resolveTarget() (*url.URL, error) {
	if e.target == "" && e.base == "" {
		return nil, ErrNoTarget
	}
	if e.target != "" {
		u, err := url.Parse(e.target)
		if err != nil {
			return nil, fmt.Errorf("parsing target URL: %w", err)
		}
		if u.IsAbs() {
			return u, nil
		}
		if e.base == "" {
			return nil, fmt.Errorf("%w: %q is relative", ErrNoTarget, e.target)
		}
		base, err := url.Parse(e.base)
		if err != nil {
			return nil, fmt.Errorf("parsing base address: %w", err)
		}
		return base.ResolveReference(u), nil
	}
	base, err := url.Parse(e.base)
	if err != nil {
		return nil, fmt.Errorf("parsing base address: %w", err)
	}
	return base, nil
}

// capture extracts headers (first occurrence wins per key), cookies (via a
// jar scoped to the response URL) and the body union from a success
// response.
func (e *engine) capture(res *Result, resp *http.Response, data []byte) *Failure {
	res.Headers = mergeHeaders(resp.Header)

	respURL := resp.Request.URL
	cookies, err := captureCookies(respURL, resp.Cookies())
	if err != nil {
		return &Failure{Kind: KindTransport, Err: err}
	}
	res.Cookies = cookies

	_, streamed := e.body.(io.Reader)
	body, err := classifyResponseBody(data, resp.Header.Get("Content-Type"), e.charset, streamed)
	if err != nil {
		return &Failure{Kind: KindTransport, Err: err}
	}
	res.Body = body
	return nil
}
