// Package extract pulls values out of a captured execution result: JSON body
// paths, headers, the status code and the duration.
package extract

import (
	"github.com/BBGONE/courier/packages/transport"
	"github.com/tidwall/gjson"
)

// Extractor reads values from one captured result. The JSON body is parsed
// once per extractor.
type Extractor struct {
	result   *transport.Result
	bodyJSON gjson.Result
}

func New(res *transport.Result) *Extractor {
	e := &Extractor{
		result: res,
	}
	if res.IsJSON() {
		e.bodyJSON = gjson.Parse(res.Body.Text)
	}
	return e
}

// Body extracts a value from the response body. For JSON bodies path is a
// gjson path; an empty path returns the whole decoded document. Non-JSON
// textual bodies are returned whole when path is empty.
func (e *Extractor) Body(path string) (any, bool) {
	if !e.bodyJSON.Exists() {
		if path == "" && e.result.Body.Assigned && !e.result.Body.IsRaw {
			return e.result.Body.Text, true
		}
		return nil, false
	}

	if path == "" {
		return e.bodyJSON.Value(), true
	}

	value := e.bodyJSON.Get(path)
	if !value.Exists() {
		return nil, false
	}
	return value.Value(), true
}

// Header extracts a response header value, case-insensitively.
func (e *Extractor) Header(name string) (string, bool) {
	value := e.result.Header(name)
	if value == "" {
		return "", false
	}
	return value, true
}

// Status returns the captured status code.
func (e *Extractor) Status() int {
	return e.result.StatusCode
}

// DurationMs returns the execution duration in milliseconds.
func (e *Extractor) DurationMs() int64 {
	return e.result.Duration.Milliseconds()
}

// All resolves a set of body paths against one result, skipping paths with
// no value.
func All(res *transport.Result, paths []string) map[string]any {
	extractor := New(res)
	values := make(map[string]any)
	for _, p := range paths {
		if v, ok := extractor.Body(p); ok {
			values[p] = v
		}
	}
	return values
}
