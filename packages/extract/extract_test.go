package extract

import (
	"testing"
	"time"

	"github.com/BBGONE/courier/packages/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonResult(body string) *transport.Result {
	return &transport.Result{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       transport.ResponseBody{Text: body, Assigned: true},
		Duration:   150 * time.Millisecond,
	}
}

func TestExtractor_BodyPath(t *testing.T) {
	e := New(jsonResult(`{"user":{"id":42,"name":"ada"},"tags":["a","b"]}`))

	id, ok := e.Body("user.id")
	require.True(t, ok)
	assert.Equal(t, float64(42), id)

	name, ok := e.Body("user.name")
	require.True(t, ok)
	assert.Equal(t, "ada", name)

	_, ok = e.Body("user.missing")
	assert.False(t, ok)
}

func TestExtractor_WholeDocument(t *testing.T) {
	e := New(jsonResult(`{"a":1}`))

	doc, ok := e.Body("")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": float64(1)}, doc)
}

func TestExtractor_PlainTextBody(t *testing.T) {
	res := &transport.Result{
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    transport.ResponseBody{Text: "pong", Assigned: true},
	}
	e := New(res)

	whole, ok := e.Body("")
	require.True(t, ok)
	assert.Equal(t, "pong", whole)

	_, ok = e.Body("some.path")
	assert.False(t, ok)
}

func TestExtractor_HeaderCaseInsensitive(t *testing.T) {
	e := New(jsonResult(`{}`))

	v, ok := e.Header("content-type")
	require.True(t, ok)
	assert.Equal(t, "application/json", v)

	_, ok = e.Header("X-Missing")
	assert.False(t, ok)
}

func TestExtractor_StatusAndDuration(t *testing.T) {
	e := New(jsonResult(`{}`))

	assert.Equal(t, 200, e.Status())
	assert.Equal(t, int64(150), e.DurationMs())
}

func TestAll(t *testing.T) {
	values := All(jsonResult(`{"id":7,"ok":true}`), []string{"id", "ok", "nope"})

	assert.Equal(t, map[string]any{"id": float64(7), "ok": true}, values)
}
