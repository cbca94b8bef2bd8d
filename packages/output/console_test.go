package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/BBGONE/courier/packages/history"
	"github.com/BBGONE/courier/packages/repeat"
	"github.com/BBGONE/courier/packages/transport"
	"github.com/stretchr/testify/assert"
)

func TestConsole_ExchangeSuccess(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithNoColor(true))

	c.Exchange(&transport.Result{
		Method:     "GET",
		URL:        "http://x/ok",
		StatusCode: 200,
		Duration:   42 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "OK GET http://x/ok → 200 (42ms)")
	assert.NotContains(t, out, "HTTP/1.1")
}

func TestConsole_ExchangeVerboseShowsLogs(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	c.Exchange(&transport.Result{
		Method:      "GET",
		URL:         "http://x/ok",
		StatusCode:  200,
		RequestLog:  "GET http://x/ok HTTP/1.1\n\n",
		ResponseLog: "HTTP/1.1 200 OK\n\nhi",
	})

	out := buf.String()
	assert.Contains(t, out, "GET http://x/ok HTTP/1.1")
	assert.Contains(t, out, "HTTP/1.1 200 OK")
}

func TestConsole_ExchangeFailure(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithNoColor(true))

	c.Exchange(&transport.Result{
		Method: "GET",
		URL:    "http://x/down",
		Failure: &transport.Failure{
			Kind: transport.KindTransport,
			Err:  assert.AnError,
		},
	})

	assert.Contains(t, buf.String(), "FAIL GET http://x/down")
	assert.Contains(t, buf.String(), "transport:")
}

func TestConsole_ExtractionsSorted(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithNoColor(true))

	c.Extractions(map[string]any{"z.last": 2, "a.first": 1})

	out := buf.String()
	assert.Contains(t, out, "a.first = 1")
	assert.Contains(t, out, "z.last = 2")
	assert.Less(t, bytes.IndexByte([]byte(out), 'a'), bytes.IndexByte([]byte(out), 'z'))
}

func TestConsole_Summary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithNoColor(true))

	c.Summary(&repeat.Summary{
		Total:     10,
		Succeeded: 9,
		Failed:    1,
		Elapsed:   time.Second,
		P50:       10 * time.Millisecond,
		P95:       20 * time.Millisecond,
		P99:       30 * time.Millisecond,
		Max:       31 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "10 requests")
	assert.Contains(t, out, "9 ok")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "p95 20ms")
}

func TestConsole_HistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithNoColor(true))

	c.History(nil)

	assert.Contains(t, buf.String(), "no recorded executions")
}

func TestConsole_HistoryEntries(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithNoColor(true))

	c.History([]history.Entry{
		{At: time.Now(), Method: "GET", URL: "http://x/", StatusCode: 200, OK: true, DurationMs: 12},
	})

	assert.Contains(t, buf.String(), "GET")
	assert.Contains(t, buf.String(), "http://x/")
}
