// Package output renders execution results for the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/BBGONE/courier/packages/history"
	"github.com/BBGONE/courier/packages/repeat"
	"github.com/BBGONE/courier/packages/transport"
)

// Console writes human-readable, optionally colored output.
type Console struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*Console)

func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.noColor {
		color.NoColor = true
	}
	return c
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(c *Console) {
		c.verbose = v
	}
}

func WithNoColor(n bool) ConsoleOption {
	return func(c *Console) {
		c.noColor = n
	}
}

// Exchange prints one executed request/response pair. The full logs are only
// shown in verbose mode; the result line is always printed.
func (c *Console) Exchange(res *transport.Result) {
	if c.verbose {
		faint := color.New(color.Faint)
		faint.Fprintln(c.writer, res.RequestLog)
		fmt.Fprintln(c.writer, res.ResponseLog)
	}

	if res.OK() {
		ok := color.New(color.FgGreen, color.Bold)
		ok.Fprintf(c.writer, "OK")
		fmt.Fprintf(c.writer, " %s %s → %d (%dms)\n",
			res.Method, res.URL, res.StatusCode, res.Duration.Milliseconds())
		return
	}

	fail := color.New(color.FgRed, color.Bold)
	fail.Fprintf(c.writer, "FAIL")
	if res.StatusCode > 0 {
		fmt.Fprintf(c.writer, " %s %s → %d (%dms): %v\n",
			res.Method, res.URL, res.StatusCode, res.Duration.Milliseconds(), res.Failure)
	} else {
		fmt.Fprintf(c.writer, " %s %s: %v\n", res.Method, res.URL, res.Failure)
	}
}

// Extractions prints extracted values in path order.
func (c *Console) Extractions(values map[string]any) {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	cyan := color.New(color.FgCyan)
	for _, p := range paths {
		cyan.Fprintf(c.writer, "%s", p)
		fmt.Fprintf(c.writer, " = %v\n", values[p])
	}
}

// Summary prints a repeat-mode summary with latency percentiles.
func (c *Console) Summary(s *repeat.Summary) {
	fmt.Fprintf(c.writer, "\n%d requests in %s: ", s.Total, s.Elapsed.Round(0))
	color.New(color.FgGreen).Fprintf(c.writer, "%d ok", s.Succeeded)
	fmt.Fprint(c.writer, ", ")
	if s.Failed > 0 {
		color.New(color.FgRed).Fprintf(c.writer, "%d failed", s.Failed)
	} else {
		fmt.Fprintf(c.writer, "%d failed", s.Failed)
	}
	fmt.Fprintf(c.writer, "\np50 %s  p95 %s  p99 %s  max %s\n", s.P50, s.P95, s.P99, s.Max)
}

// History prints recorded executions, newest first.
func (c *Console) History(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(c.writer, "no recorded executions")
		return
	}
	for _, e := range entries {
		mark := color.New(color.FgGreen).Sprint("ok  ")
		if !e.OK {
			mark = color.New(color.FgRed).Sprint("fail")
		}
		fmt.Fprintf(c.writer, "%s %s %-6s %s %d (%dms)\n",
			e.At.Local().Format("2006-01-02 15:04:05"), mark, e.Method, e.URL,
			e.StatusCode, e.DurationMs)
	}
}

// Error prints an error line.
func (c *Console) Error(err error) {
	color.New(color.FgRed).Fprintf(c.writer, "error: ")
	fmt.Fprintf(c.writer, "%v\n", err)
}
