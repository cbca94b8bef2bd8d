package transport

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// renderRequest builds the human-readable request log: method line, header
// lines, a blank line, then the body (base64 for raw bodies, literal text
// otherwise).
func renderRequest(req *http.Request, cnt *content) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\n", req.Method, req.URL)
	writeHeaderLines(&b, req.Header)
	b.WriteString("\n")
	if cnt != nil {
		if cnt.raw {
			b.WriteString(base64.StdEncoding.EncodeToString(cnt.data))
		} else {
			b.WriteString(cnt.text)
		}
	}
	return b.String()
}

// renderResponse builds the human-readable response log from the status
// line, all response headers and the buffered body.
func renderResponse(resp *http.Response, data []byte, isRaw bool, text string) string {
	var b strings.Builder
	proto := resp.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	fmt.Fprintf(&b, "%s %s\n", proto, resp.Status)
	writeHeaderLines(&b, resp.Header)
	b.WriteString("\n")
	if isRaw {
		b.WriteString(base64.StdEncoding.EncodeToString(data))
	} else if text != "" {
		b.WriteString(text)
	} else {
		b.Write(data)
	}
	return b.String()
}

// writeHeaderLines writes one "Key: value" line per header value, with keys
// sorted so logs are deterministic.
func writeHeaderLines(b *strings.Builder, h http.Header) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
}
