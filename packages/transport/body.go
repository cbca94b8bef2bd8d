package transport

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
)

// Header is a single ordered request header.
type Header struct {
	Name  string
	Value string
}

// DefaultCharset is used for text bodies when no charset is configured.
const DefaultCharset = "utf-8"

// content is a fully buffered request body with its effective content type.
// text keeps the original string for literal log rendering; raw marks byte
// and stream bodies, which are rendered as base64 in logs.
type content struct {
	data        []byte
	text        string
	contentType string
	raw         bool
	streamed    bool
}

// buildContent dispatches on the runtime shape of body: string becomes text
// content in the configured charset, []byte raw content, io.Reader streamed
// content (buffered so it can be both sent and logged). Any other non-nil
// shape is a configuration error.
func buildContent(body any, contentType, charset string) (*content, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		if charset == "" {
			charset = DefaultCharset
		}
		data, err := encodeText(b, charset)
		if err != nil {
			return nil, err
		}
		ct := contentType
		if ct == "" {
			ct = "text/plain"
		}
		return &content{
			data:        data,
			text:        b,
			contentType: ct + "; charset=" + charset,
		}, nil
	case []byte:
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return &content{data: b, contentType: contentType, raw: true}, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, fmt.Errorf("reading body stream: %w", err)
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return &content{data: data, contentType: contentType, raw: true, streamed: true}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrBodyShape, body)
	}
}

func encodeText(s, charset string) ([]byte, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	data, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding body as %s: %w", charset, err)
	}
	return data, nil
}

func decodeText(data []byte, charset string) (string, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding body as %s: %w", charset, err)
	}
	return string(decoded), nil
}
