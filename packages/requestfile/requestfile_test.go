package requestfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BBGONE/courier/packages/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullDocument(t *testing.T) {
	path := writeDoc(t, `
name: create user
method: POST
baseURL: http://api.internal
url: /users
profile: internal
timeout: 30s
charset: utf-8
headers:
  - name: Content-Type
    value: application/json
  - name: X-Trace
    value: t1
cookies:
  - name: session
    value: abc
body: '{"name":"ada"}'
extract:
  - id
`)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "create user", doc.Name)
	assert.Equal(t, "POST", doc.Method)
	assert.Equal(t, "/users", doc.URL)
	assert.Equal(t, "http://api.internal", doc.BaseURL)

	headers := doc.TransportHeaders()
	require.Len(t, headers, 2)
	assert.Equal(t, transport.Header{Name: "Content-Type", Value: "application/json"}, headers[0])

	cookies := doc.TransportCookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)

	timeout, err := doc.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	body, err := doc.RequestBody()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"ada"}`, body)
}

func TestLoad_RejectsUnknownMethod(t *testing.T) {
	path := writeDoc(t, "method: FETCH\nurl: http://x/\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request file")
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	path := writeDoc(t, "method: GET\nurl: http://x/\nretries: 3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request file")
}

func TestValidate_RequiresMethod(t *testing.T) {
	err := Validate([]byte("url: http://x/\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method")
}

func TestRequestBody_Base64(t *testing.T) {
	doc := &Document{BodyBase64: "3q0="}

	body, err := doc.RequestBody()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, body)
}

func TestRequestBody_FileIsStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(path, []byte("file contents"), 0o644))

	doc := &Document{BodyFile: path}
	body, err := doc.RequestBody()
	require.NoError(t, err)

	reader, ok := body.(io.Reader)
	require.True(t, ok)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(data))
	if closer, ok := body.(io.Closer); ok {
		_ = closer.Close()
	}
}

func TestRequestBody_ExclusiveFields(t *testing.T) {
	doc := &Document{Body: "x", BodyBase64: "eA=="}

	_, err := doc.RequestBody()
	assert.ErrorContains(t, err, "only one of")
}

func TestTimeoutDuration_Invalid(t *testing.T) {
	doc := &Document{Timeout: "soon"}

	_, err := doc.TimeoutDuration()
	assert.Error(t, err)
}
