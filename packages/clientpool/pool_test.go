package clientpool

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestRegistry_DefaultProfileExists(t *testing.T) {
	r := NewRegistry()

	client, err := r.Client("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, client.Timeout)
}

func TestRegistry_UnknownProfile(t *testing.T) {
	r := NewRegistry()

	_, err := r.Client("missing")
	assert.ErrorContains(t, err, `unknown client profile "missing"`)
}

func TestRegistry_ClientCached(t *testing.T) {
	r := NewRegistry()

	first, err := r.Client(DefaultProfile)
	require.NoError(t, err)
	second, err := r.Client(DefaultProfile)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRegistry_RegisterDropsCache(t *testing.T) {
	r := NewRegistry()

	first, err := r.Client(DefaultProfile)
	require.NoError(t, err)

	r.Register(DefaultProfile, Profile{Timeout: 5 * time.Second})
	second, err := r.Client(DefaultProfile)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 5*time.Second, second.Timeout)
}

func TestRegistry_ProfileTimeout(t *testing.T) {
	r := NewRegistry()
	r.Register("slow", Profile{Timeout: 2 * time.Minute})

	client, err := r.Client("slow")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, client.Timeout)
}

func TestRegistry_DefaultHeaders(t *testing.T) {
	var gotAgent, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewRegistry()
	r.Register("svc", Profile{Headers: map[string]string{
		"User-Agent":    "courier-test",
		"Authorization": "Bearer t",
	}})

	client, err := r.Client("svc")
	require.NoError(t, err)

	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer explicit")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "courier-test", gotAgent)
	// Explicit request headers win over profile defaults.
	assert.Equal(t, "Bearer explicit", gotAuth)
}

func TestRegistry_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/next", http.StatusFound)
	}))
	defer server.Close()

	r := NewRegistry()
	r.Register("pinned", Profile{FollowRedirects: boolPtr(false)})

	client, err := r.Client("pinned")
	require.NoError(t, err)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestBuildClient_InvalidProxy(t *testing.T) {
	_, err := buildClient(Profile{Proxy: "http://bad url with spaces"})
	assert.Error(t, err)
}
