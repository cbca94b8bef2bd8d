package repeat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BBGONE/courier/packages/clientpool"
	"github.com/BBGONE/courier/packages/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CountsOutcomes(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1)%2 == 0 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr := transport.NewPooled(clientpool.NewRegistry(), transport.Options{
		Method: "GET",
		URL:    server.URL,
	})

	summary, err := Run(context.Background(), tr, Options{Count: 4})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, int64(4), calls.Load())
	assert.Greater(t, summary.Max, time.Duration(0))
	assert.LessOrEqual(t, summary.P50, summary.P99)
}

func TestRun_RateSpacesCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr := transport.NewPooled(clientpool.NewRegistry(), transport.Options{
		Method: "GET",
		URL:    server.URL,
	})

	start := time.Now()
	summary, err := Run(context.Background(), tr, Options{Count: 3, Rate: 50})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Succeeded)
	// Two inter-call gaps of 20ms each at 50 rps.
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRun_InvalidCount(t *testing.T) {
	tr := transport.NewDirect("GET", "http://x/")

	_, err := Run(context.Background(), tr, Options{Count: 0})
	assert.ErrorContains(t, err, "repeat count must be positive")
}

func TestRun_CancelledContext(t *testing.T) {
	tr := transport.NewDirect("GET", "http://x/")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, tr, Options{Count: 2, Rate: 0.1})
	assert.Error(t, err)
}
