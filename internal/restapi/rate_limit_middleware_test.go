package restapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waypoint.uwtransit.org/internal/clock"
)

func TestRateLimitMiddlewareEnforcesLimit(t *testing.T) {
	api, _ := createTestApiWithRateLimit(t, 2)

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := serveRequest(t, api, "GET", "/health", nil)
		codes[rec.Code]++
	}

	assert.Equal(t, 2, codes[http.StatusOK])
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}

func TestRateLimitMiddlewareDisabledWhenZero(t *testing.T) {
	api, _ := createTestApiWithRateLimit(t, 0)

	for i := 0; i < 20; i++ {
		rec := serveRequest(t, api, "GET", "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitMiddlewareShutdownIdempotent(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 3, 14, 8, 0, 0, 0, time.Local))
	middleware := NewRateLimitMiddleware(10, time.Second, clk)

	middleware.Shutdown()
	middleware.Shutdown()
	middleware.Shutdown()
}

func TestRestAPIShutdownIdempotent(t *testing.T) {
	api, _ := createTestApi(t)

	done := make(chan struct{})
	go func() {
		api.Shutdown()
		api.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown took too long")
	}
}
