package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entry := envelopeEntry(t, rec)
	assert.Equal(t, float64(2), entry["gtfs_loaded_stops"])
	assert.Equal(t, float64(1), entry["gtfs_loaded_routes"])
	assert.Equal(t, float64(1), entry["gtfs_loaded_trips"])
	assert.Equal(t, false, entry["realtime"])
}

func TestMetricsEndpoint(t *testing.T) {
	api, _ := createTestApi(t)

	// A request first so the HTTP counters have something to report.
	serveRequest(t, api, "GET", "/health", nil)

	rec := serveRequest(t, api, "GET", "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "waypoint_http_requests_total")
}
