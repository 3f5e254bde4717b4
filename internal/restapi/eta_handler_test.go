package restapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waypoint.uwtransit.org/internal/reports"
)

func TestEtaHandlerRequiresStopID(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/eta", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Text, "stop_id")
}

func TestEtaHandlerUnknownStop(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/eta?stop_id=NOPE", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEtaHandlerScheduleOnly(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/eta?stop_id=A", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entry := envelopeEntry(t, rec)
	assert.Equal(t, "live_feed", entry["source"])
	// Clock reads 08:55, the next call at A is 09:00.
	assert.Equal(t, float64(300), entry["eta_seconds"])
}

func TestEtaHandlerFusesCrowdReports(t *testing.T) {
	api, clk := createTestApi(t)

	_, err := api.Reports.Append(context.Background(), reports.Report{
		Timestamp:      clk.Now().Add(-time.Minute),
		StopID:         "A",
		ArrivalSeconds: 200,
	})
	require.NoError(t, err)

	rec := serveRequest(t, api, "GET", "/eta?stop_id=A", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entry := envelopeEntry(t, rec)
	assert.Equal(t, "crowd+live", entry["source"])
	// round(0.4·200 + 0.6·300)
	assert.Equal(t, float64(260), entry["eta_seconds"])

	details, ok := entry["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), details["crowd_count"])
	assert.Equal(t, float64(300), details["live_eta"])
}

func TestEtaHandlerLineFilter(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/eta?stop_id=A&line_id=R", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "live_feed", envelopeEntry(t, rec)["source"])

	// A line the stop does not serve leaves only the headway fallback.
	rec = serveRequest(t, api, "GET", "/eta?stop_id=A&line_id=OTHER", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "schedule", envelopeEntry(t, rec)["source"])
}
