package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"waypoint.uwtransit.org/internal/app"
	"waypoint.uwtransit.org/internal/appconf"
	"waypoint.uwtransit.org/internal/clock"
	"waypoint.uwtransit.org/internal/eta"
	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/metrics"
	"waypoint.uwtransit.org/internal/models"
	"waypoint.uwtransit.org/internal/planner"
	"waypoint.uwtransit.org/internal/reports"
	"waypoint.uwtransit.org/internal/safety"
)

// testFeed writes a two-stop feed: route R ("44"), trip T departing
// Campus Gate at 09:00 and arriving Market Square at 09:04.
func testFeed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"A,Campus Gate,47.6500,-122.3100\n" +
			"B,Market Square,47.6600,-122.3000\n",
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"R,44,Crosstown,3\n",
		"trips.txt": "route_id,service_id,trip_id\n" +
			"R,WEEK,T\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T,09:00:00,09:00:00,A,1\n" +
			"T,09:04:00,09:04:00,B,2\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// testClockStart is five minutes before trip T reaches Campus Gate.
var testClockStart = time.Date(2025, 3, 14, 8, 55, 0, 0, time.Local)

func createTestApiWithRateLimit(t *testing.T, rateLimit int) (*RestAPI, *clock.MockClock) {
	t.Helper()

	manager, err := gtfs.InitManager(gtfs.Config{GTFSDir: testFeed(t)}, nil)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	store, err := reports.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clk := clock.NewMockClock(testClockStart)
	overlay := safety.NewOverlay("", "", nil)

	application := &app.Application{
		Config:      appconf.Config{Env: appconf.Test, RateLimit: rateLimit},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:       clk,
		GtfsManager: manager,
		Reports:     store,
		Estimator:   eta.NewService(manager.Index(), manager, store, clk, 0),
		Planner:     planner.NewService(manager, nil, overlay, clk),
		Overlay:     overlay,
		Metrics:     metrics.New(),
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api, clk
}

func createTestApi(t *testing.T) (*RestAPI, *clock.MockClock) {
	return createTestApiWithRateLimit(t, 1000)
}

func serveRequest(t *testing.T, api *RestAPI, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	api.SetupAPIRoutes().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.ResponseModel {
	t.Helper()
	var resp models.ResponseModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func envelopeEntry(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeEnvelope(t, rec).Data.(map[string]interface{})
	require.True(t, ok, "envelope data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "envelope data should contain an entry")
	return entry
}

func envelopeList(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	data, ok := decodeEnvelope(t, rec).Data.(map[string]interface{})
	require.True(t, ok, "envelope data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "envelope data should contain a list")
	return list
}
