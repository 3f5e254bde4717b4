package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanHandlerDirectRoute(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET",
		"/plan?from_lat=47.6501&from_lng=-122.3101&to_lat=47.6599&to_lng=-122.2999&depart_time_s=31800", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.NotEmpty(t, list)

	first, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), first["transfers"])
	assert.Equal(t, "Direct route", first["notes"])

	legs, ok := first["legs"].([]interface{})
	require.True(t, ok)
	require.Len(t, legs, 3)
	transit, ok := legs[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "TRANSIT", transit["mode"])
	assert.Equal(t, "44", transit["route"])
	assert.Equal(t, "09:00", transit["dep_time"])
	assert.Equal(t, "09:04", transit["arr_time"])
}

func TestPlanHandlerBadParameters(t *testing.T) {
	api, _ := createTestApi(t)

	cases := []struct {
		name   string
		target string
	}{
		{"missing origin", "/plan?to_lat=47.66&to_lng=-122.30"},
		{"non-numeric latitude", "/plan?from_lat=abc&from_lng=-122.31&to_lat=47.66&to_lng=-122.30"},
		{"bad boolean", "/plan?from_lat=47.65&from_lng=-122.31&to_lat=47.66&to_lng=-122.30&use_realtime=maybe"},
		{"bad safety mode", "/plan?from_lat=47.65&from_lng=-122.31&to_lat=47.66&to_lng=-122.30&safety=paranoid"},
		{"too many transfers", "/plan?from_lat=47.65&from_lng=-122.31&to_lat=47.66&to_lng=-122.30&max_transfers=2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveRequest(t, api, "GET", tc.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPlanHandlerNoItinerary(t *testing.T) {
	api, _ := createTestApi(t)

	// Destination far beyond both the stop radius and the walk-only cap.
	rec := serveRequest(t, api, "GET",
		"/plan?from_lat=47.6501&from_lng=-122.3101&to_lat=47.7000&to_lng=-122.3100&depart_time_s=31800", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanHandlerWalkOnlyFallback(t *testing.T) {
	api, _ := createTestApi(t)

	// Departing after the only trip of the day leaves walking.
	rec := serveRequest(t, api, "GET",
		"/plan?from_lat=47.6501&from_lng=-122.3101&to_lat=47.6520&to_lng=-122.3080&depart_time_s=80000", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.Len(t, list, 1)
	first, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Walking route", first["notes"])
}
