package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopsHandler(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/stops", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.Len(t, list, 2)

	first, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "A", first["id"])
	assert.Equal(t, "Campus Gate", first["name"])
	assert.InDelta(t, 47.65, first["lat"], 1e-9)

	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}

func TestRoutesHandler(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/routes", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.Len(t, list, 1)

	route, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "R", route["id"])
	assert.Equal(t, "44", route["name"])
	assert.Equal(t, float64(3), route["type"])
}

func TestRouteStopsHandler(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/routes/R/stops", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.Len(t, list, 2)

	first, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	// Trip T visits Campus Gate before Market Square.
	assert.Equal(t, "A", first["id"])
}

func TestRouteStopsHandlerUnknownRoute(t *testing.T) {
	api, _ := createTestApi(t)

	rec := serveRequest(t, api, "GET", "/routes/NOPE/stops", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
