package walk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

func directionsPayload(t *testing.T) string {
	t.Helper()
	geom := string(polyline.EncodeCoords([][]float64{
		{47.6500, -122.3100},
		{47.6520, -122.3080},
		{47.6550, -122.3050},
	}))
	return `{
		"routes": [
			{
				"geometry": ` + jsonString(geom) + `,
				"duration": 540.2,
				"legs": [
					{
						"summary": "University Way NE",
						"steps": [
							{"name": "University Way NE", "distance": 400, "duration": 300, "maneuver": {"type": "depart"}},
							{"name": "NE 45th St", "distance": 320, "duration": 240, "maneuver": {"type": "turn"}}
						]
					}
				]
			},
			{
				"geometry": "",
				"duration": 600,
				"legs": [{"summary": "Brooklyn Ave", "steps": []}]
			}
		]
	}`
}

func jsonString(s string) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b = append(b, '\\')
		}
		b = append(b, s[i])
	}
	return string(append(b, '"'))
}

func TestDirectionsDecodesRoutes(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(directionsPayload(t)))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token123")
	routes, err := client.Directions(context.Background(), 47.65, -122.31, 47.655, -122.305, 1)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Contains(t, gotPath, "-122.310000,47.650000")
	assert.Contains(t, gotQuery, "access_token=token123")
	assert.Contains(t, gotQuery, "alternatives=true")

	first := routes[0]
	assert.Equal(t, 540, first.DurationSec)
	assert.Equal(t, "University Way NE", first.Summary)
	require.Len(t, first.Steps, 2)
	assert.Equal(t, "NE 45th St", first.Steps[1].Name)
	assert.Equal(t, 320.0, first.Steps[1].DistanceM)
	assert.Equal(t, "turn", first.Steps[1].Maneuver)

	require.NotEmpty(t, first.Geometry)
	// Geometry is [lng, lat].
	assert.InDelta(t, -122.31, first.Geometry[0][0], 1e-4)
	assert.InDelta(t, 47.65, first.Geometry[0][1], 1e-4)

	assert.Empty(t, routes[1].Geometry)
}

func TestDirectionsCapsAlternatives(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes": [
			{"geometry": "", "duration": 100, "legs": []},
			{"geometry": "", "duration": 110, "legs": []},
			{"geometry": "", "duration": 120, "legs": []}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	routes, err := client.Directions(context.Background(), 0, 0, 1, 1, 1)
	require.NoError(t, err)
	assert.Len(t, routes, 2)
}

func TestDirectionsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Directions(context.Background(), 0, 0, 1, 1, 0)
	assert.Error(t, err)
}

func TestDirectionsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Directions(context.Background(), 0, 0, 1, 1, 0)
	assert.Error(t, err)
}
