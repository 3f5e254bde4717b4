// Package walk talks to the external walking-directions service and
// normalizes its answers into route candidates the planner can score.
package walk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/twpayne/go-polyline"

	"waypoint.uwtransit.org/internal/logging"
)

const (
	// DefaultBaseURL is the walking profile of the directions service.
	DefaultBaseURL = "https://api.mapbox.com/directions/v5/mapbox/walking"

	requestTimeout = 8 * time.Second

	// maxAlternatives caps the alternative paths requested upstream.
	maxAlternatives = 5
)

// Step is one maneuver of a walking route.
type Step struct {
	Name      string  `json:"name"`
	DistanceM float64 `json:"distance_m"`
	DurationS float64 `json:"duration_s"`
	Maneuver  string  `json:"maneuver"`
}

// Route is one candidate walking path. Geometry vertices are [lng, lat].
type Route struct {
	Geometry    [][]float64 `json:"geometry,omitempty"`
	Steps       []Step      `json:"steps,omitempty"`
	DurationSec int         `json:"duration_sec"`
	Summary     string      `json:"summary,omitempty"`
}

// Provider returns candidate walking routes between two points.
// Implementations return a nil slice (with or without error) when no
// directions are available; callers degrade to straight-line walks.
type Provider interface {
	Directions(ctx context.Context, fromLat, fromLng, toLat, toLng float64, alternatives int) ([]Route, error)
}

// Client is the HTTP directions provider.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a directions client. An empty baseURL selects the
// default service.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Wire shapes of the directions response. Geometry arrives as an
// encoded polyline.
type directionsResponse struct {
	Routes []struct {
		Geometry string  `json:"geometry"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Summary string `json:"summary"`
			Steps   []struct {
				Name     string  `json:"name"`
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Maneuver struct {
					Type string `json:"type"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions fetches up to 1+alternatives walking routes.
func (c *Client) Directions(ctx context.Context, fromLat, fromLng, toLat, toLng float64, alternatives int) ([]Route, error) {
	if alternatives < 0 {
		alternatives = 0
	}
	if alternatives > maxAlternatives {
		alternatives = maxAlternatives
	}

	endpoint := fmt.Sprintf("%s/%f,%f;%f,%f", c.baseURL, fromLng, fromLat, toLng, toLat)
	params := url.Values{}
	params.Set("steps", "true")
	params.Set("geometries", "polyline")
	if alternatives > 0 {
		params.Set("alternatives", "true")
	}
	if c.token != "" {
		params.Set("access_token", c.token)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching walking directions: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "walk_directions")),
		"http_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("walking directions returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var decoded directionsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding walking directions: %w", err)
	}

	limit := 1 + alternatives
	routes := make([]Route, 0, limit)
	for _, raw := range decoded.Routes {
		if len(routes) == limit {
			break
		}

		route := Route{DurationSec: int(raw.Duration)}
		if raw.Geometry != "" {
			coords, _, err := polyline.DecodeCoords([]byte(raw.Geometry))
			if err == nil {
				geometry := make([][]float64, 0, len(coords))
				for _, c := range coords {
					// Decoded vertices are [lat, lng]; the route contract
					// carries [lng, lat].
					geometry = append(geometry, []float64{c[1], c[0]})
				}
				route.Geometry = geometry
			}
		}
		for _, leg := range raw.Legs {
			if route.Summary == "" {
				route.Summary = leg.Summary
			}
			for _, s := range leg.Steps {
				route.Steps = append(route.Steps, Step{
					Name:      s.Name,
					DistanceM: s.Distance,
					DurationS: s.Duration,
					Maneuver:  s.Maneuver.Type,
				})
			}
		}
		routes = append(routes, route)
	}

	return routes, nil
}
