package safety

import (
	"math"
	"strings"

	"waypoint.uwtransit.org/internal/utils"
	"waypoint.uwtransit.org/internal/walk"
)

// zoneSampleStride picks every Nth geometry vertex for zone checks.
const zoneSampleStride = 4

// SafetyFromDanger maps a 1..10 danger grade to a safety score in
// [0, 1], 1 being safest, rounded to three decimals.
func SafetyFromDanger(grade int) float64 {
	return round3(1 - float64(clampDanger(grade)-1)/9)
}

// ScoreRoute rates a walking route in [0, 1]. The road component is the
// distance-weighted mean of per-step grades; the zone component is the
// mean of per-sample zone maxima along the geometry. Both present ->
// arithmetic mean; either alone stands by itself.
func (o *Overlay) ScoreRoute(route *walk.Route, fromLat, fromLng, toLat, toLng float64) float64 {
	danger, zones := o.snapshot()

	roadScore := roadComponent(danger, route)

	zoneScore, hasZoneScore := zoneComponent(zones, route, fromLat, fromLng, toLat, toLng)
	if hasZoneScore {
		return round3((roadScore + zoneScore) / 2)
	}
	return round3(roadScore)
}

func roadComponent(danger DangerMap, route *walk.Route) float64 {
	if route == nil || len(route.Steps) == 0 {
		return SafetyFromDanger(danger.Default)
	}

	totalDistance := 0.0
	for _, s := range route.Steps {
		totalDistance += s.DistanceM
	}

	if totalDistance <= 0 {
		sum := 0.0
		for _, s := range route.Steps {
			sum += stepSafety(danger, s.Name)
		}
		return sum / float64(len(route.Steps))
	}

	weighted := 0.0
	for _, s := range route.Steps {
		weighted += stepSafety(danger, s.Name) * s.DistanceM
	}
	return weighted / totalDistance
}

func stepSafety(danger DangerMap, name string) float64 {
	return SafetyFromDanger(dangerForRoad(danger, name))
}

func dangerForRoad(danger DangerMap, name string) int {
	key := strings.ToLower(strings.TrimSpace(name))
	if grade, ok := danger.Roads[key]; ok {
		return grade
	}
	if tag := inferRoadType(key); tag != "" {
		if grade, ok := danger.Types[tag]; ok {
			return grade
		}
	}
	return danger.Default
}

// inferRoadType guesses a road class from name tokens. Checks run from
// most to least specific so "Burke-Gilman Trail Way" stays a trail.
func inferRoadType(lowerName string) string {
	switch {
	case strings.Contains(lowerName, "alley"):
		return "alley"
	case strings.Contains(lowerName, "trail"),
		strings.Contains(lowerName, "path"),
		strings.Contains(lowerName, "walk"):
		return "trail"
	case strings.Contains(lowerName, "way"):
		return "arterial"
	case strings.Contains(lowerName, "ave"),
		strings.Contains(lowerName, "avenue"),
		strings.Contains(lowerName, "st "),
		strings.Contains(lowerName, "street"),
		strings.Contains(lowerName, "blvd"):
		return "street"
	}
	return ""
}

func zoneComponent(zones []Zone, route *walk.Route, fromLat, fromLng, toLat, toLng float64) (float64, bool) {
	if len(zones) == 0 {
		return 0, false
	}

	samples := samplePoints(route, fromLat, fromLng, toLat, toLng)

	sum, covered := 0.0, 0
	for _, p := range samples {
		best, inside := 0.0, false
		for _, z := range zones {
			if utils.Distance(p[0], p[1], z.Lat, z.Lng) <= z.RadiusM {
				inside = true
				if z.Score > best {
					best = z.Score
				}
			}
		}
		if inside {
			sum += best
			covered++
		}
	}
	if covered == 0 {
		return 0, false
	}
	return sum / float64(covered), true
}

// samplePoints returns [lat, lng] probes along the route: every 4th
// geometry vertex, or the endpoints plus midpoint when the provider
// returned no geometry.
func samplePoints(route *walk.Route, fromLat, fromLng, toLat, toLng float64) [][2]float64 {
	if route != nil && len(route.Geometry) > 0 {
		var out [][2]float64
		for i, v := range route.Geometry {
			if i%zoneSampleStride != 0 || len(v) < 2 {
				continue
			}
			// Geometry is [lng, lat].
			out = append(out, [2]float64{v[1], v[0]})
		}
		return out
	}
	return [][2]float64{
		{fromLat, fromLng},
		{(fromLat + toLat) / 2, (fromLng + toLng) / 2},
		{toLat, toLng},
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
