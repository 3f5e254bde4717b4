package gtfs

import (
	"sort"

	"github.com/tidwall/rtree"

	"waypoint.uwtransit.org/internal/utils"
)

// nearestStopLimit caps the number of stops returned per nearest-stops query.
const nearestStopLimit = 10

// StopDistance pairs a stop with its distance from a query point.
type StopDistance struct {
	Stop           Stop
	DistanceMeters float64
}

// buildStopSpatialIndex creates an R-tree over all stops in the index.
func buildStopSpatialIndex(idx *Index) *rtree.RTree {
	tree := &rtree.RTree{}

	// For points, min and max are the same [lat, lon]
	for _, stop := range idx.Stops() {
		tree.Insert(
			[2]float64{stop.Lat, stop.Lon},
			[2]float64{stop.Lat, stop.Lon},
			stop,
		)
	}

	return tree
}

// queryStopsInBounds retrieves all stops within the given geographic bounds from the R-tree
func queryStopsInBounds(tree *rtree.RTree, bounds utils.CoordinateBounds) []Stop {
	if tree == nil {
		return []Stop{}
	}

	var results []Stop
	tree.Search(
		[2]float64{bounds.MinLat, bounds.MinLon},
		[2]float64{bounds.MaxLat, bounds.MaxLon},
		func(min, max [2]float64, data interface{}) bool {
			if stop, ok := data.(Stop); ok {
				results = append(results, stop)
			}
			return true
		},
	)

	return results
}

// nearestStops returns up to limit stops within maxMeters of the point,
// closest first. The R-tree narrows the candidates; exact distances
// decide membership and order.
func nearestStops(tree *rtree.RTree, lat, lon, maxMeters float64, limit int) []StopDistance {
	if limit <= 0 {
		limit = nearestStopLimit
	}

	bounds := utils.CalculateBounds(lat, lon, maxMeters)
	candidates := queryStopsInBounds(tree, bounds)

	var rows []StopDistance
	for _, stop := range candidates {
		d := utils.Distance(lat, lon, stop.Lat, stop.Lon)
		if d <= maxMeters {
			rows = append(rows, StopDistance{Stop: stop, DistanceMeters: d})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DistanceMeters != rows[j].DistanceMeters {
			return rows[i].DistanceMeters < rows[j].DistanceMeters
		}
		return rows[i].Stop.ID < rows[j].Stop.ID
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
