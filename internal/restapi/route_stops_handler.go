package restapi

import (
	"net/http"

	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/models"
)

// routeStopsHandler lists the ordered stops of the route's longest
// trip, which approximates the full service pattern.
func (api *RestAPI) routeStopsHandler(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("id")
	idx := api.GtfsManager.Index()

	if _, ok := idx.RouteByID(routeID); !ok {
		api.sendNotFound(w, r, "unknown route")
		return
	}

	var longest []gtfs.StopTime
	for _, tripID := range idx.TripsForRoute(routeID) {
		if calls := idx.StopTimesForTrip(tripID); len(calls) > len(longest) {
			longest = calls
		}
	}

	list := make([]models.Stop, 0, len(longest))
	for _, st := range longest {
		if stop, ok := idx.StopByID(st.StopID); ok {
			list = append(list, stopModel(stop))
		}
	}
	api.sendResponse(w, r, models.NewListResponseWithClock(list, api.Clock))
}
