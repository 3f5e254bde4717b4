package restapi

import (
	"net/http"

	"waypoint.uwtransit.org/internal/models"
)

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	stops, routes, trips := api.GtfsManager.Index().Counts()
	health := models.Health{
		GtfsLoadedStops:  stops,
		GtfsLoadedRoutes: routes,
		GtfsLoadedTrips:  trips,
		Realtime:         api.GtfsManager.RealtimeEnabled(),
	}
	api.sendResponse(w, r, models.NewEntryResponseWithClock(health, api.Clock))
}
