package restapi

import (
	"net/http"

	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/models"
)

func stopModel(s gtfs.Stop) models.Stop {
	return models.Stop{
		ID:   s.ID,
		Name: s.Name,
		Lat:  s.Lat,
		Lng:  s.Lon,
	}
}

func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	stops := api.GtfsManager.Index().Stops()
	list := make([]models.Stop, 0, len(stops))
	for _, s := range stops {
		list = append(list, stopModel(s))
	}
	api.sendResponse(w, r, models.NewListResponseWithClock(list, api.Clock))
}
