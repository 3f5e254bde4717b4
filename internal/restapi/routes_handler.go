package restapi

import (
	"net/http"

	"waypoint.uwtransit.org/internal/models"
)

func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	routes := api.GtfsManager.Index().Routes()
	list := make([]models.Route, 0, len(routes))
	for _, rt := range routes {
		list = append(list, models.Route{
			ID:        rt.ID,
			ShortName: rt.ShortName,
			LongName:  rt.LongName,
			Name:      rt.Name(),
			Type:      rt.Type,
		})
	}
	api.sendResponse(w, r, models.NewListResponseWithClock(list, api.Clock))
}
