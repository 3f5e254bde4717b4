package restapi

import (
	"errors"
	"net/http"

	"waypoint.uwtransit.org/internal/eta"
	"waypoint.uwtransit.org/internal/models"
)

func (api *RestAPI) etaHandler(w http.ResponseWriter, r *http.Request) {
	stopID := r.URL.Query().Get("stop_id")
	if stopID == "" {
		api.sendError(w, r, http.StatusBadRequest, "stop_id is required")
		return
	}
	lineID := r.URL.Query().Get("line_id")

	estimate, err := api.Estimator.Estimate(r.Context(), stopID, lineID)
	if err != nil {
		if errors.Is(err, eta.ErrStopNotFound) {
			api.sendNotFound(w, r, err.Error())
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponseWithClock(estimate, api.Clock))
}
