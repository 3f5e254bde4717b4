package restapi

import (
	"encoding/json"
	"net/http"

	"waypoint.uwtransit.org/internal/models"
	"waypoint.uwtransit.org/internal/reports"
)

func (api *RestAPI) reportHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if req.StopID == "" {
		api.sendError(w, r, http.StatusBadRequest, "stop_id is required")
		return
	}
	if req.ArrivalSeconds < 0 {
		api.sendError(w, r, http.StatusBadRequest, "arrival_seconds must be non-negative")
		return
	}
	if _, ok := api.GtfsManager.Index().StopByID(req.StopID); !ok {
		api.sendNotFound(w, r, "unknown stop_id")
		return
	}

	stored, err := api.Reports.Append(r.Context(), reports.Report{
		Timestamp:      api.Clock.Now(),
		StopID:         req.StopID,
		LineID:         req.LineID,
		ArrivalSeconds: req.ArrivalSeconds,
		Mode:           req.Mode,
		Lat:            req.Lat,
		Lon:            req.Lng,
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	if api.Metrics != nil {
		api.Metrics.ReportsAppendedTotal.Inc()
	}
	api.sendResponse(w, r, models.NewCreatedResponseWithClock(models.ReportCreated{ID: stored.ID}, api.Clock))
}
