package restapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"waypoint.uwtransit.org/internal/models"
	"waypoint.uwtransit.org/internal/planner"
)

// planQuery collects query-string parse errors so the caller gets one
// 400 naming the first bad parameter.
type planQuery struct {
	values url.Values
	err    error
}

func (q *planQuery) float(name string, required bool, def float64) float64 {
	raw := q.values.Get(name)
	if raw == "" {
		if required && q.err == nil {
			q.err = fmt.Errorf("%s is required", name)
		}
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && q.err == nil {
		q.err = fmt.Errorf("%s must be a number", name)
	}
	return v
}

func (q *planQuery) int(name string, def int) int {
	raw := q.values.Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil && q.err == nil {
		q.err = fmt.Errorf("%s must be an integer", name)
	}
	return v
}

func (q *planQuery) bool(name string, def bool) bool {
	raw := q.values.Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil && q.err == nil {
		q.err = fmt.Errorf("%s must be a boolean", name)
	}
	return v
}

func (q *planQuery) optFloat(name string) *float64 {
	raw := q.values.Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if q.err == nil {
			q.err = fmt.Errorf("%s must be a number", name)
		}
		return nil
	}
	return &v
}

func (api *RestAPI) planHandler(w http.ResponseWriter, r *http.Request) {
	q := &planQuery{values: r.URL.Query()}

	req := planner.Request{
		FromLat:           q.float("from_lat", true, 0),
		FromLng:           q.float("from_lng", true, 0),
		ToLat:             q.float("to_lat", true, 0),
		ToLng:             q.float("to_lng", true, 0),
		DepartAfterSec:    q.int("depart_time_s", -1),
		MaxTransfers:      q.int("max_transfers", 1),
		MaxWalkMeters:     q.float("max_walk_m", false, api.Config.MaxWalkMeters),
		UseRealtime:       q.bool("use_realtime", true),
		EnhanceWalk:       q.bool("enhance_walk", false),
		WalkAlternatives:  q.int("walk_alternatives", 0),
		Safety:            planner.SafetyMode(q.values.Get("safety")),
		RejectWalkBelow:   q.optFloat("reject_walk_below"),
		AllowWalkOnly:     q.bool("allow_walk_only", true),
		WalkOnlyMaxMeters: q.float("walk_only_max_m", false, 0),
	}
	if q.err != nil {
		api.planOutcome("invalid")
		api.sendError(w, r, http.StatusBadRequest, q.err.Error())
		return
	}

	itineraries, err := api.Planner.Plan(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrInvalidInput):
			api.planOutcome("invalid")
			api.sendError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, planner.ErrNotFound):
			api.planOutcome("not_found")
			api.sendNotFound(w, r, err.Error())
		default:
			api.planOutcome("error")
			api.serverErrorResponse(w, r, err)
		}
		return
	}

	api.planOutcome("success")
	api.sendResponse(w, r, models.NewListResponseWithClock(itineraries, api.Clock))
}

func (api *RestAPI) planOutcome(outcome string) {
	if api.Metrics != nil {
		api.Metrics.PlansTotal.WithLabelValues(outcome).Inc()
	}
}
