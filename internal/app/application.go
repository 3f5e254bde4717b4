// Package app wires the service's long-lived dependencies into a
// single value handed to the HTTP layer.
package app

import (
	"log/slog"

	"waypoint.uwtransit.org/internal/appconf"
	"waypoint.uwtransit.org/internal/clock"
	"waypoint.uwtransit.org/internal/eta"
	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/metrics"
	"waypoint.uwtransit.org/internal/planner"
	"waypoint.uwtransit.org/internal/reports"
	"waypoint.uwtransit.org/internal/safety"
	"waypoint.uwtransit.org/internal/walk"
)

// Application holds the dependencies shared by all request handlers.
type Application struct {
	Config     appconf.Config
	GtfsConfig gtfs.Config

	Logger *slog.Logger
	Clock  clock.Clock

	GtfsManager *gtfs.Manager
	Reports     *reports.Store
	Estimator   *eta.Service
	Planner     *planner.Service
	Overlay     *safety.Overlay
	Walker      walk.Provider

	Metrics *metrics.Metrics
}
