package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waypoint.uwtransit.org/internal/app"
	"waypoint.uwtransit.org/internal/appconf"
	"waypoint.uwtransit.org/internal/clock"
	"waypoint.uwtransit.org/internal/eta"
	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/logging"
	"waypoint.uwtransit.org/internal/metrics"
	"waypoint.uwtransit.org/internal/planner"
	"waypoint.uwtransit.org/internal/reports"
	"waypoint.uwtransit.org/internal/restapi"
	"waypoint.uwtransit.org/internal/safety"
	"waypoint.uwtransit.org/internal/walk"
)

// buildOptions carries the settings that configure individual services
// rather than the adapter or GTFS layers.
type buildOptions struct {
	ReportsDBPath      string
	ReportDecaySeconds int

	DangerMapPath   string
	SafetyZonesPath string

	WalkDirectionsURL   string
	WalkDirectionsToken string
}

// BuildApplication creates and initializes the Application with all
// dependencies: GTFS manager, crowd report store, safety overlay,
// walking provider, estimator, and planner.
func BuildApplication(cfg appconf.Config, gtfsCfg gtfs.Config, opts buildOptions) (*app.Application, error) {
	var logger *slog.Logger
	if cfg.Env == appconf.Production {
		logger = logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	clk := clock.RealClock{}
	appMetrics := metrics.New()

	gtfsManager, err := gtfs.InitManager(gtfsCfg, appMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GTFS manager: %w", err)
	}

	reportStore, err := reports.NewStore(opts.ReportsDBPath)
	if err != nil {
		gtfsManager.Shutdown()
		return nil, fmt.Errorf("failed to open crowd report store: %w", err)
	}

	overlay := safety.NewOverlay(opts.DangerMapPath, opts.SafetyZonesPath, logger)

	var walker walk.Provider
	if opts.WalkDirectionsToken != "" {
		walker = walk.NewClient(opts.WalkDirectionsURL, opts.WalkDirectionsToken)
	}

	coreApp := &app.Application{
		Config:      cfg,
		GtfsConfig:  gtfsCfg,
		Logger:      logger,
		Clock:       clk,
		GtfsManager: gtfsManager,
		Reports:     reportStore,
		Estimator:   eta.NewService(gtfsManager.Index(), gtfsManager, reportStore, clk, opts.ReportDecaySeconds),
		Planner:     planner.NewService(gtfsManager, walker, overlay, clk),
		Overlay:     overlay,
		Walker:      walker,
		Metrics:     appMetrics,
	}

	return coreApp, nil
}

// CreateServer creates the HTTP server with all routes and middleware.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.SetupAPIRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}

	return srv, api
}

// Run manages the server lifecycle: start, wait for SIGINT/SIGTERM,
// then shut down the server and every long-lived service.
func Run(srv *http.Server, coreApp *app.Application, api *restapi.RestAPI) error {
	coreApp.Logger.Info("starting server", "addr", srv.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		coreApp.Logger.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		coreApp.Logger.Error("server forced to shutdown", "error", err)
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	api.Shutdown()
	if coreApp.GtfsManager != nil {
		coreApp.GtfsManager.Shutdown()
	}
	if coreApp.Reports != nil {
		if err := coreApp.Reports.Close(); err != nil {
			coreApp.Logger.Warn("failed to close report store", "error", err)
		}
	}

	coreApp.Logger.Info("server exited")
	return nil
}
