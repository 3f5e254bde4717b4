package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"waypoint.uwtransit.org/internal/appconf"
	"waypoint.uwtransit.org/internal/gtfs"
)

func main() {
	var cfg appconf.Config
	var gtfsCfg gtfs.Config
	var opts buildOptions
	var envFlag string
	var pollSeconds int

	flag.IntVar(&cfg.Port, "port", appconf.EnvInt("PORT", 4000), "API server port")
	flag.StringVar(&envFlag, "env", appconf.EnvString("ENV", "development"), "Environment (development|test|production)")
	flag.IntVar(&cfg.RateLimit, "rate-limit", appconf.EnvInt("RATE_LIMIT", 100), "Requests per second per client IP (0 disables)")
	flag.Float64Var(&cfg.MaxWalkMeters, "max-walk-m", float64(appconf.EnvInt("MAX_WALK_METERS", 800)), "Default walking radius in meters for plan queries")

	flag.StringVar(&gtfsCfg.GTFSDir, "gtfs-dir", appconf.EnvString("GTFS_DIR", ""), "Directory holding the static GTFS feed")
	flag.StringVar(&gtfsCfg.TripUpdatesURL, "trip-updates-url", appconf.EnvString("TRIP_UPDATES_URL", ""), "URL for a GTFS-RT trip updates feed (empty disables realtime)")
	flag.StringVar(&gtfsCfg.RealTimeAuthHeaderKey, "realtime-auth-header-name", "", "Optional header name for GTFS-RT auth")
	flag.StringVar(&gtfsCfg.RealTimeAuthHeaderValue, "realtime-auth-header-value", "", "Optional header value for GTFS-RT auth")
	flag.IntVar(&pollSeconds, "poll-interval", appconf.EnvInt("POLL_INTERVAL_SECONDS", 12), "GTFS-RT poll interval in seconds")

	flag.StringVar(&opts.ReportsDBPath, "reports-db", appconf.EnvString("REPORTS_DB", "./reports.db"), "Path to the SQLite crowd reports database")
	flag.IntVar(&opts.ReportDecaySeconds, "report-decay", appconf.EnvInt("REPORT_DECAY_SECONDS", 600), "Crowd report recency decay in seconds")

	flag.StringVar(&opts.DangerMapPath, "danger-map", appconf.EnvString("DANGER_MAP_PATH", ""), "Path to the street danger grades JSON file")
	flag.StringVar(&opts.SafetyZonesPath, "safety-zones", appconf.EnvString("SAFETY_ZONES_PATH", ""), "Path to the safety zones JSON file")

	flag.StringVar(&opts.WalkDirectionsURL, "walk-directions-url", appconf.EnvString("WALK_DIRECTIONS_URL", ""), "Walking directions API base URL (empty disables walk enhancement)")
	flag.StringVar(&opts.WalkDirectionsToken, "walk-directions-token", appconf.EnvString("WALK_DIRECTIONS_TOKEN", ""), "Walking directions API access token")

	flag.Parse()

	gtfsCfg.Verbose = true
	cfg.Verbose = true
	gtfsCfg.PollInterval = time.Duration(pollSeconds) * time.Second

	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)
	gtfsCfg.Env = cfg.Env

	coreApp, err := BuildApplication(cfg, gtfsCfg, opts)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	srv, api := CreateServer(coreApp, cfg)

	if err := Run(srv, coreApp, api); err != nil {
		coreApp.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
