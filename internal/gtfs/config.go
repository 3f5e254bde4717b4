package gtfs

import (
	"time"

	"waypoint.uwtransit.org/internal/appconf"
)

// Config controls the static GTFS index and the realtime delay cache.
type Config struct {
	// GTFSDir is the directory holding stops.txt, routes.txt, trips.txt
	// and stop_times.txt.
	GTFSDir string

	// TripUpdatesURL is the GTFS-RT TripUpdates feed. Empty disables the
	// realtime poller entirely.
	TripUpdatesURL          string
	RealTimeAuthHeaderKey   string
	RealTimeAuthHeaderValue string

	// PollInterval is the cadence of the TripUpdates poller.
	PollInterval time.Duration

	Env     appconf.Environment
	Verbose bool
}

const (
	// DefaultPollInterval matches POLL_INTERVAL_SECONDS=12.
	DefaultPollInterval = 12 * time.Second

	// fetchTimeout bounds a single TripUpdates download.
	fetchTimeout = 6 * time.Second
)

func (config Config) realTimeDataEnabled() bool {
	return config.TripUpdatesURL != ""
}

func (config Config) pollInterval() time.Duration {
	if config.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return config.PollInterval
}
