package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tidwall/rtree"

	"waypoint.uwtransit.org/internal/logging"
	"waypoint.uwtransit.org/internal/metrics"
)

// Manager owns the static GTFS index and the realtime delay cache. The
// index is immutable after load; the delay snapshot is replaced as a
// single value on every successful poll.
type Manager struct {
	config Config

	index            *Index
	stopSpatialIndex *rtree.RTree
	loadedAt         time.Time

	delaySnapshot *DelaySnapshot
	realTimeMutex sync.RWMutex

	metrics *metrics.Metrics

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager loads the static feed from config.GTFSDir and, when a
// TripUpdates URL is configured, primes the delay cache and starts the
// background poller.
func InitManager(config Config, m *metrics.Metrics) (*Manager, error) {
	index, err := LoadStaticIndex(config.GTFSDir)
	if err != nil {
		return nil, fmt.Errorf("error loading static GTFS from %s: %w", config.GTFSDir, err)
	}

	manager := &Manager{
		config:           config,
		index:            index,
		stopSpatialIndex: buildStopSpatialIndex(index),
		loadedAt:         time.Now(),
		delaySnapshot:    emptyDelaySnapshot(),
		metrics:          m,
		shutdownChan:     make(chan struct{}),
	}

	if config.Verbose {
		stops, routes, trips := index.Counts()
		logger := slog.Default().With(slog.String("component", "gtfs_manager"))
		logging.LogOperation(logger, "static_gtfs_loaded",
			slog.String("dir", config.GTFSDir),
			slog.Int("stops", stops),
			slog.Int("routes", routes),
			slog.Int("trips", trips))
	}

	if config.realTimeDataEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		manager.updateRealtime(ctx)
		cancel()

		manager.wg.Add(1)
		go manager.pollRealtimePeriodically()
	}

	return manager, nil
}

// Shutdown gracefully stops the background poller.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
	})
}

// Index returns the immutable static index.
func (manager *Manager) Index() *Index {
	return manager.index
}

// RealtimeEnabled reports whether a TripUpdates feed is configured.
func (manager *Manager) RealtimeEnabled() bool {
	return manager.config.realTimeDataEnabled()
}

// DelaySnapshot returns the current consistent delay snapshot. The
// returned value is immutable; callers may hold it for the duration of
// a query.
func (manager *Manager) DelaySnapshot() *DelaySnapshot {
	manager.realTimeMutex.RLock()
	defer manager.realTimeMutex.RUnlock()
	return manager.delaySnapshot
}

func (manager *Manager) setDelaySnapshot(snapshot *DelaySnapshot) {
	manager.realTimeMutex.Lock()
	defer manager.realTimeMutex.Unlock()
	manager.delaySnapshot = snapshot
}

// NearestStops returns up to limit stops within maxMeters of the point,
// closest first. Pass limit <= 0 for the default cap.
func (manager *Manager) NearestStops(lat, lon, maxMeters float64, limit int) []StopDistance {
	return nearestStops(manager.stopSpatialIndex, lat, lon, maxMeters, limit)
}

// LoadedAt reports when the static feed was loaded.
func (manager *Manager) LoadedAt() time.Time {
	return manager.loadedAt
}
