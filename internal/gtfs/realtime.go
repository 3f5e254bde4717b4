package gtfs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/OneBusAway/go-gtfs"

	"waypoint.uwtransit.org/internal/logging"
)

// StopDelayKey addresses a per-stop delay within a trip.
type StopDelayKey struct {
	TripID string
	StopID string
}

// DelaySnapshot is one consistent view of the TripUpdates feed: the
// per-trip and per-(trip,stop) delay maps derived from a single decode.
// Snapshots are immutable once published; the Manager replaces the whole
// snapshot on every successful poll so readers never observe the two
// maps out of step.
type DelaySnapshot struct {
	TripDelay map[string]int
	StopDelay map[StopDelayKey]int
	FetchedAt time.Time
}

func emptyDelaySnapshot() *DelaySnapshot {
	return &DelaySnapshot{
		TripDelay: map[string]int{},
		StopDelay: map[StopDelayKey]int{},
	}
}

// Delay returns the delay to apply for the trip at the stop: the
// stop-level delay when known, the trip-level delay otherwise, zero when
// the feed says nothing about the trip.
func (s *DelaySnapshot) Delay(tripID, stopID string) int {
	if d, ok := s.StopDelay[StopDelayKey{TripID: tripID, StopID: stopID}]; ok {
		return d
	}
	return s.TripDelay[tripID]
}

func loadRealtimeData(ctx context.Context, source string, headers map[string]string) (*gtfs.Realtime, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", source, nil)
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		req.Header.Add(key, value)
	}

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "trip_updates_downloader")),
		"http_response_body")

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return gtfs.ParseRealtime(b, &gtfs.ParseRealtimeOptions{})
}

// extractDelaySnapshot derives the two delay maps from a decoded feed.
// Every stop_time_update carrying a delay on arrival or departure yields
// a stop-level entry; the first such update sets the trip-level delay.
func extractDelaySnapshot(data *gtfs.Realtime, fetchedAt time.Time) *DelaySnapshot {
	snapshot := &DelaySnapshot{
		TripDelay: make(map[string]int, len(data.Trips)),
		StopDelay: make(map[StopDelayKey]int),
		FetchedAt: fetchedAt,
	}

	for _, trip := range data.Trips {
		tripID := trip.ID.ID
		if tripID == "" {
			continue
		}

		tripDelay := 0
		tripDelaySet := false
		for _, stu := range trip.StopTimeUpdates {
			delay, ok := stopTimeUpdateDelay(stu)
			if !ok {
				continue
			}
			if stu.StopID != nil && *stu.StopID != "" {
				snapshot.StopDelay[StopDelayKey{TripID: tripID, StopID: *stu.StopID}] = delay
			}
			if !tripDelaySet {
				tripDelay = delay
				tripDelaySet = true
			}
		}
		snapshot.TripDelay[tripID] = tripDelay
	}

	return snapshot
}

func stopTimeUpdateDelay(stu gtfs.StopTimeUpdate) (int, bool) {
	if stu.Arrival != nil && stu.Arrival.Delay != nil {
		return int(stu.Arrival.Delay.Seconds()), true
	}
	if stu.Departure != nil && stu.Departure.Delay != nil {
		return int(stu.Departure.Delay.Seconds()), true
	}
	return 0, false
}

// updateRealtime runs one poll cycle. Failures are logged and swallowed;
// the previous snapshot stays authoritative.
func (manager *Manager) updateRealtime(ctx context.Context) {
	logger := logging.FromContext(ctx).With(slog.String("component", "trip_updates"))

	headers := map[string]string{}
	if manager.config.RealTimeAuthHeaderKey != "" && manager.config.RealTimeAuthHeaderValue != "" {
		headers[manager.config.RealTimeAuthHeaderKey] = manager.config.RealTimeAuthHeaderValue
	}

	data, err := loadRealtimeData(ctx, manager.config.TripUpdatesURL, headers)
	if err != nil {
		logging.LogError(logger, "Error loading TripUpdates feed", err,
			slog.String("url", manager.config.TripUpdatesURL))
		if manager.metrics != nil {
			manager.metrics.RealtimePollsTotal.WithLabelValues("error").Inc()
		}
		return
	}

	snapshot := extractDelaySnapshot(data, time.Now())
	manager.setDelaySnapshot(snapshot)

	if manager.metrics != nil {
		manager.metrics.RealtimePollsTotal.WithLabelValues("success").Inc()
		manager.metrics.RealtimeDelaysKnown.Set(float64(len(snapshot.TripDelay)))
	}
}

func (manager *Manager) pollRealtimePeriodically() {
	defer manager.wg.Done()

	logger := slog.Default().With(slog.String("component", "trip_updates_poller"))

	ticker := time.NewTicker(manager.config.pollInterval())
	defer ticker.Stop()

	for { // nolint
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			ctx = logging.WithLogger(ctx, logger)
			manager.updateRealtime(ctx)
			cancel()
		case <-manager.shutdownChan:
			logging.LogOperation(logger, "shutting_down_trip_updates_polling")
			return
		}
	}
}
