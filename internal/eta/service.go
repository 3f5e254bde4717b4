package eta

import (
	"context"
	"errors"
	"fmt"
	"time"

	"waypoint.uwtransit.org/internal/clock"
	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/reports"
)

// Estimate sources, in increasing order of information available.
const (
	SourceSchedule  = "schedule"
	SourceCrowd     = "crowd"
	SourceLive      = "live_feed"
	SourceCrowdLive = "crowd+live"
)

const (
	// DefaultDecaySeconds is the crowd-report half-relevance window.
	DefaultDecaySeconds = 600

	// fallbackHeadwaySeconds is the assumed service headway when neither
	// crowd nor schedule data yields an estimate.
	fallbackHeadwaySeconds = 600

	// pastArrivalGraceSeconds keeps arrivals that just slipped past the
	// clock as live candidates; buses marked up to 2 minutes gone may
	// still be approaching.
	pastArrivalGraceSeconds = 120
)

// ErrStopNotFound is returned for estimates against unknown stops.
var ErrStopNotFound = errors.New("stop not found")

// Schedule is the slice of the static index the estimator reads.
type Schedule interface {
	StopByID(id string) (gtfs.Stop, bool)
	TripByID(id string) (gtfs.Trip, bool)
	StopTimesForStop(stopID string) []gtfs.StopTime
}

// Delays yields the current realtime delay snapshot.
type Delays interface {
	DelaySnapshot() *gtfs.DelaySnapshot
}

// ReportSource is the slice of the report store the estimator reads.
type ReportSource interface {
	Recent(ctx context.Context, stopID, lineID string, since time.Time) ([]reports.Report, error)
}

// Service fuses crowd reports, live delays, and the static schedule
// into a single arrival estimate per stop (optionally per line).
type Service struct {
	schedule     Schedule
	delays       Delays
	reports      ReportSource
	clock        clock.Clock
	decaySeconds int
}

// NewService builds an estimator. decaySeconds <= 0 selects the default.
func NewService(schedule Schedule, delays Delays, reportSource ReportSource, clk clock.Clock, decaySeconds int) *Service {
	if decaySeconds <= 0 {
		decaySeconds = DefaultDecaySeconds
	}
	return &Service{
		schedule:     schedule,
		delays:       delays,
		reports:      reportSource,
		clock:        clk,
		decaySeconds: decaySeconds,
	}
}

// Details carries the per-source evidence behind an estimate.
type Details struct {
	CrowdCount     int  `json:"crowd_count"`
	CrowdETA       *int `json:"crowd_eta,omitempty"`
	LiveETA        *int `json:"live_eta,omitempty"`
	AssumedHeadway *int `json:"assumed_headway,omitempty"`
}

// Estimate is the fused arrival prediction for a stop.
type Estimate struct {
	StopID     string  `json:"stop_id"`
	LineID     string  `json:"line_id,omitempty"`
	ETASeconds int     `json:"eta_seconds"`
	Source     string  `json:"source"`
	Details    Details `json:"details"`
}

// Arrival is one upcoming (or just-missed) scheduled call at a stop,
// with realtime delay applied.
type Arrival struct {
	TripID     string
	RouteID    string
	DelaySec   int
	ETASeconds int
}

// NextArrivals returns the stop's upcoming arrivals ordered soonest
// first, delay-adjusted, filtered to lineID when non-empty. Arrivals
// more than the grace window in the past are dropped.
func (s *Service) NextArrivals(stopID, lineID string, limit int) []Arrival {
	now := s.clock.Now()
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	snapshot := s.delays.DelaySnapshot()

	var rows []Arrival
	for _, st := range s.schedule.StopTimesForStop(stopID) {
		trip, ok := s.schedule.TripByID(st.TripID)
		if !ok {
			continue
		}
		if lineID != "" && trip.RouteID != lineID {
			continue
		}
		delay := snapshot.Delay(st.TripID, stopID)
		eta := st.ArrivalSec + delay - nowSec
		if eta > -pastArrivalGraceSeconds {
			rows = append(rows, Arrival{
				TripID:     st.TripID,
				RouteID:    trip.RouteID,
				DelaySec:   delay,
				ETASeconds: eta,
			})
		}
	}

	// stop_times_by_stop is ordered by scheduled arrival; delays can
	// reorder, so sort on the adjusted value.
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].ETASeconds < rows[j-1].ETASeconds; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Estimate fuses the three sources for the stop. Sources combine as:
// crowd only, live only, both (0.4/0.6 weighted), or a headway
// assumption when neither is available.
func (s *Service) Estimate(ctx context.Context, stopID, lineID string) (Estimate, error) {
	if _, ok := s.schedule.StopByID(stopID); !ok {
		return Estimate{}, fmt.Errorf("stop %q: %w", stopID, ErrStopNotFound)
	}

	now := s.clock.Now()
	cutoff := now.Add(-time.Duration(2*s.decaySeconds) * time.Second)
	recent, err := s.reports.Recent(ctx, stopID, lineID, cutoff)
	if err != nil {
		return Estimate{}, fmt.Errorf("querying crowd reports for stop %q: %w", stopID, err)
	}

	obs := make([]Observation, 0, len(recent))
	for _, r := range recent {
		obs = append(obs, Observation{
			ArrivalSeconds: r.ArrivalSeconds,
			AgeSeconds:     now.Sub(r.Timestamp).Seconds(),
		})
	}
	crowdETA, haveCrowd := WeightedMean(obs, s.decaySeconds)

	var liveETA int
	haveLive := false
	if cand := s.NextArrivals(stopID, lineID, 1); len(cand) > 0 {
		liveETA = cand[0].ETASeconds
		if liveETA < 0 {
			liveETA = 0
		}
		haveLive = true
	}

	est := Estimate{
		StopID:  stopID,
		LineID:  lineID,
		Details: Details{CrowdCount: len(obs)},
	}

	switch {
	case haveCrowd && haveLive:
		est.Source = SourceCrowdLive
		est.ETASeconds = FuseCrowdLive(crowdETA, liveETA)
		est.Details.CrowdETA = &crowdETA
		est.Details.LiveETA = &liveETA
	case haveCrowd:
		est.Source = SourceCrowd
		est.ETASeconds = crowdETA
		est.Details.CrowdETA = &crowdETA
	case haveLive:
		est.Source = SourceLive
		est.ETASeconds = liveETA
		est.Details.LiveETA = &liveETA
	default:
		est.Source = SourceSchedule
		headway := fallbackHeadwaySeconds
		epoch := int(now.Unix())
		est.ETASeconds = (epoch/headway+1)*headway - epoch
		est.Details.AssumedHeadway = &headway
	}

	if est.ETASeconds < 0 {
		est.ETASeconds = 0
	}
	return est, nil
}
