package planner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"waypoint.uwtransit.org/internal/clock"
	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/safety"
	"waypoint.uwtransit.org/internal/utils"
	"waypoint.uwtransit.org/internal/walk"
)

const (
	// DefaultMaxWalkMeters is roughly a ten-minute walk.
	DefaultMaxWalkMeters = 800

	// DefaultWalkOnlyMaxMeters bounds the walk-only fallback when the
	// caller gives no cap.
	DefaultWalkOnlyMaxMeters = 2000

	minWalkMeters = 100

	// departureSlackSeconds allows boarding a trip that left slightly
	// before the requested departure.
	departureSlackSeconds = 90

	// transferBufferSeconds is the minimum connection time at an
	// interchange.
	transferBufferSeconds = 120

	nearestStopsPerEndpoint = 6
	directTripsPerPair      = 2
	maxItineraries          = 5

	// directSparseThreshold triggers the one-transfer search when the
	// direct search finds fewer results.
	directSparseThreshold = 3
)

// Failure sentinels surfaced to the adapter layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// TransitSource is the slice of the GTFS manager the planner reads.
type TransitSource interface {
	Index() *gtfs.Index
	NearestStops(lat, lon, maxMeters float64, limit int) []gtfs.StopDistance
	DelaySnapshot() *gtfs.DelaySnapshot
	RealtimeEnabled() bool
}

// Service plans walk+transit itineraries.
type Service struct {
	transit TransitSource
	walker  walk.Provider
	overlay *safety.Overlay
	clock   clock.Clock
}

// NewService builds a planner. walker may be nil (walking legs fall
// back to straight-line estimates); overlay must be non-nil.
func NewService(transit TransitSource, walker walk.Provider, overlay *safety.Overlay, clk clock.Clock) *Service {
	return &Service{
		transit: transit,
		walker:  walker,
		overlay: overlay,
		clock:   clk,
	}
}

func validCoord(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func (s *Service) validate(req *Request) error {
	if !validCoord(req.FromLat, req.FromLng) || !validCoord(req.ToLat, req.ToLng) {
		return fmt.Errorf("malformed coordinates: %w", ErrInvalidInput)
	}
	if req.MaxTransfers < 0 || req.MaxTransfers > 1 {
		return fmt.Errorf("max_transfers must be 0 or 1: %w", ErrInvalidInput)
	}
	if req.WalkAlternatives < 0 || req.WalkAlternatives > 5 {
		return fmt.Errorf("walk_alternatives must be in [0, 5]: %w", ErrInvalidInput)
	}
	if req.MaxWalkMeters == 0 {
		req.MaxWalkMeters = DefaultMaxWalkMeters
	}
	if req.MaxWalkMeters < minWalkMeters {
		return fmt.Errorf("max_walk_m must be at least %d: %w", minWalkMeters, ErrInvalidInput)
	}
	if req.RejectWalkBelow != nil && (*req.RejectWalkBelow < 0 || *req.RejectWalkBelow > 1) {
		return fmt.Errorf("reject_walk_below must be in [0, 1]: %w", ErrInvalidInput)
	}
	switch req.Safety {
	case "", SafetyOff:
		req.Safety = SafetyOff
	case SafetyPrefer, SafetyStrict:
	default:
		return fmt.Errorf("safety must be off, prefer, or strict: %w", ErrInvalidInput)
	}
	if req.AllowWalkOnly && req.WalkOnlyMaxMeters <= 0 {
		req.WalkOnlyMaxMeters = DefaultWalkOnlyMaxMeters
	}
	return nil
}

// Plan runs the full search: direct itineraries, one-transfer fill-in,
// walk enhancement and safety treatment, then the walk-only fallback.
func (s *Service) Plan(ctx context.Context, req Request) ([]Itinerary, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	departAfter := req.DepartAfterSec
	if departAfter < 0 {
		now := s.clock.Now()
		departAfter = now.Hour()*3600 + now.Minute()*60 + now.Second()
	}

	var snapshot *gtfs.DelaySnapshot
	if req.UseRealtime && s.transit.RealtimeEnabled() {
		snapshot = s.transit.DelaySnapshot()
	}

	itineraries := s.planDirect(req, departAfter, snapshot)
	if req.MaxTransfers >= 1 && len(itineraries) < directSparseThreshold {
		itineraries = append(itineraries, s.planOneTransfer(req, departAfter, snapshot)...)
	}

	if req.EnhanceWalk {
		s.enhanceWalkLegs(ctx, itineraries, req)
	}
	s.annotateWalkLegs(itineraries, req)

	itineraries, rejected := s.rejectUnsafe(itineraries, req)

	if len(itineraries) == 0 && req.AllowWalkOnly {
		walkOnly, ok := s.walkOnlyItinerary(ctx, req, departAfter)
		if ok {
			itineraries = []Itinerary{walkOnly}
			itineraries, rejected = s.rejectUnsafe(itineraries, req)
		}
	}

	if len(itineraries) == 0 {
		if rejected {
			threshold := s.rejectThreshold(req)
			return nil, fmt.Errorf("no itinerary meets walk safety threshold %.2f: %w", threshold, ErrNotFound)
		}
		return nil, fmt.Errorf("no itinerary found within walking radius and schedule window: %w", ErrNotFound)
	}

	s.sortItineraries(itineraries, req.Safety)
	return itineraries, nil
}

// buildWalkLeg estimates a straight-line walk at 5 km/h.
func buildWalkLeg(nameA string, latA, lngA float64, nameB string, latB, lngB float64) Leg {
	meters := utils.Distance(latA, lngA, latB, lngB)
	return Leg{
		Mode:        ModeWalk,
		FromName:    nameA,
		ToName:      nameB,
		FromLat:     latA,
		FromLng:     lngA,
		ToLat:       latB,
		ToLng:       lngB,
		DurationSec: utils.WalkSeconds(meters),
	}
}
