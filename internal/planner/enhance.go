package planner

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"waypoint.uwtransit.org/internal/gtfs"
	"waypoint.uwtransit.org/internal/utils"
	"waypoint.uwtransit.org/internal/walk"
)

// biasedDuration applies the safety penalty for the mode.
func biasedDuration(durationSec int, safetyScore float64, mode SafetyMode) int {
	k := mode.biasFactor()
	if k == 0 {
		return durationSec
	}
	return int(math.Round(float64(durationSec) * (1 + (1-safetyScore)*k)))
}

// enhanceWalkLegs asks the directions provider for candidate paths per
// WALK leg and picks the one with the lowest biased duration. Provider
// failures leave the straight-line leg untouched.
func (s *Service) enhanceWalkLegs(ctx context.Context, itineraries []Itinerary, req Request) {
	if s.walker == nil {
		return
	}

	for i := range itineraries {
		for j := range itineraries[i].Legs {
			leg := &itineraries[i].Legs[j]
			if leg.Mode != ModeWalk {
				continue
			}

			routes, err := s.walker.Directions(ctx, leg.FromLat, leg.FromLng, leg.ToLat, leg.ToLng, req.WalkAlternatives)
			if err != nil || len(routes) == 0 {
				if err != nil {
					slog.Default().Debug("walk directions unavailable, keeping straight-line leg",
						slog.String("error", err.Error()))
				}
				continue
			}

			type candidate struct {
				route  walk.Route
				safe   float64
				biased int
			}
			candidates := make([]candidate, 0, len(routes))
			for _, r := range routes {
				safe := s.overlay.ScoreRoute(&r, leg.FromLat, leg.FromLng, leg.ToLat, leg.ToLng)
				candidates = append(candidates, candidate{
					route:  r,
					safe:   safe,
					biased: biasedDuration(r.DurationSec, safe, req.Safety),
				})
			}
			best := 0
			for k := 1; k < len(candidates); k++ {
				if candidates[k].biased < candidates[best].biased {
					best = k
				}
			}

			chosen := candidates[best]
			leg.DurationSec = chosen.route.DurationSec
			leg.SafetyScore = &chosen.safe
			leg.Summary = chosen.route.Summary

			leg.AltOptions = leg.AltOptions[:0]
			for k, c := range candidates {
				if k == best || len(leg.AltOptions) == req.WalkAlternatives {
					continue
				}
				leg.AltOptions = append(leg.AltOptions, WalkOption{
					DurationSec: c.route.DurationSec,
					SafetyScore: c.safe,
					Summary:     c.route.Summary,
				})
			}
		}
	}
}

// annotateWalkLegs scores any WALK leg still missing a safety score
// and, in prefer/strict mode, replaces walk durations with their
// biased values so itinerary totals carry the penalty.
func (s *Service) annotateWalkLegs(itineraries []Itinerary, req Request) {
	for i := range itineraries {
		it := &itineraries[i]
		for j := range it.Legs {
			leg := &it.Legs[j]
			if leg.Mode != ModeWalk {
				continue
			}
			if leg.SafetyScore == nil {
				safe := s.overlay.ScoreRoute(nil, leg.FromLat, leg.FromLng, leg.ToLat, leg.ToLng)
				leg.SafetyScore = &safe
			}
			if req.Safety.active() {
				leg.DurationSec = biasedDuration(leg.DurationSec, *leg.SafetyScore, req.Safety)
			}
		}

		total := 0
		for _, leg := range it.Legs {
			total += leg.DurationSec
		}
		it.DurationSec = total
	}
}

func (s *Service) rejectThreshold(req Request) float64 {
	if req.RejectWalkBelow != nil {
		return *req.RejectWalkBelow
	}
	if req.Safety == SafetyStrict {
		return strictRejectDefault
	}
	return 0
}

// rejectUnsafe drops itineraries whose least safe WALK leg falls below
// the threshold. The second return reports whether anything was
// dropped.
func (s *Service) rejectUnsafe(itineraries []Itinerary, req Request) ([]Itinerary, bool) {
	threshold := s.rejectThreshold(req)
	if threshold <= 0 {
		return itineraries, false
	}

	kept := itineraries[:0]
	rejected := false
	for _, it := range itineraries {
		unsafe := false
		for _, leg := range it.Legs {
			if leg.Mode == ModeWalk && leg.SafetyScore != nil && *leg.SafetyScore < threshold {
				unsafe = true
				break
			}
		}
		if unsafe {
			rejected = true
			continue
		}
		kept = append(kept, it)
	}
	return kept, rejected
}

// walkOnlyItinerary builds a single-leg walking journey when the
// straight-line distance permits. Uses the directions provider when
// available, a 5 km/h straight-line estimate otherwise.
func (s *Service) walkOnlyItinerary(ctx context.Context, req Request, departAfter int) (Itinerary, bool) {
	meters := utils.Distance(req.FromLat, req.FromLng, req.ToLat, req.ToLng)
	if meters > req.WalkOnlyMaxMeters {
		return Itinerary{}, false
	}

	leg := buildWalkLeg("Origin", req.FromLat, req.FromLng, "Destination", req.ToLat, req.ToLng)

	if s.walker != nil {
		routes, err := s.walker.Directions(ctx, req.FromLat, req.FromLng, req.ToLat, req.ToLng, req.WalkAlternatives)
		if err == nil && len(routes) > 0 {
			best, bestBiased := -1, 0
			var bestSafe float64
			for k := range routes {
				safe := s.overlay.ScoreRoute(&routes[k], req.FromLat, req.FromLng, req.ToLat, req.ToLng)
				biased := biasedDuration(routes[k].DurationSec, safe, req.Safety)
				if best == -1 || biased < bestBiased {
					best, bestBiased, bestSafe = k, biased, safe
				}
			}
			leg.DurationSec = routes[best].DurationSec
			leg.Summary = routes[best].Summary
			leg.SafetyScore = &bestSafe
		}
	}

	if leg.SafetyScore == nil {
		safe := s.overlay.ScoreRoute(nil, req.FromLat, req.FromLng, req.ToLat, req.ToLng)
		leg.SafetyScore = &safe
	}
	if req.Safety.active() {
		leg.DurationSec = biasedDuration(leg.DurationSec, *leg.SafetyScore, req.Safety)
	}

	return Itinerary{
		DurationSec: leg.DurationSec,
		DepartTime:  gtfs.FormatClock(departAfter),
		ArriveTime:  gtfs.FormatClock(departAfter + leg.DurationSec),
		Transfers:   0,
		Legs:        []Leg{leg},
		Notes:       "Walking route",
	}, true
}

// averageWalkSafety is the mean safety across a journey's WALK legs,
// 1.0 when it has none.
func averageWalkSafety(it Itinerary) float64 {
	sum, n := 0.0, 0
	for _, leg := range it.Legs {
		if leg.Mode == ModeWalk && leg.SafetyScore != nil {
			sum += *leg.SafetyScore
			n++
		}
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}

func (s *Service) sortItineraries(itineraries []Itinerary, mode SafetyMode) {
	if mode.active() {
		sort.SliceStable(itineraries, func(i, j int) bool {
			if itineraries[i].DurationSec != itineraries[j].DurationSec {
				return itineraries[i].DurationSec < itineraries[j].DurationSec
			}
			return averageWalkSafety(itineraries[i]) > averageWalkSafety(itineraries[j])
		})
		return
	}
	sort.SliceStable(itineraries, func(i, j int) bool {
		return itineraries[i].DurationSec < itineraries[j].DurationSec
	})
}
