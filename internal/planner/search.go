package planner

import (
	"fmt"
	"sort"

	"waypoint.uwtransit.org/internal/gtfs"
)

// directTrip is a candidate ride on one trip between two stops, with
// realtime delays already applied.
type directTrip struct {
	tripID  string
	routeID string
	dep     int
	arr     int
}

func delayFor(snapshot *gtfs.DelaySnapshot, tripID, stopID string) int {
	if snapshot == nil {
		return 0
	}
	return snapshot.Delay(tripID, stopID)
}

// findDirectTrips returns rides where one trip serves oStop before
// dStop, departing no earlier than departAfter minus the boarding
// slack, soonest arrival first.
func (s *Service) findDirectTrips(oStop, dStop string, departAfterSec int, snapshot *gtfs.DelaySnapshot) []directTrip {
	idx := s.transit.Index()

	var candidates []directTrip
	for routeID := range idx.RouteSetForStop(oStop) {
		if _, shared := idx.RouteSetForStop(dStop)[routeID]; !shared {
			continue
		}
		for _, tripID := range idx.TripsForRoute(routeID) {
			calls := idx.StopTimesForTrip(tripID)
			var oRow, dRow *gtfs.StopTime
			for i := range calls {
				switch calls[i].StopID {
				case oStop:
					if oRow == nil {
						oRow = &calls[i]
					}
				case dStop:
					if dRow == nil {
						dRow = &calls[i]
					}
				}
			}
			if oRow == nil || dRow == nil || oRow.Seq >= dRow.Seq {
				continue
			}

			dep := oRow.DepartureSec + delayFor(snapshot, tripID, oStop)
			arr := dRow.ArrivalSec + delayFor(snapshot, tripID, dStop)
			if dep >= departAfterSec-departureSlackSeconds {
				candidates = append(candidates, directTrip{
					tripID:  tripID,
					routeID: routeID,
					dep:     dep,
					arr:     arr,
				})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].arr < candidates[j].arr })
	return candidates
}

func (s *Service) buildTransitLeg(oStopID, dStopID string, t directTrip) Leg {
	idx := s.transit.Index()
	route, _ := idx.RouteByID(t.routeID)
	oStop, _ := idx.StopByID(oStopID)
	dStop, _ := idx.StopByID(dStopID)
	name := route.Name()

	return Leg{
		Mode:        ModeTransit,
		FromName:    fmt.Sprintf("%s (%s)", oStop.Name, name),
		ToName:      fmt.Sprintf("%s (%s)", dStop.Name, name),
		FromLat:     oStop.Lat,
		FromLng:     oStop.Lon,
		ToLat:       dStop.Lat,
		ToLng:       dStop.Lon,
		Route:       name,
		TripID:      t.tripID,
		DepTime:     gtfs.FormatClock(t.dep),
		ArrTime:     gtfs.FormatClock(t.arr),
		DurationSec: maxOf(0, t.arr-t.dep),
	}
}

// planDirect enumerates no-transfer itineraries over the nearest stop
// pairs and keeps the fastest distinct five.
func (s *Service) planDirect(req Request, departAfter int, snapshot *gtfs.DelaySnapshot) []Itinerary {
	idx := s.transit.Index()

	nearOrigin := s.transit.NearestStops(req.FromLat, req.FromLng, req.MaxWalkMeters, nearestStopsPerEndpoint)
	nearDest := s.transit.NearestStops(req.ToLat, req.ToLng, req.MaxWalkMeters, nearestStopsPerEndpoint)
	if len(nearOrigin) == 0 || len(nearDest) == 0 {
		return nil
	}

	var out []Itinerary
	for _, o := range nearOrigin {
		for _, d := range nearDest {
			trips := s.findDirectTrips(o.Stop.ID, d.Stop.ID, departAfter, snapshot)
			if len(trips) > directTripsPerPair {
				trips = trips[:directTripsPerPair]
			}
			for _, t := range trips {
				oStop, _ := idx.StopByID(o.Stop.ID)
				dStop, _ := idx.StopByID(d.Stop.ID)

				walk1 := buildWalkLeg("Origin", req.FromLat, req.FromLng, oStop.Name, oStop.Lat, oStop.Lon)
				ride := s.buildTransitLeg(o.Stop.ID, d.Stop.ID, t)
				walk2 := buildWalkLeg(dStop.Name, dStop.Lat, dStop.Lon, "Destination", req.ToLat, req.ToLng)

				out = append(out, Itinerary{
					DurationSec: walk1.DurationSec + (t.arr - t.dep) + walk2.DurationSec,
					DepartTime:  gtfs.FormatClock(maxOf(departAfter, t.dep-walk1.DurationSec)),
					ArriveTime:  gtfs.FormatClock(t.arr + walk2.DurationSec),
					Transfers:   0,
					Legs:        []Leg{walk1, ride, walk2},
					Notes:       "Direct route",
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DurationSec < out[j].DurationSec })

	type directKey struct {
		route string
		dep   string
		arr   string
	}
	seen := make(map[directKey]struct{})
	uniq := out[:0]
	for _, it := range out {
		key := directKey{route: it.Legs[1].Route, dep: it.DepartTime, arr: it.ArriveTime}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, it)
		if len(uniq) == maxItineraries {
			break
		}
	}
	return uniq
}

// planOneTransfer enumerates origin stop × interchange × destination
// stop rides with a two-minute connection buffer.
func (s *Service) planOneTransfer(req Request, departAfter int, snapshot *gtfs.DelaySnapshot) []Itinerary {
	idx := s.transit.Index()

	nearOrigin := s.transit.NearestStops(req.FromLat, req.FromLng, req.MaxWalkMeters, nearestStopsPerEndpoint)
	nearDest := s.transit.NearestStops(req.ToLat, req.ToLng, req.MaxWalkMeters, nearestStopsPerEndpoint)
	if len(nearOrigin) == 0 || len(nearDest) == 0 {
		return nil
	}

	var out []Itinerary
	for _, o := range nearOrigin {
		for _, xStopID := range idx.Interchanges() {
			if o.Stop.ID == xStopID {
				continue
			}
			firstLegs := s.findDirectTrips(o.Stop.ID, xStopID, departAfter, snapshot)
			if len(firstLegs) > directTripsPerPair {
				firstLegs = firstLegs[:directTripsPerPair]
			}
			for _, t1 := range firstLegs {
				transferReady := t1.arr + transferBufferSeconds
				for _, d := range nearDest {
					if d.Stop.ID == xStopID {
						continue
					}
					second := s.findDirectTrips(xStopID, d.Stop.ID, transferReady, snapshot)
					if len(second) == 0 {
						continue
					}
					t2 := second[0]

					oStop, _ := idx.StopByID(o.Stop.ID)
					xStop, _ := idx.StopByID(xStopID)
					dStop, _ := idx.StopByID(d.Stop.ID)

					walk1 := buildWalkLeg("Origin", req.FromLat, req.FromLng, oStop.Name, oStop.Lat, oStop.Lon)
					ride1 := s.buildTransitLeg(o.Stop.ID, xStopID, t1)
					ride2 := s.buildTransitLeg(xStopID, d.Stop.ID, t2)
					walk2 := buildWalkLeg(dStop.Name, dStop.Lat, dStop.Lon, "Destination", req.ToLat, req.ToLng)

					out = append(out, Itinerary{
						DurationSec: walk1.DurationSec + (t1.arr - t1.dep) + (t2.arr - t2.dep) + walk2.DurationSec,
						DepartTime:  gtfs.FormatClock(maxOf(departAfter, t1.dep-walk1.DurationSec)),
						ArriveTime:  gtfs.FormatClock(t2.arr + walk2.DurationSec),
						Transfers:   1,
						Legs:        []Leg{walk1, ride1, ride2, walk2},
						Notes:       fmt.Sprintf("Transfer at %s", xStop.Name),
					})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DurationSec < out[j].DurationSec })

	type transferKey struct {
		transfers int
		route1    string
		route2    string
		dep       string
	}
	seen := make(map[transferKey]struct{})
	uniq := out[:0]
	for _, it := range out {
		key := transferKey{
			transfers: it.Transfers,
			route1:    it.Legs[1].Route,
			route2:    it.Legs[2].Route,
			dep:       it.DepartTime,
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, it)
		if len(uniq) == maxItineraries {
			break
		}
	}
	return uniq
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
