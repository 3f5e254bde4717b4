package gtfs

import (
	"fmt"
	"sort"
)

// interchangeCount is how many high-connectivity stops the one-transfer
// planner considers as transfer candidates.
const interchangeCount = 100

// Index is the immutable in-memory view of a static GTFS feed. It is
// built once at load and never mutated afterwards, so readers need no
// locking.
type Index struct {
	stops  map[string]Stop
	routes map[string]Route
	trips  map[string]Trip

	stopTimesByTrip map[string][]StopTime // ordered by Seq
	stopTimesByStop map[string][]StopTime // ordered by ArrivalSec
	routesByStop    map[string]map[string]struct{}
	tripsByRoute    map[string][]string

	stopList     []Stop
	interchanges []string
}

func newIndex() *Index {
	return &Index{
		stops:           make(map[string]Stop),
		routes:          make(map[string]Route),
		trips:           make(map[string]Trip),
		stopTimesByTrip: make(map[string][]StopTime),
		stopTimesByStop: make(map[string][]StopTime),
		routesByStop:    make(map[string]map[string]struct{}),
		tripsByRoute:    make(map[string][]string),
	}
}

func (idx *Index) addStop(s Stop) {
	idx.stops[s.ID] = s
	idx.stopList = append(idx.stopList, s)
}

func (idx *Index) addRoute(r Route) {
	idx.routes[r.ID] = r
}

func (idx *Index) addTrip(t Trip) {
	idx.trips[t.ID] = t
	idx.tripsByRoute[t.RouteID] = append(idx.tripsByRoute[t.RouteID], t.ID)
}

func (idx *Index) addStopTime(st StopTime) {
	idx.stopTimesByTrip[st.TripID] = append(idx.stopTimesByTrip[st.TripID], st)
	idx.stopTimesByStop[st.StopID] = append(idx.stopTimesByStop[st.StopID], st)

	routeID := idx.trips[st.TripID].RouteID
	if idx.routesByStop[st.StopID] == nil {
		idx.routesByStop[st.StopID] = make(map[string]struct{})
	}
	idx.routesByStop[st.StopID][routeID] = struct{}{}
}

// finalize sorts the derived indexes, validates per-trip ordering, and
// precomputes the interchange candidates.
func (idx *Index) finalize() error {
	for tripID, lst := range idx.stopTimesByTrip {
		sort.Slice(lst, func(i, j int) bool { return lst[i].Seq < lst[j].Seq })
		for i := 1; i < len(lst); i++ {
			if lst[i].Seq <= lst[i-1].Seq {
				return fmt.Errorf("trip %q: duplicate stop_sequence %d", tripID, lst[i].Seq)
			}
			if lst[i].ArrivalSec < lst[i-1].ArrivalSec {
				return fmt.Errorf("trip %q: arrival time decreases at stop_sequence %d", tripID, lst[i].Seq)
			}
		}
	}

	for _, lst := range idx.stopTimesByStop {
		sort.Slice(lst, func(i, j int) bool { return lst[i].ArrivalSec < lst[j].ArrivalSec })
	}

	idx.interchanges = idx.computeInterchanges()
	return nil
}

// computeInterchanges returns the stops serving the most routes, ties
// broken by stop ID for determinism.
func (idx *Index) computeInterchanges() []string {
	ids := make([]string, 0, len(idx.stops))
	for id := range idx.stops {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := len(idx.routesByStop[ids[i]]), len(idx.routesByStop[ids[j]])
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > interchangeCount {
		ids = ids[:interchangeCount]
	}
	return ids
}

// StopByID returns the stop with the given ID.
func (idx *Index) StopByID(id string) (Stop, bool) {
	s, ok := idx.stops[id]
	return s, ok
}

// RouteByID returns the route with the given ID.
func (idx *Index) RouteByID(id string) (Route, bool) {
	r, ok := idx.routes[id]
	return r, ok
}

// TripByID returns the trip with the given ID.
func (idx *Index) TripByID(id string) (Trip, bool) {
	t, ok := idx.trips[id]
	return t, ok
}

// Stops returns all stops in feed order.
func (idx *Index) Stops() []Stop {
	return idx.stopList
}

// Routes returns all routes sorted by ID.
func (idx *Index) Routes() []Route {
	out := make([]Route, 0, len(idx.routes))
	for _, r := range idx.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// StopTimesForTrip returns the trip's calls ordered by stop_sequence.
func (idx *Index) StopTimesForTrip(tripID string) []StopTime {
	return idx.stopTimesByTrip[tripID]
}

// StopTimesForStop returns the stop's calls ordered by arrival time.
func (idx *Index) StopTimesForStop(stopID string) []StopTime {
	return idx.stopTimesByStop[stopID]
}

// RouteSetForStop returns the set of route IDs serving the stop. The
// returned map must not be mutated.
func (idx *Index) RouteSetForStop(stopID string) map[string]struct{} {
	return idx.routesByStop[stopID]
}

// TripsForRoute returns the trip IDs of the route in feed order.
func (idx *Index) TripsForRoute(routeID string) []string {
	return idx.tripsByRoute[routeID]
}

// Interchanges returns the precomputed transfer-candidate stop IDs,
// ordered by served-route count descending.
func (idx *Index) Interchanges() []string {
	return idx.interchanges
}

// Counts reports the index size for health reporting.
func (idx *Index) Counts() (stops, routes, trips int) {
	return len(idx.stops), len(idx.routes), len(idx.trips)
}
