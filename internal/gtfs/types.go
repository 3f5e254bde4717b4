package gtfs

// Stop is a boarding location from stops.txt.
type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Route is a transit line from routes.txt.
type Route struct {
	ID        string
	ShortName string
	LongName  string
	Type      int
}

// Name returns the rider-facing route name: short name, falling back to
// the long name, falling back to the route ID.
func (r Route) Name() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	if r.LongName != "" {
		return r.LongName
	}
	return r.ID
}

// Trip is one scheduled run of a route from trips.txt.
type Trip struct {
	ID        string
	RouteID   string
	ServiceID string
	ShapeID   string
}

// StopTime is one row of stop_times.txt: a trip calling at a stop.
// Times are seconds since local midnight; values past 86400 denote
// next-day service.
type StopTime struct {
	TripID       string
	StopID       string
	ArrivalSec   int
	DepartureSec int
	Seq          int
}
