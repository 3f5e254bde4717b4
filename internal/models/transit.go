package models

// Stop is the rider-facing view of a boarding location.
type Stop struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Route is the rider-facing view of a transit line.
type Route struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name,omitempty"`
	LongName  string `json:"long_name,omitempty"`
	Name      string `json:"name"`
	Type      int    `json:"type"`
}

// ReportRequest is the POST /report payload.
type ReportRequest struct {
	StopID         string   `json:"stop_id"`
	LineID         string   `json:"line_id"`
	ArrivalSeconds int      `json:"arrival_seconds"`
	Mode           string   `json:"mode,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
}

// ReportCreated acknowledges a stored crowd report.
type ReportCreated struct {
	ID string `json:"id"`
}

// Health summarizes what the service has loaded.
type Health struct {
	GtfsLoadedStops  int  `json:"gtfs_loaded_stops"`
	GtfsLoadedRoutes int  `json:"gtfs_loaded_routes"`
	GtfsLoadedTrips  int  `json:"gtfs_loaded_trips"`
	Realtime         bool `json:"realtime"`
}
