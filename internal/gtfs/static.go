package gtfs

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"
)

// CSV row shapes for the four required feed files. Only the columns the
// index needs are mapped; extra columns are ignored.

type stopCSV struct {
	StopID   string  `csv:"stop_id"`
	StopName string  `csv:"stop_name"`
	StopLat  float64 `csv:"stop_lat"`
	StopLon  float64 `csv:"stop_lon"`
}

type routeCSV struct {
	RouteID   string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	RouteType int    `csv:"route_type"`
}

type tripCSV struct {
	TripID    string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
	ShapeID   string `csv:"shape_id"`
}

type stopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	StopSequence  int    `csv:"stop_sequence"`
}

// readFeedFile opens the named file inside dir and streams its rows
// through cb. Any row error aborts the load.
func readFeedFile[T any](dir, name string, cb func(*T) error) error {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	row := -1
	err = gocsv.UnmarshalToCallbackWithError(bom.NewReader(f), func(rec *T) error {
		row++
		if err := cb(rec); err != nil {
			return fmt.Errorf("%s row %d: %w", name, row+1, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// LoadStaticIndex parses the four GTFS feed files in dir and builds the
// immutable in-memory index. Any malformed row aborts the load.
func LoadStaticIndex(dir string) (*Index, error) {
	idx := newIndex()

	err := readFeedFile(dir, "stops.txt", func(r *stopCSV) error {
		if r.StopID == "" {
			return fmt.Errorf("missing stop_id")
		}
		if !isFinite(r.StopLat) || !isFinite(r.StopLon) {
			return fmt.Errorf("non-finite coordinates for stop %q", r.StopID)
		}
		idx.addStop(Stop{ID: r.StopID, Name: r.StopName, Lat: r.StopLat, Lon: r.StopLon})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readFeedFile(dir, "routes.txt", func(r *routeCSV) error {
		if r.RouteID == "" {
			return fmt.Errorf("missing route_id")
		}
		idx.addRoute(Route{ID: r.RouteID, ShortName: r.ShortName, LongName: r.LongName, Type: r.RouteType})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readFeedFile(dir, "trips.txt", func(r *tripCSV) error {
		if r.TripID == "" {
			return fmt.Errorf("missing trip_id")
		}
		if _, ok := idx.routes[r.RouteID]; !ok {
			return fmt.Errorf("unknown route_id %q for trip %q", r.RouteID, r.TripID)
		}
		idx.addTrip(Trip{ID: r.TripID, RouteID: r.RouteID, ServiceID: r.ServiceID, ShapeID: r.ShapeID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readFeedFile(dir, "stop_times.txt", func(r *stopTimeCSV) error {
		if _, ok := idx.trips[r.TripID]; !ok {
			return fmt.Errorf("unknown trip_id %q", r.TripID)
		}
		if _, ok := idx.stops[r.StopID]; !ok {
			return fmt.Errorf("unknown stop_id %q", r.StopID)
		}
		arrival, err := ParseTime(r.ArrivalTime)
		if err != nil {
			return fmt.Errorf("parsing arrival_time: %w", err)
		}
		departure, err := ParseTime(r.DepartureTime)
		if err != nil {
			return fmt.Errorf("parsing departure_time: %w", err)
		}
		if arrival > departure {
			return fmt.Errorf("arrival after departure for trip %q stop %q", r.TripID, r.StopID)
		}
		idx.addStopTime(StopTime{
			TripID:       r.TripID,
			StopID:       r.StopID,
			ArrivalSec:   arrival,
			DepartureSec: departure,
			Seq:          r.StopSequence,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := idx.finalize(); err != nil {
		return nil, err
	}

	return idx, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
