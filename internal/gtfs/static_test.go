package gtfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedFiles map[string]string

func writeFeed(t *testing.T, files feedFiles) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func validFeed() feedFiles {
	return feedFiles{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,Campus North,12.9716,77.5946\n" +
			"S2,Campus South,12.9616,77.5946\n" +
			"S3,Market,12.9516,77.6046\n",
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"R1,10,Campus Loop,3\n" +
			"R2,,Market Express,3\n",
		"trips.txt": "route_id,service_id,trip_id\n" +
			"R1,WEEK,T1\n" +
			"R2,WEEK,T2\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,08:00:00,08:00:30,S1,1\n" +
			"T1,08:10:00,08:10:30,S2,2\n" +
			"T2,08:05:00,08:05:00,S2,1\n" +
			"T2,08:20:00,08:20:00,S3,2\n",
	}
}

func TestLoadStaticIndex(t *testing.T) {
	dir := writeFeed(t, validFeed())
	idx, err := LoadStaticIndex(dir)
	require.NoError(t, err)

	stops, routes, trips := idx.Counts()
	assert.Equal(t, 3, stops)
	assert.Equal(t, 2, routes)
	assert.Equal(t, 2, trips)

	stop, ok := idx.StopByID("S1")
	require.True(t, ok)
	assert.Equal(t, "Campus North", stop.Name)
	assert.InDelta(t, 12.9716, stop.Lat, 1e-9)

	calls := idx.StopTimesForTrip("T1")
	require.Len(t, calls, 2)
	assert.Equal(t, "S1", calls[0].StopID)
	assert.Equal(t, 8*3600, calls[0].ArrivalSec)
	assert.Equal(t, 8*3600+30, calls[0].DepartureSec)

	byStop := idx.StopTimesForStop("S2")
	require.Len(t, byStop, 2)
	assert.LessOrEqual(t, byStop[0].ArrivalSec, byStop[1].ArrivalSec)

	routeSet := idx.RouteSetForStop("S2")
	assert.Len(t, routeSet, 2)
	_, hasR1 := routeSet["R1"]
	assert.True(t, hasR1)
}

func TestLoadStaticIndexRouteNameFallback(t *testing.T) {
	dir := writeFeed(t, validFeed())
	idx, err := LoadStaticIndex(dir)
	require.NoError(t, err)

	r1, _ := idx.RouteByID("R1")
	assert.Equal(t, "10", r1.Name())
	r2, _ := idx.RouteByID("R2")
	assert.Equal(t, "Market Express", r2.Name())
}

func TestLoadStaticIndexHandlesBOM(t *testing.T) {
	files := validFeed()
	files["stops.txt"] = "\xEF\xBB\xBF" + files["stops.txt"]
	dir := writeFeed(t, files)

	idx, err := LoadStaticIndex(dir)
	require.NoError(t, err)
	_, ok := idx.StopByID("S1")
	assert.True(t, ok)
}

func TestLoadStaticIndexMissingFile(t *testing.T) {
	files := validFeed()
	delete(files, "stop_times.txt")
	dir := writeFeed(t, files)

	_, err := LoadStaticIndex(dir)
	assert.Error(t, err)
}

func TestLoadStaticIndexRejectsMalformedRows(t *testing.T) {
	cases := []struct {
		name string
		edit func(feedFiles)
	}{
		{"unknown trip route", func(f feedFiles) {
			f["trips.txt"] += "NOPE,WEEK,T9\n"
		}},
		{"unknown stop_time trip", func(f feedFiles) {
			f["stop_times.txt"] += "T9,09:00:00,09:00:00,S1,1\n"
		}},
		{"unknown stop_time stop", func(f feedFiles) {
			f["stop_times.txt"] += "T1,09:00:00,09:00:00,S9,3\n"
		}},
		{"bad arrival time", func(f feedFiles) {
			f["stop_times.txt"] += "T1,9am,09:00:00,S3,3\n"
		}},
		{"arrival after departure", func(f feedFiles) {
			f["stop_times.txt"] += "T1,09:05:00,09:00:00,S3,3\n"
		}},
		{"duplicate stop_sequence", func(f feedFiles) {
			f["stop_times.txt"] += "T1,09:00:00,09:00:00,S3,2\n"
		}},
		{"decreasing arrival", func(f feedFiles) {
			f["stop_times.txt"] += "T1,07:00:00,07:00:00,S3,3\n"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			files := validFeed()
			tc.edit(files)
			dir := writeFeed(t, files)
			_, err := LoadStaticIndex(dir)
			assert.Error(t, err)
		})
	}
}

func TestInterchangesOrderedByRouteCount(t *testing.T) {
	dir := writeFeed(t, validFeed())
	idx, err := LoadStaticIndex(dir)
	require.NoError(t, err)

	interchanges := idx.Interchanges()
	require.NotEmpty(t, interchanges)
	// S2 is served by both routes and must rank first.
	assert.Equal(t, "S2", interchanges[0])
}
