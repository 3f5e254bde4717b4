package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(47.65, -122.31, 47.65, -122.31))
}

func TestDistanceShortRange(t *testing.T) {
	// Roughly 1.3km between these two points in Seattle's U District.
	d := Distance(47.65, -122.31, 47.66, -122.30)
	assert.InDelta(t, 1340, d, 40)
}

func TestDistanceSymmetric(t *testing.T) {
	d1 := Distance(47.65, -122.31, 47.66, -122.30)
	d2 := Distance(47.66, -122.30, 47.65, -122.31)
	assert.InDelta(t, d1, d2, 0.001)
}

func TestWalkSeconds(t *testing.T) {
	// 5 km/h is 1.3888... m/s; 800m should take ~576s.
	assert.Equal(t, 576, WalkSeconds(800))
	assert.Equal(t, 0, WalkSeconds(0))
	assert.Equal(t, 0, WalkSeconds(-10))
}

func TestCalculateBoundsContainsCenter(t *testing.T) {
	b := CalculateBounds(47.65, -122.31, 500)
	assert.Less(t, b.MinLat, 47.65)
	assert.Greater(t, b.MaxLat, 47.65)
	assert.Less(t, b.MinLon, -122.31)
	assert.Greater(t, b.MaxLon, -122.31)
}
