package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"08:30:00", 30600},
		{"23:59:59", 86399},
		{"25:10:00", 90600},
		{"99:59:59", 359999},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseTimeRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "08:30", "8:30:00:00", "ab:00:00", "08:60:00", "08:00:61", "-1:00:00"} {
		_, err := ParseTime(in)
		assert.Error(t, err, in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "08:30", FormatClock(30600))
	assert.Equal(t, "25:10", FormatClock(90600))
	assert.Equal(t, "00:00", FormatClock(-45))
}
