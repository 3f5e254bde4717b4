package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	m := New()
	require.NotNil(t, m.Registry)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/eta", "200").Inc()
	m.RealtimePollsTotal.WithLabelValues("success").Inc()
	m.RealtimeDelaysKnown.Set(12)
	m.ReportsAppendedTotal.Inc()
	m.PlansTotal.WithLabelValues("ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/eta", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RealtimePollsTotal.WithLabelValues("success")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.RealtimeDelaysKnown))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsAppendedTotal))
}

func TestObserveHTTPRequest(t *testing.T) {
	m := New()

	m.ObserveHTTPRequest("GET", "/plan", 404, 25*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/plan", 404, 40*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/plan", "404")))
}

func TestNewUsesIsolatedRegistry(t *testing.T) {
	m1 := New()
	m2 := New()
	assert.NotSame(t, m1.Registry, m2.Registry)
}
