package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveActivity("FOLLOWED")
	m.ObserveActivity("FOLLOWED")
	m.ObserveRelay(true)
	m.ObserveRelay(false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ActivitiesRecorded.WithLabelValues("FOLLOWED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxRelayed.WithLabelValues("sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxRelayed.WithLabelValues("failed")))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveActivity("X")
		m.ObserveRelay(true)
	})
}

func TestIndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
