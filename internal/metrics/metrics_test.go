package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Reseeded("corrupt")
	m.Reseeded("corrupt")
	m.Reseeded("empty")
	m.Saved()
	m.SaveFailed()
	m.Denied("requests.update_status")
	m.Redirected("/accounts", "/login")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reseeds.WithLabelValues("corrupt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reseeds.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saves))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saveFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.denied.WithLabelValues("requests.update_status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.redirects.WithLabelValues("/accounts", "/login")))
}

func TestMetrics_Lines(t *testing.T) {
	m := New()
	m.Reseeded("corrupt")
	m.Saved()
	m.Saved()

	lines, err := m.Lines()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"portal_store_reseeds_total{reason=corrupt} 1",
		"portal_store_saves_total 2",
	}, lines)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Reseeded("x")
	m.Saved()
	m.SaveFailed()
	m.Denied("x")
	m.Redirected("a", "b")

	lines, err := m.Lines()
	require.NoError(t, err)
	assert.Nil(t, lines)
}
