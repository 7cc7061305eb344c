package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := NewRegistry()
	r, err := NewRecorder("test", reg)
	require.NoError(t, err)

	r.ObserveReconstruction(OutcomeRecovered, time.Millisecond, 1)
	r.ObserveReconstruction(OutcomeRecovered, time.Millisecond, 3)
	r.ObserveReconstruction(OutcomeNoPolynomial, time.Millisecond, 0)
	r.ObserveCacheLookup(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.reconstructions.WithLabelValues(OutcomeRecovered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reconstructions.WithLabelValues(OutcomeNoPolynomial)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var sampleCount uint64
	for _, mf := range families {
		if mf.GetName() == "test_reconstruction_candidates" {
			sampleCount = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(2), sampleCount)

	_, err = NewRecorder("test", reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveReconstruction(OutcomeError, time.Second, 5)
		r.ObserveCacheLookup(false)
	})
}
