package unrolled

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("it should track segments and elements", func(t *testing.T) {
		// GIVEN
		metrics := NewMetrics(prometheus.NewRegistry())
		list := newTestList[int](t, 2, WithMetrics(metrics))

		// WHEN
		appendAll(t, list, 1, 2, 3, 4, 5)
		_, _ = list.Remove(4)
		_, _ = list.Get(0)
		_, _ = list.Get(10)
		_, _ = list.Remove(10)

		// THEN
		assert.Equal(t, 3.0, testutil.ToFloat64(metrics.segmentsAllocated))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.segmentsReleased))
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.liveSegments))
		assert.Equal(t, 4.0, testutil.ToFloat64(metrics.elements))
		assert.Equal(t, 5.0, testutil.ToFloat64(metrics.operations.WithLabelValues(opAppend)))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues(opRemove)))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues(opGet)))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.misses.WithLabelValues(opGet)))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.misses.WithLabelValues(opRemove)))
	})

	t.Run("it should release everything on destroy", func(t *testing.T) {
		// GIVEN
		metrics := NewMetrics(prometheus.NewRegistry())
		list := newTestList[int](t, 2, WithMetrics(metrics))
		appendAll(t, list, 1, 2, 3)

		// WHEN
		list.Destroy()

		// THEN
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.segmentsReleased))
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.liveSegments))
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.elements))
	})

	t.Run("it should register collectors on the registerer", func(t *testing.T) {
		// GIVEN
		reg := prometheus.NewRegistry()
		metrics := NewMetrics(reg)
		list := newTestList[int](t, 2, WithMetrics(metrics))
		appendAll(t, list, 1)

		// WHEN
		families, err := reg.Gather()

		// THEN
		require.NoError(t, err)
		names := make([]string, 0, len(families))
		for _, family := range families {
			names = append(names, family.GetName())
		}
		assert.Contains(t, names, "unrolled_segments_allocated_total")
		assert.Contains(t, names, "unrolled_elements")
	})

	t.Run("it should be optional", func(t *testing.T) {
		// GIVEN
		var metrics *Metrics

		// WHEN & THEN
		assert.NotPanics(t, func() {
			metrics.segmentAllocated()
			metrics.segmentReleased(1)
			metrics.served(opAppend, 1)
			metrics.missed(opGet)
		})
	})
}
