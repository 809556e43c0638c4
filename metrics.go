package unrolled

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the prometheus collectors updated by the lists using it.
// A single Metrics can be shared by several lists, values are then aggregated.
type Metrics struct {
	segmentsAllocated prometheus.Counter
	segmentsReleased  prometheus.Counter
	liveSegments      prometheus.Gauge
	elements          prometheus.Gauge
	operations        *prometheus.CounterVec
	misses            *prometheus.CounterVec
}

// NewMetrics registers the list collectors on the given registerer.
// A nil registerer creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		segmentsAllocated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "unrolled_segments_allocated_total",
			Help: "number of segments allocated, including head segments",
		}),
		segmentsReleased: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "unrolled_segments_released_total",
			Help: "number of segments released by removals or destroy",
		}),
		liveSegments: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "unrolled_segments",
			Help: "number of segments currently linked",
		}),
		elements: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "unrolled_elements",
			Help: "number of elements currently stored",
		}),
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "unrolled_operations_total",
			Help: "number of operations served, by operation",
		}, []string{"op"}),
		misses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "unrolled_index_misses_total",
			Help: "number of get/remove calls with an index out of range, by operation",
		}, []string{"op"}),
	}
}

func (m *Metrics) segmentAllocated() {
	if m == nil {
		return
	}
	m.segmentsAllocated.Inc()
	m.liveSegments.Inc()
}

func (m *Metrics) segmentReleased(n int) {
	if m == nil || n == 0 {
		return
	}
	m.segmentsReleased.Add(float64(n))
	m.liveSegments.Sub(float64(n))
}

func (m *Metrics) served(op string, delta int) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
	if delta != 0 {
		m.elements.Add(float64(delta))
	}
}

func (m *Metrics) missed(op string) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(op).Inc()
}
