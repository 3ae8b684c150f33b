// Package metrics exposes Prometheus counters and histograms for the
// server's request handling, reply cache, monitor registry, and loss
// simulator, following the teacher's nil-receiver-is-a-no-op convention.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Server tracks Prometheus metrics for one server process. Methods handle
// a nil receiver gracefully, so a nil *Server acts as a no-op.
type Server struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
	DroppedTotal    prometheus.Counter
	CacheSize       prometheus.Gauge
	SubscriberCount prometheus.Gauge
	ExpiredPruned   prometheus.Counter
}

var (
	once     sync.Once
	instance *Server
)

// New creates and registers the server's Prometheus metrics. Idempotent:
// repeat calls return the same instance.
func New(registerer prometheus.Registerer) *Server {
	once.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}

		m := &Server{
			RequestsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "facilityresv_requests_total",
					Help: "Total requests handled, by opcode",
				},
				[]string{"opcode"},
			),
			RequestDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "facilityresv_request_duration_seconds",
					Help:    "Request handling duration in seconds, by opcode",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"opcode"},
			),
			ErrorsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "facilityresv_errors_total",
					Help: "Total error replies, by opcode",
				},
				[]string{"opcode"},
			),
			DroppedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "facilityresv_datagrams_dropped_total",
					Help: "Total outbound datagrams dropped by the loss simulator",
				},
			),
			CacheSize: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "facilityresv_reply_cache_size",
					Help: "Current number of entries in the AMO reply cache",
				},
			),
			SubscriberCount: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "facilityresv_monitor_subscribers",
					Help: "Current number of live monitor subscriptions",
				},
			),
			ExpiredPruned: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "facilityresv_monitor_expired_total",
					Help: "Total monitor subscriptions reaped for expiry",
				},
			),
		}

		registerer.MustRegister(
			m.RequestsTotal,
			m.RequestDuration,
			m.ErrorsTotal,
			m.DroppedTotal,
			m.CacheSize,
			m.SubscriberCount,
			m.ExpiredPruned,
		)

		instance = m
	})
	return instance
}

// RecordRequest records one handled request and its outcome.
func (m *Server) RecordRequest(opcode string, duration time.Duration, isError bool) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(opcode).Inc()
	m.RequestDuration.WithLabelValues(opcode).Observe(duration.Seconds())
	if isError {
		m.ErrorsTotal.WithLabelValues(opcode).Inc()
	}
}

// RecordDrop records one datagram dropped by the loss simulator.
func (m *Server) RecordDrop() {
	if m == nil {
		return
	}
	m.DroppedTotal.Inc()
}

// SetCacheSize reports the reply cache's current entry count.
func (m *Server) SetCacheSize(n int) {
	if m == nil {
		return
	}
	m.CacheSize.Set(float64(n))
}

// SetSubscriberCount reports the monitor registry's live subscriber count.
func (m *Server) SetSubscriberCount(n int) {
	if m == nil {
		return
	}
	m.SubscriberCount.Set(float64(n))
}

// RecordPruned records subscriptions removed by an expiry sweep.
func (m *Server) RecordPruned(n int) {
	if m == nil || n == 0 {
		return
	}
	m.ExpiredPruned.Add(float64(n))
}
