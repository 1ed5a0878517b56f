package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/solarsim/internal/sim"
)

// Metrics collects request and stream statistics on a private registry. It
// is a sim.Observer for streamed simulations.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	framesTotal     prometheus.Counter
	simTime         prometheus.Gauge
	streams         prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solarsim_request_duration_seconds",
				Help:    "Time spent processing API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarsim_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"route", "code"},
		),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solarsim_stream_frames_total",
			Help: "Frames stepped by streaming simulations",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solarsim_stream_sim_time_days",
			Help: "Simulation time of the most recently streamed frame",
		}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solarsim_streams_active",
			Help: "Open websocket streams",
		}),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.framesTotal,
		m.simTime,
		m.streams,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) OnFrame(f sim.Frame) {
	m.framesTotal.Inc()
	m.simTime.Set(f.Time)
}

func (m *Metrics) StreamOpened() { m.streams.Inc() }
func (m *Metrics) StreamClosed() { m.streams.Dec() }

func (m *Metrics) RecordRequest(route string, code int, d time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument records duration and status of h under route. It hides
// http.Hijacker, so websocket handlers are not wrapped.
func (m *Metrics) Instrument(route string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		m.RecordRequest(route, rec.status, time.Since(start))
	})
}
