package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"SentinelFeed/internal/domain/models"
)

var modes = []models.ConnectionMode{models.ModeConnecting, models.ModeLive, models.ModeSimulated}

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	mode       *prometheus.GaugeVec
	probes     *prometheus.CounterVec
	alerts     *prometheus.CounterVec
	fetches    *prometheus.CounterVec
	fetchTime  *prometheus.HistogramVec
	bufferSize prometheus.Gauge
	sinkWrites *prometheus.CounterVec
	errors     *prometheus.CounterVec
}

var defaultRecorder = sync.OnceValue(func() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
})

// New returns the recorder registered on the default Prometheus registry.
// The default registry is process-wide, so every call shares one recorder.
func New() *Recorder {
	return defaultRecorder()
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		mode: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentinel_feed_mode",
				Help: "1 for the feed's current connection mode, 0 otherwise",
			},
			[]string{"mode"},
		),
		probes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_feed_probes_total",
				Help: "Connectivity probes by result",
			},
			[]string{"result"},
		),
		alerts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_feed_alerts_total",
				Help: "Alerts entering the feed buffer",
			},
			[]string{"source", "product"},
		),
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_feed_fetches_total",
				Help: "Backend fetches by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		fetchTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentinel_feed_fetch_duration_seconds",
				Help:    "Backend fetch latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		bufferSize: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinel_feed_buffer_size",
				Help: "Alerts currently held in the feed buffer",
			},
		),
		sinkWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_feed_sink_writes_total",
				Help: "Feed events handed to sinks by result",
			},
			[]string{"sink", "result"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_feed_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordMode flips the mode gauge to m.
func (r *Recorder) RecordMode(m models.ConnectionMode) {
	for _, x := range modes {
		v := 0.0
		if x == m {
			v = 1
		}
		r.mode.WithLabelValues(string(x)).Set(v)
	}
}

func (r *Recorder) RecordProbe(result string) {
	r.probes.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordAlert(source string, product models.Product) {
	r.alerts.WithLabelValues(source, string(product)).Inc()
}

// RecordFetch records a backend call and its latency in seconds.
func (r *Recorder) RecordFetch(endpoint string, err error, seconds float64) {
	r.fetches.WithLabelValues(endpoint, result(err)).Inc()
	r.fetchTime.WithLabelValues(endpoint).Observe(seconds)
}

func (r *Recorder) RecordBufferSize(n int) {
	r.bufferSize.Set(float64(n))
}

func (r *Recorder) RecordSink(sink string, err error) {
	r.sinkWrites.WithLabelValues(sink, result(err)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordMode(models.ConnectionMode)   {}
func (Nop) RecordProbe(string)                 {}
func (Nop) RecordAlert(string, models.Product) {}
func (Nop) RecordFetch(string, error, float64) {}
func (Nop) RecordBufferSize(int)               {}
func (Nop) RecordSink(string, error)           {}
func (Nop) RecordError(string)                 {}
