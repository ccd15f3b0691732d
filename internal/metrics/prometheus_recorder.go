package metrics

import (
	"fmt"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "ws"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	packageDuration *prom.HistogramVec
	packageResults  *prom.CounterVec
	runDuration     prom.Histogram
	timeSaved       prom.Gauge
	runOutcome      *prom.CounterVec
	workers         prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.packageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "package_build_duration_seconds",
			Help:      "Duration of individual package builds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"package", "result"})
		pr.packageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "package_results_total",
			Help:      "Package build results by outcome",
		}, []string{"result"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a whole run",
			Buckets:   []float64{10, 30, 60, 300, 600, 1800, 3600},
		})
		pr.timeSaved = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_time_saved_seconds",
			Help:      "Sequential build time minus wall-clock time for the last run",
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Runs by final status",
		}, []string{"outcome"})
		pr.workers = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_workers",
			Help:      "Worker goroutines used by the last run",
		})
		reg.MustRegister(pr.packageDuration, pr.packageResults, pr.runDuration, pr.timeSaved, pr.runOutcome, pr.workers)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePackageDuration(pkg string, d time.Duration, result ResultLabel) {
	if p == nil || p.packageDuration == nil {
		return
	}
	p.packageDuration.WithLabelValues(pkg, string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPackageResult(result ResultLabel) {
	if p == nil || p.packageResults == nil {
		return
	}
	p.packageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetTimeSaved(d time.Duration) {
	if p == nil || p.timeSaved == nil {
		return
	}
	p.timeSaved.Set(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil || p.workers == nil {
		return
	}
	p.workers.Set(float64(n))
}

// WriteTextfile atomically writes the recorder's metrics to path in the
// Prometheus text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if p == nil || p.registry == nil {
		return nil
	}
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
