package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	renderDuration *prom.HistogramVec
	issues         *prom.CounterVec
	documents      *prom.GaugeVec
	indexTerms     *prom.GaugeVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "document_render_duration_seconds",
		Help:      "Duration of rendering one document",
		Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"locale"})
	pr.issues = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_issues_total",
		Help:      "Diagnostics reported during builds",
	}, []string{"category", "severity"})
	pr.documents = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "documents",
		Help:      "Documents in the last build",
	}, []string{"locale"})
	pr.indexTerms = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "search_index_terms",
		Help:      "Distinct terms in the last search index",
	}, []string{"locale"})
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.renderDuration, pr.issues, pr.documents, pr.indexTerms)
	return pr
}

// Registry is the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// WriteTextfile writes the registry in the Prometheus text format, for the
// node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write metrics textfile").
			WithSeverity(derrors.SeverityError).WithContext("path", path).Build()
	}
	return nil
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}
func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}
func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(locale string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(locale).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncIssues(category, severity string) {
	if p == nil || p.issues == nil {
		return
	}
	p.issues.WithLabelValues(category, severity).Inc()
}

func (p *PrometheusRecorder) SetDocuments(locale string, n int) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.WithLabelValues(locale).Set(float64(n))
}

func (p *PrometheusRecorder) SetIndexTerms(locale string, n int) {
	if p == nil || p.indexTerms == nil {
		return
	}
	p.indexTerms.WithLabelValues(locale).Set(float64(n))
}
