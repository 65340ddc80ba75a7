package build

import (
	"log/slog"
	"time"

	"github.com/mehdismh/econia/internal/logfields"
	"github.com/mehdismh/econia/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(_ StageName)                                    {}
func (NoopObserver) OnStageComplete(_ StageName, _ time.Duration, _ StageResult) {}
func (NoopObserver) OnBuildComplete(_ *BuildReport)                              {}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnStageStart(_ StageName) {}
func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, _ StageResult) {
	if r.Recorder != nil {
		r.Recorder.ObserveStageDuration(string(stage), d)
	}
}

func (r RecorderObserver) OnBuildComplete(report *BuildReport) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	r.Recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
	for _, is := range report.Issues {
		r.Recorder.IncIssues(string(is.Code), string(is.Severity))
	}
	for locale, st := range report.Locales {
		r.Recorder.SetDocuments(locale, st.Pages)
		r.Recorder.SetIndexTerms(locale, st.IndexTerms)
	}
}

// LogObserver logs stage progress at debug level.
type LogObserver struct{ Logger *slog.Logger }

func (o LogObserver) OnStageStart(stage StageName) {
	o.Logger.Debug("Stage started", logfields.Stage(string(stage)))
}

func (o LogObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	o.Logger.Debug("Stage complete",
		logfields.Stage(string(stage)),
		logfields.DurationMS(float64(d.Microseconds())/1000),
		logfields.Outcome(string(result)))
}

func (o LogObserver) OnBuildComplete(report *BuildReport) {
	o.Logger.Info("Build complete", logfields.Outcome(string(report.Outcome)), slog.String("summary", report.Summary()))
}

// multiObserver fans callbacks out in order.
type multiObserver []BuildObserver

func (m multiObserver) OnStageStart(stage StageName) {
	for _, o := range m {
		o.OnStageStart(stage)
	}
}

func (m multiObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	for _, o := range m {
		o.OnStageComplete(stage, d, result)
	}
}

func (m multiObserver) OnBuildComplete(report *BuildReport) {
	for _, o := range m {
		o.OnBuildComplete(report)
	}
}
