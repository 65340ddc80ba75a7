package build

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/mehdismh/econia/internal/config"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/i18n"
	"github.com/mehdismh/econia/internal/logfields"
	"github.com/mehdismh/econia/internal/metrics"
)

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool { return s == BuildStatusSuccess }

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	Status BuildStatus
	Report *BuildReport
	// State holds the intermediate results; commands such as routes and
	// search read them after a dry run.
	State      *BuildState
	OutputPath string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

type options struct {
	recorder      metrics.Recorder
	observers     []BuildObserver
	concurrency   int
	includeDrafts bool
	dryRun        bool
	logger        *slog.Logger
}

// Option configures a Builder.
type Option func(*options)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithObserver adds a stage observer.
func WithObserver(obs BuildObserver) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// WithConcurrency bounds the number of documents processed in parallel.
// Values below one select the number of CPUs.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithIncludeDrafts keeps documents marked as drafts.
func WithIncludeDrafts(include bool) Option {
	return func(o *options) { o.includeDrafts = include }
}

// WithDryRun runs every stage except publishing.
func WithDryRun(dry bool) Option {
	return func(o *options) { o.dryRun = dry }
}

// WithLogger sets the logger used for the build summary.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Builder runs the build pipeline for one site configuration. It holds no
// state between runs and may be reused, e.g. by watch mode.
type Builder struct {
	site *config.Site
	opts options
}

// New creates a Builder for site.
func New(site *config.Site, opts ...Option) *Builder {
	o := options{recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.NumCPU()
	}
	return &Builder{site: site, opts: o}
}

// Pipeline returns the stages a run executes, in order.
func (b *Builder) Pipeline() []StageDef {
	indexing := b.site.Search != nil && b.site.Search.IndexDocs
	return NewPipeline().
		Add(StageDiscoverDocs, stageDiscoverDocs).
		Add(StageAssignRoutes, stageAssignRoutes).
		Add(StageRenderDocs, stageRenderDocs).
		Add(StageBuildSidebars, stageBuildSidebars).
		Add(StageCheckLinks, stageCheckLinks).
		AddIf(indexing, StageBuildIndex, stageBuildIndex).
		Add(StageComposeTheme, stageComposeTheme).
		Add(StageAssembleManifest, stageAssembleManifest).
		AddIf(!b.opts.dryRun, StagePublish, stagePublish).
		Build()
}

// Run executes the pipeline. A failed or canceled run publishes nothing;
// the returned result carries the report in every case.
func (b *Builder) Run(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{StartTime: start, OutputPath: b.site.OutDir}

	report := NewBuildReport(b.site.Hash())
	observers := append(multiObserver{RecorderObserver{Recorder: b.opts.recorder}, LogObserver{Logger: b.opts.logger}}, b.opts.observers...)
	bs := &BuildState{
		Site:     b.site,
		Router:   i18n.NewRouter(b.site.I18n),
		Report:   report,
		opts:     b.opts,
		recorder: b.opts.recorder,
		observer: observers,
	}
	result.State = bs
	result.Report = report

	err := RunStages(ctx, bs, b.Pipeline())

	report.Finish()
	report.DeriveOutcome()
	bs.observer.OnBuildComplete(report)

	result.EndTime = report.End
	result.Duration = result.EndTime.Sub(start)
	switch report.Outcome {
	case OutcomeCanceled:
		result.Status = BuildStatusCancelled
	case OutcomeFailed:
		result.Status = BuildStatusFailed
	default:
		result.Status = BuildStatusSuccess
	}

	if err != nil {
		if !derrors.IsClassified(err) && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			err = derrors.CanceledError("build canceled").WithCause(err).Build()
		}
		return result, err
	}

	for _, w := range report.Warnings {
		b.opts.logger.Warn("Build warning", logfields.Error(w))
	}
	if report.Published {
		if perr := report.Persist(b.site.OutDir); perr != nil {
			b.opts.logger.Warn("Failed to persist build report", logfields.Path(b.site.OutDir), logfields.Error(perr))
		}
	}
	return result, nil
}
