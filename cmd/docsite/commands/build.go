package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mehdismh/econia/internal/build"
	"github.com/mehdismh/econia/internal/config"
	"github.com/mehdismh/econia/internal/logfields"
	"github.com/mehdismh/econia/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output          string `short:"o" help:"Output directory (overrides outDir in the configuration)"`
	Concurrency     int    `help:"Documents rendered in parallel (0 = number of CPUs)" default:"0"`
	Drafts          bool   `help:"Include documents marked draft"`
	DryRun          bool   `name:"dry-run" help:"Run every stage except publishing"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	site, err := loadSite(root.Config, b.Output)
	if err != nil {
		return err
	}
	res, err := RunBuild(ctx, site, root.Logger(), b.options()...)
	if res != nil {
		fmt.Fprintf(out(g), "%s: %s\n", res.Status, res.Report.Summary())
	}
	return err
}

func (b *BuildCmd) options() []build.Option {
	opts := []build.Option{
		build.WithConcurrency(b.Concurrency),
		build.WithIncludeDrafts(b.Drafts),
		build.WithDryRun(b.DryRun),
	}
	if b.MetricsTextfile != "" {
		opts = append(opts, withTextfileMetrics(b.MetricsTextfile)...)
	}
	return opts
}

// withTextfileMetrics records into a fresh Prometheus registry that is
// written to path when the build completes.
func withTextfileMetrics(path string) []build.Option {
	rec := metrics.NewPrometheusRecorder(nil)
	return []build.Option{
		build.WithRecorder(rec),
		build.WithObserver(textfileObserver{rec: rec, path: path}),
	}
}

type textfileObserver struct {
	build.NoopObserver
	rec  *metrics.PrometheusRecorder
	path string
}

func (t textfileObserver) OnBuildComplete(_ *build.BuildReport) {
	if err := t.rec.WriteTextfile(t.path); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(t.path), logfields.Error(err))
	}
}

// RunBuild runs one build of site and logs its outcome.
func RunBuild(ctx context.Context, site *config.Site, logger *slog.Logger, opts ...build.Option) (*build.BuildResult, error) {
	logger.Info("Starting documentation build", logfields.Path(site.Root), slog.String("output", site.OutDir))
	opts = append([]build.Option{build.WithLogger(logger)}, opts...)
	res, err := build.New(site, opts...).Run(ctx)
	if err != nil {
		return res, err
	}
	logger.Info("Build finished",
		logfields.Outcome(string(res.Report.Outcome)),
		logfields.Count(res.Report.RenderedPages),
		slog.String("build_id", res.Report.BuildID))
	return res, nil
}
