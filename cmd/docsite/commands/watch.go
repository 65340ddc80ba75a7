package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/mehdismh/econia/internal/build"
	"github.com/mehdismh/econia/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output   string        `short:"o" help:"Output directory (overrides outDir in the configuration)"`
	Drafts   bool          `help:"Include documents marked draft" default:"true" negatable:""`
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	site, err := loadSite(root.Config, w.Output)
	if err != nil {
		return err
	}
	logger := root.Logger()

	// The configuration is reloaded on every rebuild so edits to it apply
	// without restarting.
	rebuild := func(ctx context.Context) error {
		current, err := loadSite(root.Config, w.Output)
		if err != nil {
			return err
		}
		_, err = RunBuild(ctx, current, logger, build.WithIncludeDrafts(w.Drafts))
		return err
	}

	watcher, err := watch.New(site.Root, rebuild,
		watch.WithDebounce(w.Debounce),
		watch.WithLogger(logger),
		watch.WithSkip(site.OutDir),
	)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
