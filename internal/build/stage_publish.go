package build

import (
	"context"

	"github.com/mehdismh/econia/internal/manifest"
)

// stagePublish writes the site through a staging directory. Static
// directories go first so generated artifacts win on a name clash. Any
// failure, including cancellation, leaves the previous output untouched.
func stagePublish(ctx context.Context, bs *BuildState) (err error) {
	pub := manifest.NewPublisher(bs.Site.OutDir)
	if err := pub.Begin(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			pub.Abort()
		}
	}()

	for _, dir := range bs.Site.StaticDirectories {
		if err := pub.CopyDir(bs.Site.Abs(dir)); err != nil {
			return err
		}
	}
	for _, a := range bs.Assets {
		if err := pub.CopyFile(a.Source, a.Name); err != nil {
			return err
		}
	}
	for _, a := range bs.Artifacts {
		if err := pub.WriteFile(a.Name, a.Data); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pub.Commit(); err != nil {
		return err
	}
	pub.Wait()
	bs.Report.Published = true
	return nil
}
