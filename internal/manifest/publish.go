package manifest

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/logfields"
	"github.com/mehdismh/econia/internal/retry"
)

// Publisher writes a build into a sibling staging directory and swaps it
// into place in one rename, so readers of the output directory see either
// the previous site or the new one.
type Publisher struct {
	outDir   string
	stageDir string
	cleanup  sync.WaitGroup
}

// NewPublisher prepares publishing into outDir.
func NewPublisher(outDir string) *Publisher {
	return &Publisher{outDir: filepath.Clean(outDir)}
}

// OutDir is the final output directory.
func (p *Publisher) OutDir() string { return p.outDir }

// StageDir is the staging directory while a publish is in progress.
func (p *Publisher) StageDir() string { return p.stageDir }

// Begin creates a fresh staging directory next to the output directory:
// "site" stages into "site_stage". Leftovers of an interrupted publish are
// removed first.
func (p *Publisher) Begin() error {
	stage := p.outDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fsError(err, "remove stale staging directory", stage)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fsError(err, "create staging directory", stage)
	}
	p.stageDir = stage
	slog.Debug("Initialized staging directory", logfields.Path(stage), slog.String("final", p.outDir))
	return nil
}

func (p *Publisher) target(name string) (string, error) {
	if p.stageDir == "" {
		return "", derrors.InternalError("no staging directory initialized").Build()
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", derrors.FileSystemError("artifact name escapes the output directory").
			Fatal().WithContext("name", name).Build()
	}
	dst := filepath.Join(p.stageDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fsError(err, "create artifact directory", dst)
	}
	return dst, nil
}

// WriteFile stores data as name inside the staging directory.
func (p *Publisher) WriteFile(name string, data []byte) error {
	dst, err := p.target(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fsError(err, "write artifact", dst)
	}
	return nil
}

// CopyFile copies src to name inside the staging directory.
func (p *Publisher) CopyFile(src, name string) error {
	dst, err := p.target(name)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fsError(err, "open asset", src)
	}
	defer func() { _ = in.Close() }()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fsError(err, "create asset", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fsError(err, "copy asset", src)
	}
	if err := out.Close(); err != nil {
		return fsError(err, "close asset", dst)
	}
	return nil
}

// CopyDir copies the contents of src into the root of the staging
// directory. A missing src is skipped.
func (p *Publisher) CopyDir(src string) error {
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		slog.Debug("Static directory not present; skipping", logfields.Path(src))
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fsError(err, "walk static directory", path)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return p.CopyFile(path, filepath.ToSlash(rel))
	})
}

// Commit promotes the staging directory to the output directory. The
// current output is moved to "<out>.prev" first and removed in the
// background once the new site is in place.
func (p *Publisher) Commit() error {
	if p.stageDir == "" {
		return derrors.InternalError("no staging directory initialized").Build()
	}
	if _, err := os.Stat(p.stageDir); err != nil {
		return fsError(err, "staging directory missing", p.stageDir)
	}

	prev := p.outDir + ".prev"
	policy := retry.DefaultPolicy()
	if _, err := os.Stat(prev); err == nil {
		if err := policy.Do(context.Background(), func() error { return os.RemoveAll(prev) }); err != nil {
			return fsError(err, "remove stale backup", prev)
		}
	}
	if _, err := os.Stat(p.outDir); err == nil {
		if err := policy.Do(context.Background(), func() error { return os.Rename(p.outDir, prev) }); err != nil {
			return fsError(err, "backup existing output", p.outDir)
		}
	}
	if err := os.Rename(p.stageDir, p.outDir); err != nil {
		if _, statErr := os.Stat(prev); statErr == nil {
			_ = os.Rename(prev, p.outDir)
		}
		return fsError(err, "promote staging directory", p.stageDir)
	}
	p.stageDir = ""
	p.cleanup.Add(1)
	go func(dir string) {
		defer p.cleanup.Done()
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(dir), logfields.Error(err))
		}
	}(prev)
	slog.Info("Published site", logfields.Path(p.outDir))
	return nil
}

// Wait blocks until the previous output removed by Commit is gone.
func (p *Publisher) Wait() { p.cleanup.Wait() }

// Abort discards the staging directory. It is safe to call more than once.
func (p *Publisher) Abort() {
	if p.stageDir == "" {
		return
	}
	dir := p.stageDir
	p.stageDir = ""
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", logfields.Path(dir), logfields.Error(err))
		return
	}
	slog.Debug("Removed staging directory after abort", logfields.Path(dir))
}

func fsError(err error, msg, path string) error {
	return derrors.WrapError(err, derrors.CategoryFileSystem, msg).
		Fatal().WithContext("path", path).Build()
}
