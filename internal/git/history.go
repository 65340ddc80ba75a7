package git

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/mehdismh/econia/internal/logfields"
)

// LastUpdate is the most recent change to a file.
type LastUpdate struct {
	Author string    `json:"author,omitempty"`
	Time   time.Time `json:"time"`
	Commit string    `json:"commit"`
}

// History answers last-update queries for files inside one repository.
// It is safe for concurrent use.
type History struct {
	repo *git.Repository
	root string

	mu    sync.Mutex
	cache map[string]*LastUpdate
}

// OpenHistory opens the repository containing dir. A directory outside any
// repository yields a nil History and no error; callers then omit
// last-update information.
func OpenHistory(dir string) (*History, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		slog.Debug("No git repository found; last update information disabled", logfields.Path(dir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository at %s has no worktree: %w", dir, err)
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	return &History{repo: repo, root: root, cache: make(map[string]*LastUpdate)}, nil
}

// Root is the repository worktree directory.
func (h *History) Root() string { return h.root }

// LastUpdate returns the newest commit touching path. Untracked files yield nil.
func (h *History) LastUpdate(path string) (*LastUpdate, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(h.root, abs)
	if err != nil {
		return nil, fmt.Errorf("%s is outside repository %s: %w", path, h.root, err)
	}
	rel = filepath.ToSlash(rel)

	h.mu.Lock()
	defer h.mu.Unlock()
	if lu, ok := h.cache[rel]; ok {
		return lu, nil
	}

	head, err := h.repo.Head()
	if err != nil {
		// Empty repository.
		h.cache[rel] = nil
		return nil, nil
	}
	iter, err := h.repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", rel, err)
	}
	defer iter.Close()

	var lu *LastUpdate
	c, err := iter.Next()
	switch {
	case err == nil:
		lu = fromCommit(c)
	case errors.Is(err, io.EOF):
	default:
		return nil, fmt.Errorf("log %s: %w", rel, err)
	}
	h.cache[rel] = lu
	return lu, nil
}

func fromCommit(c *object.Commit) *LastUpdate {
	return &LastUpdate{
		Author: c.Author.Name,
		Time:   c.Committer.When.UTC(),
		Commit: c.Hash.String(),
	}
}
