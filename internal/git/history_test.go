package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, author string, when time.Time) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(name))
	require.NoError(t, err)
	sig := &object.Signature{Name: author, Email: author + "@example.com", When: when}
	_, err = wt.Commit("update "+name, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestHistory_LastUpdate(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	t1 := time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	commitFile(t, repo, dir, "docs/intro.md", "# Intro\n", "alice", t1)
	commitFile(t, repo, dir, "docs/guide.md", "# Guide\n", "bob", t2)

	h, err := OpenHistory(filepath.Join(dir, "docs"))
	require.NoError(t, err)
	require.NotNil(t, h)

	lu, err := h.LastUpdate(filepath.Join(dir, "docs", "intro.md"))
	require.NoError(t, err)
	require.NotNil(t, lu)
	assert.Equal(t, "alice", lu.Author)
	assert.True(t, lu.Time.Equal(t1))

	lu, err = h.LastUpdate(filepath.Join(dir, "docs", "guide.md"))
	require.NoError(t, err)
	require.NotNil(t, lu)
	assert.Equal(t, "bob", lu.Author)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "draft.md"), []byte("x"), 0o600))
	lu, err = h.LastUpdate(filepath.Join(dir, "docs", "draft.md"))
	require.NoError(t, err)
	assert.Nil(t, lu, "untracked files have no history")
}

func TestOpenHistory_NoRepository(t *testing.T) {
	h, err := OpenHistory(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, h)
}
