package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"intro.md":                "# Intro\n",
		"01-guides/02-setup.md":   "---\ntitle: Setup\n---\nbody\n",
		"01-guides/custom.mdx":    "---\nid: renamed\n---\nbody\n",
		"01-guides/draft.md":      "---\ndraft: true\n---\nwip\n",
		"_partials/snippet.md":    "partial\n",
		"_hidden.md":              "hidden\n",
		".cache/x.md":             "cache\n",
		"img/logo.png":            "png",
		"reference/2021-01-01.md": "dated\n",
	})

	got, err := Discover(context.Background(), Source{Root: root, Locale: "en"}, Options{})
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"guides/setup", "guides/renamed", "intro", "reference/2021-01-01"}, ids)

	setup := got[0]
	assert.Equal(t, "01-guides/02-setup.md", setup.RelPath)
	assert.Equal(t, "guides", setup.Dir())
	assert.Equal(t, 2, setup.NumberPrefix)
	pos, ok := setup.Position()
	assert.True(t, ok)
	assert.InDelta(t, 2.0, pos, 0)
	assert.Equal(t, 4, setup.BodyLine)
	assert.NotEmpty(t, setup.Fingerprint)
	assert.Equal(t, "en", setup.Locale)

	withDrafts, err := Discover(context.Background(), Source{Root: root}, Options{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Len(t, withDrafts, 5)
}

func TestDiscover_Overlay(t *testing.T) {
	root := t.TempDir()
	overlay := t.TempDir()
	writeTree(t, root, map[string]string{"intro.md": "# Intro\n", "other.md": "# Other\n"})
	writeTree(t, overlay, map[string]string{"intro.md": "# Einführung\n", "orphan.md": "# Waise\n"})

	got, err := Discover(context.Background(), Source{Root: root, Overlay: overlay, Locale: "de"}, Options{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Translated)
	assert.Equal(t, "# Einführung\n", string(got[0].Body))
	assert.False(t, got[1].Translated)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(context.Background(), Source{Root: filepath.Join(t.TempDir(), "nope")}, Options{})
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryDocs))
}

func TestDiscover_InvalidFrontMatter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"bad.md": "---\ntitle: [unclosed\n---\n"})
	_, err := Discover(context.Background(), Source{Root: root}, Options{})
	require.Error(t, err)
	ce, ok := derrors.AsClassified(err)
	require.True(t, ok)
	p, _ := ce.Context().GetString("path")
	assert.Equal(t, "bad.md", p)
}

func TestDiscover_Canceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "a", "b.md": "b"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Discover(ctx, Source{Root: root}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStripNumberPrefix(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		prefix int
	}{
		{"01-intro", "intro", 1},
		{"3. Setup", "Setup", 3},
		{"10_advanced", "advanced", 10},
		{"intro", "intro", -1},
		{"404", "404", -1},
		{"2021-01-01-release", "2021-01-01-release", -1},
	}
	for _, tt := range tests {
		got, n := StripNumberPrefix(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.prefix, n, tt.in)
	}
}

func TestDeriveID(t *testing.T) {
	assert.Equal(t, "intro", DeriveID("intro.md", ""))
	assert.Equal(t, "guides/setup", DeriveID("01-guides/02-setup.mdx", ""))
	assert.Equal(t, "guides/start", DeriveID("guides/setup.md", "start"))
}
