package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_HeaderOnlyWithoutTrailingNewline(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestParseYAML_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}

func TestParse_TypedFields(t *testing.T) {
	src := []byte(`---
id: getting-started
title: Getting Started
slug: /start
sidebar_label: Start
sidebar_position: 2
tags: [intro, setup]
pagination_next: null
custom_edit_url: https://example.com/edit
draft: true
---
# Hello
`)
	p, err := Parse(src)
	require.NoError(t, err)
	fm := p.FrontMatter
	assert.Equal(t, "getting-started", fm.ID)
	assert.Equal(t, "/start", fm.Slug)
	assert.Equal(t, "Start", fm.SidebarLabel)
	require.NotNil(t, fm.SidebarPosition)
	assert.InDelta(t, 2.0, *fm.SidebarPosition, 0)
	assert.Equal(t, []string{"intro", "setup"}, fm.Tags)
	assert.True(t, fm.Draft)

	assert.False(t, fm.Prev().Set)
	assert.True(t, fm.Next().Disabled)
	assert.Equal(t, "https://example.com/edit", fm.EditURL().Value)

	assert.Equal(t, 12, p.BodyLine)
	assert.Equal(t, "# Hello\n", string(p.Body))
	assert.Equal(t, "Getting Started", p.Fields["title"])
}

func TestParse_NoHeader(t *testing.T) {
	p, err := Parse([]byte("plain text\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.BodyLine)
	assert.Empty(t, p.Fields)
}

func TestParse_RejectsStructuredOverride(t *testing.T) {
	_, err := Parse([]byte("---\npagination_prev: [a, b]\n---\nbody\n"))
	require.Error(t, err)
}

func TestFingerprint_TracksHeaderAndBody(t *testing.T) {
	a, err := Parse([]byte("---\ntitle: A\n---\nbody\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("---\ntitle: B\n---\nbody\n"))
	require.NoError(t, err)
	c, err := Parse([]byte("---\ntitle: A\n---\nbody\n"))
	require.NoError(t, err)

	assert.NotEmpty(t, a.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, a.Fingerprint(), c.Fingerprint())
}
