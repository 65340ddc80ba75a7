package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ExampleConfig is the configuration written by Init.
const ExampleConfig = `title: Econia Docs
tagline: Documentation for the Econia protocol
url: https://econia.dev
baseUrl: /
onBrokenLinks: throw
onBrokenMarkdownLinks: warn
favicon: img/favicon.ico
organizationName: econia-labs
projectName: econia

i18n:
  defaultLocale: en
  locales: [en]

presets:
  - - classic
    - docs:
        sidebarPath: sidebars.yaml
        sidebarCollapsible: false
        sidebarCollapsed: false
        routeBasePath: /
        editUrl: https://github.com/econia-labs/econia/tree/main/doc/doc-site/
        breadcrumbs: false
        showLastUpdateAuthor: false
        showLastUpdateTime: false
        remarkPlugins: [math]
        rehypePlugins: [katex]
      blog: false
      theme:
        customCss: ./src/css/custom.css

themes:
  - - search-local
    - hashed: true
      docsRouteBasePath: /

stylesheets:
  - https://fonts.googleapis.com/css2?family=Jost:wght@400;500;600&family=Roboto+Mono:wght@400;500&display=swap
  - href: https://cdn.jsdelivr.net/npm/katex@0.13.24/dist/katex.min.css
    type: text/css
    integrity: sha384-odtC+0UGzzFL/6PNoE8rX/SPcQDXBJ+uRepguP4QkPCm2LBxH3FA3y+fKSiJ+AmM
    crossorigin: anonymous

themeConfig:
  navbar:
    logo:
      alt: Econia Logo
      src: img/EconiaHeader.svg
      width: 156px
      height: 24px
  prism:
    theme: github
    darkTheme: dracula
  colorMode:
    defaultMode: dark
    disableSwitch: true
`

const exampleSidebars = `docs:
  - intro
`

const exampleIntro = `---
title: Welcome
sidebar_position: 1
---

# Welcome

Prices are quoted in ticks: $p = t \cdot s$ where $s$ is the tick size.
`

// Init writes a starter site into dir. Existing files are kept unless force is set.
// It returns the files written.
func Init(dir string, force bool) ([]string, error) {
	files := []struct {
		path    string
		content string
	}{
		{DefaultFile, ExampleConfig},
		{"sidebars.yaml", exampleSidebars},
		{filepath.Join("docs", "intro.md"), exampleIntro},
		{filepath.Join("src", "css", "custom.css"), ":root {\n  --ifm-color-primary: #00ff00;\n}\n"},
	}
	var written []string
	for _, f := range files {
		p := filepath.Join(dir, f.path)
		if !force {
			if _, err := os.Stat(p); err == nil {
				continue
			} else if !errors.Is(err, os.ErrNotExist) {
				return written, err
			}
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(f.content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p, err)
		}
		written = append(written, p)
	}
	return written, nil
}
