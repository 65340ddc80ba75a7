package config

import (
	"net/url"
	"path"
	"strings"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/plugin"
)

func validateSite(s *Site) error {
	if strings.TrimSpace(s.Title) == "" {
		return derrors.ConfigError("title is required").Build()
	}
	if s.URL == "" {
		return derrors.ConfigError("url is required").Build()
	}
	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return derrors.ConfigErrorf("url %q must be an absolute http(s) URL", s.URL).Build()
	}
	if u.Path != "" && u.Path != "/" {
		return derrors.ConfigErrorf("url %q must not contain a path; use baseUrl", s.URL).Build()
	}
	s.URL = strings.TrimSuffix(s.URL, "/")

	if s.BaseURL == "" {
		return derrors.ConfigError("baseUrl is required").Build()
	}
	if !strings.HasPrefix(s.BaseURL, "/") || !strings.HasSuffix(s.BaseURL, "/") {
		return derrors.ConfigErrorf("baseUrl %q must start and end with a slash", s.BaseURL).Build()
	}
	return nil
}

func validateDocs(d *plugin.Docs) error {
	if d.Path == "" {
		return derrors.ConfigError("docs.path must not be empty").Build()
	}
	if path.IsAbs(d.Path) || strings.HasPrefix(path.Clean(d.Path), "..") {
		return derrors.ConfigErrorf("docs.path %q must be relative to the configuration directory", d.Path).Build()
	}
	// Route base paths are written with or without slashes; keep them bare.
	d.RouteBasePath = strings.Trim(d.RouteBasePath, "/")
	if d.EditURL != "" {
		u, err := url.Parse(d.EditURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return derrors.ConfigErrorf("docs.editUrl %q must be an absolute URL", d.EditURL).Build()
		}
		if !strings.HasSuffix(d.EditURL, "/") {
			d.EditURL += "/"
		}
	}
	return nil
}
