package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"config error", ConfigError("bad config").Build(), 7},
		{"broken link", BrokenLinkError("missing-page").Build(), 3},
		{"route collision", RouteCollisionError("dup").Build(), 4},
		{"index build", IndexBuildError("dup id").Build(), 6},
		{"wrapped render", fmt.Errorf("stage: %w", RenderWarning("x").Build()), 11},
		{"canceled", CanceledError("ctx").Build(), 130},
		{"unclassified error", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	cfg := ConfigError("defaultLocale not in locales").Build()
	if got := quiet.FormatError(cfg); !strings.Contains(got, "defaultLocale not in locales") {
		t.Errorf("user-facing errors must be shown, got %q", got)
	}

	internal := InternalError("nil state").Build()
	if got := quiet.FormatError(internal); strings.Contains(got, "nil state") {
		t.Errorf("internal details must be hidden without -v, got %q", got)
	}
	if got := verbose.FormatError(internal); !strings.Contains(got, "nil state") {
		t.Errorf("internal details must be shown with -v, got %q", got)
	}
	if got := quiet.FormatError(errors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected plain format %q", got)
	}
}
