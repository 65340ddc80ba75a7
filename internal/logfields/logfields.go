package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocID      = "doc_id"
	KeyRoute      = "route"
	KeyLocale     = "locale"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySidebar    = "sidebar"
	KeyTransform  = "transform"
	KeyCount      = "count"
	KeyOutcome    = "outcome"
	KeyCategory   = "category"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func DocID(id string) slog.Attr        { return slog.String(KeyDocID, id) }
func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Locale(l string) slog.Attr        { return slog.String(KeyLocale, l) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Sidebar(id string) slog.Attr      { return slog.String(KeySidebar, id) }
func Transform(name string) slog.Attr  { return slog.String(KeyTransform, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
