package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/metrics"
	"github.com/mehdismh/econia/internal/version"
)

// Report file names inside the output directory.
const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are a stable contract and are only ever appended.
type ReportIssueCode string

const (
	IssueConfigInvalid      ReportIssueCode = "CONFIG_INVALID"
	IssueDocsInvalid        ReportIssueCode = "DOCS_INVALID"
	IssueRenderWarning      ReportIssueCode = "RENDER_WARNING"
	IssueBrokenLink         ReportIssueCode = "BROKEN_LINK"
	IssueBrokenMarkdownLink ReportIssueCode = "BROKEN_MARKDOWN_LINK"
	IssueRouteCollision     ReportIssueCode = "ROUTE_COLLISION"
	IssueIndexBuild         ReportIssueCode = "INDEX_BUILD"
	IssueMissingAsset       ReportIssueCode = "MISSING_ASSET"
	IssueFileSystem         ReportIssueCode = "FILESYSTEM"
	IssueCanceled           ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError  ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
	SeverityInfo    IssueSeverity = "info"
)

// ReportIssue is a structured taxonomy entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
	Path     string          `json:"path,omitempty"`
	Locale   string          `json:"locale,omitempty"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// LocaleStats summarizes the output of one locale.
type LocaleStats struct {
	Documents   int `json:"documents"`
	Pages       int `json:"pages"`
	IndexedDocs int `json:"indexed_docs"`
	IndexTerms  int `json:"index_terms"`
}

// BuildReport records one build run: timings, stage results, issues and
// the outcome. Unlike the site manifest it is not deterministic.
type BuildReport struct {
	SchemaVersion   int
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one today)
	Warnings        []error
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Locales         map[string]LocaleStats
	RenderedPages   int
	Published       bool
	Outcome         BuildOutcome
	Issues          []ReportIssue
	ConfigHash      string
	ContentHash     string
	BuildID         string
	Version         string
}

// NewBuildReport constructs an empty report.
func NewBuildReport(configHash string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		Locales:         make(map[string]LocaleStats),
		ConfigHash:      configHash,
		Version:         version.Version,
	}
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings slices.
func (r *BuildReport) AddIssue(issue ReportIssue, err error) {
	r.Issues = append(r.Issues, issue)
	if err != nil {
		switch issue.Severity {
		case SeverityError:
			r.Errors = append(r.Errors, err)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, err)
		}
	}
}

// AddDiagnostic records a classified diagnostic raised by a stage that
// kept going.
func (r *BuildReport) AddDiagnostic(stage StageName, ce *derrors.ClassifiedError) {
	issue := ReportIssue{
		Code:     IssueCodeFor(ce),
		Stage:    stage,
		Severity: severityOf(ce),
		Message:  ce.Error(),
	}
	issue.Path, _ = ce.Context().GetString("path")
	issue.Locale, _ = ce.Context().GetString("locale")
	r.AddIssue(issue, ce)
}

// IssueCodeFor maps a classified error onto the report taxonomy.
func IssueCodeFor(err error) ReportIssueCode {
	ce, ok := derrors.AsClassified(err)
	if !ok {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return IssueCanceled
		}
		return IssueGenericStageError
	}
	switch ce.Category() {
	case derrors.CategoryConfig, derrors.CategoryValidation:
		return IssueConfigInvalid
	case derrors.CategoryDocs:
		return IssueDocsInvalid
	case derrors.CategoryRender:
		return IssueRenderWarning
	case derrors.CategoryBrokenLink:
		if kind, _ := ce.Context().GetString("kind"); kind == "markdown" {
			return IssueBrokenMarkdownLink
		}
		return IssueBrokenLink
	case derrors.CategoryRouteCollision:
		return IssueRouteCollision
	case derrors.CategoryIndexBuild:
		return IssueIndexBuild
	case derrors.CategoryFileSystem:
		if ce.IsWarning() {
			return IssueMissingAsset
		}
		return IssueFileSystem
	case derrors.CategoryCanceled:
		return IssueCanceled
	default:
		return IssueGenericStageError
	}
}

func severityOf(ce *derrors.ClassifiedError) IssueSeverity {
	switch ce.Severity() {
	case derrors.SeverityInfo:
		return SeverityInfo
	case derrors.SeverityWarning:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// RecordStageResult updates the stage counters and emits metrics.
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		sc.Warning++
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		sc.Fatal++
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		sc.Canceled++
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
	r.StageCounts[stage] = sc
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("locales=%d pages=%d duration=%s errors=%d warnings=%d stages=%d published=%t outcome=%s",
		len(r.Locales), r.RenderedPages, dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings),
		len(r.StageDurations), r.Published, string(r.Outcome))
}

// DeriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes the report atomically into the provided root directory.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSONFile), jb); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(root, ReportTextFile), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SanitizedCopy converts the report into its JSON form.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	durations := make(map[string]int64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = v.Milliseconds()
	}
	issues := r.Issues
	if issues == nil {
		issues = []ReportIssue{}
	}

	s := &BuildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		Start:           r.Start,
		End:             r.End,
		DurationMS:      r.End.Sub(r.Start).Milliseconds(),
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  durations,
		StageErrorKinds: sek,
		StageCounts:     stageCounts,
		Locales:         r.Locales,
		RenderedPages:   r.RenderedPages,
		Published:       r.Published,
		Outcome:         string(r.Outcome),
		Issues:          issues,
		ConfigHash:      r.ConfigHash,
		ContentHash:     r.ContentHash,
		BuildID:         r.BuildID,
		Version:         r.Version,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// IssueCounts tallies issues by code, sorted by code.
func (r *BuildReport) IssueCounts() []IssueCount {
	counts := map[ReportIssueCode]int{}
	for _, is := range r.Issues {
		counts[is.Code]++
	}
	out := make([]IssueCount, 0, len(counts))
	for code, n := range counts {
		out = append(out, IssueCount{Code: code, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// IssueCount is one row of IssueCounts.
type IssueCount struct {
	Code  ReportIssueCode
	Count int
}

// BuildReportSerializable mirrors BuildReport but with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion   int                    `json:"schema_version"`
	Start           time.Time              `json:"start"`
	End             time.Time              `json:"end"`
	DurationMS      int64                  `json:"duration_ms"`
	Errors          []string               `json:"errors"`
	Warnings        []string               `json:"warnings"`
	StageDurations  map[string]int64       `json:"stage_durations_ms"`
	StageErrorKinds map[string]string      `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount  `json:"stage_counts"`
	Locales         map[string]LocaleStats `json:"locales"`
	RenderedPages   int                    `json:"rendered_pages"`
	Published       bool                   `json:"published"`
	Outcome         string                 `json:"outcome"`
	Issues          []ReportIssue          `json:"issues"`
	ConfigHash      string                 `json:"config_hash,omitempty"`
	ContentHash     string                 `json:"content_hash,omitempty"`
	BuildID         string                 `json:"build_id,omitempty"`
	Version         string                 `json:"version,omitempty"`
}
