package build

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/metrics"
)

type recordingObserver struct {
	started   []StageName
	completed map[StageName]StageResult
}

func (o *recordingObserver) OnStageStart(stage StageName) { o.started = append(o.started, stage) }
func (o *recordingObserver) OnStageComplete(stage StageName, _ time.Duration, res StageResult) {
	if o.completed == nil {
		o.completed = map[StageName]StageResult{}
	}
	o.completed[stage] = res
}
func (o *recordingObserver) OnBuildComplete(_ *BuildReport) {}

func newTestState(obs BuildObserver) *BuildState {
	return &BuildState{
		Report:   NewBuildReport("cfg"),
		recorder: metrics.NoopRecorder{},
		observer: obs,
	}
}

func TestClassifyStageResult(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		warned   bool
		result   StageResult
		code     ReportIssueCode
		abort    bool
		severity IssueSeverity
	}{
		{name: "success", result: StageResultSuccess},
		{name: "warned", warned: true, result: StageResultWarning},
		{name: "canceled", err: context.Canceled, result: StageResultCanceled, code: IssueCanceled, abort: true, severity: SeverityError},
		{name: "classified canceled", err: derrors.CanceledError("stop").Build(), result: StageResultCanceled, code: IssueCanceled, abort: true, severity: SeverityError},
		{name: "warning", err: derrors.RenderWarning("odd").Build(), result: StageResultWarning, code: IssueRenderWarning, severity: SeverityWarning},
		{name: "collision", err: derrors.RouteCollisionError("dup").Build(), result: StageResultFatal, code: IssueRouteCollision, abort: true, severity: SeverityError},
		{name: "plain", err: errors.New("boom"), result: StageResultFatal, code: IssueGenericStageError, abort: true, severity: SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ClassifyStageResult(StageRenderDocs, tt.err, tt.warned)
			assert.Equal(t, tt.result, out.Result)
			assert.Equal(t, tt.code, out.IssueCode)
			assert.Equal(t, tt.abort, out.Abort)
			assert.Equal(t, tt.severity, out.Severity)
		})
	}
}

func TestIssueCodeFor(t *testing.T) {
	md := derrors.BrokenLinkError("x").WithContext("kind", "markdown").Build()
	assert.Equal(t, IssueBrokenMarkdownLink, IssueCodeFor(md))
	assert.Equal(t, IssueBrokenLink, IssueCodeFor(derrors.BrokenLinkError("x").Build()))
	assert.Equal(t, IssueMissingAsset, IssueCodeFor(derrors.FileSystemError("x").Warning().Build()))
	assert.Equal(t, IssueFileSystem, IssueCodeFor(derrors.FileSystemError("x").Build()))
	assert.Equal(t, IssueConfigInvalid, IssueCodeFor(derrors.ValidationError("x").Build()))
	assert.Equal(t, IssueCanceled, IssueCodeFor(context.DeadlineExceeded))
}

func TestRunStages_StopsOnFatal(t *testing.T) {
	obs := &recordingObserver{}
	bs := newTestState(obs)
	var ranLast bool
	stages := NewPipeline().
		Add(StageDiscoverDocs, func(context.Context, *BuildState) error { return nil }).
		Add(StageAssignRoutes, func(context.Context, *BuildState) error {
			return derrors.RouteCollisionError("route /a is claimed by x and y").WithContext("path", "x.md").Build()
		}).
		Add(StageRenderDocs, func(context.Context, *BuildState) error { ranLast = true; return nil }).
		Build()

	err := RunStages(context.Background(), bs, stages)
	require.Error(t, err)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.False(t, ranLast)

	assert.Equal(t, []StageName{StageDiscoverDocs, StageAssignRoutes}, obs.started)
	assert.Equal(t, StageResultSuccess, obs.completed[StageDiscoverDocs])
	assert.Equal(t, StageResultFatal, obs.completed[StageAssignRoutes])
	require.Len(t, bs.Report.Issues, 1)
	assert.Equal(t, IssueRouteCollision, bs.Report.Issues[0].Code)
	assert.Equal(t, "x.md", bs.Report.Issues[0].Path)

	bs.Report.DeriveOutcome()
	assert.Equal(t, OutcomeFailed, bs.Report.Outcome)
}

func TestRunStages_DiagnosticsMakeWarning(t *testing.T) {
	obs := &recordingObserver{}
	bs := newTestState(obs)
	stages := NewPipeline().
		Add(StageRenderDocs, func(_ context.Context, bs *BuildState) error {
			bs.diagnose(StageRenderDocs, "en", []*derrors.ClassifiedError{
				derrors.RenderWarning("unmatched $").WithContext("path", "intro.md").Build(),
			})
			return nil
		}).
		Build()

	require.NoError(t, RunStages(context.Background(), bs, stages))
	assert.Equal(t, StageResultWarning, obs.completed[StageRenderDocs])
	require.Len(t, bs.Report.Issues, 1)
	assert.Equal(t, "en", bs.Report.Issues[0].Locale)
	assert.Equal(t, 1, bs.Report.StageCounts[StageRenderDocs].Warning)

	bs.Report.DeriveOutcome()
	assert.Equal(t, OutcomeWarning, bs.Report.Outcome)
}

func TestRunStages_CanceledBeforeStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bs := newTestState(NoopObserver{})
	called := false
	stages := NewPipeline().
		Add(StageDiscoverDocs, func(context.Context, *BuildState) error { called = true; return nil }).
		Build()

	err := RunStages(ctx, bs, stages)
	require.Error(t, err)
	assert.False(t, called)
	assert.ErrorIs(t, err, context.Canceled)

	bs.Report.DeriveOutcome()
	assert.Equal(t, OutcomeCanceled, bs.Report.Outcome)
	assert.Equal(t, 1, bs.Report.StageCounts[StageDiscoverDocs].Canceled)
}

func TestPipeline_AddIf(t *testing.T) {
	noop := func(context.Context, *BuildState) error { return nil }
	defs := NewPipeline().
		Add(StageDiscoverDocs, noop).
		AddIf(false, StageBuildIndex, noop).
		AddIf(true, StagePublish, noop).
		Build()
	require.Len(t, defs, 2)
	assert.Equal(t, StagePublish, defs[1].Name)
}

func TestBuildReport_Persist(t *testing.T) {
	dir := t.TempDir()
	r := NewBuildReport("cfg")
	r.AddIssue(ReportIssue{Code: IssueBrokenLink, Stage: StageCheckLinks, Severity: SeverityWarning, Message: "x"}, errors.New("x"))
	r.AddIssue(ReportIssue{Code: IssueBrokenLink, Stage: StageCheckLinks, Severity: SeverityWarning, Message: "y"}, errors.New("y"))
	r.AddIssue(ReportIssue{Code: IssueRenderWarning, Stage: StageRenderDocs, Severity: SeverityInfo, Message: "z"}, errors.New("z"))
	r.Published = true
	require.NoError(t, r.Persist(dir))

	assert.Equal(t, OutcomeWarning, r.Outcome)
	assert.Equal(t, []IssueCount{{Code: IssueBrokenLink, Count: 2}, {Code: IssueRenderWarning, Count: 1}}, r.IssueCounts())

	data, err := os.ReadFile(filepath.Join(dir, ReportJSONFile))
	require.NoError(t, err)
	var got BuildReportSerializable
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "warning", got.Outcome)
	assert.Len(t, got.Warnings, 2)
	assert.Empty(t, got.Errors)
	assert.Len(t, got.Issues, 3)
	assert.Equal(t, "cfg", got.ConfigHash)

	txt, err := os.ReadFile(filepath.Join(dir, ReportTextFile))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "outcome=warning")
	assert.NoFileExists(t, filepath.Join(dir, ReportJSONFile+".tmp"))
}
