package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// StageOutcome is the classified result of running one stage.
type StageOutcome struct {
	Stage     StageName
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Abort     bool
}

// ClassifyStageResult turns the error returned by a stage into an outcome.
// warned is true when the stage recorded warning diagnostics.
func ClassifyStageResult(stage StageName, err error, warned bool) StageOutcome {
	if err == nil {
		if warned {
			return StageOutcome{Stage: stage, Result: StageResultWarning}
		}
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
			derrors.HasCategory(err, derrors.CategoryCanceled):
			se = NewCanceledStageError(stage, err)
		case derrors.HasSeverity(err, derrors.SeverityWarning):
			se = NewWarnStageError(stage, err)
		default:
			se = NewFatalStageError(stage, err)
		}
	}

	out := StageOutcome{Stage: stage, Error: se, IssueCode: IssueCodeFor(se.Err)}
	switch se.Kind {
	case StageErrorCanceled:
		out.Result, out.Severity, out.Abort, out.IssueCode = StageResultCanceled, SeverityError, true, IssueCanceled
	case StageErrorWarning:
		out.Result, out.Severity = StageResultWarning, SeverityWarning
	default:
		out.Result, out.Severity, out.Abort = StageResultFatal, SeverityError, true
	}
	return out
}

// RunStages executes stages in order, recording timing and stopping on the
// first fatal error or cancellation.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.AddIssue(ReportIssue{Code: IssueCanceled, Stage: st.Name, Severity: SeverityError, Message: se.Error()}, se)
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, bs.recorder)
			bs.observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		bs.observer.OnStageStart(st.Name)
		warningsBefore := len(bs.Report.Warnings)

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur

		out := ClassifyStageResult(st.Name, err, len(bs.Report.Warnings) > warningsBefore)
		if out.Error != nil {
			bs.Report.StageErrorKinds[st.Name] = out.Error.Kind
			issue := ReportIssue{Code: out.IssueCode, Stage: st.Name, Severity: out.Severity, Message: out.Error.Error()}
			if ce, ok := derrors.AsClassified(out.Error); ok {
				issue.Path, _ = ce.Context().GetString("path")
				issue.Locale, _ = ce.Context().GetString("locale")
			}
			bs.Report.AddIssue(issue, out.Error)
		}
		bs.Report.RecordStageResult(st.Name, out.Result, bs.recorder)
		bs.observer.OnStageComplete(st.Name, dur, out.Result)

		if out.Abort {
			if out.Error != nil {
				return out.Error
			}
			return fmt.Errorf("stage %s aborted", st.Name)
		}
	}
	return nil
}
