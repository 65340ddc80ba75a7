package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_docs", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_docs", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.ObserveRenderDuration("en", time.Millisecond)
	pr.IncIssues("render", "warning")
	pr.SetDocuments("en", 12)
	pr.SetIndexTerms("en", 340)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["docsite_stage_duration_seconds"])
	assert.True(t, names["docsite_build_issues_total"])
	assert.True(t, names["docsite_search_index_terms"])
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetDocuments("en", 3)
	path := filepath.Join(t.TempDir(), "docsite.prom")
	require.NoError(t, pr.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docsite_documents{locale="en"} 3`)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncIssues("render", "warning")
	pr.ObserveBuildDuration(time.Second)
}

func TestTestRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.IncStageResult("build_index", ResultWarning)
	r.IncStageResult("build_index", ResultWarning)
	r.IncBuildOutcome(BuildOutcomeWarning)
	assert.Equal(t, 2, r.stageResults["build_index"][ResultWarning])
	assert.Equal(t, 1, r.buildOutcomes[BuildOutcomeWarning])
}
