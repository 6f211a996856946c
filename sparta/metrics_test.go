package sparta_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/c360studio/ontomerge/sparta"
)

func TestMetricsRecording(t *testing.T) {
	m := sparta.NewMetrics()

	m.RecordRun("ok", 2*time.Second)
	m.RecordRun("error", time.Second)
	m.RecordTranslated(sparta.KindTechnique)
	m.RecordTranslated(sparta.KindTechnique)
	m.RecordTranslated(sparta.KindThreat)
	m.RecordSkipped()
	m.RecordEdgeSkipped()
	m.RecordMergeResult(30, 32)

	if val := testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")); val != 1 {
		t.Errorf("RunsTotal[ok] = %f, want 1", val)
	}
	if val := testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")); val != 1 {
		t.Errorf("RunsTotal[error] = %f, want 1", val)
	}
	if val := testutil.ToFloat64(m.RecordsTranslated.WithLabelValues("technique")); val != 2 {
		t.Errorf("RecordsTranslated[technique] = %f, want 2", val)
	}
	if val := testutil.ToFloat64(m.RecordsTranslated.WithLabelValues("threat")); val != 1 {
		t.Errorf("RecordsTranslated[threat] = %f, want 1", val)
	}
	if val := testutil.ToFloat64(m.RecordsSkipped); val != 1 {
		t.Errorf("RecordsSkipped = %f, want 1", val)
	}
	if val := testutil.ToFloat64(m.EdgesSkipped); val != 1 {
		t.Errorf("EdgesSkipped = %f, want 1", val)
	}
	if val := testutil.ToFloat64(m.TriplesAdded); val != 30 {
		t.Errorf("TriplesAdded = %f, want 30", val)
	}
	if val := testutil.ToFloat64(m.GraphTriples); val != 32 {
		t.Errorf("GraphTriples = %f, want 32", val)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *sparta.Metrics
	m.RecordRun("ok", time.Second)
	m.RecordTranslated(sparta.KindTechnique)
	m.RecordSkipped()
	m.RecordEdgeSkipped()
	m.RecordMergeResult(1, 2)
}

func TestMetricsHandler(t *testing.T) {
	m := sparta.NewMetrics()
	m.RecordRun("ok", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ontomerge_runs_total") {
		t.Error("expected ontomerge_runs_total in metrics output")
	}
}
