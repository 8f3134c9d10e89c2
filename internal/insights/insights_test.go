package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/siddhesh434/jansunwai-indore/internal/db"
	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/triage"
)

type fakeProvider struct {
	response string
	err      error
}

func (f fakeProvider) Generate(ctx context.Context, req llm.Request) (string, error) {
	return f.response, f.err
}

func TestGenerateParsesProseWrappedJSON(t *testing.T) {
	p := fakeProvider{response: `Here is the analysis:
{"systemHealth": "Fair", "keyFindings": ["backlog growing"], "recommendations": ["add staff"], "predictions": {"expectedGrowth": "+10%"}, "alerts": []}`}
	a, err := Generate(context.Background(), p, db.DashboardStats{Total: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.SystemHealth != "Fair" || len(a.KeyFindings) != 1 {
		t.Fatalf("unexpected analysis %+v", a)
	}
	if a.AnalysisTimestamp.IsZero() {
		t.Fatalf("expected timestamp stamped")
	}
}

func TestGenerateMalformedOutput(t *testing.T) {
	p := fakeProvider{response: "I cannot produce JSON today."}
	_, err := Generate(context.Background(), p, db.DashboardStats{})
	if !errors.Is(err, triage.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateIncompleteAnalysis(t *testing.T) {
	p := fakeProvider{response: `{"systemHealth": "Good", "keyFindings": [], "recommendations": []}`}
	_, err := Generate(context.Background(), p, db.DashboardStats{})
	if !errors.Is(err, triage.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for empty lists, got %v", err)
	}
}

func TestGenerateAPIFailure(t *testing.T) {
	p := fakeProvider{err: errors.New("timeout")}
	_, err := Generate(context.Background(), p, db.DashboardStats{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFallbackShape(t *testing.T) {
	a := Fallback()
	if a.SystemHealth == "" || len(a.KeyFindings) == 0 || len(a.Recommendations) == 0 {
		t.Fatalf("fallback analysis incomplete: %+v", a)
	}
	if a.AnalysisTimestamp.IsZero() {
		t.Fatalf("expected fallback timestamp set")
	}
}
