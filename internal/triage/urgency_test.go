package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/siddhesh434/jansunwai-indore/internal/llm"
)

type fakeProvider struct {
	response string
	err      error
	lastReq  llm.Request
}

func (f *fakeProvider) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

func TestRepairUrgencyUnparseable(t *testing.T) {
	got := RepairUrgency("sorry, I cannot help with that")
	if got.Score != 3 || got.Label != LabelMedium || got.Reason != "Defaulted due to parsing error" {
		t.Fatalf("expected fixed default, got %+v", got)
	}
}

func TestRepairUrgencyClampsScore(t *testing.T) {
	got := RepairUrgency(`{"score": 9, "label": "Critical", "reason": "flood"}`)
	if got.Score != 5 {
		t.Fatalf("expected score clamped to 5, got %d", got.Score)
	}
	got = RepairUrgency(`{"score": 0, "label": "Low", "reason": "minor"}`)
	if got.Score != 1 {
		t.Fatalf("expected score clamped to 1, got %d", got.Score)
	}
}

func TestRepairUrgencyRederivesInvalidLabel(t *testing.T) {
	got := RepairUrgency(`{"score": 4, "label": "URGENT!!", "reason": "gas leak"}`)
	if got.Label != LabelHigh {
		t.Fatalf("expected label High from thresholds, got %q", got.Label)
	}
	if got.Reason != "gas leak" {
		t.Fatalf("expected reason preserved, got %q", got.Reason)
	}
}

func TestRepairUrgencyStringScore(t *testing.T) {
	got := RepairUrgency(`{"score": "5", "label": "Critical", "reason": "fire"}`)
	if got.Score != 5 || got.Label != LabelCritical {
		t.Fatalf("expected 5/Critical, got %+v", got)
	}
}

func TestRepairUrgencyNonNumericScore(t *testing.T) {
	got := RepairUrgency(`{"score": "high", "label": "bogus", "reason": "x"}`)
	if got.Score != 3 || got.Label != LabelMedium {
		t.Fatalf("expected defaulted score 3/Medium, got %+v", got)
	}
}

func TestLabelForScoreThresholds(t *testing.T) {
	cases := map[int]string{1: LabelLow, 2: LabelLow, 3: LabelMedium, 4: LabelHigh, 5: LabelCritical}
	for score, want := range cases {
		if got := LabelForScore(score); got != want {
			t.Fatalf("score %d: expected %s, got %s", score, want, got)
		}
	}
}

func TestScoreUrgencyAPIFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("upstream down")}
	_, err := ScoreUrgency(context.Background(), p, "title", "desc", nil)
	if err == nil {
		t.Fatalf("expected error on API failure")
	}
}

func TestScoreUrgencyProseWrappedJSON(t *testing.T) {
	p := &fakeProvider{response: "Here is my assessment:\n{\"score\": 4, \"label\": \"High\", \"reason\": \"sewage overflow\"}\nLet me know if you need more."}
	got, err := ScoreUrgency(context.Background(), p, "Sewage overflow", "Open drain on MG Road", []string{"photo shows overflow"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 4 || got.Label != LabelHigh {
		t.Fatalf("expected 4/High, got %+v", got)
	}
}

func TestScoreUrgencyPinsTemperature(t *testing.T) {
	p := &fakeProvider{response: `{"score": 3, "label": "Medium", "reason": "ok"}`}
	if _, err := ScoreUrgency(context.Background(), p, "t", "d", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.lastReq.Temperature == 0 {
		t.Fatalf("expected an explicit near-zero temperature, got 0")
	}
	if p.lastReq.Temperature > 1e-30 {
		t.Fatalf("expected temperature pinned near zero, got %v", p.lastReq.Temperature)
	}
}

func TestScoreUrgencyGarbageOutputDefaults(t *testing.T) {
	p := &fakeProvider{response: "I think this is fairly urgent."}
	got, err := ScoreUrgency(context.Background(), p, "t", "d", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultUrgency() {
		t.Fatalf("expected default urgency, got %+v", got)
	}
}
