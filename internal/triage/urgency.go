package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/models"
)

const (
	LabelLow      = "Low"
	LabelMedium   = "Medium"
	LabelHigh     = "High"
	LabelCritical = "Critical"
)

// DefaultUrgency is returned whenever model output cannot be parsed.
func DefaultUrgency() models.Urgency {
	return models.Urgency{Score: 3, Label: LabelMedium, Reason: "Defaulted due to parsing error"}
}

// ScoreUrgency asks the text model for a 1-5 triage score. API failures
// return an error (the submission path leaves urgency unset); unparseable
// output is repaired or defaulted and never fails.
func ScoreUrgency(ctx context.Context, p llm.Provider, title, description string, attachmentSummaries []string) (models.Urgency, error) {
	summariesJSON, err := json.MarshalIndent(attachmentSummaries, "", "  ")
	if err != nil || attachmentSummaries == nil {
		summariesJSON = []byte("[]")
	}
	prompt := fmt.Sprintf(`You are an assistant for a municipal complaint system. Assess the urgency of the complaint.

Title: %s
Description: %s
Attachment Analyses: %s

Return a strict JSON with: { "score": 1-5 integer (1 lowest, 5 highest), "label": one of ["Low","Medium","High","Critical"], "reason": short one-sentence reason }.
Rules: Consider public safety, health risk, essential services disruption (water/electricity), environmental hazards, vulnerable groups impact, scale, and immediacy.`,
		title, description, summariesJSON)

	// Scoring is pinned to zero temperature. The value is the smallest
	// positive float32 because a plain zero is indistinguishable from unset
	// and gets replaced by the provider default.
	text, err := p.Generate(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   160,
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return models.Urgency{}, err
	}
	return RepairUrgency(text), nil
}

// RepairUrgency parses model output, clamping the score into [1,5] and
// re-deriving the label from thresholds when the model supplies an invalid
// one. Any parse failure yields the fixed default. Never returns an error.
func RepairUrgency(text string) models.Urgency {
	raw := ExtractJSONObject(text)
	if raw == "" {
		raw = strings.TrimSpace(text)
	}

	var parsed struct {
		Score  any    `json:"score"`
		Label  string `json:"label"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return DefaultUrgency()
	}

	score := coerceScore(parsed.Score)
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}

	label := parsed.Label
	if !validLabel(label) {
		label = LabelForScore(score)
	}
	return models.Urgency{Score: score, Label: label, Reason: parsed.Reason}
}

// LabelForScore maps a clamped score onto the fixed thresholds.
func LabelForScore(score int) string {
	switch {
	case score >= 5:
		return LabelCritical
	case score >= 4:
		return LabelHigh
	case score >= 3:
		return LabelMedium
	default:
		return LabelLow
	}
}

func validLabel(label string) bool {
	switch label {
	case LabelLow, LabelMedium, LabelHigh, LabelCritical:
		return true
	}
	return false
}

func coerceScore(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 3
}
