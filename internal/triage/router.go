package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/models"
)

// ErrMalformedOutput marks model responses that could not be parsed into the
// expected JSON contract, as opposed to upstream API errors.
var ErrMalformedOutput = errors.New("triage: malformed model output")

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSONObject returns the first {...} block in text, tolerating prose
// the model wraps around its JSON.
func ExtractJSONObject(text string) string {
	return jsonObjectRe.FindString(text)
}

// Routing is a department suggestion for client-side confirmation before
// submission. DepartmentID is empty when the suggested name resolved to no
// known department.
type Routing struct {
	Title          string `json:"title"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Reasoning      string `json:"reasoning"`
}

// RouteComplaint classifies free text onto one of the given departments. The
// model returns a department name in its departmentId field; resolution to a
// real id happens here via ResolveDepartment.
func RouteComplaint(ctx context.Context, p llm.Provider, query string, departments []models.Department) (Routing, error) {
	var list strings.Builder
	for _, d := range departments {
		desc := d.Description
		if desc == "" {
			desc = "Municipal services"
		}
		fmt.Fprintf(&list, "- %s: %s\n", d.Name, desc)
	}

	system := fmt.Sprintf(`You are an expert municipal services assistant for Indore city. Your task is to analyze user complaints and automatically determine:

1. A concise, descriptive title (max 60 characters)
2. The most appropriate department to handle the complaint

Available departments:
%s
Rules:
- Title should be clear, specific, and actionable
- Choose the most relevant department based on the complaint type
- If multiple departments could handle it, choose the primary one
- Be precise and professional

Respond in JSON format only:
{
  "title": "Brief descriptive title",
  "departmentId": "department_name_here",
  "reasoning": "Brief explanation of why this department was chosen"
}`, list.String())

	text, err := p.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      "Analyze this complaint: " + query,
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		return Routing{}, err
	}

	raw := ExtractJSONObject(text)
	if raw == "" {
		raw = strings.TrimSpace(text)
	}
	var parsed struct {
		Title        string `json:"title"`
		DepartmentID string `json:"departmentId"`
		Reasoning    string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Routing{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if parsed.Title == "" || parsed.DepartmentID == "" {
		return Routing{}, fmt.Errorf("%w: missing title or department", ErrMalformedOutput)
	}

	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "AI analysis completed"
	}
	routing := Routing{
		Title:          parsed.Title,
		DepartmentName: parsed.DepartmentID,
		Reasoning:      reasoning,
	}
	if dept, ok := ResolveDepartment(departments, parsed.DepartmentID); ok {
		routing.DepartmentID = dept.ID
		routing.DepartmentName = dept.Name
	}
	return routing, nil
}

// ResolveDepartment matches a model-suggested name against known departments:
// exact case-insensitive first, then bidirectional substring. One policy for
// every call site. No match returns ok=false, never an error.
func ResolveDepartment(departments []models.Department, name string) (models.Department, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return models.Department{}, false
	}
	for _, d := range departments {
		if strings.ToLower(strings.TrimSpace(d.Name)) == needle {
			return d, true
		}
	}
	for _, d := range departments {
		candidate := strings.ToLower(strings.TrimSpace(d.Name))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return d, true
		}
	}
	return models.Department{}, false
}
