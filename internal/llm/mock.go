package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/siddhesh434/jansunwai-indore/internal/utils"
)

// Mock is used when no API key is configured and in tests. Outputs are
// deterministic per prompt so runs are reproducible, following the same
// hash-seeded approach as a typical dev adapter.
type Mock struct {
	ModelVersion string
}

func (m Mock) Generate(ctx context.Context, req Request) (string, error) {
	full := req.System + "\n" + req.Prompt
	h := utils.HashStringToUint64(full)

	switch {
	case strings.Contains(full, `"score"`):
		scores := []int{2, 3, 3, 4, 5}
		labels := map[int]string{2: "Low", 3: "Medium", 4: "High", 5: "Critical"}
		score := utils.Pick(req.Prompt, scores)
		return fmt.Sprintf(`{"score": %d, "label": %q, "reason": "Mock urgency assessment"}`, score, labels[score]), nil

	case strings.Contains(full, `"departmentId"`):
		name := firstListedName(full)
		if name == "" {
			name = "General"
		}
		return fmt.Sprintf(`{"title": "Mock complaint title", "departmentId": %q, "reasoning": "Mock routing decision"}`, name), nil

	case strings.Contains(full, `"systemHealth"`):
		return `{"systemHealth": "Good", "keyFindings": ["Mock finding"], "recommendations": ["Mock recommendation"], "predictions": {"expectedGrowth": "stable"}, "alerts": []}`, nil

	default:
		return fmt.Sprintf("Mock response %d for municipal request.", h%1000), nil
	}
}

func (m Mock) Describe(ctx context.Context, data []byte, mimeType string, prompt string) (string, error) {
	return fmt.Sprintf("Mock description of a %s attachment of %d bytes relevant to a municipal complaint.", mimeType, len(data)), nil
}

// firstListedName pulls the first "- Name: description" entry out of a prompt
// that enumerates departments.
func firstListedName(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		entry := strings.TrimPrefix(line, "- ")
		if idx := strings.Index(entry, ":"); idx > 0 {
			return strings.TrimSpace(entry[:idx])
		}
		return strings.TrimSpace(entry)
	}
	return ""
}
