package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request is a single prompt for a text model. System may be empty for
// providers without a system role.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Provider generates text from a prompt. Implementations are swapped by
// configuration at startup; callers never branch on the concrete type.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// VisionProvider describes binary content (image, pdf, video) with a prompt.
type VisionProvider interface {
	Describe(ctx context.Context, data []byte, mimeType string, prompt string) (string, error)
}

var ErrEmptyResponse = errors.New("llm: empty model response")

// APIError is a non-2xx response from an upstream model API. Distinct from
// malformed-output errors, which callers raise after parsing.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error: status %d: %s", e.Provider, e.Status, e.Body)
}
