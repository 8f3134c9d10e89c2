package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/models"
)

const SummaryFallback = "No summary generated."

const (
	SummaryMinWords = 50
	SummaryMaxWords = 60
)

// Summarize condenses metadata plus the vision description into a
// municipal-context paragraph, clamped to the word range.
func Summarize(ctx context.Context, p llm.Provider, filename string, metadata map[string]any, description string) (string, error) {
	metaJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		metaJSON = []byte("{}")
	}
	prompt := fmt.Sprintf(`You are analyzing a user attachment for a municipal complaint system.

Attachment: %s
Metadata: %s
AI Description: %s

Write a single paragraph of %d to %d words summarizing the attachment content for municipal authorities. Incorporate useful metadata (camera, time, GPS, resolution) when available. Focus on actionable details relevant to municipal services.`,
		filename, metaJSON, description, SummaryMinWords, SummaryMaxWords)

	text, err := p.Generate(ctx, llm.Request{Prompt: prompt, MaxTokens: 220, Temperature: 0.3})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return SummaryFallback, nil
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return SummaryFallback, nil
	}
	return ClampWords(text, SummaryMinWords, SummaryMaxWords), nil
}

// AnalyzeAttachment runs the full per-file pipeline: metadata, description,
// summary. Provider errors propagate; the caller decides degradation.
func AnalyzeAttachment(ctx context.Context, p llm.Provider, vp llm.VisionProvider, data []byte, filename, declaredType string) (models.AttachmentAnalysis, error) {
	mimeType := InferMimeType(declaredType, data)
	metadata := ExtractMetadata(data, mimeType)

	description, err := Describe(ctx, vp, data, mimeType, metadata)
	if err != nil {
		return models.AttachmentAnalysis{}, err
	}
	summary, err := Summarize(ctx, p, filename, metadata, description)
	if err != nil {
		return models.AttachmentAnalysis{}, err
	}
	return models.AttachmentAnalysis{
		MimeType:    mimeType,
		Metadata:    metadata,
		Description: description,
		Summary:     summary,
	}, nil
}

// DegradedAnalysis is what a failed per-file pipeline persists: metadata is
// still real, text fields carry the fallback literals.
func DegradedAnalysis(data []byte, declaredType string) models.AttachmentAnalysis {
	mimeType := InferMimeType(declaredType, data)
	return models.AttachmentAnalysis{
		MimeType:    mimeType,
		Metadata:    ExtractMetadata(data, mimeType),
		Description: DescriptionFallback,
		Summary:     SummaryFallback,
	}
}
