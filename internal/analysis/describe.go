package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/siddhesh434/jansunwai-indore/internal/llm"
)

const DescriptionFallback = "No description available."

// BuildDescribePrompt picks the template for the media type and appends a
// human-readable rendering of the extracted metadata.
func BuildDescribePrompt(mimeType string, metadata map[string]any) string {
	var prompt string
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		prompt = "Describe this image in 50 to 60 words. Include visible details and any context relevant to a municipal complaint."
	case mimeType == "application/pdf":
		prompt = "Summarize this PDF in 50 to 60 words. Focus on information relevant to a municipal complaint."
	case strings.HasPrefix(mimeType, "video/"):
		prompt = "Describe what happens in this video in 50 to 60 words. Emphasize anything relevant to a municipal complaint."
	default:
		prompt = "Analyze this file in 50 to 60 words. Include information relevant to a municipal complaint."
	}
	if ctx := MetadataContext(metadata); ctx != "" {
		prompt += " Technical details: " + ctx
	}
	return prompt
}

// MetadataContext renders select metadata fields for inclusion in a prompt.
func MetadataContext(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	var b strings.Builder
	make_, okMake := metadata["cameraMake"].(string)
	model, okModel := metadata["cameraModel"].(string)
	if okMake && okModel {
		fmt.Fprintf(&b, " Camera: %s %s.", make_, model)
	}
	if v, ok := metadata["capturedAt"]; ok {
		fmt.Fprintf(&b, " Date taken: %v.", v)
	}
	if v, ok := metadata["iso"]; ok {
		fmt.Fprintf(&b, " ISO: %v.", v)
	}
	if v, ok := metadata["fNumber"]; ok {
		fmt.Fprintf(&b, " F-stop: f/%v.", v)
	}
	if v, ok := metadata["exposureTime"]; ok {
		fmt.Fprintf(&b, " Exposure: %vs.", v)
	}
	lat, okLat := metadata["latitude"]
	lon, okLon := metadata["longitude"]
	if okLat && okLon {
		fmt.Fprintf(&b, " GPS: %v, %v.", lat, lon)
	}
	w, okW := metadata["width"]
	h, okH := metadata["height"]
	if okW && okH {
		fmt.Fprintf(&b, " Resolution: %vx%v.", w, h)
	}
	if v, ok := metadata["sizeBytes"].(int64); ok {
		fmt.Fprintf(&b, " Size: %dKB.", v/1024)
	}
	return strings.TrimSpace(b.String())
}

// Describe sends the attachment to the vision model. Empty model output maps
// to the fallback literal; transport and API errors propagate to the caller.
func Describe(ctx context.Context, vp llm.VisionProvider, data []byte, mimeType string, metadata map[string]any) (string, error) {
	text, err := vp.Describe(ctx, data, mimeType, BuildDescribePrompt(mimeType, metadata))
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return DescriptionFallback, nil
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return DescriptionFallback, nil
	}
	return text, nil
}
