package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gemini calls generateContent. It is the one provider that also handles
// binary attachments, so it implements both Provider and VisionProvider.
type Gemini struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGemini(apiKey, model string, timeout time.Duration) *Gemini {
	return &Gemini{
		BaseURL: "https://generativelanguage.googleapis.com",
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobPart `json:"inlineData,omitempty"`
}

type geminiBlobPart struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
		Temperature     float32 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}
	return p.call(ctx, []geminiPart{{Text: prompt}}, req.MaxTokens, req.Temperature)
}

func (p *Gemini) Describe(ctx context.Context, data []byte, mimeType string, prompt string) (string, error) {
	parts := []geminiPart{
		{InlineData: &geminiBlobPart{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
		{Text: prompt},
	}
	return p.call(ctx, parts, 0, 0)
}

func (p *Gemini) call(ctx context.Context, parts []geminiPart, maxTokens int, temperature float32) (string, error) {
	var payload geminiRequest
	payload.Contents = append(payload.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: parts})
	payload.GenerationConfig.MaxOutputTokens = maxTokens
	payload.GenerationConfig.Temperature = temperature
	b, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.BaseURL, p.Model, p.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{Provider: "gemini", Status: resp.StatusCode, Body: string(body)}
	}

	var r geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 || r.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrEmptyResponse
	}
	return r.Candidates[0].Content.Parts[0].Text, nil
}
