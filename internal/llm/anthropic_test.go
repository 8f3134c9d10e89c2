package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAnthropicGenerateSendsTemperature(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"content":[{"text":"ok"}]}`)
	}))
	defer srv.Close()

	p := NewAnthropic("key", "claude-test", time.Second)
	p.BaseURL = srv.URL

	out, err := p.Generate(context.Background(), Request{
		System:      "sys",
		Prompt:      "hello",
		MaxTokens:   50,
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
	if got["temperature"] != 0.3 {
		t.Fatalf("expected temperature 0.3 in payload, got %v", got["temperature"])
	}
	if got["system"] != "sys" {
		t.Fatalf("expected top-level system field, got %v", got["system"])
	}
}

func TestAnthropicGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewAnthropic("key", "claude-test", time.Second)
	p.BaseURL = srv.URL

	_, err := p.Generate(context.Background(), Request{Prompt: "hello"})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", apiErr.Status)
	}
}
