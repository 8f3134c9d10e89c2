package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestComplaintAnalyzeRequiresQuery(t *testing.T) {
	h := newTestHandler(t)
	r := gin.New()
	r.POST("/api/analyze-complaint", h.ComplaintAnalyze)

	req, _ := http.NewRequest(http.MethodPost, "/api/analyze-complaint", strings.NewReader(`{"query": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAssistantChatRequiresMessage(t *testing.T) {
	h := newTestHandler(t)
	r := gin.New()
	r.POST("/api/assistant/chat", h.AssistantChat)

	req, _ := http.NewRequest(http.MethodPost, "/api/assistant/chat", strings.NewReader(`{"message": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestComplaintCreateRequiresFields(t *testing.T) {
	h := newTestHandler(t)
	r := gin.New()
	r.POST("/api/complaints", h.ComplaintCreate)

	req, _ := http.NewRequest(http.MethodPost, "/api/complaints", strings.NewReader(`{"title": "only a title"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
