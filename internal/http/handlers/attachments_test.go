package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/storage"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	files, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("disk: %v", err)
	}
	return &Handler{
		Text:      llm.Mock{},
		Vision:    llm.Mock{},
		Files:     files,
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
	}
}

func TestAttachmentAnalyzeUpload(t *testing.T) {
	h := newTestHandler(t)
	r := gin.New()
	r.POST("/api/attachments/analyze", h.AttachmentAnalyze)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "drain.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte("blocked drain on main street")); err != nil {
		t.Fatalf("write: %v", err)
	}
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/api/attachments/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Filename string `json:"filename"`
		Analysis struct {
			MimeType    string `json:"mime_type"`
			Description string `json:"description"`
			Summary     string `json:"summary"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Filename != "drain.txt" {
		t.Fatalf("unexpected filename %q", body.Filename)
	}
	if body.Analysis.Description == "" || body.Analysis.Summary == "" {
		t.Fatalf("expected populated analysis, got %+v", body.Analysis)
	}
}

func TestAttachmentAnalyzeMissingFile(t *testing.T) {
	h := newTestHandler(t)
	r := gin.New()
	r.POST("/api/attachments/analyze", h.AttachmentAnalyze)

	req, _ := http.NewRequest(http.MethodPost, "/api/attachments/analyze", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAttachmentAnalyzeExistingNotFound(t *testing.T) {
	h := newTestHandler(t)
	r := gin.New()
	r.POST("/api/attachments/analyze-existing", h.AttachmentAnalyzeExisting)

	req, _ := http.NewRequest(http.MethodPost, "/api/attachments/analyze-existing",
		strings.NewReader(`{"filename": "missing.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAttachmentAnalyzeExistingRoundtrip(t *testing.T) {
	h := newTestHandler(t)
	stored, err := h.Files.Save("note.txt", []byte("overflowing garbage bin"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	r := gin.New()
	r.POST("/api/attachments/analyze-existing", h.AttachmentAnalyzeExisting)

	payload := `{"filename": "` + stored + `", "original_name": "note.txt", "mime_type": "text/plain"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/attachments/analyze-existing", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAttachmentAnalyzeExistingRequiresFilename(t *testing.T) {
	h := newTestHandler(t)
	r := gin.New()
	r.POST("/api/attachments/analyze-existing", h.AttachmentAnalyzeExisting)

	req, _ := http.NewRequest(http.MethodPost, "/api/attachments/analyze-existing", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
