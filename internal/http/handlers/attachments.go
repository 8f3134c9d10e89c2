package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siddhesh434/jansunwai-indore/internal/analysis"
	"github.com/siddhesh434/jansunwai-indore/internal/storage"
)

// @Summary Analyze an uploaded file
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "attachment"
// @Success 200 {object} map[string]any
// @Router /api/attachments/analyze [post]
func (h *Handler) AttachmentAnalyze(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable file", err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable file", err.Error())
		return
	}

	result, err := analysis.AnalyzeAttachment(c.Request.Context(), h.Text, h.Vision, data, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.Error().Err(err).Str("file", fh.Filename).Msg("attachment analysis failed")
		writeError(c, http.StatusBadGateway, "AI_ERROR", "Failed to analyze attachment", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": fh.Filename, "analysis": result})
}

type AnalyzeExistingRequest struct {
	Filename     string `json:"filename" validate:"required"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
}

// AttachmentAnalyzeExisting re-runs the pipeline for a file already in the
// upload directory.
func (h *Handler) AttachmentAnalyzeExisting(c *gin.Context) {
	var req AnalyzeExistingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "filename is required", err.Error())
		return
	}

	data, err := h.Files.Read(req.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "File not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read file", err.Error())
		return
	}

	name := req.OriginalName
	if name == "" {
		name = req.Filename
	}
	result, err := analysis.AnalyzeAttachment(c.Request.Context(), h.Text, h.Vision, data, name, req.MimeType)
	if err != nil {
		h.Logger.Error().Err(err).Str("file", req.Filename).Msg("attachment analysis failed")
		writeError(c, http.StatusBadGateway, "AI_ERROR", "Failed to analyze attachment", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": req.Filename, "analysis": result})
}
