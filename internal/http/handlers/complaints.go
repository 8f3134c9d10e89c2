package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/siddhesh434/jansunwai-indore/internal/models"
	"github.com/siddhesh434/jansunwai-indore/internal/triage"
)

type CreateComplaintRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	AuthorID     string `json:"author_id" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
	Status       string `json:"status"`
	// Attachments already stored through the analyze flow, with their
	// analyses at the same positions.
	Attachments []models.Attachment         `json:"attachments"`
	Analyses    []models.AttachmentAnalysis `json:"attachment_analyses"`
}

// @Summary Submit a complaint
// @Description Accepts JSON or multipart form data with optional file attachments
// @Tags complaints
// @Accept json,multipart/form-data
// @Produce json
// @Success 201 {object} triage.SubmissionResult
// @Failure 400 {object} map[string]any
// @Router /api/complaints [post]
func (h *Handler) ComplaintCreate(c *gin.Context) {
	var in triage.SubmissionInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid multipart payload", err.Error())
			return
		}
		in = triage.SubmissionInput{
			Title:        c.PostForm("title"),
			Description:  c.PostForm("description"),
			Address:      c.PostForm("address"),
			AuthorID:     c.PostForm("author_id"),
			DepartmentID: c.PostForm("department_id"),
			Status:       c.PostForm("status"),
		}
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable file "+fh.Filename, err.Error())
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable file "+fh.Filename, err.Error())
				return
			}
			in.Files = append(in.Files, triage.SubmissionFile{
				Name:     fh.Filename,
				MimeType: fh.Header.Get("Content-Type"),
				Data:     data,
			})
		}
		if raw := c.PostForm("analyses"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &in.Analyses); err != nil {
				writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid analyses JSON", err.Error())
				return
			}
		}
	} else {
		var req CreateComplaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
			return
		}
		in = triage.SubmissionInput{
			Title:        req.Title,
			Description:  req.Description,
			Address:      req.Address,
			AuthorID:     req.AuthorID,
			DepartmentID: req.DepartmentID,
			Status:       req.Status,
			Attachments:  req.Attachments,
			Analyses:     req.Analyses,
		}
	}

	if err := h.Validator.Struct(CreateComplaintRequest{
		Title:        in.Title,
		AuthorID:     in.AuthorID,
		DepartmentID: in.DepartmentID,
	}); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	result, err := h.Triage.Submit(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, triage.ErrInvalidSubmission) {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
			return
		}
		h.Logger.Error().Err(err).Msg("complaint submission failed")
		writeError(c, http.StatusInternalServerError, "SUBMISSION_ERROR", "Failed to create complaint", err.Error())
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) ComplaintsList(c *gin.Context) {
	status := c.Query("status")
	department := c.Query("department")
	author := c.Query("author")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListComplaints(c.Request.Context(), status, department, author, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list complaints", err.Error())
		return
	}
	if items == nil {
		items = []models.Complaint{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) ComplaintGet(c *gin.Context) {
	result, err := h.Store.GetComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get complaint", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) ComplaintStatusUpdate(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if !models.ValidStatus(req.Status) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status", req.Status)
		return
	}
	if err := h.Store.UpdateComplaintStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update status", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

type ThreadMessageRequest struct {
	Message    string `json:"message" validate:"required"`
	AuthorKind string `json:"author_kind" validate:"required"`
	AuthorID   string `json:"author_id" validate:"required"`
}

func (h *Handler) ThreadAppend(c *gin.Context) {
	var req ThreadMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	kind := models.AuthorKind(req.AuthorKind)
	if !models.ValidAuthorKind(kind) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "author_kind must be citizen or staff", req.AuthorKind)
		return
	}

	exists, err := h.Store.AuthorExists(c.Request.Context(), kind, req.AuthorID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to verify author", err.Error())
		return
	}
	if !exists {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Author not found", nil)
		return
	}

	msg := models.ThreadMessage{
		Message:    req.Message,
		AuthorKind: kind,
		AuthorID:   req.AuthorID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Store.AppendThreadMessage(c.Request.Context(), c.Param("id"), msg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to append message", err.Error())
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) ComplaintDelete(c *gin.Context) {
	if err := h.Store.DeleteComplaint(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete complaint", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted"})
}
