package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/siddhesh434/jansunwai-indore/internal/assistant"
	"github.com/siddhesh434/jansunwai-indore/internal/insights"
	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/triage"
)

type AnalyzeComplaintRequest struct {
	Query   string `json:"query" validate:"required"`
	Address string `json:"address"`
}

// ComplaintAnalyze suggests a title and department for client-side
// confirmation before submission. Failures here are fatal to this endpoint
// only; submission never depends on it.
func (h *Handler) ComplaintAnalyze(c *gin.Context) {
	var req AnalyzeComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "query is required", nil)
		return
	}

	departments, err := h.Store.ListDepartments(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load departments", err.Error())
		return
	}
	if len(departments) == 0 {
		writeError(c, http.StatusInternalServerError, "INVALID_STATE", "No departments found", nil)
		return
	}

	routing, err := triage.RouteComplaint(c.Request.Context(), h.Text, req.Query, departments)
	if err != nil {
		h.Logger.Error().Err(err).Msg("complaint routing failed")
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			writeError(c, http.StatusBadGateway, "AI_ERROR", "Model API error", apiErr.Error())
			return
		}
		writeError(c, http.StatusBadGateway, "AI_PARSE_ERROR", "Failed to parse model response", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis": gin.H{
			"title":           routing.Title,
			"department_id":   routing.DepartmentID,
			"department_name": routing.DepartmentName,
			"reasoning":       routing.Reasoning,
			"original_query":  req.Query,
			"address":         req.Address,
		},
	})
}

type AssistantChatRequest struct {
	Message string              `json:"message" validate:"required"`
	History []assistant.Message `json:"history"`
}

// AssistantChat never fails on provider errors: the reply degrades to a
// canned topic-matched response with HTTP 200.
func (h *Handler) AssistantChat(c *gin.Context) {
	var req AssistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "message is required", nil)
		return
	}

	departments, err := h.Store.ListDepartments(c.Request.Context())
	if err != nil {
		h.Logger.Warn().Err(err).Msg("assistant department list unavailable")
		departments = nil
	}

	reply := h.Assistant.Ask(c.Request.Context(), req.Message, req.History, departments)
	c.JSON(http.StatusOK, reply)
}

// DashboardInsights aggregates complaint stats and asks the model for an
// analysis; failure substitutes the fixed fallback.
func (h *Handler) DashboardInsights(c *gin.Context) {
	stats, err := h.Store.GetDashboardStats(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to aggregate stats", err.Error())
		return
	}

	result, err := insights.Generate(c.Request.Context(), h.Text, stats)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("insights generation failed, serving fallback")
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"stats":    stats,
			"analysis": insights.Fallback(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"stats":    stats,
		"analysis": result,
	})
}
