package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/siddhesh434/jansunwai-indore/internal/models"
)

type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) DepartmentCreate(c *gin.Context) {
	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	d := models.Department{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Store.CreateDepartment(c.Request.Context(), d); err != nil {
		writeError(c, http.StatusBadRequest, "DB_ERROR", "Failed to create department", err.Error())
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) DepartmentsList(c *gin.Context) {
	items, err := h.Store.ListDepartments(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list departments", err.Error())
		return
	}
	if items == nil {
		items = []models.Department{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) DepartmentGet(c *gin.Context) {
	d, err := h.Store.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Department not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get department", err.Error())
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DepartmentComplaints(c *gin.Context) {
	items, err := h.Store.ListComplaints(c.Request.Context(), "", c.Param("id"), "", 200, 0)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list complaints", err.Error())
		return
	}
	if items == nil {
		items = []models.Complaint{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) DepartmentDelete(c *gin.Context) {
	if err := h.Store.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Department not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete department", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted"})
}

type CreateMemberRequest struct {
	Name         string `json:"name" validate:"required"`
	Username     string `json:"username" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
}

func (h *Handler) MemberCreate(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	m := models.DepartmentMember{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Username:     req.Username,
		DepartmentID: req.DepartmentID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Store.CreateMember(c.Request.Context(), m); err != nil {
		writeError(c, http.StatusBadRequest, "DB_ERROR", "Failed to create member", err.Error())
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) MembersList(c *gin.Context) {
	items, err := h.Store.ListMembers(c.Request.Context(), c.Query("department"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list members", err.Error())
		return
	}
	if items == nil {
		items = []models.DepartmentMember{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) MemberDelete(c *gin.Context) {
	if err := h.Store.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Member not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete member", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address"`
}

func (h *Handler) UserCreate(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	u := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Name:      req.Name,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		writeError(c, http.StatusBadRequest, "DB_ERROR", "Failed to create user", err.Error())
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) UsersList(c *gin.Context) {
	items, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list users", err.Error())
		return
	}
	if items == nil {
		items = []models.User{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) UserGet(c *gin.Context) {
	u, err := h.Store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get user", err.Error())
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UserDelete(c *gin.Context) {
	if err := h.Store.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete user", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
