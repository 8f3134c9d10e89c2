package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/siddhesh434/jansunwai-indore/internal/assistant"
	"github.com/siddhesh434/jansunwai-indore/internal/config"
	"github.com/siddhesh434/jansunwai-indore/internal/db"
	"github.com/siddhesh434/jansunwai-indore/internal/http/handlers"
	"github.com/siddhesh434/jansunwai-indore/internal/http/middleware"
	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/storage"
	"github.com/siddhesh434/jansunwai-indore/internal/triage"

	_ "github.com/siddhesh434/jansunwai-indore/docs"
)

func Router(cfg config.Config, store *db.Store, svc *triage.Service, text llm.Provider, vision llm.VisionProvider, asst *assistant.Assistant, files *storage.Disk, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Triage:    svc,
		Text:      text,
		Vision:    vision,
		Assistant: asst,
		Files:     files,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/complaints", h.ComplaintCreate)
		api.GET("/complaints", h.ComplaintsList)
		api.GET("/complaints/:id", h.ComplaintGet)
		api.PATCH("/complaints/:id/status", h.ComplaintStatusUpdate)
		api.POST("/complaints/:id/messages", h.ThreadAppend)
		api.POST("/analyze-complaint", h.ComplaintAnalyze)

		api.POST("/attachments/analyze", h.AttachmentAnalyze)
		api.POST("/attachments/analyze-existing", h.AttachmentAnalyzeExisting)

		api.POST("/assistant/chat", h.AssistantChat)

		api.GET("/departments", h.DepartmentsList)
		api.GET("/departments/:id", h.DepartmentGet)
		api.GET("/departments/:id/complaints", h.DepartmentComplaints)
		api.POST("/departments", h.DepartmentCreate)

		api.GET("/users", h.UsersList)
		api.GET("/users/:id", h.UserGet)
		api.POST("/users", h.UserCreate)

		api.GET("/members", h.MembersList)
		api.POST("/members", h.MemberCreate)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.DELETE("/complaints/:id", h.ComplaintDelete)
		admin.DELETE("/departments/:id", h.DepartmentDelete)
		admin.DELETE("/users/:id", h.UserDelete)
		admin.DELETE("/members/:id", h.MemberDelete)
		admin.GET("/insights/dashboard", h.DashboardInsights)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
