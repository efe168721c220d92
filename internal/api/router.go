package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/contentflow/config"
	_ "github.com/d60-Lab/contentflow/docs"
	"github.com/d60-Lab/contentflow/internal/api/handler"
	"github.com/d60-Lab/contentflow/internal/api/middleware"
	"github.com/d60-Lab/contentflow/internal/model"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
			return model.ValidPlatform(model.Platform(fl.Field().String()))
		})
		_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
			return model.ValidContentType(model.ContentType(fl.Field().String()))
		})
		_ = v.RegisterValidation("step_type", func(fl validator.FieldLevel) bool {
			return model.ValidStepType(model.StepType(fl.Field().String()))
		})
	}
}

// NewRouter assembles the gin engine with the full middleware chain.
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.RequestLogger())
	r.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", h.Login)

	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	{
		authed.POST("/users", h.CreateUser)
		authed.GET("/users", h.ListUsers)
		authed.GET("/users/:user_id/content", h.ListUserContent)
		authed.GET("/users/:user_id/approvals/pending", h.GetPendingApprovals)
		authed.GET("/users/:user_id/calendar", h.GetContentCalendar)
		authed.GET("/users/:user_id/analytics", h.GetContentAnalytics)
		authed.GET("/users/:user_id/workflow-templates", h.ListWorkflowTemplates)

		authed.POST("/content", h.CreateContent)
		authed.POST("/content/generate", h.GenerateContent)
		authed.GET("/content/:id", h.GetContentByID)
		authed.PATCH("/content/:id", h.UpdateContent)
		authed.POST("/content/:id/approval", h.ApproveContent)
		authed.POST("/content/:id/schedule", h.ScheduleContent)
		authed.POST("/content/:id/unschedule", h.UnscheduleContent)

		authed.POST("/workflow-templates", h.CreateWorkflowTemplate)
		authed.GET("/workflow-templates/:id", h.GetWorkflowTemplate)
		authed.POST("/workflow-instances", h.StartWorkflowInstance)
		authed.POST("/workflow-instances/:id/advance", h.AdvanceWorkflowInstance)
		authed.POST("/workflow-instances/:id/cancel", h.CancelWorkflowInstance)
	}

	return r
}
