package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/freedom_case_2/callemail/internal/config"
	"github.com/freedom_case_2/callemail/internal/db"
	"github.com/freedom_case_2/callemail/internal/http/handlers"
	"github.com/freedom_case_2/callemail/internal/http/middleware"
	"github.com/freedom_case_2/callemail/internal/refdata"
	"github.com/freedom_case_2/callemail/internal/service"

	_ "github.com/freedom_case_2/callemail/docs"
)

func Router(cfg config.Config, repo db.Repository, refs refdata.Set, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	metrics := middleware.NewMetrics()
	r.Use(metrics.Middleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.APIKeyHeader, handlers.UserIDHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	h := &handlers.Handler{
		Service: &service.CallEmailService{
			Repo:      repo,
			Refs:      refs,
			Validator: service.NewValidator(),
			Logger:    logger,
		},
		Repo:   repo,
		Refs:   refs,
		Logger: logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/call_email/:id", h.GetCallEmail)
		api.GET("/classification/", h.Classifications)
		api.GET("/call_types/", h.CallTypes)
		api.GET("/report_types/", h.ReportTypes)
		api.GET("/referrers/", h.Referrers)
		api.GET("/status_choices/", h.StatusChoices)
	}

	writes := api.Group("")
	writes.Use(middleware.APIKey(cfg.APIKey))
	{
		writes.POST("/call_email/", h.CreateCallEmail)
		writes.POST("/call_email/:id/draft/", h.SaveDraft)
		writes.PUT("/call_email/:id/", h.UpdateCallEmail)
		writes.POST("/call_email/:id/call_email_save_person/", h.SavePerson)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
