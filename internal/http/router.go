package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/satwikkini-01/Sahaay/internal/config"
	"github.com/satwikkini-01/Sahaay/internal/db"
	"github.com/satwikkini-01/Sahaay/internal/http/handlers"
	"github.com/satwikkini-01/Sahaay/internal/http/middleware"
	"github.com/satwikkini-01/Sahaay/internal/service"
	"github.com/satwikkini-01/Sahaay/internal/sla"

	_ "github.com/satwikkini-01/Sahaay/docs"
)

func Router(cfg config.Config, store *db.Store, intake *service.IntakeService, engine *sla.Engine, predictor *sla.Predictor, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

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
		Store:              store,
		Intake:             intake,
		Engine:             engine,
		Predictor:          predictor,
		Validator:          validator.New(),
		Logger:             logger,
		DisplayRadiusKm:    cfg.DisplayRadiusKm,
		HotspotEpsilonKm:   cfg.HotspotEpsilonKm,
		HotspotMinPoints:   cfg.HotspotMinPoints,
		HeatmapBandwidthKm: cfg.HeatmapBandwidthKm,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/complaints", h.ComplaintCreate)
		api.GET("/complaints", h.ComplaintsList)
		api.GET("/complaints/hotspots", h.Hotspots)
		api.GET("/complaints/groups", h.Groups)
		api.GET("/complaints/analytics", h.Analytics)
		api.GET("/complaints/:id", h.ComplaintDetails)
		api.GET("/complaints/:id/risk", h.ComplaintRisk)
		api.GET("/sla/recommendation", h.SLARecommendation)
		api.GET("/sla/at-risk", h.AtRisk)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/sla/run", h.RunSLA)
		admin.POST("/complaints/:id/resolve", h.Resolve)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
