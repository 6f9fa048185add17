package handler

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veritas-labs/veritas/internal/config"
	"github.com/veritas-labs/veritas/internal/middleware"
)

type Handlers struct {
	Media *MediaHandler
	Claim *ClaimHandler
	Audit *AuditHandler
}

func NewRouter(cfg *config.Config, h Handlers, limiter *middleware.ClientLimiter) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())

	r.NoRoute(NotFound)

	r.GET("/", Index)
	r.GET("/health", Health)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	predict := r.Group("/")
	predict.Use(middleware.APIKeyMiddleware(cfg))
	predict.Use(middleware.RateLimitMiddleware(limiter))
	{
		predict.POST("/predict-image", h.Media.PredictImage)
		predict.POST("/predict-video", h.Media.PredictVideo)
		predict.POST("/predict-news", h.Claim.PredictNews)
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.AdminMiddleware(cfg))
	{
		v1.GET("/audit", h.Audit.List)
	}
	return r
}
