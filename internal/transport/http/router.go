package http

import (
	"net/http"

	"github.com/astro-web3/bws-gateway/internal/config"
	"github.com/astro-web3/bws-gateway/internal/domain/apikey"
	"github.com/astro-web3/bws-gateway/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter builds the gateway routes. m may be nil when metrics are off.
func NewRouter(handler *Handler, cfg *config.Config, auth *apikey.Authenticator, m *metrics.Metrics) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(loggingMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	jobs := router.Group("/", apiKeyMiddleware(auth, m))
	jobs.POST("/LivenessDetection", handler.LivenessDetection)
	jobs.POST("/PhotoVerify", handler.PhotoVerify)
	jobs.POST("/VideoLivenessDetection", handler.VideoLivenessDetection)

	return router
}
