package server

import (
	"github.com/gin-gonic/gin"

	"vdr-backend/internal/analysis"
	"vdr-backend/internal/export"
	"vdr-backend/internal/shared/config"
	"vdr-backend/internal/shared/metrics"
	"vdr-backend/internal/shared/server/middleware"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, analysisHandler *analysis.Handler, exportHandler *export.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	api := r.Group("/api")
	analysisHandler.RegisterRoutes(api)
	exportHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
