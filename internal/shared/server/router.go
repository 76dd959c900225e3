package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf2docx/internal/convert"
	"pdf2docx/internal/services/health"
	"pdf2docx/internal/shared/config"
	"pdf2docx/internal/shared/metrics"
	"pdf2docx/internal/shared/server/middleware"
	"pdf2docx/internal/shared/server/respond"
)

const convertRateLimitGroup = "CONVERT"

type RouterDeps struct {
	Config         config.Config
	ConvertHandler *convert.Handler
	Health         *health.Service
	Limiter        *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigins),
	)

	var convertMiddleware []gin.HandlerFunc
	if cfg.RateLimitRPS > 0 {
		convertMiddleware = append(convertMiddleware, middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				convertRateLimitGroup: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			},
			DefaultGroup: convertRateLimitGroup,
			Limiter:      deps.Limiter,
		}))
	}

	root := r.Group("")
	if deps.ConvertHandler != nil {
		deps.ConvertHandler.RegisterRoutes(root, convertMiddleware...)
	}

	if cfg.OpsEndpoints {
		healthSvc := deps.Health
		if healthSvc == nil {
			healthSvc = health.NewService(nil)
		}
		root.GET("/health", func(c *gin.Context) {
			payload, ok := healthSvc.Status()
			status := http.StatusOK
			if !ok {
				status = http.StatusServiceUnavailable
			}
			respond.JSON(c, status, payload)
		})
		root.GET("/metrics", metrics.Handler())
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":" + config.DefaultPort
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
