package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/actions"
	"tool-advisor/internal/catalog"
	"tool-advisor/internal/chat"
	"tool-advisor/internal/reports"
	"tool-advisor/internal/services/health"
	"tool-advisor/internal/shared/config"
	"tool-advisor/internal/shared/metrics"
	"tool-advisor/internal/shared/server/middleware"
)

const (
	rateGroupModel   = "MODEL"
	rateGroupCatalog = "CATALOG"
	rateGroupNone    = "NONE"

	catalogRateMultiplier = 5
)

// RouterDeps carries the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config         config.Config
	Health         *health.Handler
	ActionsHandler *actions.Handler
	CatalogHandler *catalog.Handler
	ChatHandler    *chat.Handler
	ReportsHandler *reports.Handler
	RateLimiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if !cfg.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	secure := !cfg.IsDevLike()

	r.Use(
		middleware.RequestID(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Session(secure),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateGroupModel,
			GroupFor:     rateGroupFor,
			Limiter:      deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupModel:   {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
				rateGroupCatalog: {Rate: cfg.RateLimitRPS * catalogRateMultiplier, Burst: cfg.RateLimitBurst * catalogRateMultiplier},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.ActionsHandler != nil {
		deps.ActionsHandler.RegisterRoutes(api)
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}
	if deps.ReportsHandler != nil {
		deps.ReportsHandler.RegisterRoutes(api)
	}
	registerConsentRoutes(api, secure)

	return r
}

// rateGroupFor puts catalog reads in a wider bucket and exempts cheap endpoints.
// The chat socket is counted once at upgrade time.
func rateGroupFor(c *gin.Context) string {
	path := c.FullPath()
	switch path {
	case "", "/metrics", "/api/v1/health", "/api/v1/consent":
		return rateGroupNone
	}
	if c.Request.Method != http.MethodGet {
		return rateGroupModel
	}
	switch path {
	case "/api/v1/tools", "/api/v1/tools/:name", "/api/v1/tools/:name/release-notes", "/api/v1/trends",
		"/api/v1/reports", "/api/v1/reports/:id", "/api/v1/reports/:id/export.csv":
		return rateGroupCatalog
	}
	return rateGroupModel
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
