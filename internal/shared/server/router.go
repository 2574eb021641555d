package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"latexme/internal/services/health"
	"latexme/internal/shared/config"
	"latexme/internal/shared/metrics"
	"latexme/internal/shared/server/middleware"
	"latexme/internal/shared/server/respond"
	"latexme/internal/web"
	"latexme/internal/workspace"
)

// Polling is cheap; clients poll about once a second per pending request.
var (
	pollingRule = middleware.RateLimitRule{Rate: 5, Burst: 20}
	uploadRule  = middleware.PerMinute(20, 5)
)

// RouterDeps are the collaborators mounted by NewRouter.
type RouterDeps struct {
	Config     config.Config
	Workspaces *workspace.Handler
	Health     *health.Service
	Limiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	web.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})

	if deps.Workspaces != nil {
		workspaces := api.Group("/workspaces",
			middleware.Identity(),
			middleware.RateLimit(middleware.RateLimitConfig{
				Rules: map[string]middleware.RateLimitRule{
					middleware.GroupLLM:     middleware.PerMinute(deps.Config.LLMRatePerMinute, deps.Config.LLMRateBurst),
					middleware.GroupUpload:  uploadRule,
					middleware.GroupPolling: pollingRule,
				},
				GroupFor: rateLimitGroup,
				KeyFor:   rateLimitKey,
				Limiter:  deps.Limiter,
			}),
		)
		deps.Workspaces.RegisterRoutes(workspaces)
	}

	return r
}

// rateLimitGroup puts calls that reach the generation service in the LLM
// group, uploads in their own group and reads in the polling group.
// Everything else is unlimited.
func rateLimitGroup(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case c.Request.Method == http.MethodGet:
		return middleware.GroupPolling
	case c.Request.Method != http.MethodPost:
		return ""
	case strings.HasSuffix(path, "/generate"), strings.HasSuffix(path, "/ask"):
		return middleware.GroupLLM
	case strings.HasSuffix(path, "/experience/upload"):
		return middleware.GroupUpload
	}
	return ""
}

// Guest ids are picked by the client, so groups that spend provider quota or
// CPU are charged to the client IP.
func rateLimitKey(c *gin.Context, group string) string {
	switch group {
	case middleware.GroupLLM, middleware.GroupUpload:
		return middleware.ClientIPKey(c, group)
	}
	return middleware.OwnerKey(c, group)
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
