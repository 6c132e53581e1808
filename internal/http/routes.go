package http

import (
	"strconv"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/config"
	"github.com/IbnuAlii/GuulSideApp/internal/http/handlers"
	"github.com/IbnuAlii/GuulSideApp/internal/http/middleware"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"
	"github.com/IbnuAlii/GuulSideApp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthRateLimitMessage is the 429 body text for a limiter window, e.g.
// "... please try again after 15 minutes".
func AuthRateLimitMessage(window time.Duration) string {
	var after string
	switch {
	case window >= time.Minute && window%time.Minute == 0:
		after = plural(int(window/time.Minute), "minute")
	default:
		after = plural(int(window.Round(time.Second)/time.Second), "second")
	}
	return "Too many attempts from this IP, please try again after " + after
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// Deps is everything the router needs from main.
type Deps struct {
	Handler     *handlers.Handler
	Health      *handlers.HealthHandler
	Hub         *ws.Hub
	Tokens      middleware.TokenVerifier
	AuthLimiter middleware.RateLimiter
}

// NewRouter builds the engine with the global middleware chain and all routes.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	// nil trusts no proxy, so ClientIP is the socket address
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.Recovery(cfg.IsDevelopment()),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.AllowedOrigin, cfg.IsProduction()),
		middleware.BodyLimit(cfg.BodyLimitBytes),
		middleware.Timeout(cfg.RequestTimeout),
	)
	RegisterRoutes(r, cfg, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {
	h := deps.Handler
	gate := middleware.Auth(deps.Tokens)

	r.GET("/", handlers.Welcome)

	// Health checks (no rate limiting)
	if deps.Health != nil {
		r.GET("/health", deps.Health.Health)
		r.GET("/healthz", deps.Health.Liveness)
		r.GET("/readyz", deps.Health.Readiness)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// signup and signin share one budget per IP
	authRL := middleware.RateLimit(deps.AuthLimiter, "auth", AuthRateLimitMessage(deps.AuthLimiter.Window()))

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", authRL, h.Signup)
		auth.POST("/signin", authRL, h.Signin)
		auth.GET("/verify", h.Verify)

		auth.POST("/signout", gate, h.Signout)
		auth.GET("/me", gate, h.Me)
		auth.GET("/profile", gate, h.Me)
		auth.PUT("/profile", gate, h.UpdateProfile)
		auth.POST("/profile/image", gate, h.ProfileImage)
		auth.GET("/activity", gate, h.Activity)
	}

	tasks := r.Group("/api/tasks")
	tasks.Use(gate)
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	if deps.Hub != nil {
		origin := ""
		if cfg.IsProduction() {
			origin = cfg.AllowedOrigin
		}
		r.GET("/ws", h.WS(deps.Hub, origin))
	}

	r.NoRoute(handlers.NotFound)
}
