package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samsapp/sams-backend/internal/config"
	"github.com/samsapp/sams-backend/internal/handler"
	"github.com/samsapp/sams-backend/internal/middleware"
	"github.com/samsapp/sams-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Code       *handler.CodeHandler
	Attendance *handler.AttendanceHandler
	User       *handler.UserHandler
	Report     *handler.ReportHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Metrics())

	// Unsupported verbs on known routes answer 405 with the standard envelope.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, response.ErrMethodNotAllowed)
	})

	// Health check and Prometheus scrape endpoint.
	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiters: auth endpoints are brute-force targets, the redemption
	// endpoint gets a looser per-IP cap since a classroom shares a NAT.
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	redeemLimiter := middleware.NewRateLimiter(120, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── 2. Attendance Codes ───────────────────────────────────────────
	codes := router.Group("/api/v1/codes")
	{
		codes.POST("", handlers.Code.CreateCode)
		codes.POST("/validate", handlers.Code.ValidateCode)
	}

	// ─── 3. Attendance ─────────────────────────────────────────────────
	attendance := router.Group("/api/v1/attendance")
	{
		attendance.POST("", redeemLimiter.Middleware(), handlers.Attendance.Redeem)
		attendance.GET("", handlers.Attendance.List)
	}

	// ─── 4. Users & Reports ────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/users", handlers.User.ListUsers)
		api.GET("/reports", handlers.Report.Reports)
		api.GET("/reports/low-attendance", handlers.Report.LowAttendance)
	}

	return router
}
