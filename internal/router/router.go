package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wawa-academy/erp-server/internal/config"
	"github.com/wawa-academy/erp-server/internal/handler"
	"github.com/wawa-academy/erp-server/internal/middleware"
	"github.com/wawa-academy/erp-server/internal/response"
	"github.com/wawa-academy/erp-server/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Setup      *handler.SetupHandler
	Auth       *handler.AuthHandler
	Preference *handler.PreferenceHandler
	Student    *handler.StudentHandler
	Score      *handler.ScoreHandler
	Report     *handler.ReportHandler
	Schedule   *handler.ScheduleHandler
	Makeup     *handler.MakeupHandler
	Message    *handler.MessageHandler
	WS         *handler.WSHandler
	Bridge     *handler.BridgeHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// Rate limiters live until ctx is done.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	sessions middleware.SessionAuthorizer,
	workspace middleware.ConfigurationState,
	handlers *Handlers,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// The renderer is served from a file:// or dev-server origin; restrict to
	// AllowedOrigins when set, otherwise allow all.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID, "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	requireSession := middleware.RequireSession(authService, sessions)
	setupLimiter := middleware.NewRateLimiter(ctx, 20, time.Minute)
	loginLimiter := middleware.NewRateLimiter(ctx, 10, time.Minute)
	bridgeLimiter := middleware.NewRateLimiter(ctx, 180, time.Minute)

	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())

	// ─── 1. Boot & Setup (open until configured, then admin only) ──────
	api.GET("/bootstrap", handlers.Setup.Bootstrap)
	setup := api.Group("/setup")
	setup.Use(setupLimiter.Middleware(), middleware.RequireAdminOnceConfigured(authService, sessions, workspace))
	{
		setup.POST("/config", handlers.Setup.UploadConfig)
		setup.POST("/verify", handlers.Setup.Verify)
	}

	// ─── 2. Auth Group ─────────────────────────────────────────────────
	auth := api.Group("/auth")
	{
		auth.GET("/teachers", handlers.Auth.ListTeachers)
		auth.POST("/teachers/refresh", setupLimiter.Middleware(), handlers.Auth.RefreshTeachers)
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)

		auth.POST("/logout", requireSession, handlers.Auth.Logout)
		auth.GET("/me", requireSession, handlers.Auth.Me)
	}

	// ─── 3. Signed-in Group ────────────────────────────────────────────
	app := api.Group("")
	app.Use(requireSession)
	{
		app.GET("/navigation", handler.Navigation)

		app.GET("/preferences", handlers.Preference.Get)
		app.PUT("/preferences", handlers.Preference.Update)
		app.DELETE("/preferences", handlers.Preference.Reset)

		app.GET("/students", middleware.RequireScreen("/students"), handlers.Student.List)
		app.GET("/students/:id/enrollments", middleware.RequireScreen("/students"), handlers.Student.Enrollments)

		app.GET("/scores", handlers.Score.List)
		app.PUT("/scores", handlers.Score.Save)

		app.GET("/reports/:year_month", handlers.Report.Monthly)
		app.GET("/reports/:year_month/export", handlers.Report.Export)

		app.GET("/exam-schedule", handlers.Schedule.List)
		app.POST("/exam-schedule/bulk", handlers.Schedule.BulkAssign)

		app.GET("/makeups", handlers.Makeup.List)
		app.POST("/makeups", handlers.Makeup.Create)
		app.PATCH("/makeups/:id", handlers.Makeup.Update)
		app.DELETE("/makeups/:id", handlers.Makeup.Delete)

		app.GET("/messages", handlers.Message.Recent)
		app.GET("/messages/unread-count", handlers.Message.UnreadCount)
		app.GET("/messages/:partner_id", handlers.Message.Conversation)
		app.POST("/messages", handlers.Message.Send)
		app.POST("/messages/read", handlers.Message.MarkRead)

		app.POST("/bridge/notion-fetch", bridgeLimiter.Middleware(), handlers.Bridge.NotionFetch)
	}

	// ─── 4. WebSocket Group (token in query) ───────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireSession)
	{
		ws.GET("/messages/stream", handlers.WS.MessageStream)
	}

	return router
}
