package server

import (
	"time"

	"mediastore/infrastructure/tenant"
	httpHandler "mediastore/interfaces/http"
	"mediastore/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const cleanupSecretHeader = "X-Cleanup-Secret"

// Handlers groups everything the router mounts. Nil handlers leave their
// routes unregistered.
type Handlers struct {
	Auth        httpHandler.IAuthHandler
	OAuth       httpHandler.IOAuthHandler
	Entry       httpHandler.IEntryHandler
	Entitlement httpHandler.IEntitlementHandler
	Cleanup     httpHandler.ICleanupHandler
	PublicEntry httpHandler.IPublicEntryHandler
	Waitlist    httpHandler.IWaitlistHandler
	Health      httpHandler.IHealthHandler
}

// Options carries the router's collaborators. A nil Limiter leaves the
// unauthenticated write endpoints unthrottled.
type Options struct {
	AllowedOrigins []string
	Resolver       *tenant.Resolver
	Header         middleware.Pipeline
	Cookie         middleware.Pipeline
	InternalSecret string
	Limiter        *middleware.RateLimiter
}

func InitiateRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "UUID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Metrics())
	router.Use(middleware.Tenant(opts.Resolver))

	throttle := func(c *gin.Context) { c.Next() }
	if opts.Limiter != nil {
		throttle = opts.Limiter.Middleware()
	}

	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))
	router.GET("/healthz", h.Health.Healthz)
	router.GET("/readyz", h.Health.Readyz)

	if h.OAuth != nil {
		router.GET("/oauth2/authorize/:provider", throttle, h.OAuth.Authorize)
		router.GET("/oauth2/callback/:provider", h.OAuth.Callback)
	}

	public := router.Group("/public")
	{
		public.GET("/entries", h.PublicEntry.List)
		public.GET("/entries/:id", h.PublicEntry.Get)
		public.GET("/users/:username/entries", h.PublicEntry.ListByAuthor)
	}

	authAPI := router.Group("/api/auth", throttle)
	{
		authAPI.POST("/session", h.Auth.CreateSession)
		authAPI.POST("/refresh", h.Auth.Refresh)
		authAPI.POST("/logout", h.Auth.Logout)
	}

	if h.Waitlist != nil {
		router.POST("/api/waitlist", throttle, h.Waitlist.Subscribe)
		router.GET("/api/waitlist/stats", h.Waitlist.Stats)
	}

	internal := router.Group("/api/internal", middleware.InternalSecret(cleanupSecretHeader, opts.InternalSecret))
	{
		internal.POST("/cleanup", h.Cleanup.Run)
		internal.POST("/entitlements", h.Entitlement.Grant)
	}

	api := router.Group("/api", middleware.Authenticate(opts.Header), middleware.RequirePrincipal())
	{
		api.GET("/users/me", h.Auth.Me)
		api.POST("/entries", h.Entry.CreateEntry)
		api.PATCH("/entries/:id/status", h.Entry.UpdateStatus)
		api.GET("/entries/events", h.Entry.Events)
		api.POST("/uploads/init", h.Entry.InitUpload)
		api.POST("/uploads/finalize", h.Entry.FinalizeUpload)
	}

	// Media elements cannot send headers, so only this group accepts the
	// refresh cookie as a credential.
	media := router.Group("/api/media",
		middleware.Authenticate(opts.Header, opts.Cookie),
		middleware.RequirePrincipal(),
	)
	{
		media.GET("/entitlements/:entryId", h.Entitlement.Check)
	}

	return router
}
