package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"tubo/internal/infra/config"
	"tubo/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Listing        ListingHTTP
	HostListing    HostListingHTTP
	Session        SessionHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/social", h.Auth.Social)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
		api.PATCH("/auth/profile", h.Auth.UpdateProfile)
	}
	if h.Listing != nil {
		api.GET("/cars", h.Listing.Catalog)
		api.GET("/cars/:id/overview", h.Listing.Overview)
		api.GET("/cars/:id/calendar", h.Listing.Calendar)
	}
	if h.HostListing != nil {
		hostGroup := api.Group("/host/cars")
		hostGroup.GET("", h.HostListing.List)
		hostGroup.POST("", h.HostListing.Create)
	}
	if h.Session != nil {
		sessions := api.Group("/sessions")
		sessions.POST("", h.Session.Create)
		sessions.GET("/:id", h.Session.Get)
		sessions.POST("/:id/click", h.Session.Click)
		sessions.POST("/:id/cursor/:dir", h.Session.Cursor)
		sessions.POST("/:id/proceed", h.Session.Proceed)
		sessions.POST("/:id/back", h.Session.Back)
		sessions.POST("/:id/plan", h.Session.SelectPlan)
		sessions.POST("/:id/payment-method", h.Session.SelectPayment)
		sessions.PUT("/:id/form", h.Session.SetField)
		sessions.GET("/:id/quote", h.Session.Quote)
		sessions.POST("/:id/submit", h.Session.Submit)
		sessions.POST("/:id/close", h.Session.Close)
		sessions.POST("/:id/navigate", h.Session.Navigate)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
