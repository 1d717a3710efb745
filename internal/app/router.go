package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/tzinegf/AG-TUR/internal/config"
	"github.com/tzinegf/AG-TUR/internal/handler"
	"github.com/tzinegf/AG-TUR/internal/middleware"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthConfig     config.AuthConfig
	RouteHandler   *handler.RouteHandler
	BookingHandler *handler.BookingHandler
	BusHandler     *handler.BusHandler
	ProfileHandler *handler.ProfileHandler
	StripeHandler  *handler.StripeHandler
	WebhookHandler *handler.WebhookHandler
	ProfileRepo    repository.ProfileRepository
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "Stripe-Signature"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Public route search and seat maps.
		routes := v1.Group("/routes")
		{
			routes.GET("/search", deps.RouteHandler.Search)
			routes.GET("/popular", deps.RouteHandler.GetPopular)
			routes.GET("/:id", deps.RouteHandler.GetRoute)
			routes.GET("/:id/seats", deps.RouteHandler.GetSeats)
		}

		// Stripe webhook. Authenticated by signature, not by bearer token.
		if deps.WebhookHandler != nil {
			v1.POST("/stripe/webhook", deps.WebhookHandler.HandleEvent)
		}

		// Authenticated routes.
		authed := v1.Group("")
		authed.Use(middleware.Auth(deps.AuthConfig))
		{
			bookings := authed.Group("/bookings")
			{
				bookings.POST("", deps.BookingHandler.CreateBooking)
				bookings.GET("", deps.BookingHandler.GetUserBookings)
				bookings.GET("/:id", deps.BookingHandler.GetBooking)
				bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
				bookings.GET("/:id/ticket", deps.BookingHandler.DownloadTicket)
			}

			profile := authed.Group("/profile")
			{
				profile.GET("", deps.ProfileHandler.GetProfile)
				profile.PUT("", deps.ProfileHandler.UpdateProfile)
			}

			if deps.StripeHandler != nil {
				stripe := authed.Group("/stripe")
				{
					stripe.POST("/customer", deps.StripeHandler.EnsureCustomer)
					stripe.GET("/payment-methods", deps.StripeHandler.ListPaymentMethods)
					stripe.POST("/setup-intent", deps.StripeHandler.CreateSetupIntent)
					stripe.DELETE("/payment-methods/:id", deps.StripeHandler.DetachPaymentMethod)
					stripe.POST("/payment-intent", deps.StripeHandler.CreatePaymentIntent)
				}
			}

			// Staff-only routes.
			admin := authed.Group("/admin")
			admin.Use(middleware.RequireStaff(deps.ProfileRepo))
			{
				admin.GET("/routes", deps.RouteHandler.GetAllRoutes)
				admin.POST("/routes", deps.RouteHandler.CreateRoute)
				admin.PUT("/routes/:id", deps.RouteHandler.UpdateRoute)
				admin.DELETE("/routes/:id", deps.RouteHandler.DeleteRoute)

				admin.POST("/buses", deps.BusHandler.CreateBus)
				admin.GET("/buses", deps.BusHandler.GetAll)
				admin.PUT("/buses/:id", deps.BusHandler.UpdateBus)
				admin.DELETE("/buses/:id", deps.BusHandler.DeleteBus)

				admin.GET("/bookings", deps.BookingHandler.GetAllBookings)
				admin.GET("/bookings/stats", deps.BookingHandler.GetStats)
				admin.PATCH("/bookings/:id/status", deps.BookingHandler.UpdateStatus)
			}
		}
	}

	return router
}
