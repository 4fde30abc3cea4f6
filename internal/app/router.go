package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"shelter/internal/handler"
	"shelter/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AnimalHandler     *handler.AnimalHandler
	StoryHandler      *handler.StoryHandler
	VolunteerHandler  *handler.VolunteerHandler
	NewsletterHandler *handler.NewsletterHandler
	SponsorHandler    *handler.SponsorHandler
	DonationHandler   *handler.DonationHandler
	WebhookHandler    *handler.WebhookHandler
	StatsHandler      *handler.StatsHandler
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Animal routes.
		animals := api.Group("/animals")
		{
			animals.POST("", deps.AnimalHandler.Create)
			animals.GET("", deps.AnimalHandler.List)
			animals.GET("/:id", deps.AnimalHandler.Get)
			animals.PUT("/:id", deps.AnimalHandler.Update)
			animals.POST("/:id/adopt", deps.AnimalHandler.Adopt)
			animals.DELETE("/:id", deps.AnimalHandler.Delete)
		}

		// Success story routes.
		stories := api.Group("/stories")
		{
			stories.POST("", deps.StoryHandler.Create)
			stories.GET("", deps.StoryHandler.List)
			stories.GET("/:id", deps.StoryHandler.Get)
			stories.POST("/:id/publish", deps.StoryHandler.Publish)
		}

		// Volunteer routes.
		volunteers := api.Group("/volunteers")
		{
			volunteers.POST("", deps.VolunteerHandler.Apply)
			volunteers.GET("", deps.VolunteerHandler.List)
			volunteers.PUT("/:id/status", deps.VolunteerHandler.UpdateStatus)
		}

		// Newsletter routes.
		newsletter := api.Group("/newsletter")
		{
			newsletter.POST("/subscribe", deps.NewsletterHandler.Subscribe)
			newsletter.POST("/unsubscribe", deps.NewsletterHandler.Unsubscribe)
		}

		// Sponsor routes.
		sponsors := api.Group("/sponsors")
		{
			sponsors.POST("", deps.SponsorHandler.Create)
			sponsors.GET("", deps.SponsorHandler.List)
			sponsors.DELETE("/:id", deps.SponsorHandler.Delete)
		}

		// Donation routes. The webhook endpoint reads the raw request body for
		// signature verification.
		donations := api.Group("/donations")
		{
			donations.POST("/create-payment-intent", deps.DonationHandler.CreateIntent)
			donations.POST("/create-subscription", deps.DonationHandler.CreateSubscription)
			donations.POST("/webhook", deps.WebhookHandler.HandleStripeEvent)
			donations.GET("", deps.DonationHandler.GetAll)
			donations.GET("/:id", deps.DonationHandler.Get)
		}

		// Stats routes.
		stats := api.Group("/stats")
		{
			stats.GET("/dashboard", deps.StatsHandler.Dashboard)
		}
	}

	return router
}
