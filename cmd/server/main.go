package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"shelter/internal/app"
	"shelter/internal/config"
	"shelter/internal/handler"
	"shelter/internal/mailer"
	internalRedis "shelter/internal/redis"
	"shelter/internal/repository/postgres"
	"shelter/internal/service"
	stripeclient "shelter/internal/stripe"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	statsCache := internalRedis.NewStatsCache(redisClient)

	// Initialize repositories.
	animalRepo := postgres.NewAnimalRepository(db)
	storyRepo := postgres.NewStoryRepository(db)
	volunteerRepo := postgres.NewVolunteerRepository(db)
	subscriberRepo := postgres.NewSubscriberRepository(db)
	sponsorRepo := postgres.NewSponsorRepository(db)
	donationRepo := postgres.NewDonationRepository(db)

	// Initialize Stripe gateway.
	gateway := stripeclient.NewClient(cfg.Stripe)

	// Initialize mailer. Without a SendGrid key, receipts are logged instead.
	var m mailer.Mailer
	if cfg.Email.SendGridAPIKey != "" {
		m = mailer.NewSendGridMailer(cfg.Email)
	} else {
		log.Println("SENDGRID_API_KEY not set, receipt emails will be logged only")
		m = mailer.NewLogMailer()
	}

	// Initialize services.
	animalService := service.NewAnimalService(animalRepo)
	storyService := service.NewStoryService(storyRepo)
	volunteerService := service.NewVolunteerService(volunteerRepo)
	newsletterService := service.NewNewsletterService(subscriberRepo)
	sponsorService := service.NewSponsorService(sponsorRepo)
	donationService := service.NewDonationService(donationRepo, gateway, cfg.Org.DefaultCurrency)
	webhookService := service.NewWebhookService(donationRepo, gateway, m, cfg.Org.Name)
	statsService := service.NewStatsService(storyRepo, volunteerRepo, donationRepo, animalRepo, statsCache)

	// Initialize handlers.
	animalHandler := handler.NewAnimalHandler(animalService)
	storyHandler := handler.NewStoryHandler(storyService)
	volunteerHandler := handler.NewVolunteerHandler(volunteerService)
	newsletterHandler := handler.NewNewsletterHandler(newsletterService)
	sponsorHandler := handler.NewSponsorHandler(sponsorService)
	donationHandler := handler.NewDonationHandler(donationService)
	webhookHandler := handler.NewWebhookHandler(gateway, webhookService)
	statsHandler := handler.NewStatsHandler(statsService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AnimalHandler:     animalHandler,
		StoryHandler:      storyHandler,
		VolunteerHandler:  volunteerHandler,
		NewsletterHandler: newsletterHandler,
		SponsorHandler:    sponsorHandler,
		DonationHandler:   donationHandler,
		WebhookHandler:    webhookHandler,
		StatsHandler:      statsHandler,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
