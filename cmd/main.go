package main

import (
	"outreach-service/internal/handler"
	"outreach-service/internal/integration/ai"
	"outreach-service/internal/integration/stripe"
	"outreach-service/internal/middleware"
	"outreach-service/internal/model"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/config"
	"outreach-service/pkg/database"
	"outreach-service/pkg/jwtutil"
	"outreach-service/pkg/logger"
	"outreach-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("outreach-service")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting outreach service...", cfg.LogConfig()...)

	// Initialize database and run migrations
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(model.All()...); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Telemetry facade: real sinks when enabled, a no-op otherwise
	var monitor monitoring.Monitor = monitoring.Nop{}
	if cfg.Monitoring.Enabled {
		var opts []monitoring.Option
		if cfg.Monitoring.ErrorSinkURL != "" {
			opts = append(opts, monitoring.WithErrorSink(
				monitoring.NewSink(cfg.Monitoring.ErrorSinkURL, "", cfg.Monitoring.SinkTimeout)))
		}
		if cfg.Monitoring.SessionSinkURL != "" {
			opts = append(opts, monitoring.WithSessionSink(
				monitoring.NewSink(cfg.Monitoring.SessionSinkURL, "", cfg.Monitoring.SinkTimeout)))
		}
		monitor = monitoring.NewService(log, opts...)
		log.Info("Monitoring enabled")
	}

	// External provider clients
	var billing *stripe.Client
	if cfg.Stripe.SecretKey != "" {
		billing = stripe.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.APIBaseURL)
	} else {
		log.Warn("Billing provider key missing, billing features disabled")
	}
	generator := ai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.Timeout)

	st := store.New(db)

	// Handlers
	var customerCreator handler.CustomerCreator
	var billingPortal handler.BillingPortal
	if billing != nil {
		customerCreator = billing
		billingPortal = billing
	}
	authHandler := handler.NewAuthHandler(st, jwtUtil, customerCreator, monitor)
	userHandler := handler.NewUserHandler(st, monitor)
	companyHandler := handler.NewCompanyHandler(st, monitor)
	listHandler := handler.NewListHandler(st, monitor)
	campaignHandler := handler.NewCampaignHandler(st, monitor)
	activityHandler := handler.NewActivityHandler(st, monitor, cfg.Quota.DailyEmailSends)
	templateHandler := handler.NewTemplateHandler(st)
	generateHandler := handler.NewGenerateHandler(st, generator, monitor, cfg.Quota.DailyGenerations)
	billingHandler := handler.NewBillingHandler(st, billingPortal, cfg.Stripe.PortalReturnURL, monitor)
	webhookHandler := handler.NewWebhookHandler(st, st, cfg.Stripe.WebhookSecret)
	healthHandler := handler.NewHealthHandler(db, version)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.Middleware())

	// Public routes - no authentication required
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/track/email/:trackingID/open", activityHandler.TrackOpen)
	e.POST("/webhooks/stripe", webhookHandler.HandleStripeEvent)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwtUtil))

	// Own profile
	users := api.Group("/users")
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)

	// Prospect companies
	companies := api.Group("/companies")
	companies.POST("", companyHandler.Create)
	companies.GET("", companyHandler.List)
	companies.GET("/:id", companyHandler.Get)
	companies.PATCH("/:id/status", companyHandler.UpdateStatus)
	companies.DELETE("/:id", companyHandler.Delete)
	companies.POST("/:id/contacts", companyHandler.AddContact)

	// Company lists
	lists := api.Group("/lists")
	lists.POST("", listHandler.Create)
	lists.GET("", listHandler.List)
	lists.GET("/:id", listHandler.Get)
	lists.POST("/:id/companies", listHandler.AddCompany)
	lists.DELETE("/:id", listHandler.Delete)

	// Campaigns and their activities
	campaigns := api.Group("/campaigns")
	campaigns.POST("", campaignHandler.Create)
	campaigns.GET("", campaignHandler.List)
	campaigns.GET("/:id", campaignHandler.Get)
	campaigns.PATCH("/:id/status", campaignHandler.UpdateStatus)
	campaigns.POST("/:id/activities", activityHandler.Create)
	campaigns.GET("/:id/activities", activityHandler.List)
	campaigns.PATCH("/:id/activities/:activityID/status", activityHandler.UpdateStatus)

	// Generation templates and drafting
	templates := api.Group("/templates")
	templates.POST("", templateHandler.Create)
	templates.GET("", templateHandler.List)
	templates.GET("/:id", templateHandler.Get)

	generate := api.Group("/generate")
	generate.POST("", generateHandler.Generate)
	generate.GET("/history", generateHandler.History)
	generate.GET("/usage", generateHandler.Usage)

	// Billing self-service
	billingGroup := api.Group("/billing")
	billingGroup.GET("/subscription", billingHandler.Subscription)
	billingGroup.POST("/portal", billingHandler.PortalLink)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
