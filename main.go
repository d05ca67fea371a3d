package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachbook/config"
	"coachbook/cron"
	"coachbook/database"
	alertRepoPkg "coachbook/database/repository/alert"
	draftRepoPkg "coachbook/database/repository/draft"
	ledgerRepoPkg "coachbook/database/repository/ledger"
	paymentRepoPkg "coachbook/database/repository/payment"
	webhookRepoPkg "coachbook/database/repository/webhook"
	"coachbook/handlers"
	"coachbook/routes"
	"coachbook/services/booking"
	"coachbook/services/calendar"
	"coachbook/services/notification"
	"coachbook/services/payment"
	"coachbook/services/webhook"
	"coachbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	draftRepo := draftRepoPkg.NewMongoDraftRepo()
	ledgerRepo := ledgerRepoPkg.NewMongoLedgerRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentIntentRepo()
	webhookRepo := webhookRepoPkg.NewMongoWebhookEventRepo()
	alertRepo := alertRepoPkg.NewMongoOperatorAlertRepo()

	for name, ensure := range map[string]func() error{
		"drafts":   draftRepo.EnsureIndexes,
		"ledger":   ledgerRepo.EnsureIndexes,
		"payments": paymentRepo.EnsureIndexes,
		"webhooks": webhookRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// Async side-effect pipeline.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	calendarSvc := calendar.NewAsynqCalendarService(asynqClient, logger)
	notificationSvc := notification.NewAsynqNotificationService(asynqClient, logger)

	// services.
	orchestrator := payment.NewPaymentOrchestrator(paymentRepo, &payment.StripeGateway{}, logger)

	catalog := &booking.SlotCatalog{Ledger: ledgerRepo}

	bookingService := &booking.DefaultBookingService{
		DraftRepo:    draftRepo,
		Ledger:       ledgerRepo,
		Catalog:      catalog,
		Orchestrator: orchestrator,
		Alerts:       alertRepo,
		Notifier:     notificationSvc,
		HoldTTL:      time.Duration(config.AppConfig.HoldTTLMinutes) * time.Minute,
		Logger:       logger,
	}

	reconciler := &webhook.Reconciler{
		Verifier: &webhook.StripeVerifier{Secret: config.AppConfig.StripeWebhookSecret},
		Events:   webhookRepo,
		Intents:  orchestrator,
		Drafts:   draftRepo,
		Ledger:   ledgerRepo,
		Alerts:   alertRepo,
		Calendar: calendarSvc,
		Notifier: notificationSvc,
		Logger:   logger,
	}

	handlers.BookingSvc = bookingService
	handlers.Catalog = catalog
	handlers.WebhookReconciler = reconciler

	routes.RegisterRoutes(router)

	// Background workers.
	cron.InitSideEffectWorker(&calendar.LogProvider{Logger: logger}, &notification.LogMailer{Logger: logger})

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go cron.StartSweeper(sweepCtx, bookingService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
