package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbooking/config"
	"clinicbooking/cron"
	"clinicbooking/database"
	bookingRepo "clinicbooking/database/repository/booking"
	catalogRepo "clinicbooking/database/repository/catalog"
	sessionRepo "clinicbooking/database/repository/session"
	"clinicbooking/handlers"
	"clinicbooking/middleware"
	"clinicbooking/routes"
	"clinicbooking/services/booking"
	"clinicbooking/services/catalog"
	"clinicbooking/services/tasks"
	"clinicbooking/services/wizard"
	"clinicbooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()

	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	catRepo := catalogRepo.NewMongoCatalogRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()
	sessions := sessionRepo.NewRedisSessionStore(
		utils.GetSessionClient(),
		config.AppConfig.SessionTTL(),
		config.AppConfig.SubmitLockTTL(),
	)

	if seed, err := catalog.LoadSeedFile(config.AppConfig.CatalogSeedFile); err != nil {
		logger.Warn("main: catalog seed file not loaded", zap.Error(err))
	} else if err := catalog.Seed(appCtx, catRepo, seed, logger); err != nil {
		logger.Fatal("main: failed to seed catalog", zap.Error(err))
	}

	// services.
	catalogService := &catalog.DefaultCatalogService{
		Repo:   catRepo,
		Cache:  utils.GetCacheClient(),
		TTL:    config.AppConfig.CatalogCacheTTL(),
		Logger: logger.Named("catalog"),
	}
	if err := catalogService.Invalidate(appCtx); err != nil {
		logger.Warn("main: failed to clear catalog cache", zap.Error(err))
	}

	bookingService := &booking.DefaultBookingService{
		Repo:   bookRepo,
		Logger: logger.Named("booking"),
	}

	var worker *cron.NotificationWorker
	var queueClient *asynq.Client
	if config.AppConfig.NotificationsEnabled {
		queueClient = asynq.NewClient(cron.RedisOpt())
		bookingService.Notifier = &tasks.QueueNotifier{Client: queueClient}

		worker = cron.NewNotificationWorker(cron.RedisOpt(), config.AppConfig.WorkerConcurrency, logger.Named("worker"))
		if err := worker.Start(); err != nil {
			logger.Fatal("main: notification worker failed", zap.Error(err))
		}
	}

	timeSlots := config.AppConfig.TimeSlots
	if len(timeSlots) == 0 {
		timeSlots = config.DefaultTimeSlots
	}
	wizardService := &wizard.DefaultWizardService{
		Sessions:  sessions,
		Catalog:   catalogService,
		Submitter: bookingService,
		TimeSlots: timeSlots,
		Now:       time.Now,
		Logger:    logger.Named("wizard"),
	}

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewCatalogHandler(catalogService),
		handlers.NewBookingWizardHandler(wizardService),
	)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("main: invalid trusted proxies", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle, config.AppConfig.AllowedOrigins)

	utils.StartHealthMonitor(appCtx, []*redis.Client{utils.GetSessionClient(), utils.GetCacheClient()}, database.MongoClient)

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
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
		_ = queueClient.Close()
	}
	if err := database.Close(ctx); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect MongoDB: %v", err)
	}
	_ = utils.GetSessionClient().Close()
	_ = utils.GetCacheClient().Close()

	logger.Sugar().Info("main: server stopped gracefully")
}
