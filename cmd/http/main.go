package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authlink-service/internal/app/config"
	"authlink-service/internal/app/contracts"
	"authlink-service/internal/app/delivery/http/controllers"
	"authlink-service/internal/app/delivery/http/middlewares"
	"authlink-service/internal/app/delivery/http/routers"
	"authlink-service/internal/app/drivers/database"
	"authlink-service/internal/app/drivers/logger"
	"authlink-service/internal/app/drivers/mailer"
	"authlink-service/internal/app/services/core/auth"
	"authlink-service/internal/app/services/core/magiclinks"
	"authlink-service/internal/app/services/core/users"
	"authlink-service/internal/app/services/shared/mailqueue"
	"authlink-service/internal/app/services/shared/ratelimiter"
	sharedRedis "authlink-service/internal/app/services/shared/redis"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	defer log.Sync()

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)

	// In test mode no relay is dialed and queued mail is drained with a log
	// line per message. In production a bad relay config aborts startup.
	var transport contracts.MailTransport
	if !internalConfig.Mailer.TestMode {
		transport = mailer.NewSMTPClient(driverConfig, log)
	}

	mailQueue := mailqueue.NewService(internalConfig, log)
	worker := mailqueue.NewWorker(log, mailQueue, transport, internalConfig.Mailer.MaxSendsPerSecond)
	workerDone := worker.Start()

	redisRepository := sharedRedis.NewRedisRepository(redisClient)
	limiter := ratelimiter.NewResourceLimiter(redisRepository, log)

	magicLinkRepository := magiclinks.NewMagicLinkMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	userRepository := users.NewUserMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	validator := magiclinks.NewValidator(internalConfig, log)

	authUsecase := auth.NewAuthUsecase(
		magicLinkRepository,
		userRepository,
		validator,
		mailQueue,
		limiter,
		internalConfig,
		log,
	)
	authController := controllers.NewAuthController(log, authUsecase)

	chiRouter := chi.NewRouter()
	routers.SetupRoutes(chiRouter, internalConfig, middlewares.NewMiddlewares(log), authController)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", internalConfig.App.Port))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("waiting for pending requests to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	// Stop accepting mail, then wait for the worker to finish what is queued.
	mailQueue.Close()
	<-workerDone

	log.Info("server exiting")
}
