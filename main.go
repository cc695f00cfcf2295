// File: haven/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"haven/config"
	"haven/gateway"
	"haven/handlers"
	"haven/middleware"
	"haven/routes"
	"haven/services/notify"
	"haven/services/payment"
	"haven/services/reservation"
	"haven/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()
	utils.InitCatalogCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// External backend client.
	gw := gateway.NewClient(config.AppConfig.APIBaseURL, config.AppConfig.APITimeout, logger)

	// services.
	catalog := &payment.DefaultChannelCatalog{
		Lister: gw,
		Cache:  utils.GetCatalogCacheClient(),
		TTL:    config.AppConfig.ChannelCacheTTL,
	}
	reconciler := payment.NewReconciler(gw, config.AppConfig.PaymentPollEvery)
	submitter := &reservation.DefaultSubmitter{
		Backend:          gw,
		DefaultPackageID: config.AppConfig.DefaultPackageID,
	}
	bus := notify.NewBus()
	sessionService := &reservation.DefaultSessionService{
		Rooms:     gw,
		Catalog:   catalog,
		Submitter: submitter,
		Cache:     utils.GetSessionCacheClient(),
		Bus:       bus,
		Polls:     reconciler,
		TTL:       config.AppConfig.SessionTTL,
	}

	// Assemble the handler bundle and register routes.
	bundle := &routes.HandlerBundle{
		Reservation:    handlers.NewReservationHandler(sessionService, bus, logger),
		Payment:        handlers.NewPaymentHandler(catalog, reconciler, gw, bus, logger),
		Contact:        handlers.NewContactHandler(gw),
		Profile:        handlers.NewProfileHandler(gw, logger),
		ProfileFetcher: gw,
	}
	routes.RegisterRoutes(router, bundle)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
