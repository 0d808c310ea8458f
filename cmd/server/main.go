// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "perimeter-monitor/docs"
	"perimeter-monitor/internal/config"
	"perimeter-monitor/internal/handler"
	"perimeter-monitor/internal/repository"
	"perimeter-monitor/internal/routes"
	"perimeter-monitor/internal/service"
	"perimeter-monitor/internal/utils"
)

const serviceName = "perimeter-backend"

// Application represents the backend process
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server

	ctx    context.Context
	cancel context.CancelFunc

	eventRepo    repository.EventRepository
	eventService *service.EventService
	bus          *handler.EventBus
}

// @title Perimeter Monitor API
// @version 1.0.0
// @description Detection event store and analytics for the reserve perimeter sensor network

// @host localhost:5000
// @BasePath /api/v1
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load(config.ServiceBackend)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.initializeServices(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initializeServer()
	return app, nil
}

// initializeServices wires the store, the bus and the event service
func (app *Application) initializeServices() error {
	loc, err := app.config.Location()
	if err != nil {
		return err
	}

	app.eventRepo = repository.NewEventRepository(app.logger)
	app.bus = handler.NewEventBus(serviceName, app.logger)
	app.eventService = service.NewEventService(app.eventRepo, app.bus, loc, app.logger)

	if app.config.Store.SeedSampleEvents {
		ctx, cancel := context.WithTimeout(app.ctx, 5*time.Second)
		defer cancel()
		if _, err := app.eventService.SeedSampleEvents(ctx); err != nil {
			return fmt.Errorf("failed to seed sample events: %w", err)
		}
	}

	app.logger.Info("Services initialized successfully", zap.String("timezone", loc.String()))
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	router := routes.NewRouter(app.config, app.logger, app.eventService, app.bus).SetupRouter(app.ctx)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized", zap.String("address", app.server.Addr))
}

// Start serves HTTP until a shutdown signal arrives
func (app *Application) Start() error {
	go app.bus.Run(app.ctx)

	serviceLogger := utils.NewServiceLogger(app.logger, serviceName)
	serviceLogger.LogServiceStart(app.config.App.Version, app.config.App.Environment, app.server.Addr)

	go func() {
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.waitForShutdown()
	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, serviceName)
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	// Stops the bus and the live stream forwarder
	app.cancel()

	app.logger.Info("Application shutdown completed")
	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
