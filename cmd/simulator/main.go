// cmd/simulator/main.go
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

	"perimeter-monitor/internal/config"
	"perimeter-monitor/internal/routes"
	"perimeter-monitor/internal/simulator"
	"perimeter-monitor/internal/utils"
	"perimeter-monitor/pkg/events"
)

const serviceName = "perimeter-simulator"

// Application represents the simulator process
type Application struct {
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
	simulator *simulator.Service
}

func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize simulator: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start simulator", zap.Error(err))
	}
}

// NewApplication creates the simulator from configuration
func NewApplication() (*Application, error) {
	cfg, err := config.Load(config.ServiceSimulator)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	weights, err := simulator.ParseRiskWeights(cfg.Simulator.RiskWeights)
	if err != nil {
		return nil, fmt.Errorf("invalid risk weights: %w", err)
	}

	sensors := events.DefaultSensors()
	generator := simulator.NewGenerator(sensors, weights, cfg.Simulator.Jitter, time.Now().UnixNano())
	client := simulator.NewClient(cfg.Simulator.BackendURL, cfg.Simulator.DeliveryTimeout, logger)
	sim := simulator.NewService(
		generator,
		client,
		sensors,
		cfg.Interval(),
		cfg.Simulator.DeliveryTimeout,
		cfg.Simulator.BackendURL,
		logger,
	)

	router := routes.NewSimulatorRouter(cfg, logger, sim, client).SetupRouter()

	return &Application{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.GetServerAddr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		simulator: sim,
	}, nil
}

// Start serves HTTP until a shutdown signal arrives
func (app *Application) Start() error {
	serviceLogger := utils.NewServiceLogger(app.logger, serviceName)
	serviceLogger.LogServiceStart(app.config.App.Version, app.config.App.Environment, app.server.Addr)
	app.logger.Info("Simulator configured",
		zap.String("backend_url", app.config.Simulator.BackendURL),
		zap.Duration("interval", app.config.Interval()),
		zap.Bool("auto_start", app.config.Simulator.AutoStart),
	)

	go func() {
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	if app.config.Simulator.AutoStart {
		app.simulator.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
	return nil
}

// shutdown stops generation before draining HTTP
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, serviceName)
	serviceLogger.LogServiceStop("shutdown signal received")

	app.simulator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
