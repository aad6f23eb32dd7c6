package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "teleop_console/docs"
	"teleop_console/internal/config"
	"teleop_console/internal/devicebus"
	"teleop_console/internal/handlers"
	"teleop_console/internal/logger"
	"teleop_console/internal/metrics"
	"teleop_console/internal/mqtt"
	"teleop_console/internal/repository"
	"teleop_console/internal/repository/db"
	"teleop_console/internal/server"
	"teleop_console/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       Teleop Console API
// @version                     1.0
// @description                 Controller sessions and command link health for the operator console.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	collector := metrics.NewCollector()
	bus := devicebus.New()
	sink := service.NewEventSink(repos.EventRepo, log.Named("events"), 0)

	services, err := service.NewService(service.Deps{
		Repos:      repos,
		Bus:        bus,
		Classifier: service.NewClassifier(cfg.Controllers.DriveToken, cfg.Controllers.ArmToken),
		Thresholds: service.Thresholds{Warn: cfg.Health.WarnAfter, Lost: cfg.Health.LostAfter},
		Health:     service.HealthConfig{DemoMode: cfg.Health.DemoMode, DemoPeriod: cfg.Health.DemoPeriod},
		Auth:       service.AuthSettings{SigningKey: cfg.Auth.SigningKey, TokenTTL: cfg.Auth.TokenTTL},
		Sink:       sink,
		Metrics:    collector,
	}, log)
	if err != nil {
		log.Fatalw("failed to build services", "err", err)
	}

	if err := services.Activate(); err != nil {
		log.Fatalw("failed to activate controller tracker", "err", err)
	}
	defer services.Deactivate()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sink.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := services.Health.Run(ctx, cfg.Health.EvalInterval); err != nil {
			log.Errorw("health monitor stopped", "err", err)
		}
	}()

	if cfg.MQTT.Enabled {
		client := startMQTT(cfg.MQTT, bus, services, log.Named("mqtt"))
		if client != nil {
			defer client.Close()
		}
	}

	apiHandler := handlers.NewHandler(services, log, collector.Handler())
	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	waitForShutdown(srv, log)

	// stop background goroutines; the sink flushes before the DB closes
	cancel()
	wg.Wait()
}

// startMQTT connects the broker bridge. A broker that is down is logged and
// the console keeps running on HTTP input only.
func startMQTT(cfg config.MQTTConfig, bus *devicebus.Bus, services *service.Service, log *logger.Logger) *mqtt.Client {
	bridge := mqtt.NewBridge(mqtt.TopicsFor(cfg.TopicPrefix), bus, services.Health, log)
	client, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Username: cfg.Username,
		Password: cfg.Password,
	}, log, bridge.Subscribe)
	if err != nil {
		log.Errorw("mqtt bridge disabled", "err", err, "broker", cfg.Broker)
		return nil
	}
	return client
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until a termination signal, then drains HTTP.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
