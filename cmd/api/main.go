package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"greenhouse-eplus/internal/api"
	"greenhouse-eplus/internal/api/handlers"
	"greenhouse-eplus/internal/api/middleware"
	"greenhouse-eplus/internal/config"
	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/logging"
	"greenhouse-eplus/internal/results"
	"greenhouse-eplus/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Get configuration from environment
	port := envOr("API_PORT", "8080")
	log := logging.New(envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", "json"), os.Stderr)

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.Config{
		Engine: config.EngineConfig{
			Runtime: envOr("EPLUS_RUNTIME", config.RuntimeCAPI),
			Dir:     envOr("EPLUS_DIR", engine.InstallDir()),
		},
	}
	if brokers := splitList(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.Telemetry.Kafka = telemetry.KafkaConfig{Brokers: brokers, Topic: envOr("KAFKA_TOPIC", "greenhouse.runs")}
	}
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		cfg.Telemetry.MQTT = telemetry.MQTTConfig{Broker: broker, Topic: envOr("MQTT_TOPIC", "greenhouse/runs")}
	}
	sim, err := cfg.Runner(os.Stderr, os.Stderr, log)
	if errors.Is(err, engine.ErrNotBuilt) && os.Getenv("EPLUS_RUNTIME") == "" {
		// Runs with log: true will fail until the server is built with -tags eplusapi.
		log.Warn("C API runtime not built, falling back to the energyplus executable")
		cfg.Engine.Runtime = config.RuntimeExec
		sim, err = cfg.Runner(os.Stderr, os.Stderr, log)
	}
	if err != nil {
		return fmt.Errorf("engine runtime %q: %w", cfg.Engine.Runtime, err)
	}
	log.Info("engine ready", "runtime", sim.Runtime.Name(), "install_dir", cfg.Engine.Dir)

	cacheTTL := time.Hour
	if s := os.Getenv("RESULTS_CACHE_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cacheTTL = d
		}
	}
	cache := results.NewCache(cacheTTL)
	metrics := middleware.NewMetrics()
	models := handlers.NewModelHandler("", log)
	runs := handlers.NewRunHandler(sim.Run, handlers.RunOptions{
		Models:  models,
		Cache:   cache,
		Metrics: metrics,
		Logger:  log,
	})
	log.Info("serving models", "dir", models.Dir())

	router := api.NewRouter(api.Deps{
		Runs:      runs,
		Models:    models,
		Variables: handlers.NewVariableHandler(""),
		Metrics:   metrics,
		Origins:   middleware.SplitOrigins(os.Getenv("CORS_ORIGINS")),
		Logger:    log,
		StaticDir: envOr("STATIC_DIR", "./web/dist"),
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				cache.Prune()
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// Runs cannot be interrupted; wait for the one in flight.
	runs.Wait()
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}
