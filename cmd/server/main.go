// Command main is the entry point for the DevConnector API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devconnector/internal/bootstrap"
	"devconnector/internal/config"
	"devconnector/internal/observability"
	"devconnector/internal/server"

	_ "devconnector/docs"

	"github.com/joho/godotenv"
)

// @title DevConnector API
// @version 1.0
// @description Developer network API with profiles, posts, likes, and comments

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
// @description Token returned by POST /users or POST /auth.

func main() {
	// A missing .env is fine; the environment and config.yml still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    observability.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, rdb, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedDemo: os.Getenv("SEED_DEMO") == "true",
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, rdb)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(srv, sigChan, shutdownTracing); err != nil {
		log.Fatal(err)
	}
}

type lifecycle interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs srv until a signal arrives, then shuts it down and runs cleanup.
// It returns only after shutdown and every cleanup func have finished.
func serve(srv lifecycle, signals <-chan os.Signal, cleanup ...func(context.Context) error) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-signals

		observability.Logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			observability.Logger.Error("server shutdown error", "error", err)
		}
		for _, fn := range cleanup {
			if err := fn(ctx); err != nil {
				observability.Logger.Error("cleanup error", "error", err)
			}
		}
	}()

	if err := srv.Start(); err != nil {
		return err
	}
	<-done
	return nil
}
