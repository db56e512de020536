// Command main is the entry point for the Plusnine backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plusnine/internal/bootstrap"
	"plusnine/internal/config"
	"plusnine/internal/observability"
	"plusnine/internal/server"
)

// @title Plusnine API
// @version 1.0
// @description Authentication, friend graph, savings objectives, and real-time notifications
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@plusnine.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8375
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in header
// @name Cookie
// @description Session cookie set by /Auth/Login.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Distributed tracing (no-op when disabled)
	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TraceSamplerRatio,
		ServiceName:  "plusnine-api",
		Environment:  cfg.Env,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{FixturesPath: cfg.SeedFixtures})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
		if shutdownTracing != nil {
			if err := shutdownTracing(ctx); err != nil {
				log.Printf("Tracing shutdown error: %v", err)
			}
		}
	}()

	log.Fatal(srv.Start())
}
