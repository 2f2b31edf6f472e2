// The console binary runs the staff live view as its own process: it
// hydrates from postgres, then stays current by consuming the change feed
// from kafka instead of sharing the backend's in-process bus.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/console"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/httpapi"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/repository"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	port, _ := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	creds := &repository.Credentials{
		Host:              getEnv("POSTGRES_HOST", "localhost"),
		Port:              port,
		User:              getEnv("POSTGRES_USER", "postgres"),
		Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:            getEnv("POSTGRES_DB", "merchant"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	refresh, _ := time.ParseDuration(getEnv("CONSOLE_REFRESH_INTERVAL", "5m"))

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := feed.NewInProcBus()

	consumer := feed.NewConsumer(bus, "staff-console", brokers...)
	defer consumer.Close()
	go consumer.Run(ctx)

	view := console.NewLiveView(repo, bus, refresh)
	if err := view.Start(ctx); err != nil {
		log.Fatalf("failed to start console view: %v", err)
	}
	defer view.Close()

	handler := httpapi.NewConsoleHandler(view)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", handler.ListOrders)

	srv := &http.Server{
		Addr:         ":" + getEnv("HTTP_PORT", "8081"),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("staff console starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down console...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
