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

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/buyercache"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/console"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/httpapi"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/repository"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/service"
)

type Config struct {
	HTTPPort        string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	KafkaBrokers    []string
	AdminEmail      string
	AdminName       string
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	port, _ := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	refresh, _ := time.ParseDuration(getEnv("CONSOLE_REFRESH_INTERVAL", "5m"))

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		PostgresHost:    os.Getenv("POSTGRES_HOST"),
		PostgresPort:    port,
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "merchant"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getEnv("MONGO_DB", "merchant"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		KafkaBrokers:    brokers,
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminName:       getEnv("ADMIN_NAME", "Admin"),
		RefreshInterval: refresh,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

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
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := feed.NewInProcBus()

	// Record stores: postgres when configured, in-memory otherwise.
	var (
		orderRepo    repository.OrderRepository
		userRepo     repository.UserRepository
		productRepo  repository.ProductRepository
		customerRepo repository.CustomerRepository
		settingsRepo repository.SettingsRepository
	)
	memory := repository.NewMemoryStore()
	orderRepo, userRepo, productRepo, customerRepo, settingsRepo = memory, memory, memory, memory, memory

	if cfg.PostgresHost != "" {
		creds := &repository.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPass,
			DBName:            cfg.PostgresDB,
			MigrationsDirPath: cfg.MigrationsPath,
		}
		repo, err := repository.NewRepository(creds)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer repo.Close()
		if err := repo.RunMigrations(creds); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		orderRepo, userRepo, productRepo, customerRepo = repo, repo, repo, repo

		// With postgres, writes also land in the outbox; ship them to
		// kafka for out-of-process consoles when brokers are configured.
		if len(cfg.KafkaBrokers) > 0 {
			poller := feed.NewOutboxPoller(repo, cfg.KafkaBrokers...)
			defer poller.Close()
			go poller.Run(ctx)
		}
	}

	if cfg.MongoURI != "" {
		mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		settingsRepo = repository.NewMongoSettings(mongoDB)
	}

	if err := ensureAdmin(ctx, userRepo, cfg); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	buyerCaches := buyercache.NewMemoryManager()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		buyerCaches = buyercache.NewRedisManager(client)
	}

	orders := service.NewOrderService(orderRepo, bus)
	catalog := service.NewCatalogService(productRepo, customerRepo, bus)
	profile := service.NewProfileSyncService(userRepo, settingsRepo, bus)

	view := console.NewLiveView(orderRepo, bus, cfg.RefreshInterval)
	if err := view.Start(ctx); err != nil {
		log.Fatalf("failed to start console view: %v", err)
	}
	defer view.Close()

	router := httpapi.NewRouter(httpapi.Config{
		Orders:         orders,
		Catalog:        catalog,
		Profile:        profile,
		View:           view,
		BuyerCaches:    buyerCaches,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("merchant backend starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// ensureAdmin seeds the canonical admin row on first boot so the profile
// sync guard always has a target.
func ensureAdmin(ctx context.Context, users repository.UserRepository, cfg *Config) error {
	_, err := users.GetFirstAdmin(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	now := time.Now()
	return users.CreateUser(ctx, &domain.User{
		ID:        uuid.New().String(),
		Name:      cfg.AdminName,
		Email:     cfg.AdminEmail,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
