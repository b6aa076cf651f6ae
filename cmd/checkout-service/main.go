package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mkhalil/go_storefront/internal/basket"
	"github.com/mkhalil/go_storefront/internal/events"
	"github.com/mkhalil/go_storefront/internal/gateway"
	h "github.com/mkhalil/go_storefront/internal/http"
	"github.com/mkhalil/go_storefront/internal/repository"
	"github.com/mkhalil/go_storefront/internal/service"
)

type Config struct {
	HTTPPort         string
	RedisAddr        string
	BasketTTLDays    int
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsDir    string
	KafkaBroker      string
	StripeSecretKey  string
	WebhookSecret    string
	JWTSecret        string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		BasketTTLDays:    getEnvInt("BASKET_TTL_DAYS", 7),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "storefront"),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "migrations"),
		KafkaBroker:      getEnv("KAFKA_BROKER", "localhost:9092"),
		StripeSecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	creds := &repository.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	pg, err := repository.NewPostgres(creds)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pg.Close()

	if err := pg.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	publisher := events.NewPublisher(cfg.KafkaBroker)
	defer publisher.Close()

	baskets := basket.NewRedisStore(redisClient, cfg.BasketTTLDays)
	stripeClient := gateway.NewStripeClient(cfg.StripeSecretKey)

	paymentService := service.NewPaymentService(baskets, pg, stripeClient, publisher, service.PaymentConfig{
		Currency:           "usd",
		PaymentMethodTypes: []string{"card"},
		WebhookSecret:      cfg.WebhookSecret,
		WebhookTolerance:   5 * time.Minute,
	})
	orderService := service.NewOrderService(baskets, pg, paymentService, publisher)

	basketHandler := h.NewBasketHandler(baskets, cfg.RequestTimeout)
	paymentsHandler := h.NewPaymentsHandler(paymentService, cfg.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(orderService, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.AuthMiddleware(cfg.JWTSecret))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/basket", func(r chi.Router) {
			r.Get("/{basket_id}", basketHandler.GetBasket)
			r.Post("/{basket_id}", basketHandler.UpdateBasket)
			r.Delete("/{basket_id}", basketHandler.DeleteBasket)
		})
		r.Route("/payments", func(r chi.Router) {
			r.Post("/webhook", paymentsHandler.Webhook)
			r.Post("/{basket_id}", paymentsHandler.CreateOrUpdateIntent)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordersHandler.CreateOrder)
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/delivery-methods", ordersHandler.ListDeliveryMethods)
			r.Get("/{order_id}", ordersHandler.GetOrder)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "checkout-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Checkout service starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
