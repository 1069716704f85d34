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
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/valter-tonon/digimenu/internal/address"
	"github.com/valter-tonon/digimenu/internal/cart"
	"github.com/valter-tonon/digimenu/internal/checkout"
	"github.com/valter-tonon/digimenu/internal/customer"
	h "github.com/valter-tonon/digimenu/internal/http"
	"github.com/valter-tonon/digimenu/internal/menu"
	"github.com/valter-tonon/digimenu/internal/notification"
	"github.com/valter-tonon/digimenu/internal/order"
	"github.com/valter-tonon/digimenu/internal/storage"
	"github.com/valter-tonon/digimenu/internal/tracking"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	MongoURI        string
	MongoDatabase   string
	KafkaBrokers    []string
	OrderServiceURL string
	MerchantName    string
	TenantID        string
	MenuDBPath      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "digimenu"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		OrderServiceURL: getEnv("ORDER_SERVICE_URL", "http://localhost:3000"),
		MerchantName:    getEnv("MERCHANT_NAME", "Digimenu"),
		TenantID:        getEnv("TENANT_ID", ""),
		MenuDBPath:      getEnv("MENU_DB_PATH", "./menu.db"),
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
	log.Println("digimenu starting...")
	cfg := loadConfig()
	var wg sync.WaitGroup

	// Session storage
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	store := storage.NewRedisStore(redisClient)

	// MongoDB for addresses and customers
	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := address.ConnectMongoDB(mongoCtx, address.MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	mongoCancel()
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer db.Client().Disconnect(context.Background())

	addressSvc := address.NewMongoRepository(db)
	customerLookup := customer.NewMongoRepository(db)

	// Order tracking database
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	creds := &tracking.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              dbPort,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "digimenu"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/tracking/migrations"),
	}
	trackingRepo, err := tracking.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer trackingRepo.Close()

	if err := trackingRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("tracking migrations completed")

	// Menu catalog
	menuRepo, err := menu.NewRepository(cfg.MenuDBPath)
	if err != nil {
		log.Fatalf("Failed to open menu database: %v", err)
	}
	defer menuRepo.Close()

	if err := menuRepo.RunMigrations(getEnv("MENU_MIGRATIONS_PATH", "./internal/menu/migrations")); err != nil {
		log.Fatalf("Failed to run menu migrations: %v", err)
	}
	log.Println("menu migrations completed")

	// Kafka
	publisher := notification.NewPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	trackingConsumer := tracking.NewConsumer(trackingRepo, cfg.KafkaBrokers...)
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		trackingConsumer.Run(consumerCtx)
	}()

	// Services
	cartStore := cart.NewStore(store)
	orderClient := order.NewClient(cfg.OrderServiceURL, cfg.RequestTimeout)
	customerResolver := customer.NewResolver(customerLookup, store, cfg.TenantID)
	reconciler := address.NewReconciler(store, addressSvc)
	checkoutSvc := checkout.NewService(store, cartStore, orderClient, publisher, addressSvc, customerResolver, cfg.MerchantName)

	// Handlers
	cartHandler := h.NewCartHandler(cartStore)
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc)
	addressHandler := h.NewAddressHandler(reconciler, customerResolver, checkoutSvc)
	menuHandler := h.NewMenuHandler(menuRepo)
	ordersHandler := h.NewOrdersHandler(trackingRepo)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{identify}", cartHandler.UpdateQuantity)
			r.Delete("/items/{identify}", cartHandler.RemoveItem)
			r.Put("/context", cartHandler.SetContext)
			r.Put("/delivery", cartHandler.SetDeliveryMode)
			r.Put("/ttl", cartHandler.SetTTL)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetSession)
			r.Delete("/", checkoutHandler.Abandon)
			r.Put("/customer", checkoutHandler.SetCustomerData)
			r.Put("/address", checkoutHandler.SelectAddress)
			r.Put("/payment", checkoutHandler.SetPaymentMethod)
			r.Put("/notes", checkoutHandler.SetOrderNotes)
			r.Post("/advance", checkoutHandler.Advance)
			r.Post("/back", checkoutHandler.GoBack)
			r.Post("/goto", checkoutHandler.GoToStep)
			r.Post("/submit", checkoutHandler.Submit)
		})
		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", addressHandler.ListAddresses)
			r.Post("/", addressHandler.CreateAddress)
			r.Put("/{id}", addressHandler.UpdateAddress)
			r.Delete("/{id}", addressHandler.DeleteAddress)
			r.Post("/{id}/select", addressHandler.SelectAddress)
			r.Post("/{id}/default", addressHandler.SetDefault)
		})
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menuHandler.GetMenu)
			r.Get("/products/{id}", menuHandler.GetProduct)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrdersByPhone)
			r.Get("/{identify}", ordersHandler.GetOrder)
			r.Put("/{identify}/status", ordersHandler.UpdateStatus)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "digimenu"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("digimenu listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	consumerCancel()
	trackingConsumer.Close()
	wg.Wait()

	log.Println("server exited")
}
