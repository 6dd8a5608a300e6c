package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"maitred/internal/api"
	"maitred/internal/catalog"
	"maitred/internal/engine"
	"maitred/internal/models"
	"maitred/internal/monitoring"
	"maitred/internal/providers"
	"maitred/internal/session"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	generator, err := initializeGenerator(config)
	if err != nil {
		log.Fatalf("Failed to initialize model provider: %v", err)
	}

	source, closeCatalog, err := initializeCatalog(config)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}
	defer closeCatalog()

	metrics := monitoring.NewMetrics()

	store := session.NewStore()
	store.StartSweeper(ctx, time.Minute, config.sessionTTL(), metrics.AddExpired)

	resolver := engine.NewResolver(store, source, generator, metrics,
		engine.WithGenerateTimeout(config.generateTimeout()))

	apiServer := api.NewServer(resolver)

	go startMetricsServer(*metricsPort, metrics)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: apiServer.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting API server on port %d", *port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// Config represents the application configuration
type Config struct {
	OpenAIKey       string  `yaml:"openai_key"`
	OpenAIBaseURL   string  `yaml:"openai_base_url"`
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	DatabaseDriver  string  `yaml:"database_driver"`
	DatabaseURL     string  `yaml:"database_url"`
	SessionTTLMin   int     `yaml:"session_ttl_minutes"`
	GenerateTimeout int     `yaml:"generate_timeout_seconds"`
}

func (c *Config) sessionTTL() time.Duration {
	if c.SessionTTLMin <= 0 {
		return session.DefaultMaxIdle
	}
	return time.Duration(c.SessionTTLMin) * time.Minute
}

func (c *Config) generateTimeout() time.Duration {
	if c.GenerateTimeout <= 0 {
		return engine.DefaultGenerateTimeout
	}
	return time.Duration(c.GenerateTimeout) * time.Second
}

func loadConfig(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file %s not found, using environment and defaults", path)
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.OpenAIKey == "" {
		config.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	return config, nil
}

func initializeGenerator(config *Config) (engine.Generator, error) {
	return providers.NewOpenAIProvider(providers.Config{
		APIKey:      config.OpenAIKey,
		BaseURL:     config.OpenAIBaseURL,
		Model:       config.Model,
		Temperature: config.Temperature,
	})
}

// initializeCatalog opens the restaurant database when one is configured and
// falls back to the seeded demo catalog otherwise.
func initializeCatalog(config *Config) (catalog.Source, func(), error) {
	if config.DatabaseURL == "" {
		log.Println("No database configured, serving the in-memory demo catalog")
		return demoCatalog(), func() {}, nil
	}

	driver := config.DatabaseDriver
	if driver == "" {
		driver = "sqlite3"
	}

	store, err := catalog.Open(driver, config.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Seed(); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func demoCatalog() catalog.Source {
	fp := func(f float64) *float64 { return &f }
	return &catalog.StaticSource{Restaurants: []models.Restaurant{
		{
			ID:               "demo-1",
			Name:             "Udupi Palace",
			Location:         &models.Coordinate{Lat: 12.9716, Lng: 77.5946},
			DeliveryRadiusKm: fp(8),
			Rating:           fp(4.5),
			FeedbackCount:    412,
			Cuisines:         []string{"south indian"},
			Menu: []models.MenuItem{
				{ID: "demo-1-1", Name: "Masala Dosa", Price: 90, Veg: true},
				{ID: "demo-1-2", Name: "Idli Sambar", Price: 60, Veg: true},
			},
		},
		{
			ID:               "demo-2",
			Name:             "Pizza Roma",
			Location:         &models.Coordinate{Lat: 12.9780, Lng: 77.6000},
			DeliveryRadiusKm: fp(6),
			Rating:           fp(4.2),
			FeedbackCount:    188,
			Cuisines:         []string{"italian"},
			Menu: []models.MenuItem{
				{ID: "demo-2-1", Name: "Margherita Pizza", Price: 250, Veg: true},
				{ID: "demo-2-2", Name: "Chicken Pepperoni Pizza", Price: 340, Veg: false},
			},
		},
	}}
}

func startMetricsServer(port int, metrics *monitoring.Metrics) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
