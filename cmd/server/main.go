package main

import (
	"context"                             // context package is needed for Redis operations
	"log"                                 // log package is needed for logging
	"stock_portfolio/internal/api"        // Custom package for API handlers
	"stock_portfolio/internal/config"     // Custom package for configuration
	"stock_portfolio/internal/db"         // Custom package for database access
	"stock_portfolio/internal/middleware" // Custom package for middleware
	"stock_portfolio/internal/quote"      // Custom package for quote lookups

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The quote provider cannot be called without a token
	if cfg.QuoteAPIKey == "" {
		logrus.Fatal("QUOTE_API_KEY not set")
	}

	// Setup Data Source Name (DSN) and connect to the database
	dsn := db.DSN(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	gdb, err := db.Open(dsn)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Quote provider: live HTTP lookups behind a Redis read-through cache
	provider := quote.NewCached(quote.NewClient(cfg.QuoteAPIURL, cfg.QuoteAPIKey), redisClient)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/register", api.RegisterHandler(gdb, cfg.StartingCash)) // Registration endpoint; does not log the user in
	r.POST("/login", api.LoginHandler(gdb, cfg.JWTSecret))          // Login endpoint
	r.GET("/logout", api.LogoutHandler())                           // Logout endpoint

	// Trading routes (protected by the session token)
	authGroup := r.Group("/")
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	authGroup.GET("/", api.PortfolioHandler(gdb, provider, cfg.StartingCash)) // Portfolio endpoint
	authGroup.GET("/history", api.HistoryHandler(gdb, redisClient))           // Transaction history endpoint
	authGroup.POST("/quote", api.QuoteHandler(provider))                      // Quote lookup endpoint
	authGroup.POST("/buy", api.BuyHandler(gdb, provider, redisClient))        // Buy endpoint
	authGroup.POST("/sell", api.SellHandler(gdb, provider, redisClient))      // Sell endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(gdb))
	adminGroup.GET("/users", api.ListUsersHandler(gdb, redisClient))               // List users endpoint
	adminGroup.GET("/transactions", api.ListTransactionsHandler(gdb, redisClient)) // List transactions endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
