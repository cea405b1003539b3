package config

import (
	"os"      // For environment variables
	"strconv" // For string to number conversion

	"github.com/joho/godotenv" // For loading .env files
)

// DefaultStartingCash is the cash balance granted to every new user.
const DefaultStartingCash = 10000.0

// Config holds the application configuration
type Config struct {
	AppPort      string  // Application port
	DBUser       string  // Database user
	DBPassword   string  // Database password
	DBHost       string  // Database host
	DBPort       string  // Database port
	DBName       string  // Database name
	JWTSecret    string  // JWT secret key
	RedisAddr    string  // Redis server address
	RedisPass    string  // Redis password
	RedisDB      int     // Redis database number
	QuoteAPIURL  string  // Quote provider base URL
	QuoteAPIKey  string  // Quote provider API token
	StartingCash float64 // Cash balance granted on registration
	IsProd       bool    // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	startingCash := DefaultStartingCash
	if v := os.Getenv("STARTING_CASH"); v != "" {
		// Keep the default when the override does not parse
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			startingCash = f
		}
	}
	quoteURL := os.Getenv("QUOTE_API_URL")
	if quoteURL == "" {
		quoteURL = "https://cloud.iexapis.com" // Default quote provider endpoint
	}
	return &Config{
		AppPort:      os.Getenv("APP_PORT"),          // Application port
		DBUser:       os.Getenv("DB_USER"),           // Database user
		DBPassword:   os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:       os.Getenv("DB_HOST"),           // Database host
		DBPort:       os.Getenv("DB_PORT"),           // Database port
		DBName:       os.Getenv("DB_NAME"),           // Database name
		JWTSecret:    os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:    os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:    os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:      redisDB,                        // Redis database number
		QuoteAPIURL:  quoteURL,                       // Quote provider base URL
		QuoteAPIKey:  os.Getenv("QUOTE_API_KEY"),     // Quote provider API token
		StartingCash: startingCash,                   // Registration cash balance
		IsProd:       os.Getenv("IS_PROD") == "true", // Is production environment
	}
}
