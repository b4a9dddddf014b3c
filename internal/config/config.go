// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	DatabasePath string
	JWTSecretKey string

	// Completion endpoint. The API key is server-held and never reaches the
	// browser; the base URL makes the upstream provider configurable.
	LLMAPIKey    string
	LLMBaseURL   string
	FreeModel    string
	PremiumModel string
	SystemPrompt string
	// Maximum number of prior messages included in each completion prompt.
	HistoryWindow int

	// Billing provider (hosted checkout).
	StripeSecretKey      string
	StripePremiumPriceID string
	CheckoutSuccessURL   string
	CheckoutCancelURL    string
	// How long reconciliation waits before re-reading provider state, to
	// accommodate the provider's asynchronous webhook processing.
	ReconcileDelay time.Duration
}

const defaultSystemPrompt = "You are ShadowAI, a helpful and intelligent assistant. " +
	"Provide thoughtful, accurate responses while being conversational and engaging."

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Environment:  env,
		DatabasePath: getEnv("DATABASE_PATH", "shadowai.db"),
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),

		LLMAPIKey:     getEnv("LLM_API_KEY", ""),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "https://api.ai21.com/studio/v1"),
		FreeModel:     getEnv("LLM_FREE_MODEL", "jamba-mini"),
		PremiumModel:  getEnv("LLM_PREMIUM_MODEL", "jamba-large"),
		SystemPrompt:  getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
		HistoryWindow: getEnvAsInt("HISTORY_WINDOW", 10),

		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripePremiumPriceID: getEnv("STRIPE_PREMIUM_PRICE_ID", "price_premium"),
		CheckoutSuccessURL:   getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/success?session_id={CHECKOUT_SESSION_ID}"),
		CheckoutCancelURL:    getEnv("CHECKOUT_CANCEL_URL", "http://localhost:5173/pricing"),
		ReconcileDelay:       getEnvAsDuration("RECONCILE_DELAY", 2*time.Second),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
		if cfg.StripeSecretKey == "" {
			missing = append(missing, "STRIPE_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an env var as a duration, with a fallback.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}
