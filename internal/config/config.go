package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	AuthJWTSecret    string
	AuthCookieSecure bool

	IdentityWebhookSecret string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Gemini   GeminiConfig
	Razorpay RazorpayConfig

	TierConfigPath string

	RateLimit RateLimitConfig
}

// GeminiConfig configures the generative analysis provider.
type GeminiConfig struct {
	APIKey   string
	Model    string
	Endpoint string
}

// RazorpayConfig configures the payment gateway client.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Endpoint  string
}

// RateLimitConfig configures the redis token bucket on analysis endpoints.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UserRate      float64
	UserBurst     int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "resume-analyzer"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),

		AuthJWTSecret:    strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthCookieSecure: authCookieSecure,

		IdentityWebhookSecret: strings.TrimSpace(getenv("IDENTITY_WEBHOOK_SECRET", "")),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "resume_analyzer"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		Gemini: GeminiConfig{
			APIKey:   strings.TrimSpace(getenv("GOOGLE_API_KEY", "")),
			Model:    getenv("GEMINI_MODEL", "gemini-2.5-flash"),
			Endpoint: getenv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     strings.TrimSpace(getenv("RAZORPAY_KEY_ID", "")),
			KeySecret: strings.TrimSpace(getenv("RAZORPAY_KEY_SECRET", "")),
			Endpoint:  getenv("RAZORPAY_ENDPOINT", "https://api.razorpay.com"),
		},

		TierConfigPath: strings.TrimSpace(getenv("TIER_CONFIG_PATH", "")),

		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			UserRate:      getenvFloat("RATE_LIMIT_USER_RATE", 1),
			UserBurst:     getenvInt("RATE_LIMIT_USER_BURST", 5),
		},
	}

	return cfg
}

// Module wires configuration loading for the application.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
