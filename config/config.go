package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all environment variables for the payment service.
type Config struct {
	Port        string
	Environment string // "production" or "development"

	StripeSecretKey     string
	StripeWebhookSecret string

	MongoURL string
	MongoDB  string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	AdminEmails    []string // comma-separated in ADMIN_EMAILS
	AllowedOrigins []string // comma-separated in ALLOWED_ORIGINS

	FrontendURL      string
	FallbackCurrency string

	SelfURL           string
	CompanionURL      string
	KeepAliveInterval time.Duration

	EventBackend       string // "sns", "kafka" or "none"
	PaymentSNSTopicARN string
	KafkaBrokers       string
	KafkaTopic         string
}

// LoadConfig loads environment variables into a Config struct and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),

		StripeSecretKey:     os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		MongoURL: getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "payments"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASS"),
		SMTPSender:   os.Getenv("SMTP_SENDER"),

		AdminEmails:    splitList(os.Getenv("ADMIN_EMAILS")),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		FallbackCurrency: strings.ToLower(getEnv("FALLBACK_CURRENCY", "gbp")),

		SelfURL:      os.Getenv("SELF_URL"),
		CompanionURL: os.Getenv("COMPANION_URL"),

		EventBackend:       getEnv("EVENT_BACKEND", "none"),
		PaymentSNSTopicARN: os.Getenv("PAYMENT_SNS_TOPIC_ARN"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "payment.events"),
	}

	interval := getEnv("KEEPALIVE_INTERVAL", "14m")
	d, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("invalid KEEPALIVE_INTERVAL %q: %w", interval, err)
	}
	cfg.KeepAliveInterval = d

	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_API_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
// Upstream error messages are sanitized in production responses.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SMTPConfigured reports whether all SMTP credentials are present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPassword != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
