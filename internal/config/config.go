package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Payment      PaymentConfig
	Shipping     ShippingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig controls outbound notification delivery.
type NotificationConfig struct {
	QueueKey   string
	EmailFrom  string
	WebhookURL string
}

// PaymentConfig holds payment processor credentials and checkout redirect URLs.
type PaymentConfig struct {
	APIKey            string
	OrderSuccessURL   string
	OrderCancelURL    string
	PlanSuccessURL    string
	PlanCancelURL     string
	AccountSuccessURL string
}

// ShippingConfig holds carrier credentials and the company return address.
type ShippingConfig struct {
	APIToken       string
	BaseURL        string
	CarrierAccount string
	ServiceLevel   string
	CompanyAddress Address
}

// Address is a physical address resolved once at startup and injected
// into the shipping service.
type Address struct {
	Name    string
	Company string
	Street1 string
	Street2 string
	City    string
	State   string
	Zip     string
	Country string
	Phone   string
	Email   string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "lab-support-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			QueueKey:   getEnv("NOTIFY_QUEUE_KEY", "notifications:outbound"),
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@bioproximity.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Payment: PaymentConfig{
			APIKey:            os.Getenv("STRIPE_API_KEY"),
			OrderSuccessURL:   getEnv("PAYMENT_ORDER_SUCCESS_URL", "https://app.bioproximity.com/orders"),
			OrderCancelURL:    getEnv("PAYMENT_ORDER_CANCEL_URL", "https://app.bioproximity.com/orders"),
			PlanSuccessURL:    getEnv("PAYMENT_PLAN_SUCCESS_URL", "https://app.bioproximity.com/profile/plans"),
			PlanCancelURL:     getEnv("PAYMENT_PLAN_CANCEL_URL", "https://app.bioproximity.com/profile/plans"),
			AccountSuccessURL: getEnv("PAYMENT_ACCOUNT_SUCCESS_URL", "https://app.bioproximity.com/account"),
		},
		Shipping: ShippingConfig{
			APIToken:       os.Getenv("SHIPPO_API_TOKEN"),
			BaseURL:        getEnv("SHIPPO_BASE_URL", "https://api.goshippo.com"),
			CarrierAccount: os.Getenv("SHIPPING_CARRIER_ACCOUNT"),
			ServiceLevel:   getEnv("SHIPPING_SERVICE_LEVEL", "fedex_priority_overnight"),
			CompanyAddress: Address{
				Name:    getEnv("COMPANY_ADDRESS_NAME", "Bioproximity"),
				Company: getEnv("COMPANY_ADDRESS_COMPANY", "Bioproximity, LLC"),
				Street1: os.Getenv("COMPANY_ADDRESS_STREET1"),
				Street2: os.Getenv("COMPANY_ADDRESS_STREET2"),
				City:    os.Getenv("COMPANY_ADDRESS_CITY"),
				State:   os.Getenv("COMPANY_ADDRESS_STATE"),
				Zip:     os.Getenv("COMPANY_ADDRESS_ZIP"),
				Country: getEnv("COMPANY_ADDRESS_COUNTRY", "US"),
				Phone:   os.Getenv("COMPANY_ADDRESS_PHONE"),
				Email:   getEnv("COMPANY_ADDRESS_EMAIL", "support@bioproximity.com"),
			},
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
