package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"artisanmart/pkg/money"
)

type Config struct {
	ServerPort    string
	Environment   string
	LogLevel      string
	StorageDriver string
	CORSOrigins   []string

	FirebaseProject            string
	FirebaseAPIKey             string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string

	Payment PaymentConfig

	LLMToken          string
	LLMModel          string
	AnalyticsAI       bool
	AnalyticsCacheTTL time.Duration

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	SMTP SMTPConfig
}

type PaymentConfig struct {
	AppID              string
	SecretKey          string
	Environment        string
	ReturnURL          string
	PlatformFeePercent decimal.Decimal
	AdminBonus         money.Amount
	OrderExpiry        time.Duration
}

type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
	FromAddr string
	FromName string
}

func (c SMTPConfig) Enabled() bool {
	return c.Server != "" && c.FromAddr != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*Config, error) {
	godotenv.Load()

	feePercent, err := decimal.NewFromString(getEnv("PLATFORM_FEE_PERCENT", "0"))
	if err != nil {
		feePercent = decimal.Zero
	}

	adminBonus, err := money.Parse(getEnv("ADMIN_SUBSCRIPTION_BONUS", "100"))
	if err != nil {
		adminBonus = money.FromRupees(100)
	}

	llmToken := getEnv("LLM_PROVIDER_TOKEN", "")
	if llmToken == "" {
		llmToken = getEnv("OPENAI_API_KEY", "")
	}

	config := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StorageDriver: getEnv("STORAGE_DRIVER", "firestore"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:             getEnv("FIREBASE_API_KEY", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),

		Payment: PaymentConfig{
			AppID:              getEnv("CASHFREE_APP_ID", ""),
			SecretKey:          getEnv("CASHFREE_SECRET_KEY", ""),
			Environment:        getEnv("CASHFREE_ENVIRONMENT", "sandbox"),
			ReturnURL:          getEnv("PAYMENT_RETURN_URL", "http://localhost:3000/payment/status?order_id={order_id}"),
			PlatformFeePercent: feePercent,
			AdminBonus:         adminBonus,
			OrderExpiry:        time.Duration(getEnvAsInt64("ORDER_EXPIRY_MINUTES", 30)) * time.Minute,
		},

		LLMToken:          llmToken,
		LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		AnalyticsAI:       getEnvAsBool("ANALYTICS_AI_ENABLED", true),
		AnalyticsCacheTTL: getEnvAsDuration("ANALYTICS_CACHE_TTL", 10*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),

		SMTP: SMTPConfig{
			Server:   getEnv("SMTP_SERVER", ""),
			Port:     int(getEnvAsInt64("SMTP_PORT", 587)),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			FromAddr: getEnv("FROM_ADDR", ""),
			FromName: getEnv("FROM_NAME", "ArtisanMart"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("10m") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
