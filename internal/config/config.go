package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries process-level settings. Table names live with their
// repositories; everything wired at startup is here.
type Config struct {
	Port string
	Env  string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	MercadoPagoAccessToken string
	PaymentGatewayMock     bool
	WalletGatewayLatency   time.Duration
	WalletGatewayFailRate  float64

	AutoConfirmInterval    time.Duration
	AutoConfirmBatchLimit  int
	AutoConfirmConcurrency int
}

// Load reads .env when present, then the environment. Missing keys fall back
// to local-development defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getenvDefault("PORT", "8080"),
		Env:  getenvDefault("APP_ENV", "development"),

		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getenvDefault("JWT_SECRET", "dev-secret"),

		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		PaymentGatewayMock:     getenvBool("PAYMENT_GATEWAY_MOCK", false),
		WalletGatewayLatency:   getenvDuration("WALLET_GATEWAY_LATENCY", 150*time.Millisecond),
		WalletGatewayFailRate:  getenvFloat("WALLET_GATEWAY_FAIL_RATE", 0),

		AutoConfirmInterval:    getenvDuration("AUTO_CONFIRM_INTERVAL", 5*time.Minute),
		AutoConfirmBatchLimit:  getenvInt("AUTO_CONFIRM_BATCH_LIMIT", 100),
		AutoConfirmConcurrency: getenvInt("AUTO_CONFIRM_CONCURRENCY", 4),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
