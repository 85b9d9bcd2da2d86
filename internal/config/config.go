package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env              string
	Port             string
	DatabasePath     string // sqlite file; used when DatabaseURL is empty
	DatabaseURL      string // optional Postgres DSN for a remote store
	RedisURL         string // optional; enables benchmark caching
	BenchmarkBaseURL string // Yahoo-chart-style endpoint; empty disables the oracle
	BenchmarkTTL     time.Duration
	AllowedOrigin    string // CORS origin for a local frontend
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbPath := viper.GetString("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/portfolio.db"
	}

	ttl := viper.GetDuration("BENCHMARK_CACHE_TTL")
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Config{
		Env:              env,
		Port:             port,
		DatabasePath:     dbPath,
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		RedisURL:         viper.GetString("REDIS_URL"),
		BenchmarkBaseURL: viper.GetString("BENCHMARK_BASE_URL"),
		BenchmarkTTL:     ttl,
		AllowedOrigin:    viper.GetString("ALLOWED_ORIGIN"),
	}, nil
}
