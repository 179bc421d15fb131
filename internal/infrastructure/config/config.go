package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Store selects user persistence: "memory" (seeded demo store) or "mongo".
	Store string `env:"STORE, default=memory"`

	// SeedPassword is the password assigned to the demo accounts when the
	// in-memory store is used.
	SeedPassword string `env:"SEED_PASSWORD, default=11223344"`

	// CurrentUsername is the account the session tracker resolves to.
	CurrentUsername string `env:"CURRENT_USERNAME, default=omar"`

	Catalog CatalogConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type CatalogConfig struct {
	BaseURL        string `env:"CATALOG_API_URL, default=https://alalem.c-library.org/api"`
	TimeoutSeconds int    `env:"CATALOG_TIMEOUT, default=15"`
	StatsCacheTTL  int    `env:"STATS_CACHE_TTL, default=60"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=catalog_admin"`
}

type RedisConfig struct {
	// Addr left empty disables Redis (no token denylist, no stats cache).
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
