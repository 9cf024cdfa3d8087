package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Activity ActivityConfig
	Admin    AdminConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	TokenTTL         time.Duration `env:"TOKEN_TTL,          default=168h"`
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockWindow  time.Duration `env:"LOGIN_LOCK_WINDOW,  default=15m"`
}

type DatabaseConfig struct {
	Driver      string `env:"DB_DRIVER,       default=sqlite"`
	DSN         string `env:"DB_DSN,          default=catalog.db"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE, default=true"`
}

// MongoConfig is optional: an empty URI disables the activity log.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=catalog_admin"`
}

// RedisConfig is optional: an empty address disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// AdminConfig is the account created by the seed command.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME,  default=Administrador"`
	Email    string `env:"ADMIN_EMAIL, default=admin@exemplo.com"`
	Password string `env:"ADMIN_PASSWORD"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Database.Driver != "sqlite" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return &cfg, nil
}
