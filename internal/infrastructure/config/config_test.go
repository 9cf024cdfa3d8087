package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 168h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.LoginMaxAttempts != 5 || cfg.Auth.LoginLockWindow != 15*time.Minute {
		t.Errorf("unexpected throttle defaults: %+v", cfg.Auth)
	}
	if cfg.Database.Driver != "sqlite" || !cfg.Database.AutoMigrate {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Mongo.URI != "" || cfg.Redis.Addr != "" {
		t.Error("optional stores must be disabled by default")
	}
	if cfg.Activity.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Activity.Workers)
	}
	if cfg.Admin.Email != "admin@exemplo.com" {
		t.Errorf("Admin.Email = %q", cfg.Admin.Email)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"TOKEN_TTL":          "1h",
		"DB_DRIVER":          "postgres",
		"DB_DSN":             "postgres://localhost/catalog",
		"MONGO_URI":          "mongodb://localhost:27017",
		"REDIS_ADDR":         "localhost:6379",
		"LOGIN_MAX_ATTEMPTS": "3",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("expected production env")
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://localhost/catalog" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Mongo.URI == "" || cfg.Redis.Addr == "" {
		t.Error("expected optional stores to be configured")
	}
	if cfg.Auth.LoginMaxAttempts != 3 {
		t.Errorf("LoginMaxAttempts = %d, want 3", cfg.Auth.LoginMaxAttempts)
	}
}

func TestLoadWith_RequiresSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error should name the missing variable, got %v", err)
	}
}

func TestLoadWith_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"DB_DRIVER":  "oracle",
	}))
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
