package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolWithConfigInvalidURL(t *testing.T) {
	ctx := context.Background()

	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := PoolConfig{
		DatabaseURL: "postgres://ledger@127.0.0.1:1/db?connect_timeout=1",
		MaxConns:    1,
	}

	if _, err := NewPoolWithConfig(ctx, cfg); err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestNewMigratorRejectsBadSource(t *testing.T) {
	if _, err := newMigrate("postgres://ledger@127.0.0.1:1/db", "/does/not/exist"); err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	if len(entries) < 2 {
		t.Fatalf("expected up and down migrations, got %d files", len(entries))
	}
}
