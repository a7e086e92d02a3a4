package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// newMigrate opens a migrator reading from migrationsPath, or from the
// migrations compiled into the binary when the path is empty.
func newMigrate(databaseURL, migrationsPath string) (*migrate.Migrate, error) {
	var (
		m   *migrate.Migrate
		err error
	)

	if migrationsPath == "" {
		src, serr := iofs.New(migrationFiles, "migrations")
		if serr != nil {
			return nil, fmt.Errorf("failed to open embedded migrations: %w", serr)
		}
		m, err = migrate.NewWithSourceInstance("iofs", src, databaseURL)
	} else {
		m, err = migrate.New("file://"+migrationsPath, databaseURL)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}

// RunMigrations applies every pending migration.
func RunMigrations(databaseURL, migrationsPath string, logger zerolog.Logger) error {
	m, err := newMigrate(databaseURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("database migrations: no change")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database migrations: applied successfully")
	return nil
}

// RunMigrationsDown rolls back the last migration.
func RunMigrationsDown(databaseURL, migrationsPath string, logger zerolog.Logger) error {
	m, err := newMigrate(databaseURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	logger.Info().Msg("database migrations: rolled back successfully")
	return nil
}
