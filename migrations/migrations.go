// Package migrations embeds the schema migrations for each supported database driver.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Source returns the embedded migration source for driver (postgres or sqlite).
func Source(driver string) (source.Driver, error) {
	switch driver {
	case "postgres", "sqlite":
		return iofs.New(files, driver)
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}

// New creates a migrator for driver against the database at url.
// The caller must Close the returned migrator.
func New(driver, url string) (*migrate.Migrate, error) {
	src, err := Source(driver)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Up applies all pending migrations. It satisfies database.Migrator.
func Up(driver, url string) error {
	m, err := New(driver, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
