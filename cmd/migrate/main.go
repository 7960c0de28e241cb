// Command migrate applies or inspects schema migrations. Without -dsn it
// reads MIRA_DB_DSN, then falls back to the database section of the service
// configuration.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/saksham0021/mira-astrology-review/internal/config"
	"github.com/saksham0021/mira-astrology-review/migrations"
	"github.com/saksham0021/mira-astrology-review/pkg/database"
)

const envDSN = "MIRA_DB_DSN"

func main() {
	var (
		dsn     = flag.String("dsn", "", "migration URL (postgres://... or sqlite://path)")
		up      = flag.Bool("up", false, "apply all pending migrations")
		down    = flag.Bool("down", false, "revert all migrations")
		steps   = flag.Int("steps", 0, "apply (positive) or revert (negative) N migrations")
		version = flag.Bool("version", false, "print the current migration version")
		force   = flag.Int("force", -1, "force the recorded version without running migrations")
	)
	flag.Parse()

	forceSet := false
	flag.Visit(func(f *flag.Flag) {
		forceSet = forceSet || f.Name == "force"
	})

	url, err := resolveURL(*dsn)
	if err != nil {
		log.Fatalf("resolve database: %v", err)
	}

	m, err := migrations.New(driverFor(url), url)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatalf("read version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case forceSet:
		if err := m.Force(*force); err != nil {
			log.Fatalf("force version: %v", err)
		}
		fmt.Printf("forced to version %d\n", *force)
	case *up:
		run("up", m.Up())
	case *down:
		run("down", m.Down())
	case *steps != 0:
		run(fmt.Sprintf("%d steps", *steps), m.Steps(*steps))
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate [-dsn URL] -up|-down|-steps N|-version|-force N")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func run(what string, err error) {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Printf("%s: no change\n", what)
		return
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", what, err)
	}
	fmt.Printf("migrate %s: done\n", what)
}

func resolveURL(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Database.MigrationURL(), nil
}

func driverFor(url string) string {
	if strings.HasPrefix(url, "sqlite://") {
		return database.DriverSQLite
	}
	return database.DriverPostgres
}
