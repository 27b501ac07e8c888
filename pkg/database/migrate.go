package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigrationResult reports what a migration run did.
type MigrationResult struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Migrate applies migrations from dir to databaseURL. steps == 0 means all the way up,
// a negative value steps down.
func Migrate(databaseURL, dir string, steps int) (MigrationResult, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return MigrationResult{}, fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return MigrationResult{}, fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	source := dir
	if !strings.HasPrefix(source, "file://") {
		source = "file://" + source
	}
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("could not create migrate instance: %w", err)
	}

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		changed, err = false, nil
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to read migration version: %w", verr)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return MigrationResult{}, fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return MigrationResult{}, fmt.Errorf("migration database error: %w", dbErr)
	}
	return MigrationResult{Version: version, Dirty: dirty, Changed: changed}, nil
}
