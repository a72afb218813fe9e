// Package migrations owns the schemas of scan stores and merged
// stores, embedded as golang-migrate SQL files. Scan stores and merged
// stores have independent migration sets because their table shapes
// are the wire contract read by export and merge.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed store/*.sql merged/*.sql
var migrationFiles embed.FS

// Migration set names.
const (
	StoreSet  = "store"
	MergedSet = "merged"
)

// MigrateUp runs all pending migrations from the named set to bring
// the database to the latest version.
func MigrateUp(db *sql.DB, set string) error {
	m, err := newMigrate(db, set)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: we don't close m because it would close the db connection.
	// The caller owns the db and is responsible for closing it.

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// CheckStatus verifies the database is at the latest version of the
// named set. A database created by some other program, or by a newer
// or older release, fails this check.
func CheckStatus(db *sql.DB, set string) error {
	m, err := newMigrate(db, set)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("database has no schema version")
		}
		return fmt.Errorf("failed to get database version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", version)
	}

	sourceDriver, err := iofs.New(migrationFiles, set)
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	defer sourceDriver.Close()

	latest, err := getLatestVersion(sourceDriver)
	if err != nil {
		return fmt.Errorf("failed to determine latest version: %w", err)
	}

	if version < latest {
		return fmt.Errorf("database is at version %d but latest is %d", version, latest)
	}
	if version > latest {
		return fmt.Errorf("database version %d is ahead of binary version %d (binary needs update)", version, latest)
	}
	return nil
}

// LatestVersion returns the newest migration version in the named set.
func LatestVersion(set string) (uint, error) {
	sourceDriver, err := iofs.New(migrationFiles, set)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer sourceDriver.Close()
	return getLatestVersion(sourceDriver)
}

func newMigrate(db *sql.DB, set string) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationFiles, set)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// getLatestVersion returns the highest version number available in the source.
func getLatestVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			// Any error from Next() means we've reached the end.
			break
		}
		version = next
	}
	return version, nil
}
