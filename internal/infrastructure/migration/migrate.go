package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator drives schema migrations for the booking database. It wraps
// golang-migrate with logging and folds ErrNoChange into a no-op, so "already
// up to date" never reads as a failure.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New builds a Migrator on an open postgres connection reading .sql pairs
// from migrationsPath
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error {
	changed, err := mg.run("migrate up", mg.m.Up)
	if err != nil || !changed {
		return err
	}
	mg.logCurrentVersion("Migrations applied")
	return nil
}

// Down rolls back every applied migration
func (mg *Migrator) Down() error {
	changed, err := mg.run("migrate down", mg.m.Down)
	if err == nil && changed {
		mg.logger.Info("All migrations rolled back")
	}
	return err
}

// Steps applies n migrations; negative n rolls back
func (mg *Migrator) Steps(n int) error {
	changed, err := mg.run(fmt.Sprintf("migrate %+d steps", n), func() error {
		return mg.m.Steps(n)
	})
	if err != nil || !changed {
		return err
	}
	mg.logCurrentVersion("Migration steps applied")
	return nil
}

// GoTo migrates up or down until the schema is at the given version
func (mg *Migrator) GoTo(version uint) error {
	changed, err := mg.run(fmt.Sprintf("migrate to version %d", version), func() error {
		return mg.m.Migrate(version)
	})
	if err == nil && changed {
		mg.logCurrentVersion("Migrated to target version")
	}
	return err
}

// Version reports the schema version and whether a failed migration left it
// dirty. A fresh database reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded schema version without running any SQL. It
// exists to clear a dirty flag after a failed migration has been repaired by
// hand.
func (mg *Migrator) Force(version int) error {
	mg.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database, data included
func (mg *Migrator) Drop() error {
	mg.logger.Warn("Dropping all database objects")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

// run executes a migration operation and reports whether it changed anything
func (mg *Migrator) run(op string, fn func() error) (bool, error) {
	mg.logger.Info("Running migration operation", zap.String("operation", op))

	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already up to date", zap.String("operation", op))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (mg *Migrator) logCurrentVersion(msg string) {
	version, dirty, err := mg.m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		mg.logger.Warn("Could not read schema version", zap.Error(err))
		return
	}
	mg.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
}
