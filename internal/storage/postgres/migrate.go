package postgres

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cory-johannsen/bestiary/internal/config"
)

// Direction selects which way RunMigrations moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection converts s into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("invalid direction %q: must be 'up' or 'down'", s)
	}
}

// Migrator is the part of *migrate.Migrate that RunMigrations drives.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
}

// MigrationResult is the schema state after RunMigrations.
type MigrationResult struct {
	Version uint
	Dirty   bool
	// Changed is false when there was nothing to apply.
	Changed bool
}

// OpenMigrator opens the migrations in dir against the configured database.
//
// Postcondition: the caller must Close the returned migrator.
func OpenMigrator(dir string, cfg config.DatabaseConfig) (*migrate.Migrate, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving migrations dir %q: %w", dir, err)
	}
	m, err := migrate.New("file://"+filepath.ToSlash(abs), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// RunMigrations applies steps migrations in direction d; steps <= 0 applies
// all of them.
//
// Postcondition: "no change" is not an error; it yields Changed == false.
func RunMigrations(m Migrator, d Direction, steps int) (MigrationResult, error) {
	var err error
	switch {
	case d == Up && steps > 0:
		err = m.Steps(steps)
	case d == Up:
		err = m.Up()
	case d == Down && steps > 0:
		err = m.Steps(-steps)
	case d == Down:
		err = m.Down()
	default:
		return MigrationResult{}, fmt.Errorf("invalid direction %q", d)
	}
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		changed = false
	} else if err != nil {
		return MigrationResult{}, fmt.Errorf("migrating %s: %w", d, err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{Changed: changed}, nil
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("reading schema version: %w", err)
	}
	return MigrationResult{Version: version, Dirty: dirty, Changed: changed}, nil
}
