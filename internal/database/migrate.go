package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/at-ishikawa/linkboard/schemas"
)

// Migrator applies the embedded schema migrations.
type Migrator struct {
	migrate *migrate.Migrate
}

// NewMigrator prepares migrations against db. Closing the Migrator closes db.
func NewMigrator(db *sql.DB) (*Migrator, error) {
	src, err := migrationSource()
	if err != nil {
		return nil, err
	}
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("mysql.WithInstance() > %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithInstance() > %w", err)
	}
	return &Migrator{migrate: m}, nil
}

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(schemas.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("iofs.New() > %w", err)
	}
	return src, nil
}

// Up applies pending migrations, or at most steps of them when steps is positive.
// It reports whether anything changed.
func (m *Migrator) Up(steps int) (bool, error) {
	var err error
	if steps > 0 {
		err = m.migrate.Steps(steps)
	} else {
		err = m.migrate.Up()
	}
	return changed(err)
}

// Down reverts all migrations, or at most steps of them when steps is positive.
func (m *Migrator) Down(steps int) (bool, error) {
	var err error
	if steps > 0 {
		err = m.migrate.Steps(-steps)
	} else {
		err = m.migrate.Down()
	}
	return changed(err)
}

// Version returns the applied version. It is 0 when nothing has been applied.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migrate.Version() > %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

func changed(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migrate > %w", err)
	}
	return true, nil
}
