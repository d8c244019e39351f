package store

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	geoerrors "github.com/geo-dev/geo/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, "sqlite3", driver)
}

// Migrate applies all up migrations. It does not close db.
func Migrate(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return geoerrors.New("E201").Wrap(err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return geoerrors.New("E201").WithDetail(err.Error()).Wrap(err)
	}
	return nil
}

// MigrateDown reverts every migration. It does not close db.
func MigrateDown(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return geoerrors.New("E201").Wrap(err)
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return geoerrors.New("E201").WithDetail(err.Error()).Wrap(err)
	}
	return nil
}

// SchemaVersion reports the applied migration version and whether the last
// migration failed halfway.
func SchemaVersion(db *sql.DB) (uint, bool, error) {
	m, err := newMigrate(db)
	if err != nil {
		return 0, false, geoerrors.New("E201").Wrap(err)
	}
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
