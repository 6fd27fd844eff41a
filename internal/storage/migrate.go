package storage

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Identity cache and sync journal schema, in golang-migrate naming.
//
//go:embed migrations/*.sql
var schemaFS embed.FS

// migrateSchema brings the cache database at path to the latest schema and
// returns the resulting version. Running it on an up-to-date file is a no-op.
func migrateSchema(path string) (version uint, err error) {
	m, err := newMigrator(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

func newMigrator(path string) (*migrate.Migrate, error) {
	dir, err := fs.Sub(schemaFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded schema: %w", err)
	}
	src, err := iofs.New(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("create schema source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+sqliteURLPath(path))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// sqliteURLPath turns a filesystem path into the path part of a sqlite://
// URL. Windows drive paths need a leading slash.
func sqliteURLPath(path string) string {
	p := filepath.ToSlash(path)
	if filepath.IsAbs(path) && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
