package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/kiranshivaraju/clausecheck/migrations"
)

// RunMigrations applies all pending up migrations. dir names a directory of
// migration files; an empty dir uses the migrations compiled into the binary.
func RunMigrations(databaseURL, dir string) error {
	dbURL := pgx5URL(databaseURL)

	var (
		m   *migrate.Migrate
		err error
	)
	if dir == "" {
		src, serr := iofs.New(migrations.FS, ".")
		if serr != nil {
			return fmt.Errorf("open embedded migrations: %w", serr)
		}
		m, err = migrate.NewWithSourceInstance("iofs", src, dbURL)
	} else {
		m, err = migrate.New("file://"+dir, dbURL)
	}
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// pgx5URL rewrites a postgres:// URL to the scheme the pgx/v5 migrate driver registers.
func pgx5URL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}
