package storeutil

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" /*nolint*/
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v4/stdlib" /*nolint*/
	"github.com/jmoiron/sqlx"
)

// MigrateAndConnectToDB applies the migrations found in dir of fsys and returns
// a connection pool to the migrated database.
func MigrateAndConnectToDB(postgresURI string, fsys fs.FS, dir string) (*sqlx.DB, error) {
	// To avoid dealing with time zone issues, we just enforce UTC timezone
	if !strings.Contains(postgresURI, "timezone=UTC") {
		return nil, errors.New("timezone=UTC is required in postgres URI")
	}
	d, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %v", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, postgresURI)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("running migrations: %v", err)
	}
	if serr, derr := m.Close(); serr != nil || derr != nil {
		return nil, fmt.Errorf("closing migrator: %v, %v", serr, derr)
	}
	conn, err := sqlx.Open("pgx", postgresURI)
	if err != nil {
		return nil, fmt.Errorf("opening db: %v", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging db: %v", err)
	}
	return conn, nil
}
