package internal

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	CacheMigrations   = "migrations/cache"
	HistoryMigrations = "migrations/history"
)

func Migrate(migrationsPath, dbPath string) error {
	src, err := iofs.New(migrationsFS, migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to load migrations from %s: %w", migrationsPath, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func Connect(dbPath string, logger zerolog.Logger) (*sql.DB, error) {
	dsn := dbPath
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	queryParams := []string{"_busy_timeout=5000", "_journal_mode=WAL", "_loc=UTC", "_datetime_format=rfc3339"}
	dsn += strings.Join(queryParams, "&")
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Debug().Str("dsn", dsn).Msg("connected to database")
	return db, nil
}

// OpenDatabase migrates the database at dbPath to the latest schema and connects to it.
func OpenDatabase(dbPath, migrationsPath string, logger zerolog.Logger) (*sql.DB, error) {
	if err := Migrate(migrationsPath, dbPath); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}
	return Connect(dbPath, logger)
}
