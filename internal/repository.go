package internal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/safpis/internal/models"
)

//go:embed sql/insert_station.sql
var insertStationSQL string

//go:embed sql/insert_price.sql
var insertPriceSQL string

//go:embed sql/price_history.sql
var priceHistorySQL string

// FuelPricesRepository records station and price snapshots so price movements
// can be looked back on after the upstream has moved on.
type FuelPricesRepository interface {
	InsertStations(batch []models.Station) (int, error)
	InsertPrices(batch []models.StationPrice) (int, error)
	PriceHistory(stationID, fuelID, limit int) ([]models.StationPrice, error)
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

func NewFuelPricesRepository(db *sql.DB, logger zerolog.Logger) FuelPricesRepository {
	return &sqliteRepository{
		db:     db,
		logger: logger.With().Str("component", "repository").Logger(),
		now:    time.Now,
	}
}

// OpenFuelPricesRepository migrates and connects to the history database at dbPath.
func OpenFuelPricesRepository(dbPath string, logger zerolog.Logger) (FuelPricesRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := OpenDatabase(dbPath, HistoryMigrations, logger)
	if err != nil {
		return nil, err
	}
	return NewFuelPricesRepository(db, logger), nil
}

func (repo *sqliteRepository) InsertStations(batch []models.Station) (int, error) {
	importedAt := repo.now().Unix()
	return insertBatch(repo, "stations", insertStationSQL, batch, func(s models.Station) []any {
		return []any{
			s.ID, s.Name, s.Address, s.BrandID, s.Postcode, s.Latitude, s.Longitude,
			models.FormatTimestamp(s.LastModified), s.PlaceID, importedAt,
		}
	})
}

// InsertPrices ignores observations already recorded for the same station,
// fuel and transaction time, so replaying a snapshot is harmless.
func (repo *sqliteRepository) InsertPrices(batch []models.StationPrice) (int, error) {
	return insertBatch(repo, "station_prices", insertPriceSQL, batch, func(p models.StationPrice) []any {
		return []any{
			p.StationID, p.FuelID, p.CollectionMethod, p.TransactionDate.UTC().UnixNano(),
			p.Price.Amount.String(), p.Price.Currency,
		}
	})
}

func insertBatch[T any](repo *sqliteRepository, table, query string, batch []T, tuple func(T) []any) (n int, err error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := repo.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				repo.logger.Error().Err(rbErr).Msg("error rolling back transaction")
			}
		}
	}()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			repo.logger.Warn().Err(err).Msg("failed to close statement")
		}
	}()

	inserted := 0
	for _, item := range batch {
		res, err := stmt.Exec(tuple(item)...)
		if err != nil {
			return 0, fmt.Errorf("failed to execute individual insert: %w", err)
		}
		if rows, err := res.RowsAffected(); err == nil {
			inserted += int(rows)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	historyRowsInserted.WithLabelValues(table).Add(float64(inserted))
	return inserted, nil
}

// PriceHistory returns up to limit observations for the station and fuel,
// newest first. limit <= 0 returns them all.
func (repo *sqliteRepository) PriceHistory(stationID, fuelID, limit int) ([]models.StationPrice, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := repo.db.Query(priceHistorySQL, stationID, fuelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute price history query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			repo.logger.Warn().Err(err).Msg("failed to close rows")
		}
	}()

	results := make([]models.StationPrice, 0)
	for rows.Next() {
		var p models.StationPrice
		var transactionDate int64
		var amount string
		if err := rows.Scan(&p.StationID, &p.FuelID, &p.CollectionMethod, &transactionDate, &amount, &p.Price.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if p.Price.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
		}
		p.TransactionDate = time.Unix(0, transactionDate).UTC()
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return results, nil
}

func (repo *sqliteRepository) Check() checks.Check {
	return &dbCheck{db: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

type dbCheck struct {
	db *sql.DB
}

func (c *dbCheck) Pass() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.db.PingContext(ctx) == nil
}

func (c *dbCheck) Name() string {
	return "history-db"
}
