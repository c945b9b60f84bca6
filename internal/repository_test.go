package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/safpis/internal/models"
)

func setupTestDB(t *testing.T) FuelPricesRepository {
	dbPath := filepath.Join(t.TempDir(), "fuel_prices_test.db")

	repo, err := OpenFuelPricesRepository(dbPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.Remove(dbPath)
	})
	return repo
}

func tenths(t *testing.T, value string) models.Money {
	t.Helper()
	return models.PriceFromTenthsOfCent(decimal.RequireFromString(value))
}

func TestInsertStations(t *testing.T) {
	repo := setupTestDB(t)

	stations := []models.Station{
		{ID: 61577373, Name: "OTR Dry Creek", BrandID: 5, Postcode: "5094", Latitude: -34.819297, Longitude: 138.592116},
		{ID: 61577374, Name: "Shell Gepps Cross", BrandID: 2, Postcode: "5094", Latitude: -34.84, Longitude: 138.6},
	}

	n, err := repo.InsertStations(stations)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stations[0].Name = "OTR Dry Creek North"
	n, err = repo.InsertStations(stations[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n, "existing stations are updated in place")

	n, err = repo.InsertStations(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPriceHistory(t *testing.T) {
	repo := setupTestDB(t)

	now := time.Date(2024, 3, 1, 2, 30, 0, 0, time.UTC)
	prices := []models.StationPrice{
		{StationID: 1, FuelID: 2, CollectionMethod: "T", TransactionDate: now.Add(-4 * time.Hour), Price: tenths(t, "1879")},
		{StationID: 1, FuelID: 2, CollectionMethod: "T", TransactionDate: now.Add(-2 * time.Hour), Price: tenths(t, "1899")},
		{StationID: 1, FuelID: 2, CollectionMethod: "T", TransactionDate: now, Price: tenths(t, "1889")},
		{StationID: 1, FuelID: 5, CollectionMethod: "T", TransactionDate: now, Price: tenths(t, "2049")},
		{StationID: 7, FuelID: 2, CollectionMethod: "Q", TransactionDate: now, Price: tenths(t, "1799")},
	}

	n, err := repo.InsertPrices(prices)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	t.Run("Replaying a snapshot inserts nothing", func(t *testing.T) {
		n, err := repo.InsertPrices(prices)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Newest first", func(t *testing.T) {
		history, err := repo.PriceHistory(1, 2, 0)
		require.NoError(t, err)
		require.Len(t, history, 3)

		assert.True(t, history[0].TransactionDate.Equal(now))
		assert.True(t, history[1].TransactionDate.Equal(now.Add(-2*time.Hour)))
		assert.True(t, history[2].TransactionDate.Equal(now.Add(-4*time.Hour)))

		assert.Equal(t, "1.889", history[0].Price.Amount.String())
		assert.Equal(t, models.Currency, history[0].Price.Currency)
		assert.Equal(t, "T", history[0].CollectionMethod)
	})

	t.Run("Limit", func(t *testing.T) {
		history, err := repo.PriceHistory(1, 2, 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "1.889", history[0].Price.Amount.String())
		assert.Equal(t, "1.899", history[1].Price.Amount.String())
	})

	t.Run("Unknown pair", func(t *testing.T) {
		history, err := repo.PriceHistory(99, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, history)
		assert.NotNil(t, history)
	})
}

func TestRepositoryCheck(t *testing.T) {
	repo := setupTestDB(t)

	check := repo.Check()
	assert.Equal(t, "history-db", check.Name())
	assert.True(t, check.Pass())
}
