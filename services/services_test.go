package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio-tracker/database"
	"portfolio-tracker/marketdata"
	"portfolio-tracker/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection, or each pooled conn would see its own :memory: database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

type stubFetcher struct {
	quotes []marketdata.Quote
	err    error
	calls  int
}

func (s *stubFetcher) FetchMarkets(ctx context.Context, ids []string) ([]marketdata.Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

func intPtr(n int) *int { return &n }

func seedUserWithPortfolio(t *testing.T, db *gorm.DB, email string) (models.User, models.Portfolio) {
	t.Helper()

	user := models.User{Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	portfolio := models.Portfolio{
		Name:        "Test Portfolio",
		CreatedDate: time.Now(),
		UserID:      user.UserID,
	}
	require.NoError(t, db.Create(&portfolio).Error)
	return user, portfolio
}

func seedAsset(t *testing.T, db *gorm.DB, id, symbol, name string, price float64) models.Asset {
	t.Helper()

	asset := models.Asset{AssetID: id, Symbol: symbol, Name: name, Price: price}
	require.NoError(t, db.Create(&asset).Error)
	return asset
}
