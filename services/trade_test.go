package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio-tracker/marketdata"
	"portfolio-tracker/models"
)

func newTradeStack(db *gorm.DB, fetcher marketdata.Fetcher) *TradeProcessor {
	catalog := NewAssetCatalog(db, fetcher)
	return NewTradeProcessor(db, catalog, NewValuation(db))
}

func TestExecuteBuyRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedAsset(t, db, "bitcoin", "BTC", "Bitcoin", 100.0)
	user, portfolio := seedUserWithPortfolio(t, db, "a@x.com")
	fetcher := &stubFetcher{quotes: []marketdata.Quote{
		{ID: "bitcoin", CurrentPrice: 100.0, MarketCapRank: intPtr(1)},
	}}
	processor := newTradeStack(db, fetcher)
	ident := Identity{UserID: user.UserID}

	trade, err := processor.Execute(context.Background(), ident, TradeRequest{
		AssetID: "bitcoin", TransactionType: "buy", Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, trade.TotalCost)
	assert.Equal(t, 100.0, trade.Price)
	assert.Equal(t, portfolio.PortfolioID, trade.PortfolioID)

	var owned models.OwnedAsset
	require.NoError(t, db.First(&owned, "portfolio_id = ? AND asset_id = ?", portfolio.PortfolioID, "bitcoin").Error)
	assert.Equal(t, 10, owned.Quantity)
	assert.Equal(t, 100.0, owned.Price)

	fetcher.quotes[0].CurrentPrice = 50.0
	_, err = processor.Execute(context.Background(), ident, TradeRequest{
		AssetID: "bitcoin", TransactionType: "buy", Quantity: 5,
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&owned, "portfolio_id = ? AND asset_id = ?", portfolio.PortfolioID, "bitcoin").Error)
	assert.Equal(t, 15, owned.Quantity)
	assert.InDelta(t, 100.0+50.0/15.0, owned.Price, 1e-9)

	// Holdings never persist divergence past the trade's response.
	var stored models.Portfolio
	require.NoError(t, db.First(&stored, portfolio.PortfolioID).Error)
	assert.Equal(t, 1250.0, stored.Holdings)
}

func TestExecuteUsesRefreshedPrice(t *testing.T) {
	db := newTestDB(t)
	seedAsset(t, db, "bitcoin", "BTC", "Bitcoin", 100.0)
	user, _ := seedUserWithPortfolio(t, db, "a@x.com")
	fetcher := &stubFetcher{quotes: []marketdata.Quote{
		{ID: "bitcoin", CurrentPrice: 123.45, MarketCapRank: intPtr(1)},
	}}
	processor := newTradeStack(db, fetcher)

	trade, err := processor.Execute(context.Background(), Identity{UserID: user.UserID}, TradeRequest{
		AssetID: "bitcoin", TransactionType: "buy", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 123.45, trade.Price)
	assert.Equal(t, 246.9, trade.TotalCost)
}

func TestExecuteWithoutPortfolio(t *testing.T) {
	db := newTestDB(t)
	seedAsset(t, db, "bitcoin", "BTC", "Bitcoin", 100.0)
	user := models.User{Email: "a@x.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	processor := newTradeStack(db, &stubFetcher{})

	_, err := processor.Execute(context.Background(), Identity{UserID: user.UserID}, TradeRequest{
		AssetID: "bitcoin", TransactionType: "buy", Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrNoPortfolio)
}

func TestExecuteValidation(t *testing.T) {
	db := newTestDB(t)
	seedAsset(t, db, "bitcoin", "BTC", "Bitcoin", 100.0)
	user, _ := seedUserWithPortfolio(t, db, "a@x.com")
	processor := newTradeStack(db, &stubFetcher{})
	ident := Identity{UserID: user.UserID}

	cases := []struct {
		name  string
		req   TradeRequest
		field string
	}{
		{"unknown type", TradeRequest{AssetID: "bitcoin", TransactionType: "short", Quantity: 1}, "transactionType"},
		{"zero quantity", TradeRequest{AssetID: "bitcoin", TransactionType: "buy", Quantity: 0}, "quantity"},
		{"negative quantity", TradeRequest{AssetID: "bitcoin", TransactionType: "sell", Quantity: -3}, "quantity"},
		{"missing asset id", TradeRequest{TransactionType: "buy", Quantity: 1}, "assetID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := processor.Execute(context.Background(), ident, tc.req)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}
}

func TestExecuteUnknownAsset(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserWithPortfolio(t, db, "a@x.com")
	processor := newTradeStack(db, &stubFetcher{})

	_, err := processor.Execute(context.Background(), Identity{UserID: user.UserID}, TradeRequest{
		AssetID: "nope", TransactionType: "buy", Quantity: 1,
	})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestExecuteUpstreamFailureAborts(t *testing.T) {
	db := newTestDB(t)
	seedAsset(t, db, "bitcoin", "BTC", "Bitcoin", 100.0)
	user, _ := seedUserWithPortfolio(t, db, "a@x.com")
	processor := newTradeStack(db, &stubFetcher{err: errors.New("timeout")})

	_, err := processor.Execute(context.Background(), Identity{UserID: user.UserID}, TradeRequest{
		AssetID: "bitcoin", TransactionType: "buy", Quantity: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
