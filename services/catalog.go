package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"portfolio-tracker/marketdata"
	"portfolio-tracker/models"
)

// AssetCatalog owns the asset table: reads plus the price refresh. All
// mutation of asset rows goes through RefreshPrices.
type AssetCatalog struct {
	db      *gorm.DB
	fetcher marketdata.Fetcher
}

func NewAssetCatalog(db *gorm.DB, fetcher marketdata.Fetcher) *AssetCatalog {
	return &AssetCatalog{db: db, fetcher: fetcher}
}

// ListAll returns every catalog asset ordered by market-cap rank.
func (c *AssetCatalog) ListAll(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := c.db.WithContext(ctx).Order("market_cap_rank").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *AssetCatalog) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	err := c.db.WithContext(ctx).First(&asset, "asset_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: fmt.Sprintf("Asset with id '%s' not found", id)}
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// RefreshPrices fetches current price and market-cap rank for every known
// asset in one batched upstream call, then applies the changes inside a
// single transaction. Assets absent from the response are left unchanged.
// Rows whose price and rank already match are not written, so a refresh
// against unchanged upstream data is a no-op on the table.
func (c *AssetCatalog) RefreshPrices(ctx context.Context) error {
	var ids []string
	if err := c.db.WithContext(ctx).Model(&models.Asset{}).Pluck("asset_id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	quotes, err := c.fetcher.FetchMarkets(ctx, ids)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	byID := make(map[string]marketdata.Quote, len(quotes))
	for _, q := range quotes {
		byID[q.ID] = q
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assets []models.Asset
		if err := tx.Find(&assets).Error; err != nil {
			return err
		}

		for _, asset := range assets {
			quote, ok := byID[asset.AssetID]
			if !ok {
				continue
			}
			if asset.Price == quote.CurrentPrice && rankEqual(asset.MarketCapRank, quote.MarketCapRank) {
				continue
			}
			updates := map[string]interface{}{
				"price":           quote.CurrentPrice,
				"market_cap_rank": quote.MarketCapRank,
			}
			if err := tx.Model(&models.Asset{}).Where("asset_id = ?", asset.AssetID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func rankEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
