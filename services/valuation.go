package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio-tracker/models"
)

// Valuation keeps owned-asset rollups and portfolio holdings consistent with
// the transaction history.
type Valuation struct {
	db *gorm.DB
}

func NewValuation(db *gorm.DB) *Valuation {
	return &Valuation{db: db}
}

// ApplyTrade folds a persisted transaction into the owned-asset rollup for
// its (portfolio, asset) pair, creating the rollup on the first trade.
// Callers pass the unit of work the transaction was created in; the whole
// trade commits or rolls back together.
//
// The update preserves the legacy bookkeeping exactly: quantity always adds
// regardless of buy/sell, and the running price becomes
// old price + trade price / new quantity. Neither is a true weighted
// average ((old*oldQty + trade*qty) / newQty); correcting either would
// change stored rollups and needs a data migration first.
func (v *Valuation) ApplyTrade(tx *gorm.DB, trade *models.Transaction) (*models.OwnedAsset, error) {
	query := tx.Where("portfolio_id = ? AND asset_id = ?", trade.PortfolioID, trade.AssetID)
	if tx.Dialector.Name() == "postgres" {
		// Serialize concurrent trades on the same pair; sqlite's single
		// writer already does this in tests.
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var owned models.OwnedAsset
	err := query.First(&owned).Error
	switch {
	case err == nil:
		newQuantity := owned.Quantity + trade.Quantity
		owned.Price = owned.Price + trade.Price/float64(newQuantity)
		owned.Quantity = newQuantity
		if err := tx.Save(&owned).Error; err != nil {
			return nil, err
		}
		return &owned, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		var asset models.Asset
		if err := tx.First(&asset, "asset_id = ?", trade.AssetID).Error; err != nil {
			return nil, err
		}
		owned = models.OwnedAsset{
			Symbol:      asset.Symbol,
			Name:        asset.Name,
			Quantity:    trade.Quantity,
			Price:       trade.Price,
			AssetID:     trade.AssetID,
			PortfolioID: trade.PortfolioID,
		}
		if err := tx.Create(&owned).Error; err != nil {
			return nil, err
		}
		return &owned, nil

	default:
		return nil, err
	}
}

// RefreshPortfolioHoldings recomputes holdings as the sum of totalCost over
// the portfolio's transactions, writing back only when the stored value
// differs. Every portfolio read path calls this first.
func (v *Valuation) RefreshPortfolioHoldings(db *gorm.DB, portfolio *models.Portfolio) error {
	var total float64
	err := db.Model(&models.Transaction{}).
		Where("portfolio_id = ?", portfolio.PortfolioID).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}

	if portfolio.Holdings == total {
		return nil
	}
	if err := db.Model(portfolio).Update("holdings", total).Error; err != nil {
		return err
	}
	portfolio.Holdings = total
	return nil
}

// RefreshAllPortfolios reconciles holdings for every portfolio; used by the
// admin list-all read path.
func (v *Valuation) RefreshAllPortfolios() error {
	var portfolios []models.Portfolio
	if err := v.db.Find(&portfolios).Error; err != nil {
		return err
	}
	for i := range portfolios {
		if err := v.RefreshPortfolioHoldings(v.db, &portfolios[i]); err != nil {
			return err
		}
	}
	return nil
}
