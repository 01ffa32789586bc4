package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"portfolio-tracker/models"
)

// TradeRequest is the validated payload for one trade.
type TradeRequest struct {
	AssetID         string `json:"assetID"`
	TransactionType string `json:"transactionType"`
	Quantity        int    `json:"quantity"`
}

// TradeProcessor orchestrates a trade: resolve the caller's portfolio,
// validate the payload, refresh the catalog so the trade executes at the
// current market price, then persist the transaction and roll it into the
// owned-asset and holdings state in one unit of work.
type TradeProcessor struct {
	db        *gorm.DB
	catalog   *AssetCatalog
	valuation *Valuation
}

func NewTradeProcessor(db *gorm.DB, catalog *AssetCatalog, valuation *Valuation) *TradeProcessor {
	return &TradeProcessor{db: db, catalog: catalog, valuation: valuation}
}

func (p *TradeProcessor) Execute(ctx context.Context, ident Identity, req TradeRequest) (*models.Transaction, error) {
	var portfolio models.Portfolio
	err := p.db.WithContext(ctx).First(&portfolio, "user_id = ?", ident.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPortfolio
	}
	if err != nil {
		return nil, err
	}

	if err := validateTrade(req); err != nil {
		return nil, err
	}

	if _, err := p.catalog.FindByID(ctx, req.AssetID); err != nil {
		return nil, err
	}

	// Execute at the current market price, not whatever the catalog last
	// cached. A refresh failure aborts the trade.
	if err := p.catalog.RefreshPrices(ctx); err != nil {
		return nil, err
	}
	asset, err := p.catalog.FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	trade := models.Transaction{
		TransactionType: req.TransactionType,
		Quantity:        req.Quantity,
		Price:           asset.Price,
		TotalCost:       asset.Price * float64(req.Quantity),
		Date:            time.Now(),
		PortfolioID:     portfolio.PortfolioID,
		AssetID:         asset.AssetID,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}
		if _, err := p.valuation.ApplyTrade(tx, &trade); err != nil {
			return err
		}
		return p.valuation.RefreshPortfolioHoldings(tx, &portfolio)
	})
	if err != nil {
		return nil, err
	}

	return &trade, nil
}

func validateTrade(req TradeRequest) error {
	if req.TransactionType != "buy" && req.TransactionType != "sell" {
		return &ValidationError{Field: "transactionType", Reason: "must be 'buy' or 'sell'"}
	}
	if req.Quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if req.AssetID == "" {
		return &ValidationError{Field: "assetID", Reason: "is required"}
	}
	return nil
}
