package models

import (
	"time"
)

// Portfolio holds the derived cost basis of a user's trades. Holdings is
// recomputed from the transaction history on every read path; it may lag
// between a trade and the next refresh but never past a request's response.
type Portfolio struct {
	PortfolioID uint      `gorm:"primaryKey" json:"portfolioID"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `json:"description"`
	Holdings    float64   `gorm:"not null;default:0" json:"holdings"`
	CreatedDate time.Time `gorm:"not null" json:"date"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"userID"`

	Transactions []Transaction `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"-"`
	OwnedAssets  []OwnedAsset  `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"-"`
}

// Transaction is an executed buy or sell. Immutable once created; removed
// only when its portfolio is deleted.
type Transaction struct {
	TransactionID   uint      `gorm:"primaryKey" json:"transactionID"`
	TransactionType string    `gorm:"size:100;not null" json:"transactionType"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	Price           float64   `gorm:"not null" json:"price"`
	TotalCost       float64   `gorm:"not null" json:"totalCost"`
	Date            time.Time `gorm:"not null" json:"date"`
	PortfolioID     uint      `gorm:"index;not null" json:"portfolioID"`
	AssetID         string    `gorm:"index;not null" json:"assetID"`
}

// OwnedAsset is the per-portfolio rollup of one asset: running quantity and
// running average unit price. Exactly one row exists per (portfolio, asset)
// pair; the valuation engine enforces this with lookup-or-create, it is not
// a database constraint.
type OwnedAsset struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Symbol      string  `gorm:"not null" json:"symbol"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	AssetID     string  `gorm:"index;not null" json:"assetID"`
	PortfolioID uint    `gorm:"index;not null" json:"portfolioID"`
}
