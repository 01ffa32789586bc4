package models

// Asset is a catalog entry priced by the external market-data provider.
// Rows are mutated only by the catalog refresh. MarketCapRank is nil until
// the first refresh reports one.
type Asset struct {
	AssetID       string  `gorm:"primaryKey" json:"assetID"`
	MarketCapRank *int    `json:"marketCapRank"`
	Symbol        string  `gorm:"not null" json:"symbol"`
	Name          string  `gorm:"not null" json:"name"`
	Price         float64 `gorm:"not null" json:"price"`
}
