package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"portfolio-tracker/marketdata"
	"portfolio-tracker/models"
)

const seedPassword = "123456"

// Seed populates an empty database with an admin account, a test account,
// one portfolio each, and the provider's top market page as the asset
// catalog.
func Seed(db *gorm.DB, fetcher marketdata.Fetcher) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Email: "admin@email.com", Password: string(hashed), IsAdmin: true},
		{Email: "test@email.com", Password: string(hashed)},
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Println("Seeded users table.")

	quotes, err := fetcher.FetchMarkets(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("seed assets: %w", err)
	}

	// The provider occasionally lists the same id twice across pages;
	// keep the first occurrence only.
	seen := make(map[string]bool, len(quotes))
	var assets []models.Asset
	for _, quote := range quotes {
		if seen[quote.ID] {
			continue
		}
		seen[quote.ID] = true
		assets = append(assets, models.Asset{
			AssetID:       quote.ID,
			Symbol:        quote.Symbol,
			Name:          quote.Name,
			Price:         quote.CurrentPrice,
			MarketCapRank: quote.MarketCapRank,
		})
	}
	if err := CreateInBatches(db, assets, 100); err != nil {
		return fmt.Errorf("seed assets: %w", err)
	}
	log.Printf("Seeded %d assets.", len(assets))

	portfolios := []models.Portfolio{
		{
			Name:        "Admin Portfolio",
			Description: "A Portfolio that is owned by Admin.",
			CreatedDate: time.Now(),
			UserID:      users[0].UserID,
		},
		{
			Name:        "Test Portfolio",
			Description: "A Portfolio that is owned by test account.",
			CreatedDate: time.Now(),
			UserID:      users[1].UserID,
		},
	}
	if err := db.Create(&portfolios).Error; err != nil {
		return fmt.Errorf("seed portfolios: %w", err)
	}
	log.Println("Seeded portfolios table.")

	return nil
}
