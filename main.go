package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"portfolio-tracker/config"
	"portfolio-tracker/database"
	"portfolio-tracker/handlers"
	"portfolio-tracker/marketdata"
	"portfolio-tracker/services"
)

func main() {
	seed := flag.Bool("seed", false, "seed users, portfolios and the asset catalog, then exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db := config.InitDB(cfg)
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate models:", err)
	}

	rdb := config.InitRedis(cfg)
	fetcher := marketdata.NewCoinGecko(cfg.CoinGeckoURL, rdb)

	if *seed {
		if err := database.Seed(db, fetcher); err != nil {
			log.Fatal("Seeding failed:", err)
		}
		log.Println("Successfully seeded all tables in the database.")
		return
	}

	catalog := services.NewAssetCatalog(db, fetcher)
	valuation := services.NewValuation(db)
	trades := services.NewTradeProcessor(db, catalog, valuation)

	router := gin.Default()
	handlers.RegisterRoutes(router, handlers.Deps{
		DB:        db,
		JWTSecret: []byte(cfg.JWTSecret),
		Catalog:   catalog,
		Valuation: valuation,
		Trades:    trades,
	})

	router.Run(cfg.HTTPAddr)
}
