package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio-tracker/middleware"
	"portfolio-tracker/services"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte
	Catalog   *services.AssetCatalog
	Valuation *services.Valuation
	Trades    *services.TradeProcessor
}

// RegisterRoutes mounts the full API on the engine.
func RegisterRoutes(router *gin.Engine, deps Deps) {
	authH := &Auth{DB: deps.DB, Secret: deps.JWTSecret}
	assetsH := &Assets{DB: deps.DB, Catalog: deps.Catalog}
	portfoliosH := &Portfolios{DB: deps.DB, Valuation: deps.Valuation}
	transactionsH := &Transactions{DB: deps.DB, Trades: deps.Trades}

	requireAuth := middleware.JWTAuth(deps.JWTSecret)
	requireAdmin := middleware.RequireAdmin()

	// Public routes
	router.POST("/auth/register", authH.Register)
	router.POST("/auth/login", authH.Login)
	router.GET("/assets", assetsH.List)
	router.GET("/assets/search/:id", assetsH.Search)

	// Protected routes
	auth := router.Group("/")
	auth.Use(requireAuth)
	{
		auth.DELETE("/auth/delete/:id", authH.Delete)

		auth.GET("/portfolios", requireAdmin, portfoliosH.List)
		auth.GET("/portfolios/search/:id", portfoliosH.Search)
		auth.POST("/portfolios/create", portfoliosH.Create)
		auth.PUT("/portfolios/update/:id", portfoliosH.Update)
		auth.PATCH("/portfolios/update/:id", portfoliosH.Update)
		auth.DELETE("/portfolios/delete/:id", portfoliosH.Delete)

		auth.GET("/assets/owned", requireAdmin, assetsH.ListOwned)
		auth.GET("/assets/owned/:portfolioID", assetsH.ListOwnedByPortfolio)

		auth.GET("/transactions", requireAdmin, transactionsH.List)
		auth.GET("/transactions/search/:id", transactionsH.Search)
		auth.POST("/transactions/trade", transactionsH.Trade)
	}
}
