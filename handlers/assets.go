package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio-tracker/middleware"
	"portfolio-tracker/models"
	"portfolio-tracker/services"
)

// Assets serves the public catalog reads and the owned-asset views.
type Assets struct {
	DB      *gorm.DB
	Catalog *services.AssetCatalog
}

// List refreshes the catalog and returns every asset ordered by market-cap
// rank. A refresh failure aborts the read rather than serving stale rows as
// fresh.
func (h *Assets) List(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.Catalog.RefreshPrices(ctx); err != nil {
		respondError(c, err)
		return
	}

	assets, err := h.Catalog.ListAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *Assets) Search(c *gin.Context) {
	asset, err := h.Catalog.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// ListOwned returns every owned-asset row across all portfolios. Admin only.
func (h *Assets) ListOwned(c *gin.Context) {
	var owned []models.OwnedAsset
	if err := h.DB.Find(&owned).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owned)
}

// ListOwnedByPortfolio returns the owned assets of one portfolio, owner or
// admin only.
func (h *Assets) ListOwnedByPortfolio(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	id, err := strconv.ParseUint(c.Param("portfolioID"), 10, 64)
	if err != nil {
		respondError(c, &services.ValidationError{Field: "portfolioID", Reason: "must be an integer"})
		return
	}

	var portfolio models.Portfolio
	if err := h.DB.First(&portfolio, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, &services.NotFoundError{Message: portfolioNotFound(uint(id))})
			return
		}
		respondError(c, err)
		return
	}

	if !services.CanAccessPortfolio(ident, &portfolio) {
		respondError(c, services.ErrForbidden)
		return
	}

	var owned []models.OwnedAsset
	if err := h.DB.Where("portfolio_id = ?", portfolio.PortfolioID).Find(&owned).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owned)
}
