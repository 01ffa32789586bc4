package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio-tracker/middleware"
	"portfolio-tracker/models"
	"portfolio-tracker/services"
)

type CreatePortfolioInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdatePortfolioInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Portfolios serves portfolio CRUD. Reads refresh holdings first so the
// derived value matches the transaction history in the response.
type Portfolios struct {
	DB        *gorm.DB
	Valuation *services.Valuation
}

func portfolioNotFound(id uint) string {
	return fmt.Sprintf("Portfolio with id '%d' not found", id)
}

// List returns every portfolio, holdings refreshed. Admin only.
func (h *Portfolios) List(c *gin.Context) {
	if err := h.Valuation.RefreshAllPortfolios(); err != nil {
		respondError(c, err)
		return
	}

	var portfolios []models.Portfolio
	if err := h.DB.Order("portfolio_id").Find(&portfolios).Error; err != nil {
		respondError(c, err)
		return
	}
	if len(portfolios) == 0 {
		respondError(c, &services.NotFoundError{Message: "No portfolios found"})
		return
	}
	c.JSON(http.StatusOK, portfolios)
}

// Search returns one portfolio, owner or admin only.
func (h *Portfolios) Search(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &services.ValidationError{Field: "id", Reason: "must be an integer"})
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

	if err := h.Valuation.RefreshPortfolioHoldings(h.DB, &portfolio); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// Create makes the caller's portfolio. One per user.
func (h *Portfolios) Create(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	var input CreatePortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Portfolio
	err := h.DB.First(&existing, "user_id = ?", ident.UserID).Error
	if err == nil {
		respondError(c, &services.ConflictError{
			Message: fmt.Sprintf("User already has a portfolio called '%s'", existing.Name),
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}

	portfolio := models.Portfolio{
		Name:        input.Name,
		Description: input.Description,
		CreatedDate: time.Now(),
		UserID:      ident.UserID,
	}
	if err := h.DB.Create(&portfolio).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, portfolio)
}

// Update edits name and description, owner or admin only.
func (h *Portfolios) Update(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &services.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	var input UpdatePortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&portfolio).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, portfolio)
}

// Delete removes a portfolio and its transactions and owned assets, owner
// or admin only.
func (h *Portfolios) Delete(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &services.ValidationError{Field: "id", Reason: "must be an integer"})
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

	if err := h.DB.Select(clause.Associations).Delete(&portfolio).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted successfully"})
}
