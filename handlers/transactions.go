package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio-tracker/middleware"
	"portfolio-tracker/models"
	"portfolio-tracker/services"
)

// Transactions serves transaction reads and the trade endpoint.
type Transactions struct {
	DB     *gorm.DB
	Trades *services.TradeProcessor
}

// List returns every transaction. Admin only.
func (h *Transactions) List(c *gin.Context) {
	var transactions []models.Transaction
	if err := h.DB.Find(&transactions).Error; err != nil {
		respondError(c, err)
		return
	}
	if len(transactions) == 0 {
		respondError(c, &services.NotFoundError{Message: "No transactions found"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Search returns one transaction, checked through its owning portfolio.
func (h *Transactions) Search(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &services.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	var transaction models.Transaction
	if err := h.DB.First(&transaction, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, &services.NotFoundError{
				Message: fmt.Sprintf("Transaction with id '%d' not found", id),
			})
			return
		}
		respondError(c, err)
		return
	}

	var portfolio models.Portfolio
	if err := h.DB.First(&portfolio, transaction.PortfolioID).Error; err != nil {
		respondError(c, err)
		return
	}
	if !services.CanAccessPortfolio(ident, &portfolio) {
		respondError(c, services.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// Trade executes a buy or sell against the caller's portfolio. Payload
// validation beyond JSON shape lives in the trade processor so field-level
// errors come back uniformly.
func (h *Transactions) Trade(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	var req services.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Trades.Execute(c.Request.Context(), ident, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}
