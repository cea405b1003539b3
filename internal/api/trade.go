package api

import (
	"context"  // Context for Redis invalidation
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes

	"stock_portfolio/internal/accounting" // Accounting core
	"stock_portfolio/internal/quote"      // Quote provider
	"stock_portfolio/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// QuoteRequest holds the quote form fields
type QuoteRequest struct {
	Symbol string `json:"symbol" form:"symbol" binding:"required"` // Symbol must be provided
}

// BuyRequest holds the buy form fields. The share count arrives as a string
// and is validated as a positive integer.
type BuyRequest struct {
	StockSymbol string `json:"stock_symbol" form:"stock_symbol" binding:"required"` // Ticker symbol
	StockShares string `json:"stock_shares" form:"stock_shares" binding:"required"` // Desired share count
}

// SellRequest holds the sell form fields
type SellRequest struct {
	Symbol string `json:"symbol" form:"symbol" binding:"required"` // Ticker symbol from current holdings
	Shares string `json:"shares" form:"shares" binding:"required"` // Desired share count
}

// tradeError translates an accounting failure into a user-facing response
func tradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, accounting.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide a stock symbol"})
	case errors.Is(err, accounting.ErrInvalidShares):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shares must be a positive whole number"})
	case errors.Is(err, accounting.ErrUnknownSymbol):
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock symbol does not exist"})
	case errors.Is(err, accounting.ErrQuoteUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Quote service unavailable"})
	case errors.Is(err, accounting.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough cash for transaction"})
	case errors.Is(err, accounting.ErrSymbolNotHeld):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No holdings for this symbol"})
	case errors.Is(err, accounting.ErrInsufficientShares):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough shares to sell"})
	case errors.Is(err, accounting.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		// Store failure; the transaction was rolled back
		logrus.WithField("error", err.Error()).Error("Trade failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Trade failed"})
	}
}

// QuoteHandler looks up the current quote for a symbol
func QuoteHandler(provider quote.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QuoteRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide symbol"})
			return
		}
		q, err := provider.Lookup(c.Request.Context(), req.Symbol) // Resolve the symbol
		if err != nil {
			// Unknown symbols and provider outages are surfaced, never retried
			if errors.Is(err, quote.ErrUnknownSymbol) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Stock symbol does not exist"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Quote service unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"quote": q}) // Return the quote
	}
}

// BuyHandler purchases shares for the authenticated user
func BuyHandler(db *gorm.DB, provider quote.Provider, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req BuyRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide stock_symbol and stock_shares"})
			return
		}
		// Validate the share count
		shares, err := accounting.ParseShares(req.StockShares)
		if err != nil {
			tradeError(c, err)
			return
		}
		// Execute the purchase
		t, cash, err := accounting.Buy(c.Request.Context(), db, provider, userID.(uint), req.StockSymbol, shares)
		if err != nil {
			tradeError(c, err)
			return
		}
		// Invalidate cached history pages for this user
		utils.InvalidateHistory(context.Background(), rdb, userID.(uint))
		// Return confirmation with the recorded transaction and new balance
		c.JSON(http.StatusOK, gin.H{"message": "Bought", "transaction": t, "cash": cash})
	}
}

// SellHandler sells shares the authenticated user currently holds
func SellHandler(db *gorm.DB, provider quote.Provider, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req SellRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide symbol and shares"})
			return
		}
		// Validate the share count
		shares, err := accounting.ParseShares(req.Shares)
		if err != nil {
			tradeError(c, err)
			return
		}
		// Execute the sale
		t, cash, err := accounting.Sell(c.Request.Context(), db, provider, userID.(uint), req.Symbol, shares)
		if err != nil {
			tradeError(c, err)
			return
		}
		// Invalidate cached history pages for this user
		utils.InvalidateHistory(context.Background(), rdb, userID.(uint))
		// Return confirmation with the recorded transaction and new balance
		c.JSON(http.StatusOK, gin.H{"message": "Sold", "transaction": t, "cash": cash})
	}
}
