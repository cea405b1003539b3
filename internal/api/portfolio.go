package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"stock_portfolio/internal/accounting" // Accounting core
	"stock_portfolio/internal/domain"     // Importing domain models
	"stock_portfolio/internal/quote"      // Quote provider
	"stock_portfolio/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// PortfolioHandler returns the authenticated user's current positions,
// priced at current quotes, plus the cash balance
func PortfolioHandler(db *gorm.DB, provider quote.Provider, startingCash float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		// Aggregate the ledger into the portfolio view
		summary, err := accounting.Portfolio(c.Request.Context(), db, provider, userID.(uint), startingCash)
		if err != nil {
			switch {
			case errors.Is(err, accounting.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			case errors.Is(err, accounting.ErrQuoteUnavailable), errors.Is(err, accounting.ErrUnknownSymbol):
				// A held symbol the provider cannot price right now
				c.JSON(http.StatusBadGateway, gin.H{"error": "Quote service unavailable"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build portfolio"})
			}
			return
		}
		c.JSON(http.StatusOK, summary) // Return the portfolio summary
	}
}

// HistoryHandler returns the authenticated user's transactions, newest
// first, paginated and cached
func HistoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		ctx := context.Background()                             // Context for Redis operations
		cacheKey := utils.HistoryKey(userID.(uint), page, pageSize) // Cache key for this page
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions, // Cached transactions
				"page":         cached.Page,         // Current page
				"page_size":    cached.PageSize,     // Page size
				"total":        cached.Total,        // Total transactions
				"total_pages":  cached.TotalPages,   // Total pages
				"cached":       true,                // Indicate response is from cache
			})
			return
		}
		// Fetch the page from the ledger
		txs, total, err := accounting.History(db, userID.(uint), page, pageSize)
		if err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"transactions": txs,        // List of transactions
			"page":         page,       // Current page
			"page_size":    pageSize,   // Page size
			"total":        total,      // Total transactions
			"total_pages":  totalPages, // Total pages
			"cached":       false,      // Not from cache
		}
		// Cache the result
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL)
		c.JSON(http.StatusOK, resp) // Return transaction history
	}
}
