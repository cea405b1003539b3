package accounting

import (
	"context" // Context for quote lookups
	"errors"  // Sentinel error matching
	"fmt"     // Error wrapping
	"strconv" // Share count parsing
	"strings" // Symbol normalization

	"stock_portfolio/internal/domain" // Importing domain models
	"stock_portfolio/internal/quote"  // Quote provider

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ParseShares parses a share count submitted as a form value. The count
// must be a whole number greater than zero.
func ParseShares(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, ErrInvalidShares // Reject non-numeric, zero and negative input
	}
	return n, nil
}

// normalizeSymbol canonicalizes a submitted ticker symbol
func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", ErrInvalidSymbol // Symbol is required
	}
	return symbol, nil
}

// resolve looks up the current quote and maps provider failures to the
// accounting error taxonomy
func resolve(ctx context.Context, provider quote.Provider, symbol string) (*quote.Quote, error) {
	q, err := provider.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, quote.ErrUnknownSymbol) {
			return nil, ErrUnknownSymbol // Symbol rejected by the provider
		}
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err) // Provider outage
	}
	return q, nil
}

// Buy purchases shares for a user: resolves the symbol, checks the cash
// balance, and atomically appends a BUY ledger row while deducting the cost.
// Returns the recorded transaction and the new cash balance.
func Buy(ctx context.Context, gdb *gorm.DB, provider quote.Provider, userID uint, symbol string, shares int) (*domain.Transaction, float64, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, 0, err // Invalid symbol
	}
	if shares <= 0 {
		return nil, 0, ErrInvalidShares // Share count must be positive
	}
	q, err := resolve(ctx, provider, symbol)
	if err != nil {
		return nil, 0, err // Unknown symbol or provider outage
	}
	cost := float64(shares) * q.Price // Total transaction cost
	var t domain.Transaction          // Recorded ledger row
	var newBalance float64            // Cash balance after the purchase
	// Ledger append and balance deduction happen together or not at all
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var user domain.User // Fetch the buyer inside the transaction
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound // No such user
			}
			return err // Return error to rollback
		}
		// Spending the entire balance is allowed; only cost > cash blocks
		if cost > user.Cash {
			return ErrInsufficientFunds
		}
		t = domain.Transaction{
			UserID: userID,         // Owning user
			Symbol: q.Symbol,       // Canonical symbol from the provider
			Type:   domain.TypeBuy, // Transaction type
			Shares: shares,         // Positive share count
			Price:  q.Price,        // Unit price at execution time
		}
		// Append the ledger row
		if err := tx.Create(&t).Error; err != nil {
			return err // Return error to rollback
		}
		// Deduct the cost from the cash balance
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("cash", gorm.Expr("cash - ?", cost)).Error; err != nil {
			return err // Return error to rollback
		}
		newBalance = user.Cash - cost
		return nil // Commit transaction
	})
	if err != nil {
		return nil, 0, err // Rolled back, no partial state
	}
	// Log successful purchase
	logrus.WithFields(logrus.Fields{
		"user_id": userID,   // Buyer user ID
		"symbol":  t.Symbol, // Ticker symbol
		"shares":  shares,   // Share count
		"price":   q.Price,  // Unit price
		"cost":    cost,     // Total cost
	}).Info("Buy executed")
	return &t, newBalance, nil
}

// Sell sells shares a user currently holds: checks the net holding from the
// ledger, resolves the current price, and atomically appends a SELL ledger
// row (negative share count) while crediting the proceeds.
func Sell(ctx context.Context, gdb *gorm.DB, provider quote.Provider, userID uint, symbol string, shares int) (*domain.Transaction, float64, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, 0, err // Invalid symbol
	}
	if shares <= 0 {
		return nil, 0, ErrInvalidShares // Share count must be positive
	}
	// Net holding is always derived from the ledger
	holding, err := NetHolding(gdb, userID, symbol)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compute net holding: %w", err)
	}
	if holding <= 0 {
		return nil, 0, ErrSymbolNotHeld // Symbol absent from the portfolio
	}
	if shares > holding {
		return nil, 0, ErrInsufficientShares // More shares than held
	}
	q, err := resolve(ctx, provider, symbol)
	if err != nil {
		return nil, 0, err // Unknown symbol or provider outage
	}
	proceeds := float64(shares) * q.Price // Sale proceeds at the current price
	var t domain.Transaction              // Recorded ledger row
	var newBalance float64                // Cash balance after the sale
	// Ledger append and balance credit happen together or not at all
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var user domain.User // Fetch the seller inside the transaction
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound // No such user
			}
			return err // Return error to rollback
		}
		t = domain.Transaction{
			UserID: userID,          // Owning user
			Symbol: symbol,          // Symbol as held in the ledger
			Type:   domain.TypeSell, // Transaction type
			Shares: -shares,         // Negative share count for a sale
			Price:  q.Price,         // Unit price at execution time
		}
		// Append the ledger row
		if err := tx.Create(&t).Error; err != nil {
			return err // Return error to rollback
		}
		// Credit the proceeds to the cash balance
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", proceeds)).Error; err != nil {
			return err // Return error to rollback
		}
		newBalance = user.Cash + proceeds
		return nil // Commit transaction
	})
	if err != nil {
		return nil, 0, err // Rolled back, no partial state
	}
	// Log successful sale
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,  // Seller user ID
		"symbol":   symbol,  // Ticker symbol
		"shares":   shares,  // Share count sold
		"price":    q.Price, // Unit price
		"proceeds": proceeds, // Total proceeds
	}).Info("Sell executed")
	return &t, newBalance, nil
}

// NetHolding sums the signed share counts of a user's ledger entries for
// one symbol
func NetHolding(gdb *gorm.DB, userID uint, symbol string) (int, error) {
	var net int
	err := gdb.Model(&domain.Transaction{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Select("COALESCE(SUM(shares), 0)").
		Row().Scan(&net)
	if err != nil {
		return 0, err
	}
	return net, nil
}

// Summary is the read-only portfolio view
type Summary struct {
	Holdings     []domain.Holding `json:"holdings"`      // Current positions, one per symbol
	Cash         float64          `json:"cash"`          // Current cash balance
	Total        float64          `json:"total"`         // Cash plus market value of all positions
	StartingCash float64          `json:"starting_cash"` // Baseline for performance comparison
}

// position is one row of the grouped ledger
type position struct {
	Symbol string // Ticker symbol
	Shares int    // Net share count
}

// Portfolio aggregates a user's ledger into current positions priced at the
// current quote, plus the cash balance. Read-only, no mutation.
func Portfolio(ctx context.Context, gdb *gorm.DB, provider quote.Provider, userID uint, startingCash float64) (*Summary, error) {
	var user domain.User // Fetch the user for the cash balance
	if err := gdb.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound // No such user
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	var positions []position
	// Group the ledger by symbol; positions sold down to zero are dropped
	if err := gdb.Model(&domain.Transaction{}).
		Select("symbol, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("symbol").
		Having("SUM(shares) > 0").
		Order("symbol").
		Scan(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate holdings: %w", err)
	}
	holdings := make([]domain.Holding, 0, len(positions))
	total := user.Cash // Grand total starts from cash
	for _, p := range positions {
		q, err := resolve(ctx, provider, p.Symbol) // Current price per held symbol
		if err != nil {
			return nil, err
		}
		value := float64(p.Shares) * q.Price // Current market value
		holdings = append(holdings, domain.Holding{
			Symbol: p.Symbol, // Ticker symbol
			Name:   q.Name,   // Display name
			Shares: p.Shares, // Net share count
			Price:  q.Price,  // Current unit price
			Value:  value,    // Market value
		})
		total += value
	}
	return &Summary{
		Holdings:     holdings,     // Current positions
		Cash:         user.Cash,    // Cash balance
		Total:        total,        // Cash plus market value
		StartingCash: startingCash, // Performance baseline
	}, nil
}

// History returns one page of a user's transactions, newest first, along
// with the total row count for pagination
func History(gdb *gorm.DB, userID uint, page, pageSize int) ([]domain.Transaction, int64, error) {
	var total int64 // Total count of the user's transactions
	if err := gdb.Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	offset := (page - 1) * pageSize // Calculate offset
	var txs []domain.Transaction    // Slice to hold transactions
	if err := gdb.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(pageSize).
		Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txs, total, nil
}
