package accounting

import "errors"

// Typed failures of the accounting operations. Handlers distinguish these
// with errors.Is and translate them into user-facing responses.
var (
	ErrInvalidSymbol      = errors.New("symbol required")                 // Empty or blank ticker symbol
	ErrInvalidShares      = errors.New("shares must be a positive integer") // Non-numeric, zero or negative share count
	ErrUnknownSymbol      = errors.New("stock symbol does not exist")     // Quote provider does not know the symbol
	ErrQuoteUnavailable   = errors.New("quote service unavailable")       // Quote provider unreachable
	ErrInsufficientFunds  = errors.New("not enough cash for transaction") // Cost exceeds the cash balance
	ErrSymbolNotHeld      = errors.New("no holdings for symbol")          // Sell of a symbol with no positive net holding
	ErrInsufficientShares = errors.New("not enough shares to sell")       // Sell of more shares than the net holding
	ErrUserNotFound       = errors.New("user not found")                  // No user row for the authenticated ID
)
