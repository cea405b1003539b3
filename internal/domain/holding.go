package domain

// Holding is the net position a user currently has in one symbol. It is
// always derived from the transaction ledger, never stored.
type Holding struct {
	Symbol string  `json:"symbol"` // Ticker symbol
	Name   string  `json:"name"`   // Company display name from the quote provider
	Shares int     `json:"shares"` // Net share count (sum of signed ledger entries)
	Price  float64 `json:"price"`  // Current unit price
	Value  float64 `json:"value"`  // Shares x current price
}
