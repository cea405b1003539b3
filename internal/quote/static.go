package quote

import (
	"context" // Provider interface contract
	"strings" // Symbol normalization
)

// Static is a fixed-price Provider used in tests and offline development.
type Static struct {
	Quotes map[string]Quote // Known symbols and their quotes
}

// NewStatic creates a provider answering from a fixed symbol table
func NewStatic(quotes map[string]Quote) *Static {
	return &Static{Quotes: quotes}
}

// Lookup answers from the fixed table
func (s *Static) Lookup(_ context.Context, symbol string) (*Quote, error) {
	q, ok := s.Quotes[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, ErrUnknownSymbol // Symbol not in the table
	}
	return &q, nil
}
