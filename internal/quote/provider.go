package quote

import (
	"context"       // Context for request cancellation
	"encoding/json" // JSON decoding of provider responses
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"net/http"      // HTTP client
	"net/url"       // URL path escaping
	"strings"       // Symbol normalization
	"time"          // Request timeout
)

// Provider failures surfaced to callers. Lookups are never retried.
var (
	ErrUnknownSymbol = errors.New("unknown symbol")     // Provider does not recognize the symbol
	ErrUnavailable   = errors.New("quote unavailable")  // Provider unreachable or returned garbage
)

// Quote is the provider's answer for one symbol
type Quote struct {
	Symbol string  `json:"symbol"` // Canonical ticker symbol
	Name   string  `json:"name"`   // Company display name
	Price  float64 `json:"price"`  // Current unit price
}

// Provider resolves a ticker symbol to a current quote
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// Client looks up quotes over HTTP (IEX Cloud quote endpoint shape)
type Client struct {
	baseURL string       // Provider base URL
	token   string       // API token
	http    *http.Client // HTTP client with timeout
}

// NewClient creates a quote client for the given provider endpoint
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),       // Normalize base URL
		token:   token,                                 // API token
		http:    &http.Client{Timeout: 10 * time.Second}, // Bound the external call
	}
}

// lookupResponse matches the provider's quote payload
type lookupResponse struct {
	Symbol      string  `json:"symbol"`      // Canonical symbol
	CompanyName string  `json:"companyName"` // Display name
	LatestPrice float64 `json:"latestPrice"` // Current price
}

// Lookup fetches the current quote for a symbol
func (c *Client) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol)) // Canonicalize before the request
	endpoint := c.baseURL + "/stable/stock/" + url.PathEscape(symbol) + "/quote?token=" + url.QueryEscape(c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	resp, err := c.http.Do(req) // Blocking external call
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	// The provider answers 404 for symbols it does not know
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUnknownSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// A zero or negative price means the provider has no usable quote
	if body.Symbol == "" || body.LatestPrice <= 0 {
		return nil, ErrUnknownSymbol
	}
	return &Quote{
		Symbol: body.Symbol,      // Canonical symbol
		Name:   body.CompanyName, // Display name
		Price:  body.LatestPrice, // Current price
	}, nil
}
