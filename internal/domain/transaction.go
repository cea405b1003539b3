package domain

// Transaction types
const (
	TypeBuy  = "BUY"  // Buy transaction
	TypeSell = "SELL" // Sell transaction
)

// Transaction Model (append-only ledger; rows are never updated or deleted)
type Transaction struct {
	ID        uint    `gorm:"primaryKey" json:"id"`             // Primary key
	UserID    uint    `gorm:"index;not null" json:"user_id"`    // Foreign key to the owning User
	Symbol    string  `gorm:"not null" json:"symbol"`           // Ticker symbol, canonical uppercase
	Type      string  `gorm:"not null" json:"type"`             // Transaction type: BUY or SELL
	Shares    int     `gorm:"not null" json:"shares"`           // Signed share count: positive for BUY, negative for SELL
	Price     float64 `gorm:"not null" json:"price"`            // Unit price at execution time, never re-fetched
	CreatedAt int64   `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
