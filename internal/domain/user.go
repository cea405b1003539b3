package domain

// User Model
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`               // Primary key
	Username string  `gorm:"unique;not null" json:"username"`    // Unique username, stored lowercase
	Password string  `gorm:"not null" json:"-"`                  // Hashed password, never serialized
	Cash     float64 `gorm:"not null" json:"cash"`               // Cash balance, set to the starting amount on registration
	Role     string  `gorm:"default:user" json:"role,omitempty"` // Role: user or admin
}
