package model

import "time"

// Order is one row in the ledger, written after the payment provider
// accepted a preference. Status values follow the storefront convention:
// "pendente" until the webhook confirms payment, then "pago".
type Order struct {
	ID     uint  `gorm:"primaryKey"`
	UserID *uint `gorm:"index"` // nil for anonymous checkouts
	// Items is the cart snapshot serialized as JSON, exactly as submitted.
	Items             string  `gorm:"type:text"`
	Total             float64 `gorm:"not null"`
	Status            string  `gorm:"size:32;index;not null"`
	PaymentID         string  `gorm:"size:128;index"` // provider preference id
	ExternalReference string  `gorm:"size:128;index"`
	CreatedAt         time.Time
}

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Password  string `gorm:"size:255;not null"`
	Phone     string `gorm:"size:64"`
	Address   string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdminToken is an opaque bearer credential issued on admin login.
// Expiry is checked at lookup time; rows are never updated, only
// created, deleted on logout, or swept in bulk once expired.
type AdminToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"size:128;uniqueIndex;not null"`
	Email     string    `gorm:"size:255;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
