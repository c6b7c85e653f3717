package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types. The type column only ever holds one of these two values.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction represents a single expense or income row.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Date      time.Time       `gorm:"type:date;not null" json:"-"`
	Category  string          `gorm:"not null" json:"category"`
	Note      string          `json:"note"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Type      string          `gorm:"type:varchar(16);not null" json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName keeps the historical table name.
func (Transaction) TableName() string { return "expenses" }

// MarshalJSON serializes the date as plain YYYY-MM-DD instead of RFC3339.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(t), t.Date.Format("2006-01-02")})
}
