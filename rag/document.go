package rag

import (
	"fmt"

	"budgetwise-go-be/models"
)

// Document is one transaction projected into retrievable text plus the
// metadata needed to trace it back to its row and owner.
type Document struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	Amount        string    `json:"amount"`
	Note          string    `json:"note"`
	Text          string    `json:"text"`
	Vector        []float32 `json:"vector"`
}

// Match is a retrieval hit returned to API callers. The vector stays internal.
type Match struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Amount        string  `json:"amount"`
	Note          string  `json:"note"`
	Score         float64 `json:"score"`
}

// RenderDocument turns a transaction row into its indexed form. The template
// is deterministic so rebuilding an unchanged set produces identical text.
func RenderDocument(tx models.Transaction) Document {
	date := tx.Date.Format("2006-01-02")
	amount := tx.Amount.StringFixed(2)
	text := fmt.Sprintf(
		"Transaction ID: %s | User: %s | Date: %s | Type: %s | Category: %s | Amount: $%s | Note: %s",
		tx.ID, tx.UserID, date, tx.Type, tx.Category, amount, tx.Note,
	)
	return Document{
		TransactionID: tx.ID.String(),
		UserID:        tx.UserID.String(),
		Date:          date,
		Type:          tx.Type,
		Category:      tx.Category,
		Amount:        amount,
		Note:          tx.Note,
		Text:          text,
	}
}

func (m Match) contextLine() string {
	return fmt.Sprintf(
		"Transaction ID: %s | Date: %s | Type: %s | Category: %s | Amount: $%s | Note: %s",
		m.TransactionID, m.Date, m.Type, m.Category, m.Amount, m.Note,
	)
}
