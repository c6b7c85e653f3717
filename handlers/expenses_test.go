package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetwise-go-be/models"
)

func TestParseTransaction(t *testing.T) {
	userID := uuid.New()
	valid := addExpenseRequest{
		Date:     "2025-08-15",
		Category: "Food",
		Note:     "lunch",
		Amount:   decimal.NewFromFloat(12.5),
		Type:     models.TypeExpense,
	}

	t.Run("valid expense", func(t *testing.T) {
		tx, err := parseTransaction(userID, valid)
		require.NoError(t, err)
		assert.Equal(t, userID, tx.UserID)
		assert.Equal(t, "Food", tx.Category)
		assert.Equal(t, models.TypeExpense, tx.Type)
		assert.Equal(t, "2025-08-15", tx.Date.Format("2006-01-02"))
		assert.True(t, tx.Amount.Equal(decimal.NewFromFloat(12.5)))
	})

	t.Run("valid income", func(t *testing.T) {
		req := valid
		req.Type = models.TypeIncome
		_, err := parseTransaction(userID, req)
		assert.NoError(t, err)
	})

	invalid := []struct {
		name   string
		mutate func(*addExpenseRequest)
	}{
		{"bad date", func(r *addExpenseRequest) { r.Date = "15/08/2025" }},
		{"empty date", func(r *addExpenseRequest) { r.Date = "" }},
		{"empty category", func(r *addExpenseRequest) { r.Category = "" }},
		{"zero amount", func(r *addExpenseRequest) { r.Amount = decimal.Zero }},
		{"negative amount", func(r *addExpenseRequest) { r.Amount = decimal.NewFromInt(-5) }},
		{"unknown type", func(r *addExpenseRequest) { r.Type = "Transfer" }},
		{"lowercase type", func(r *addExpenseRequest) { r.Type = "expense" }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			_, err := parseTransaction(userID, req)
			assert.Error(t, err)
		})
	}
}
