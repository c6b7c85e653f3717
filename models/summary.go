package models

import "github.com/shopspring/decimal"

// Summary aggregates a set of transactions.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Summarize totals income and expense rows and their difference.
func Summarize(rows []Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, row := range rows {
		switch row.Type {
		case TypeIncome:
			income = income.Add(row.Amount)
		case TypeExpense:
			expense = expense.Add(row.Amount)
		}
	}
	return Summary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}
