package rag

import "strings"

// ScopeGuardMessage is returned verbatim for questions outside personal
// finance. Checked before retrieval and generation so unrelated questions
// never cost an upstream call.
const ScopeGuardMessage = "I can only answer questions related to your expenses and financial insights."

var scopeKeywords = []string{
	"expense", "expenses", "spend", "spent", "spending",
	"income", "earn", "earned", "salary", "wage", "paycheck",
	"budget", "savings", "save", "balance",
	"transaction", "transactions", "category", "categories",
	"rent", "food", "grocery", "groceries", "entertainment",
	"subscription", "subscriptions", "utilities", "electricity",
	"water", "gas", "fuel", "transport", "travel", "restaurant",
	"coffee", "bill", "bills", "due",
	"trend", "average", "total", "sum", "breakdown", "insight", "insights",
	"forecast", "recommendation", "recommendations",
	"daily", "weekly", "monthly", "yearly", "quarter",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var moneyMarkers = []string{"$", "usd", "dollar", "dollars"}

var scopePhrases = []string{
	"how much", "how many", "what is my", "show me", "compare",
	"list my", "sum of", "total of", "spending on", "income from",
}

// InScope is a lightweight heuristic for whether a question is about the
// caller's finances. It errs toward accepting: a false positive just means
// the model answers from (or declines on) the retrieved context.
func InScope(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for _, kw := range scopeKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	for _, m := range moneyMarkers {
		if strings.Contains(q, m) {
			return true
		}
	}
	for _, p := range scopePhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}
