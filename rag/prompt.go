package rag

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the generation prompt: system instruction, retrieved
// transactions as context, recent conversation turns, then the question.
func buildPrompt(matches []Match, history []Exchange, question string) string {
	var b strings.Builder

	b.WriteString("You are a friendly and helpful personal finance assistant for BudgetWise.\n")
	b.WriteString("Answer questions naturally using ONLY the provided transaction data. Be conversational and direct.\n\n")
	b.WriteString("IMPORTANT SCOPE RULE:\n")
	b.WriteString("- If the question is outside personal finance, transactions, budgets, or spending/income insights, respond EXACTLY with: ")
	b.WriteString(ScopeGuardMessage)
	b.WriteString("\n- Do not answer general knowledge or unrelated questions.\n\n")
	b.WriteString("Response guidelines:\n")
	b.WriteString("- Start with a direct answer to their question\n")
	b.WriteString("- Use specific numbers and dates from the transactions\n")
	b.WriteString("- Highlight important amounts in bold (e.g., **$123.45**)\n")
	b.WriteString("- Keep currency values to 2 decimals\n")
	b.WriteString("- If data is limited, say so naturally and suggest what might help\n")
	b.WriteString("- Do not invent or assume data not in the context\n\n")

	b.WriteString("Transactions:\n")
	for _, m := range matches {
		b.WriteString(m.contextLine())
		b.WriteByte('\n')
	}

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, ex := range history {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.Question, ex.Answer)
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
