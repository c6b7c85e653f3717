package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgetwise-go-be/middleware"
	"budgetwise-go-be/models"
	"budgetwise-go-be/rag"
	"budgetwise-go-be/repositories"
)

// ExpenseHandler serves the transaction CRUD routes.
type ExpenseHandler struct {
	Transactions *repositories.TransactionStore
	Rag          *rag.Service
}

func NewExpenseHandler(transactions *repositories.TransactionStore, ragSvc *rag.Service) *ExpenseHandler {
	return &ExpenseHandler{Transactions: transactions, Rag: ragSvc}
}

type addExpenseRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
}

// parseTransaction validates the request and shapes it into a row.
func parseTransaction(userID uuid.UUID, req addExpenseRequest) (models.Transaction, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	if req.Category == "" {
		return models.Transaction{}, fmt.Errorf("category is required")
	}
	if !req.Amount.IsPositive() {
		return models.Transaction{}, fmt.Errorf("amount must be a positive number")
	}
	if req.Type != models.TypeIncome && req.Type != models.TypeExpense {
		return models.Transaction{}, fmt.Errorf("type must be %q or %q", models.TypeIncome, models.TypeExpense)
	}
	return models.Transaction{
		UserID:   userID,
		Date:     date,
		Category: req.Category,
		Note:     req.Note,
		Amount:   req.Amount,
		Type:     req.Type,
	}, nil
}

func (h *ExpenseHandler) AddExpense(c *fiber.Ctx) error {
	var req addExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	tx, err := parseTransaction(userIDFromCtx(c), req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.Transactions.Create(c.UserContext(), &tx); err != nil {
		log.Printf("Error inserting transaction: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to add expense")
	}

	// Best-effort incremental index update. A failure here is logged and
	// never fails the write; the next build picks the row up anyway.
	if h.Rag != nil {
		go func(tx models.Transaction) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := h.Rag.AddTransaction(ctx, tx); err != nil {
				log.Printf("Failed to index transaction %s: %v", tx.ID, err)
			}
		}(tx)
	}

	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (h *ExpenseHandler) ListExpenses(c *fiber.Ctx) error {
	rows, err := h.Transactions.ListByUser(c.UserContext(), userIDFromCtx(c))
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch expenses")
	}
	return c.JSON(rows)
}

// Summary totals the caller's income and expenses.
func (h *ExpenseHandler) Summary(c *fiber.Ctx) error {
	rows, err := h.Transactions.ListByUser(c.UserContext(), userIDFromCtx(c))
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute summary")
	}
	return c.JSON(models.Summarize(rows))
}

// userIDFromCtx reads the id the auth middleware stored. Routes using it are
// always behind the middleware, so a missing value is a wiring bug.
func userIDFromCtx(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(middleware.UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
