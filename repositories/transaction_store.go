package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"budgetwise-go-be/models"
)

// TransactionStore wraps expense/income row access.
type TransactionStore struct {
	DB *gorm.DB
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{DB: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	return s.DB.WithContext(ctx).Create(tx).Error
}

// ListByUser returns every row for the user, newest date first.
func (s *TransactionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
