package repository

import (
	"context"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/pkg/xcontext"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Transaction, error)
	BalanceOf(ctx context.Context, userID string) (int64, error)
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return xcontext.DB(ctx).Create(tx).Error
}

func (r *transactionRepository) GetByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// BalanceOf replays the ledger of a user: the sum of credits minus the sum of
// debits. It must always equal the denormalized balance on the user row.
func (r *transactionRepository) BalanceOf(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type=? THEN amount ELSE -amount END), 0)", entity.TransactionCredit).
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
