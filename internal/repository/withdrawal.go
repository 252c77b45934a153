package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *entity.Withdrawal) error
	GetByID(ctx context.Context, id string) (*entity.Withdrawal, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Withdrawal, error)
	GetListByStatus(ctx context.Context, status entity.WithdrawalStatus, offset, limit int) ([]entity.Withdrawal, error)
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error)

	// UpdateStatusFromPending transitions the withdrawal out of pending. The
	// update is conditional on the current status, so a concurrent approve
	// and reject cannot both succeed; the loser gets gorm.ErrRecordNotFound.
	UpdateStatusFromPending(ctx context.Context, id string, data *entity.Withdrawal) error
}

type withdrawalRepository struct{}

func NewWithdrawalRepository() *withdrawalRepository {
	return &withdrawalRepository{}
}

func (r *withdrawalRepository) Create(ctx context.Context, withdrawal *entity.Withdrawal) error {
	return xcontext.DB(ctx).Create(withdrawal).Error
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	var result entity.Withdrawal
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *withdrawalRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Withdrawal, error) {
	var result []entity.Withdrawal
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *withdrawalRepository) GetListByStatus(
	ctx context.Context, status entity.WithdrawalStatus, offset, limit int,
) ([]entity.Withdrawal, error) {
	var result []entity.Withdrawal
	err := xcontext.DB(ctx).
		Where("status=?", status).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *withdrawalRepository) CountByUserSince(
	ctx context.Context, userID string, since time.Time,
) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Withdrawal{}).
		Where("user_id=? AND created_at >= ?", userID, since).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *withdrawalRepository) UpdateStatusFromPending(
	ctx context.Context, id string, data *entity.Withdrawal,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Withdrawal{}).
		Where("id=? AND status=?", id, entity.WithdrawalPending).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
