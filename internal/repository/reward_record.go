package repository

import (
	"context"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type RewardRecordRepository interface {
	// CreateIfAbsent inserts the record unless its key already exists. It
	// reports whether this call inserted the row. This is the single
	// primitive behind at-most-once crediting: two concurrent submissions of
	// the same action race on the primary key, and exactly one wins.
	CreateIfAbsent(ctx context.Context, record *entity.RewardRecord) (bool, error)

	Get(ctx context.Context, userID, actionID string) (*entity.RewardRecord, error)
}

type rewardRecordRepository struct{}

func NewRewardRecordRepository() *rewardRecordRepository {
	return &rewardRecordRepository{}
}

func (r *rewardRecordRepository) CreateIfAbsent(
	ctx context.Context, record *entity.RewardRecord,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *rewardRecordRepository) Get(
	ctx context.Context, userID, actionID string,
) (*entity.RewardRecord, error) {
	var result entity.RewardRecord
	err := xcontext.DB(ctx).
		Take(&result, "id=?", entity.RewardRecordID(userID, actionID)).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
