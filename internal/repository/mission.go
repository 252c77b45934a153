package repository

import (
	"context"
	"errors"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MissionRepository interface {
	Create(ctx context.Context, mission *entity.Mission) error
	GetByID(ctx context.Context, id string) (*entity.Mission, error)
	GetList(ctx context.Context, status entity.MissionStatus, offset, limit int) ([]entity.Mission, error)

	// CreateProgress inserts the (user, mission) progress row if it does not
	// exist yet. It reports whether this call created the row.
	CreateProgress(ctx context.Context, progress *entity.MissionProgress) (bool, error)
	GetProgress(ctx context.Context, userID, missionID string) (*entity.MissionProgress, error)
	UpdateProgressStatus(
		ctx context.Context,
		userID, missionID string,
		from entity.MissionProgressStatus,
		data *entity.MissionProgress,
	) error
}

type missionRepository struct{}

func NewMissionRepository() *missionRepository {
	return &missionRepository{}
}

func (r *missionRepository) Create(ctx context.Context, mission *entity.Mission) error {
	return xcontext.DB(ctx).Create(mission).Error
}

func (r *missionRepository) GetByID(ctx context.Context, id string) (*entity.Mission, error) {
	var result entity.Mission
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *missionRepository) GetList(
	ctx context.Context, status entity.MissionStatus, offset, limit int,
) ([]entity.Mission, error) {
	var result []entity.Mission
	err := xcontext.DB(ctx).
		Where("status=?", status).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *missionRepository) CreateProgress(
	ctx context.Context, progress *entity.MissionProgress,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(progress)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *missionRepository) GetProgress(
	ctx context.Context, userID, missionID string,
) (*entity.MissionProgress, error) {
	var result entity.MissionProgress
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND mission_id=?", userID, missionID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *missionRepository) UpdateProgressStatus(
	ctx context.Context,
	userID, missionID string,
	from entity.MissionProgressStatus,
	data *entity.MissionProgress,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.MissionProgress{}).
		Where("user_id=? AND mission_id=? AND status=?", userID, missionID, from).
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
