package repository

import (
	"context"
	"errors"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyProgressRepository interface {
	Get(ctx context.Context, userID, dayKey string) (*entity.DailyProgress, error)

	// Increase bumps one counter column of the (user, day) row, creating the
	// row on the first action of the day.
	Increase(ctx context.Context, userID, dayKey, column string) error
}

type dailyProgressRepository struct{}

func NewDailyProgressRepository() *dailyProgressRepository {
	return &dailyProgressRepository{}
}

func (r *dailyProgressRepository) Get(
	ctx context.Context, userID, dayKey string,
) (*entity.DailyProgress, error) {
	var result entity.DailyProgress
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND day_key=?", userID, dayKey).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *dailyProgressRepository) Increase(ctx context.Context, userID, dayKey, column string) error {
	switch column {
	case "stories_read", "ads_watched", "trivia_completed":
	default:
		return errors.New("invalid daily progress column")
	}

	progress := &entity.DailyProgress{UserID: userID, DayKey: dayKey}
	switch column {
	case "stories_read":
		progress.StoriesRead = 1
	case "ads_watched":
		progress.AdsWatched = 1
	case "trivia_completed":
		progress.TriviaCompleted = 1
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				column: gorm.Expr(column+"+?", 1),
			}),
		}).
		Create(progress).Error
}
