package repository

import (
	"context"
	"time"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/pkg/xcontext"
)

type HappyHourRepository interface {
	Create(ctx context.Context, happyHour *entity.HappyHour) error

	// GetActive returns the enabled windows covering the given instant,
	// highest multiplier first.
	GetActive(ctx context.Context, at time.Time) ([]entity.HappyHour, error)
}

type happyHourRepository struct{}

func NewHappyHourRepository() *happyHourRepository {
	return &happyHourRepository{}
}

func (r *happyHourRepository) Create(ctx context.Context, happyHour *entity.HappyHour) error {
	return xcontext.DB(ctx).Create(happyHour).Error
}

func (r *happyHourRepository) GetActive(ctx context.Context, at time.Time) ([]entity.HappyHour, error) {
	at = at.UTC()

	var result []entity.HappyHour
	err := xcontext.DB(ctx).
		Where("enabled=? AND (day_of_week=? OR day_of_week=?) AND start_hour<=? AND ?<end_hour",
			true, int(at.Weekday()), -1, at.Hour(), at.Hour()).
		Order("multiplier DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
