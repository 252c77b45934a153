package repository

import (
	"context"
	"errors"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)
	IncreasePoints(ctx context.Context, userID string, amount uint64, source entity.RewardSource) error
	DecreasePoints(ctx context.Context, userID string, amount uint64) error
	UpdateStreak(ctx context.Context, userID string, streak int, dayKey string) error
	SetReferredBy(ctx context.Context, userID, inviterID string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "referral_code=?", code).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// categoryColumn maps an earning source to its denormalized total column.
// Withdrawal refunds restore the balance only, so they have no column and do
// not count as lifetime earnings.
func categoryColumn(source entity.RewardSource) string {
	switch source {
	case entity.SourceNewsReading:
		return "news_points"
	case entity.SourceAdWatch:
		return "ad_points"
	case entity.SourceTrivia:
		return "trivia_points"
	case entity.SourceMission:
		return "mission_points"
	case entity.SourceOfferwall:
		return "offerwall_points"
	case entity.SourceReferral:
		return "referral_points"
	}

	return ""
}

func (r *userRepository) IncreasePoints(
	ctx context.Context, userID string, amount uint64, source entity.RewardSource,
) error {
	updateMap := map[string]any{
		"points": gorm.Expr("points+?", amount),
	}

	if column := categoryColumn(source); column != "" {
		updateMap["lifetime_points"] = gorm.Expr("lifetime_points+?", amount)
		updateMap[column] = gorm.Expr(column+"+?", amount)
	}

	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Updates(updateMap)

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

func (r *userRepository) DecreasePoints(
	ctx context.Context, userID string, amount uint64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND points >= ?", userID, amount).
		Update("points", gorm.Expr("points-?", amount))

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

func (r *userRepository) UpdateStreak(
	ctx context.Context, userID string, streak int, dayKey string,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Updates(map[string]any{
			"daily_streak":     streak,
			"last_active_date": dayKey,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) SetReferredBy(ctx context.Context, userID, inviterID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND referred_by=''", userID).
		Update("referred_by", inviterID)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
