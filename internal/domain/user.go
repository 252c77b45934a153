package domain

import (
	"context"
	"errors"

	"github.com/pointward/backend/internal/domain/rewardcalc"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/dateutil"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetMyTransactions(context.Context, *model.GetMyTransactionsRequest) (*model.GetMyTransactionsResponse, error)
}

type userDomain struct {
	userRepo          repository.UserRepository
	transactionRepo   repository.TransactionRepository
	dailyProgressRepo repository.DailyProgressRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	dailyProgressRepo repository.DailyProgressRepository,
) *userDomain {
	return &userDomain{
		userRepo:          userRepo,
		transactionRepo:   transactionRepo,
		dailyProgressRepo: dailyProgressRepo,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := resolveUser(ctx, d.userRepo, userID)
	if err != nil {
		return nil, err
	}

	today := model.TodayProgress{}
	progress, err := d.dailyProgressRepo.Get(ctx, userID, dateutil.Today())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get daily progress: %v", err)
		return nil, errorx.Unknown
	}

	if progress != nil {
		today = model.TodayProgress{
			StoriesRead:     progress.StoriesRead,
			AdsWatched:      progress.AdsWatched,
			TriviaCompleted: progress.TriviaCompleted,
		}
	}

	// A streak only counts while it is alive: if the user skipped yesterday
	// the stored value is stale and shows as zero.
	streak := user.DailyStreak
	if user.LastActiveDate != dateutil.Today() && user.LastActiveDate != dateutil.Yesterday() {
		streak = 0
	}

	return &model.GetMeResponse{
		ID:             user.ID,
		Name:           user.Name,
		Points:         user.Points,
		LifetimePoints: user.LifetimePoints,
		LevelTier:      rewardcalc.LevelTierOf(user.LifetimePoints).Name,
		DailyStreak:    streak,
		ReferralCode:   user.ReferralCode,
		Today:          today,
	}, nil
}

func (d *userDomain) GetMyTransactions(
	ctx context.Context, req *model.GetMyTransactionsRequest,
) (*model.GetMyTransactionsResponse, error) {
	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	transactions, err := d.transactionRepo.GetByUserID(
		ctx, xcontext.RequestUserID(ctx), req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transaction list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Transaction{}
	for i := range transactions {
		result = append(result, model.ConvertTransaction(&transactions[i]))
	}

	return &model.GetMyTransactionsResponse{Transactions: result}, nil
}
