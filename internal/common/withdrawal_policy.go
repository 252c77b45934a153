package common

import (
	"context"
	"time"

	"github.com/pointward/backend/config"
	"github.com/pointward/backend/internal/domain/rewardcalc"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
)

const day = 24 * time.Hour

// WithdrawalPolicy bounds withdrawal requests: a configured minimum, a
// per-level maximum scaled from the Starter ceiling, and a daily request
// count limit.
type WithdrawalPolicy struct {
	withdrawalRepo repository.WithdrawalRepository
}

func NewWithdrawalPolicy(withdrawalRepo repository.WithdrawalRepository) *WithdrawalPolicy {
	return &WithdrawalPolicy{withdrawalRepo: withdrawalRepo}
}

// MaxPoints is the per-request ceiling of a user, growing with the level
// tier so long-standing users can cash out larger amounts.
func (p *WithdrawalPolicy) MaxPoints(cfg config.WithdrawalConfigs, user *entity.User) uint64 {
	tier := rewardcalc.LevelTierOf(user.LifetimePoints)
	return uint64(float64(cfg.MaxPoints) * tier.Multiplier)
}

func (p *WithdrawalPolicy) Check(ctx context.Context, user *entity.User, amount uint64) error {
	cfg := xcontext.Configs(ctx).Withdrawal

	if amount < cfg.MinPoints {
		return errorx.New(errorx.BadRequest, "Minimum withdrawal is %d points", cfg.MinPoints)
	}

	if max := p.MaxPoints(cfg, user); amount > max {
		return errorx.New(errorx.BadRequest, "Maximum withdrawal is %d points", max)
	}

	count, err := p.withdrawalRepo.CountByUserSince(ctx, user.ID, time.Now().Add(-day))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count recent withdrawals: %v", err)
		return errorx.Unknown
	}

	if count >= int64(cfg.MaxPerDay) {
		return errorx.New(errorx.TooManyRequests, "Too many withdrawal requests today")
	}

	return nil
}
