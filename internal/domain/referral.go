package domain

import (
	"context"
	"errors"

	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/domain/rewardcalc"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ReferralDomain interface {
	Bind(context.Context, *model.BindReferralRequest) (*model.BindReferralResponse, error)
}

type referralDomain struct {
	userRepo    repository.UserRepository
	ledger      *common.Ledger
	leaderboard *common.Leaderboard
	notifier    client.NotificationClient
}

func NewReferralDomain(
	userRepo repository.UserRepository,
	ledger *common.Ledger,
	leaderboard *common.Leaderboard,
	notifier client.NotificationClient,
) *referralDomain {
	return &referralDomain{
		userRepo:    userRepo,
		ledger:      ledger,
		leaderboard: leaderboard,
		notifier:    notifier,
	}
}

// Bind attaches an invite code to the request user and pays the inviter a
// flat bonus. A user can be referred once; the bonus is keyed per invitee, so
// it can never be paid twice even if binding is retried.
func (d *referralDomain) Bind(
	ctx context.Context, req *model.BindReferralRequest,
) (*model.BindReferralResponse, error) {
	if req.Code == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty referral code")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := resolveUser(ctx, d.userRepo, userID)
	if err != nil {
		return nil, err
	}

	if user.ReferredBy != "" {
		return nil, errorx.New(errorx.AlreadyExists, "You were already referred")
	}

	inviter, err := d.userRepo.GetByReferralCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found referral code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by referral code: %v", err)
		return nil, errorx.Unknown
	}

	if inviter.ID == userID {
		return nil, errorx.New(errorx.BadRequest, "Not allow to refer yourself")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.SetReferredBy(ctx, userID, inviter.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "You were already referred")
		}

		xcontext.Logger(ctx).Errorf("Cannot set referred by: %v", err)
		return nil, errorx.Unknown
	}

	modifiers := rewardcalc.ModifierSet{
		Level: rewardcalc.LevelTierOf(inviter.LifetimePoints).Multiplier,
	}
	base := xcontext.Configs(ctx).Reward.ReferralPoints
	points := rewardcalc.Calculate(base, modifiers)
	breakdown := rewardcalc.Breakdown(base, modifiers)

	// The bonus action is keyed by the invitee, one payout per new user.
	_, claimed, err := d.ledger.ClaimAction(ctx, inviter.ID, "referral_"+userID,
		entity.SourceReferral, points, breakdown, nil)
	if err != nil {
		return nil, err
	}

	if claimed {
		err = d.ledger.Credit(ctx, inviter.ID, points, entity.SourceReferral, userID, breakdown)
		if err != nil {
			return nil, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	if claimed {
		d.leaderboard.IncreasePoints(ctx, inviter.ID, points)
		d.notifier.Notify(ctx, &client.Event{
			Type:   client.EventPointsCredited,
			UserID: inviter.ID,
			Metadata: map[string]any{
				"source": string(entity.SourceReferral),
				"points": points,
			},
		})
	}

	return &model.BindReferralResponse{}, nil
}
