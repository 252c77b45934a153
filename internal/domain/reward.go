package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/domain/rewardcalc"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/crypto"
	"github.com/pointward/backend/pkg/dateutil"
	"github.com/pointward/backend/pkg/enum"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardDomain interface {
	Submit(context.Context, *model.SubmitActionRequest) (*model.SubmitActionResponse, error)
	CreateHappyHour(context.Context, *model.CreateHappyHourRequest) (*model.CreateHappyHourResponse, error)
}

type rewardDomain struct {
	userRepo          repository.UserRepository
	dailyProgressRepo repository.DailyProgressRepository
	happyHourRepo     repository.HappyHourRepository
	ledger            *common.Ledger
	leaderboard       *common.Leaderboard
	roleVerifier      *common.GlobalRoleVerifier
	notifier          client.NotificationClient
}

func NewRewardDomain(
	userRepo repository.UserRepository,
	dailyProgressRepo repository.DailyProgressRepository,
	happyHourRepo repository.HappyHourRepository,
	ledger *common.Ledger,
	leaderboard *common.Leaderboard,
	notifier client.NotificationClient,
) *rewardDomain {
	return &rewardDomain{
		userRepo:          userRepo,
		dailyProgressRepo: dailyProgressRepo,
		happyHourRepo:     happyHourRepo,
		ledger:            ledger,
		leaderboard:       leaderboard,
		roleVerifier:      common.NewGlobalRoleVerifier(userRepo),
		notifier:          notifier,
	}
}

// sourceTraits maps an earning source to its base rate, its daily progress
// counter and the cap on that counter. Zero cap means unlimited.
type sourceTraits struct {
	basePoints uint64
	column     string
	cap        int
}

func (d *rewardDomain) traitsOf(ctx context.Context, source entity.RewardSource) (sourceTraits, error) {
	cfg := xcontext.Configs(ctx).Reward
	switch source {
	case entity.SourceNewsReading:
		return sourceTraits{cfg.NewsBasePoints, "stories_read", cfg.MaxDailyStories}, nil
	case entity.SourceAdWatch:
		return sourceTraits{cfg.AdBasePoints, "ads_watched", cfg.MaxDailyAds}, nil
	case entity.SourceTrivia:
		return sourceTraits{cfg.TriviaBasePoints, "trivia_completed", cfg.MaxDailyTrivia}, nil
	default:
		return sourceTraits{}, fmt.Errorf("source %s is not submittable", source)
	}
}

func (d *rewardDomain) Submit(
	ctx context.Context, req *model.SubmitActionRequest,
) (*model.SubmitActionResponse, error) {
	source, err := enum.ToEnum[entity.RewardSource](req.Source)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid source %s", req.Source)
	}

	traits, err := d.traitsOf(ctx, source)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid source %s", req.Source)
	}

	if req.ActionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty action id")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := resolveUser(ctx, d.userRepo, userID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	today := dateutil.Today()
	streak := user.DailyStreak
	if user.LastActiveDate != today {
		if user.LastActiveDate == dateutil.Yesterday() {
			streak = user.DailyStreak + 1
		} else {
			streak = 1
		}
	}

	progress, err := d.dailyProgressRepo.Get(ctx, userID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get daily progress: %v", err)
		return nil, errorx.Unknown
	}

	if progress != nil && traits.cap > 0 {
		var count int
		switch traits.column {
		case "stories_read":
			count = progress.StoriesRead
		case "ads_watched":
			count = progress.AdsWatched
		case "trivia_completed":
			count = progress.TriviaCompleted
		}

		if count >= traits.cap {
			return nil, errorx.New(errorx.TooManyRequests,
				"Reached the daily limit of %s", req.Source)
		}
	}

	// A wrong trivia answer earns nothing but still burns the action id:
	// resubmitting with the right answer must not pay out.
	correct := true
	if source == entity.SourceTrivia {
		if v, ok := req.Metadata["correct"].(bool); ok {
			correct = v
		}
	}

	var points uint64
	var breakdown string
	if correct {
		modifiers := rewardcalc.ModifierSet{
			Streak:    rewardcalc.StreakMultiplier(streak),
			HappyHour: d.activeHappyHourMultiplier(ctx),
			Level:     rewardcalc.LevelTierOf(user.LifetimePoints).Multiplier,
		}
		points = rewardcalc.Calculate(traits.basePoints, modifiers)
		breakdown = rewardcalc.Breakdown(traits.basePoints, modifiers)
	}

	record, claimed, err := d.ledger.ClaimAction(ctx, userID, req.ActionID, source,
		points, breakdown, entity.Map(req.Metadata))
	if err != nil {
		return nil, err
	}

	if !claimed {
		return &model.SubmitActionResponse{
			Awarded:         false,
			PointsEarned:    record.PointsEarned,
			AlreadyCredited: true,
			Breakdown:       record.Breakdown,
		}, nil
	}

	if !correct {
		xcontext.WithCommitDBTransaction(ctx)
		return &model.SubmitActionResponse{Awarded: false, Breakdown: "incorrect answer"}, nil
	}

	err = d.ledger.Credit(ctx, userID, points, source, req.ActionID, breakdown)
	if err != nil {
		return nil, err
	}

	if streak != user.DailyStreak || user.LastActiveDate != today {
		if err := d.userRepo.UpdateStreak(ctx, userID, streak, today); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update streak: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.dailyProgressRepo.Increase(ctx, userID, today, traits.column); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase daily progress: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.leaderboard.IncreasePoints(ctx, userID, points)
	d.notifier.Notify(ctx, &client.Event{
		Type:   client.EventPointsCredited,
		UserID: userID,
		Metadata: map[string]any{
			"source": req.Source,
			"points": points,
		},
	})

	return &model.SubmitActionResponse{
		Awarded:      true,
		PointsEarned: points,
		Breakdown:    breakdown,
	}, nil
}

func (d *rewardDomain) activeHappyHourMultiplier(ctx context.Context) float64 {
	windows, err := d.happyHourRepo.GetActive(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get active happy hours: %v", err)
		return 1.0
	}

	if len(windows) == 0 {
		return 1.0
	}

	// Windows come back sorted by multiplier, the highest wins on overlap.
	return windows[0].Multiplier
}

func (d *rewardDomain) CreateHappyHour(
	ctx context.Context, req *model.CreateHappyHourRequest,
) (*model.CreateHappyHourResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Multiplier < 1 {
		return nil, errorx.New(errorx.BadRequest, "Multiplier must be at least 1")
	}

	if req.DayOfWeek < -1 || req.DayOfWeek > 6 {
		return nil, errorx.New(errorx.BadRequest, "Invalid day of week")
	}

	if req.StartHour < 0 || req.EndHour > 24 || req.StartHour >= req.EndHour {
		return nil, errorx.New(errorx.BadRequest, "Invalid hour window")
	}

	happyHour := &entity.HappyHour{
		Base:       entity.Base{ID: uuid.NewString()},
		Multiplier: req.Multiplier,
		DayOfWeek:  req.DayOfWeek,
		StartHour:  req.StartHour,
		EndHour:    req.EndHour,
		Enabled:    true,
	}

	if err := d.happyHourRepo.Create(ctx, happyHour); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create happy hour: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateHappyHourResponse{ID: happyHour.ID}, nil
}

// resolveUser loads the request user, creating the row on the first rewarded
// action. Accounts are provisioned by the identity service; this side only
// needs a ledger row to exist.
func resolveUser(
	ctx context.Context, userRepo repository.UserRepository, userID string,
) (*entity.User, error) {
	user, err := userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	user = &entity.User{
		Base:         entity.Base{ID: userID},
		Role:         entity.RoleUser,
		ReferralCode: crypto.GenerateRandomAlphabet(9),
	}

	if err := userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}
