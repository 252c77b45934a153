package domain

import (
	"context"
	"fmt"
	"testing"

	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/dateutil"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newRewardDomainForTest() *rewardDomain {
	userRepo := repository.NewUserRepository()
	transactionRepo := repository.NewTransactionRepository()
	rewardRecordRepo := repository.NewRewardRecordRepository()

	return NewRewardDomain(
		userRepo,
		repository.NewDailyProgressRepository(),
		repository.NewHappyHourRepository(),
		common.NewLedger(userRepo, transactionRepo, rewardRecordRepo),
		common.NewLeaderboard(&testutil.MockRedisClient{}),
		client.NewNotificationClient(&testutil.MockPublisher{}),
	)
}

func requireBalanceConsistent(t *testing.T, ctx context.Context, userID string) {
	user, err := repository.NewUserRepository().GetByID(ctx, userID)
	require.NoError(t, err)

	sum, err := repository.NewTransactionRepository().BalanceOf(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(user.Points), sum)
}

func Test_rewardDomain_Submit(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "news_reading",
		ActionID: "story-1",
	})
	require.NoError(t, err)
	require.True(t, resp.Awarded)
	require.False(t, resp.AlreadyCredited)
	require.Equal(t, uint64(10), resp.PointsEarned)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(10), user.Points)
	require.Equal(t, uint64(10), user.LifetimePoints)
	require.Equal(t, uint64(10), user.NewsPoints)
	require.Equal(t, 1, user.DailyStreak)
	require.Equal(t, dateutil.Today(), user.LastActiveDate)

	requireBalanceConsistent(t, ctx, testutil.User2.ID)
}

func Test_rewardDomain_Submit_isIdempotent(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	first, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "news_reading",
		ActionID: "story-1",
	})
	require.NoError(t, err)
	require.True(t, first.Awarded)

	// The same action submitted again changes nothing.
	second, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "news_reading",
		ActionID: "story-1",
	})
	require.NoError(t, err)
	require.False(t, second.Awarded)
	require.True(t, second.AlreadyCredited)
	require.Equal(t, first.PointsEarned, second.PointsEarned)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(10), user.Points)

	requireBalanceConsistent(t, ctx, testutil.User2.ID)
}

func Test_rewardDomain_Submit_wrongTriviaBurnsAction(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "trivia",
		ActionID: "quiz-1",
		Metadata: map[string]any{"correct": false},
	})
	require.NoError(t, err)
	require.False(t, resp.Awarded)
	require.Equal(t, uint64(0), resp.PointsEarned)

	// Resubmitting the same question with the right answer pays nothing: the
	// first submission is final.
	resp, err = d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "trivia",
		ActionID: "quiz-1",
		Metadata: map[string]any{"correct": true},
	})
	require.NoError(t, err)
	require.False(t, resp.Awarded)
	require.True(t, resp.AlreadyCredited)
	require.Equal(t, uint64(0), resp.PointsEarned)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), user.Points)
}

func Test_rewardDomain_Submit_streakRollover(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()
	userRepo := repository.NewUserRepository()

	// User2 was active yesterday with a 6-day streak; today is day 7, which
	// crosses into the 1.10 tier.
	err := userRepo.UpdateStreak(ctx, testutil.User2.ID, 6, dateutil.Yesterday())
	require.NoError(t, err)

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "ad_watch",
		ActionID: "ad-1",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(22), resp.PointsEarned)

	user, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, 7, user.DailyStreak)
	require.Equal(t, dateutil.Today(), user.LastActiveDate)
}

func Test_rewardDomain_Submit_streakResetsAfterGap(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()
	userRepo := repository.NewUserRepository()

	// The last active day is far in the past, so the streak starts over.
	err := userRepo.UpdateStreak(ctx, testutil.User2.ID, 30, "2020-01-01")
	require.NoError(t, err)

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "ad_watch",
		ActionID: "ad-1",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(20), resp.PointsEarned)

	user, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, 1, user.DailyStreak)
}

func Test_rewardDomain_Submit_dailyCap(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	for i := 0; i < 2; i++ {
		resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
			Source:   "ad_watch",
			ActionID: fmt.Sprintf("ad-%d", i),
		})
		require.NoError(t, err)
		require.True(t, resp.Awarded)
	}

	_, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "ad_watch",
		ActionID: "ad-over-cap",
	})
	require.Error(t, err)
	require.Equal(t, errorx.TooManyRequests, err.(errorx.Error).Code)
}

func Test_rewardDomain_Submit_happyHourMultiplier(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	err := repository.NewHappyHourRepository().Create(ctx, &entity.HappyHour{
		Base:       entity.Base{ID: "hh1"},
		Multiplier: 2.0,
		DayOfWeek:  -1,
		StartHour:  0,
		EndHour:    24,
		Enabled:    true,
	})
	require.NoError(t, err)

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "news_reading",
		ActionID: "story-1",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(20), resp.PointsEarned)
}

func Test_rewardDomain_Submit_levelMultiplierStacks(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	// User1 has 10k lifetime points, the bronze tier: 20 * 1.02 = 20.4 => 20;
	// trivia 30 * 1.02 = 30.6 => 30. Use a yesterday streak of 2 to get day 3
	// (1.05): 30 * 1.05 * 1.02 = 32.13 => 32.
	err := repository.NewUserRepository().UpdateStreak(ctx, testutil.User1.ID, 2, dateutil.Yesterday())
	require.NoError(t, err)

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "trivia",
		ActionID: "quiz-1",
		Metadata: map[string]any{"correct": true},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(32), resp.PointsEarned)
}

func Test_rewardDomain_Submit_autoCreatesUser(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, "newcomer")
	resp, err := d.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "news_reading",
		ActionID: "story-1",
	})
	require.NoError(t, err)
	require.True(t, resp.Awarded)

	user, err := repository.NewUserRepository().GetByID(ctx, "newcomer")
	require.NoError(t, err)
	require.Equal(t, uint64(10), user.Points)
	require.NotEmpty(t, user.ReferralCode)
}

func Test_rewardDomain_CreateHappyHour_permission(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newRewardDomainForTest()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.CreateHappyHour(userCtx, &model.CreateHappyHourRequest{
		Multiplier: 2.0, DayOfWeek: -1, StartHour: 18, EndHour: 20,
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	resp, err := d.CreateHappyHour(adminCtx, &model.CreateHappyHourRequest{
		Multiplier: 2.0, DayOfWeek: -1, StartHour: 18, EndHour: 20,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
}
