package domain

import (
	"testing"

	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/dateutil"
	"github.com/pointward/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newUserDomainForTest() *userDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewTransactionRepository(),
		repository.NewDailyProgressRepository(),
	)
}

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newUserDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.GetMe(authorizedCtx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.ID)
	require.Equal(t, testutil.User1.Points, resp.Points)
	require.Equal(t, "bronze", resp.LevelTier)
	require.Equal(t, testutil.User1.ReferralCode, resp.ReferralCode)
}

func Test_userDomain_GetMe_staleStreakShowsZero(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newUserDomainForTest()
	userRepo := repository.NewUserRepository()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	// An alive streak shows as stored.
	require.NoError(t, userRepo.UpdateStreak(ctx, testutil.User1.ID, 5, dateutil.Yesterday()))
	resp, err := d.GetMe(authorizedCtx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, resp.DailyStreak)

	// A streak broken by a skipped day shows as zero even before the next
	// submission rewrites it.
	require.NoError(t, userRepo.UpdateStreak(ctx, testutil.User1.ID, 5, "2020-01-01"))
	resp, err = d.GetMe(authorizedCtx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, resp.DailyStreak)
}

func Test_userDomain_GetMe_autoCreatesUser(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newUserDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, "newcomer")
	resp, err := d.GetMe(authorizedCtx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, "newcomer", resp.ID)
	require.Equal(t, "starter", resp.LevelTier)
	require.NotEmpty(t, resp.ReferralCode)
}

func Test_userDomain_GetMyTransactions(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newUserDomainForTest()
	rewardDomain := newRewardDomainForTest()

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err := rewardDomain.Submit(authorizedCtx, &model.SubmitActionRequest{
		Source:   "news_reading",
		ActionID: "story-1",
	})
	require.NoError(t, err)

	resp, err := d.GetMyTransactions(authorizedCtx, &model.GetMyTransactionsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	require.Equal(t, "credit", resp.Transactions[0].Type)
	require.Equal(t, uint64(10), resp.Transactions[0].Amount)
	require.Equal(t, "news_reading", resp.Transactions[0].Source)
}
