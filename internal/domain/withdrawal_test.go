package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/api/payout"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newWithdrawalDomainForTest(endpoint payout.IEndpoint) *withdrawalDomain {
	userRepo := repository.NewUserRepository()

	return NewWithdrawalDomain(
		repository.NewWithdrawalRepository(),
		userRepo,
		common.NewLedger(
			userRepo,
			repository.NewTransactionRepository(),
			repository.NewRewardRecordRepository(),
		),
		endpoint,
		client.NewNotificationClient(&testutil.MockPublisher{}),
	)
}

func Test_withdrawalDomain_Create(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.Create(authorizedCtx, &model.CreateWithdrawalRequest{
		Amount:      5000,
		Method:      "gift_card",
		Destination: "user1@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Status)
	require.Equal(t, 5.0, resp.AmountUSD)

	// Points leave the balance at request time.
	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), user.Points)
	require.Equal(t, testutil.User1.LifetimePoints, user.LifetimePoints)

	withdrawal, err := repository.NewWithdrawalRepository().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.WithdrawalPending, withdrawal.Status)
	require.Equal(t, uint64(5000), withdrawal.Amount)
}

func Test_withdrawalDomain_Create_insufficientBalance(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})

	// User2 has no points at all.
	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err := d.Create(authorizedCtx, &model.CreateWithdrawalRequest{
		Amount:      2000,
		Method:      "gift_card",
		Destination: "user2@example.com",
	})
	require.Error(t, err)
	require.Equal(t, errorx.InsufficientBalance, err.(errorx.Error).Code)

	withdrawals, err := repository.NewWithdrawalRepository().
		GetListByUserID(ctx, testutil.User2.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, withdrawals)
}

func Test_withdrawalDomain_Create_belowMinimum(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.Create(authorizedCtx, &model.CreateWithdrawalRequest{
		Amount:      500,
		Method:      "gift_card",
		Destination: "user1@example.com",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_withdrawalDomain_Create_dailyLimit(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	for i := 0; i < 2; i++ {
		_, err := d.Create(authorizedCtx, &model.CreateWithdrawalRequest{
			Amount:      1000,
			Method:      "gift_card",
			Destination: "user1@example.com",
		})
		require.NoError(t, err)
	}

	_, err := d.Create(authorizedCtx, &model.CreateWithdrawalRequest{
		Amount:      1000,
		Method:      "gift_card",
		Destination: "user1@example.com",
	})
	require.Error(t, err)
	require.Equal(t, errorx.TooManyRequests, err.(errorx.Error).Code)
}

func Test_withdrawalDomain_Approve(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockPayoutEndpoint{}
	d := newWithdrawalDomainForTest(endpoint)
	transactionRepo := repository.NewTransactionRepository()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	created, err := d.Create(userCtx, &model.CreateWithdrawalRequest{
		Amount:      5000,
		Method:      "gift_card",
		Destination: "user1@example.com",
	})
	require.NoError(t, err)

	txsBefore, err := transactionRepo.GetByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	resp, err := d.Approve(adminCtx, &model.ApproveWithdrawalRequest{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, "gw-tx-1", resp.GatewayTxID)
	require.Equal(t, 5.0, resp.DeliveredAmount)
	require.Len(t, endpoint.Requests, 1)

	withdrawal, err := repository.NewWithdrawalRepository().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.WithdrawalCompleted, withdrawal.Status)
	require.Equal(t, testutil.Admin.ID, withdrawal.ProcessedBy)
	require.Equal(t, "gw-tx-1", withdrawal.GatewayTxID)

	// The debit already happened at request time; approval appends nothing.
	txsAfter, err := transactionRepo.GetByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txsAfter, len(txsBefore))

	// A completed withdrawal cannot be approved or rejected again.
	_, err = d.Approve(adminCtx, &model.ApproveWithdrawalRequest{ID: created.ID})
	require.Error(t, err)
	require.Equal(t, errorx.InvalidState, err.(errorx.Error).Code)

	_, err = d.Reject(adminCtx, &model.RejectWithdrawalRequest{ID: created.ID, Reason: "late"})
	require.Error(t, err)
	require.Equal(t, errorx.InvalidState, err.(errorx.Error).Code)
}

func Test_withdrawalDomain_Approve_permission(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	created, err := d.Create(userCtx, &model.CreateWithdrawalRequest{
		Amount:      5000,
		Method:      "gift_card",
		Destination: "user1@example.com",
	})
	require.NoError(t, err)

	_, err = d.Approve(userCtx, &model.ApproveWithdrawalRequest{ID: created.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}

func Test_withdrawalDomain_Approve_gatewayFailureKeepsPending(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockPayoutEndpoint{
		SendPayoutFunc: func(context.Context, *payout.PayoutRequest) (*payout.PayoutResponse, error) {
			return nil, errors.New("gateway timeout")
		},
	}
	d := newWithdrawalDomainForTest(endpoint)

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	created, err := d.Create(userCtx, &model.CreateWithdrawalRequest{
		Amount:      5000,
		Method:      "airtime",
		Destination: "+1555000111",
	})
	require.NoError(t, err)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = d.Approve(adminCtx, &model.ApproveWithdrawalRequest{ID: created.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PayoutGatewayFailure, err.(errorx.Error).Code)

	withdrawal, err := repository.NewWithdrawalRepository().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.WithdrawalPending, withdrawal.Status)

	// The gateway recovered; a retry completes the same withdrawal.
	endpoint.SendPayoutFunc = nil
	_, err = d.Approve(adminCtx, &model.ApproveWithdrawalRequest{ID: created.ID})
	require.NoError(t, err)

	withdrawal, err = repository.NewWithdrawalRepository().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.WithdrawalCompleted, withdrawal.Status)
}

func Test_withdrawalDomain_Reject_refundsBalanceOnly(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})
	userRepo := repository.NewUserRepository()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	created, err := d.Create(userCtx, &model.CreateWithdrawalRequest{
		Amount:      5000,
		Method:      "bank_transfer",
		Destination: "IBAN123",
	})
	require.NoError(t, err)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = d.Reject(adminCtx, &model.RejectWithdrawalRequest{ID: created.ID, Reason: "suspicious"})
	require.NoError(t, err)

	withdrawal, err := repository.NewWithdrawalRepository().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.WithdrawalRejected, withdrawal.Status)
	require.Equal(t, "suspicious", withdrawal.RejectionReason)

	// The refund restores the balance but the lifetime total stays put, so the
	// level tier cannot be farmed by withdraw/reject cycles.
	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Points, user.Points)
	require.Equal(t, testutil.User1.LifetimePoints, user.LifetimePoints)

	_, err = d.Reject(adminCtx, &model.RejectWithdrawalRequest{ID: created.ID, Reason: "again"})
	require.Error(t, err)
	require.Equal(t, errorx.InvalidState, err.(errorx.Error).Code)
}

func Test_withdrawalDomain_Reject_requiresReason(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err := d.Reject(adminCtx, &model.RejectWithdrawalRequest{ID: "any", Reason: ""})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_withdrawalDomain_GetMyList(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newWithdrawalDomainForTest(&testutil.MockPayoutEndpoint{})

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.Create(userCtx, &model.CreateWithdrawalRequest{
		Amount:      1000,
		Method:      "gift_card",
		Destination: "user1@example.com",
	})
	require.NoError(t, err)

	resp, err := d.GetMyList(userCtx, &model.GetMyWithdrawalsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Withdrawals, 1)
	require.Equal(t, "pending", resp.Withdrawals[0].Status)

	_, err = d.GetMyList(userCtx, &model.GetMyWithdrawalsRequest{Limit: 100})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}
