package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/api/payout"
	"github.com/pointward/backend/pkg/enum"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type WithdrawalDomain interface {
	Create(context.Context, *model.CreateWithdrawalRequest) (*model.CreateWithdrawalResponse, error)
	Approve(context.Context, *model.ApproveWithdrawalRequest) (*model.ApproveWithdrawalResponse, error)
	Reject(context.Context, *model.RejectWithdrawalRequest) (*model.RejectWithdrawalResponse, error)
	GetMyList(context.Context, *model.GetMyWithdrawalsRequest) (*model.GetMyWithdrawalsResponse, error)
	GetPendingList(context.Context, *model.GetPendingWithdrawalsRequest) (*model.GetPendingWithdrawalsResponse, error)
}

type withdrawalDomain struct {
	withdrawalRepo repository.WithdrawalRepository
	userRepo       repository.UserRepository
	ledger         *common.Ledger
	policy         *common.WithdrawalPolicy
	roleVerifier   *common.GlobalRoleVerifier
	payoutEndpoint payout.IEndpoint
	notifier       client.NotificationClient
}

func NewWithdrawalDomain(
	withdrawalRepo repository.WithdrawalRepository,
	userRepo repository.UserRepository,
	ledger *common.Ledger,
	payoutEndpoint payout.IEndpoint,
	notifier client.NotificationClient,
) *withdrawalDomain {
	return &withdrawalDomain{
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		ledger:         ledger,
		policy:         common.NewWithdrawalPolicy(withdrawalRepo),
		roleVerifier:   common.NewGlobalRoleVerifier(userRepo),
		payoutEndpoint: payoutEndpoint,
		notifier:       notifier,
	}
}

// Create debits the points immediately and opens a pending withdrawal. The
// debit at request time is what lets approval finalize without touching the
// balance again.
func (d *withdrawalDomain) Create(
	ctx context.Context, req *model.CreateWithdrawalRequest,
) (*model.CreateWithdrawalResponse, error) {
	method, err := enum.ToEnum[entity.WithdrawalMethod](req.Method)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid withdrawal method %s", req.Method)
	}

	if req.Destination == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty destination")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.policy.Check(ctx, user, req.Amount); err != nil {
		return nil, err
	}

	cfg := xcontext.Configs(ctx).Withdrawal
	withdrawal := &entity.Withdrawal{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		Amount:      req.Amount,
		AmountUSD:   float64(req.Amount) / cfg.PointsPerUSD,
		Method:      method,
		Destination: req.Destination,
		Status:      entity.WithdrawalPending,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.ledger.Debit(ctx, userID, req.Amount,
		entity.SourceWithdrawal, withdrawal.ID, "withdrawal request")
	if err != nil {
		return nil, err
	}

	if err := d.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create withdrawal: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CreateWithdrawalResponse{
		ID:        withdrawal.ID,
		AmountUSD: withdrawal.AmountUSD,
		Status:    string(withdrawal.Status),
	}, nil
}

// Approve finalizes a pending withdrawal. The points were already debited at
// request time, so approval writes no transaction; it only flips the status
// after the payout gateway (when involved) confirms delivery.
func (d *withdrawalDomain) Approve(
	ctx context.Context, req *model.ApproveWithdrawalRequest,
) (*model.ApproveWithdrawalResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	withdrawal, err := d.withdrawalRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found withdrawal")
		}

		xcontext.Logger(ctx).Errorf("Cannot get withdrawal: %v", err)
		return nil, errorx.Unknown
	}

	if withdrawal.Status != entity.WithdrawalPending {
		return nil, errorx.New(errorx.InvalidState, "Withdrawal is already %s", withdrawal.Status)
	}

	update := &entity.Withdrawal{
		Status:      entity.WithdrawalCompleted,
		ProcessedAt: time.Now(),
		ProcessedBy: xcontext.RequestUserID(ctx),
	}

	// The gateway call happens before the status flip: a failed or timed-out
	// payout must leave the withdrawal pending and retryable.
	if d.shouldAutoPayout(ctx, withdrawal.Method) {
		resp, err := d.payoutEndpoint.SendPayout(ctx, &payout.PayoutRequest{
			ReferenceID: withdrawal.ID,
			Method:      string(withdrawal.Method),
			Destination: withdrawal.Destination,
			AmountUSD:   withdrawal.AmountUSD,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot send payout: %v", err)
			return nil, errorx.New(errorx.PayoutGatewayFailure, "Payout gateway failed")
		}

		if !resp.Success {
			xcontext.Logger(ctx).Errorf("Payout was refused: %s", resp.Message)
			return nil, errorx.New(errorx.PayoutGatewayFailure, "Payout gateway failed")
		}

		update.GatewayTxID = resp.TransactionID
		update.DeliveredAmount = resp.DeliveredAmount
	}

	if err := d.withdrawalRepo.UpdateStatusFromPending(ctx, withdrawal.ID, update); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "Withdrawal is no longer pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot update withdrawal status: %v", err)
		return nil, errorx.Unknown
	}

	d.notifier.Notify(ctx, &client.Event{
		Type:   client.EventWithdrawalCompleted,
		UserID: withdrawal.UserID,
		Metadata: map[string]any{
			"withdrawal_id": withdrawal.ID,
			"amount":        withdrawal.Amount,
		},
	})

	return &model.ApproveWithdrawalResponse{
		GatewayTxID:     update.GatewayTxID,
		DeliveredAmount: update.DeliveredAmount,
	}, nil
}

// Reject closes a pending withdrawal and refunds the exact debited amount.
// The refund restores the balance only; lifetime points and the level tier
// never see withdrawals.
func (d *withdrawalDomain) Reject(
	ctx context.Context, req *model.RejectWithdrawalRequest,
) (*model.RejectWithdrawalResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Reason == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty rejection reason")
	}

	withdrawal, err := d.withdrawalRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found withdrawal")
		}

		xcontext.Logger(ctx).Errorf("Cannot get withdrawal: %v", err)
		return nil, errorx.Unknown
	}

	if withdrawal.Status != entity.WithdrawalPending {
		return nil, errorx.New(errorx.InvalidState, "Withdrawal is already %s", withdrawal.Status)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.withdrawalRepo.UpdateStatusFromPending(ctx, withdrawal.ID, &entity.Withdrawal{
		Status:          entity.WithdrawalRejected,
		ProcessedAt:     time.Now(),
		ProcessedBy:     xcontext.RequestUserID(ctx),
		RejectionReason: req.Reason,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "Withdrawal is no longer pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot update withdrawal status: %v", err)
		return nil, errorx.Unknown
	}

	err = d.ledger.Credit(ctx, withdrawal.UserID, withdrawal.Amount,
		entity.SourceWithdrawalRefund, withdrawal.ID, "withdrawal rejected: "+req.Reason)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifier.Notify(ctx, &client.Event{
		Type:   client.EventWithdrawalRejected,
		UserID: withdrawal.UserID,
		Metadata: map[string]any{
			"withdrawal_id": withdrawal.ID,
			"reason":        req.Reason,
		},
	})

	return &model.RejectWithdrawalResponse{}, nil
}

func (d *withdrawalDomain) GetMyList(
	ctx context.Context, req *model.GetMyWithdrawalsRequest,
) (*model.GetMyWithdrawalsResponse, error) {
	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	withdrawals, err := d.withdrawalRepo.GetListByUserID(
		ctx, xcontext.RequestUserID(ctx), req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get withdrawal list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Withdrawal{}
	for i := range withdrawals {
		result = append(result, model.ConvertWithdrawal(&withdrawals[i]))
	}

	return &model.GetMyWithdrawalsResponse{Withdrawals: result}, nil
}

func (d *withdrawalDomain) GetPendingList(
	ctx context.Context, req *model.GetPendingWithdrawalsRequest,
) (*model.GetPendingWithdrawalsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	withdrawals, err := d.withdrawalRepo.GetListByStatus(
		ctx, entity.WithdrawalPending, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending withdrawals: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Withdrawal{}
	for i := range withdrawals {
		result = append(result, model.ConvertWithdrawal(&withdrawals[i]))
	}

	return &model.GetPendingWithdrawalsResponse{Withdrawals: result}, nil
}

func (d *withdrawalDomain) shouldAutoPayout(ctx context.Context, method entity.WithdrawalMethod) bool {
	if !xcontext.Configs(ctx).Payout.AutoPayout {
		return false
	}

	return method == entity.MethodAirtime || method == entity.MethodGiftCard
}

// checkLimit applies the configured list bounds shared by every paginated
// endpoint.
func checkLimit(ctx context.Context, limit int) (int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		return apiCfg.DefaultLimit, nil
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > apiCfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return limit, nil
}
