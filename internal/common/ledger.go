package common

import (
	"context"
	"errors"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/idutil"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Ledger owns the two invariants every points mutation must hold: a balance
// change always appends exactly one transaction row, and an action id is
// credited at most once. Callers are expected to run it inside a DB
// transaction so the record, the balance and the transaction row commit
// together.
type Ledger struct {
	userRepo         repository.UserRepository
	transactionRepo  repository.TransactionRepository
	rewardRecordRepo repository.RewardRecordRepository
}

func NewLedger(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	rewardRecordRepo repository.RewardRecordRepository,
) *Ledger {
	return &Ledger{
		userRepo:         userRepo,
		transactionRepo:  transactionRepo,
		rewardRecordRepo: rewardRecordRepo,
	}
}

// ClaimAction stakes the idempotency record of (user, action). If the action
// was already credited, it returns the prior record and claimed=false without
// touching any balance. A storage failure fails closed: no credit happens.
func (l *Ledger) ClaimAction(
	ctx context.Context,
	userID, actionID string,
	source entity.RewardSource,
	points uint64,
	breakdown string,
	metadata entity.Map,
) (record *entity.RewardRecord, claimed bool, err error) {
	record = &entity.RewardRecord{
		Base:         entity.Base{ID: entity.RewardRecordID(userID, actionID)},
		UserID:       userID,
		ActionID:     actionID,
		Source:       source,
		PointsEarned: points,
		Breakdown:    breakdown,
		Metadata:     metadata,
	}

	inserted, err := l.rewardRecordRepo.CreateIfAbsent(ctx, record)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create reward record: %v", err)
		return nil, false, errorx.Unknown
	}

	if inserted {
		return record, true, nil
	}

	prior, err := l.rewardRecordRepo.Get(ctx, userID, actionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prior reward record: %v", err)
		return nil, false, errorx.Unknown
	}

	return prior, false, nil
}

// Credit increases the user balance and appends the matching credit
// transaction. A missing user is surfaced as NotFound, never skipped.
func (l *Ledger) Credit(
	ctx context.Context,
	userID string,
	amount uint64,
	source entity.RewardSource,
	sourceID, note string,
) error {
	if err := l.userRepo.IncreasePoints(ctx, userID, amount, source); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase points: %v", err)
		return errorx.Unknown
	}

	err := l.transactionRepo.Create(ctx, &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: idutil.NextID()},
		UserID:        userID,
		Type:          entity.TransactionCredit,
		Amount:        amount,
		Source:        source,
		SourceID:      sourceID,
		Note:          note,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create credit transaction: %v", err)
		return errorx.Unknown
	}

	return nil
}

// Debit decreases the user balance if it covers the amount, then appends the
// matching debit transaction. The decrement is guarded in the database, so a
// concurrent debit can never drive the balance negative.
func (l *Ledger) Debit(
	ctx context.Context,
	userID string,
	amount uint64,
	source entity.RewardSource,
	sourceID, note string,
) error {
	if err := l.userRepo.DecreasePoints(ctx, userID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, err := l.userRepo.GetByID(ctx, userID); err != nil {
				return errorx.New(errorx.NotFound, "Not found user")
			}

			return errorx.New(errorx.InsufficientBalance, "Not enough points")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease points: %v", err)
		return errorx.Unknown
	}

	err := l.transactionRepo.Create(ctx, &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: idutil.NextID()},
		UserID:        userID,
		Type:          entity.TransactionDebit,
		Amount:        amount,
		Source:        source,
		SourceID:      sourceID,
		Note:          note,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create debit transaction: %v", err)
		return errorx.Unknown
	}

	return nil
}
