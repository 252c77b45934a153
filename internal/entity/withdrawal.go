package entity

import (
	"time"

	"github.com/pointward/backend/pkg/enum"
)

type WithdrawalStatus string

var (
	WithdrawalPending   = enum.New(WithdrawalStatus("pending"))
	WithdrawalCompleted = enum.New(WithdrawalStatus("completed"))
	WithdrawalRejected  = enum.New(WithdrawalStatus("rejected"))
)

type WithdrawalMethod string

var (
	MethodAirtime      = enum.New(WithdrawalMethod("airtime"))
	MethodBankTransfer = enum.New(WithdrawalMethod("bank_transfer"))
	MethodGiftCard     = enum.New(WithdrawalMethod("gift_card"))
)

// Withdrawal's points are debited when the request is created; approval only
// finalizes, rejection refunds. pending is the only mutable status.
type Withdrawal struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Amount      uint64
	AmountUSD   float64
	Method      WithdrawalMethod
	Destination string

	Status          WithdrawalStatus
	ProcessedAt     time.Time
	ProcessedBy     string
	RejectionReason string

	GatewayTxID     string
	DeliveredAmount float64
}
