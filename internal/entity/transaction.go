package entity

import (
	"github.com/pointward/backend/pkg/enum"
)

type TransactionType string

var (
	TransactionCredit = enum.New(TransactionType("credit"))
	TransactionDebit  = enum.New(TransactionType("debit"))
)

type RewardSource string

var (
	SourceNewsReading      = enum.New(RewardSource("news_reading"))
	SourceAdWatch          = enum.New(RewardSource("ad_watch"))
	SourceTrivia           = enum.New(RewardSource("trivia"))
	SourceMission          = enum.New(RewardSource("mission"))
	SourceOfferwall        = enum.New(RewardSource("offerwall"))
	SourceReferral         = enum.New(RewardSource("referral"))
	SourceWithdrawal       = enum.New(RewardSource("withdrawal"))
	SourceWithdrawalRefund = enum.New(RewardSource("withdrawal_refund"))
)

// Transaction is one immutable ledger row. Rows are only ever inserted; the
// sum of credits minus debits of a user must equal User.Points at all times.
type Transaction struct {
	SnowFlakeBase

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Type   TransactionType
	Amount uint64
	Source RewardSource

	// SourceID references the originating record: an action id, a mission id,
	// or a withdrawal id.
	SourceID string
	Note     string
}
