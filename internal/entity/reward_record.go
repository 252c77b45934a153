package entity

import "fmt"

// RewardRecord is the idempotency anchor of a rewardable action. Its primary
// key is derived from (user, action), so a second submission of the same
// action hits a key conflict instead of crediting again. A record with
// PointsEarned of zero (a wrong trivia answer) still burns the action id:
// the first submission is final.
type RewardRecord struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	ActionID     string
	Source       RewardSource
	PointsEarned uint64
	Breakdown    string

	// Metadata keeps the raw submission payload for audits, e.g. the trivia
	// answer flag or the offerwall postback parameters.
	Metadata Map `gorm:"type:text"`
}

func RewardRecordID(userID, actionID string) string {
	return fmt.Sprintf("%s_%s", userID, actionID)
}
