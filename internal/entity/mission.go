package entity

import (
	"time"

	"github.com/pointward/backend/pkg/enum"
)

type MissionStatus string

var (
	MissionActive   = enum.New(MissionStatus("active"))
	MissionArchived = enum.New(MissionStatus("archived"))
)

type Mission struct {
	Base

	Title       string
	Description string
	Points      uint64

	// RequiresProof sends the submission through an admin review with an
	// uploaded screenshot before any points are credited.
	RequiresProof bool
	Status        MissionStatus
	CreatedBy     string
}

type MissionProgressStatus string

var (
	MissionInProgress = enum.New(MissionProgressStatus("in_progress"))
	MissionReviewing  = enum.New(MissionProgressStatus("reviewing"))
	MissionCompleted  = enum.New(MissionProgressStatus("completed"))
	MissionRejected   = enum.New(MissionProgressStatus("rejected"))
)

type MissionProgress struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	MissionID string  `gorm:"primaryKey"`
	Mission   Mission `gorm:"foreignKey:MissionID"`

	Status     MissionProgressStatus
	ProofURL   string
	ReviewerID string
	ReviewedAt time.Time
	Comment    string
}
