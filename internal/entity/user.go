package entity

import (
	"github.com/pointward/backend/pkg/enum"
)

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type User struct {
	Base

	Name string
	Role GlobalRole `gorm:"default:user"`

	// Points is the redeemable balance; it never goes negative. Every
	// mutation also appends exactly one Transaction row.
	Points uint64

	// LifetimePoints only grows. It drives the level tier.
	LifetimePoints uint64

	// Denormalized per-source totals for reporting. Each must equal the sum
	// of credit transactions of its source.
	NewsPoints      uint64
	AdPoints        uint64
	TriviaPoints    uint64
	MissionPoints   uint64
	OfferwallPoints uint64
	ReferralPoints  uint64

	// DailyStreak counts consecutive calendar days with at least one rewarded
	// action. LastActiveDate is the day key of the last rewarded day.
	DailyStreak    int
	LastActiveDate string

	ReferralCode string `gorm:"unique"`
	ReferredBy   string
}
