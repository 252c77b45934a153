package entity

import "time"

// DailyProgress is a day-bucketed counter row keyed by (user, day). A new day
// starts from a fresh row, which is how "reset at midnight" works without a
// scheduled job.
type DailyProgress struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	DayKey string `gorm:"primaryKey"`

	StoriesRead     int
	AdsWatched      int
	TriviaCompleted int
}
