package config

import (
	"fmt"
	"time"

	"github.com/pointward/backend/pkg/storage"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  ServerConfigs
	Auth       AuthConfigs
	Redis      RedisConfigs
	Kafka      KafkaConfigs
	Storage    storage.S3Configs
	File       FileConfigs
	Reward     RewardConfigs
	Withdrawal WithdrawalConfigs
	Payout     PayoutConfigs
	Offerwall  OfferwallConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	DefaultLimit int
	MaxLimit     int
	AllowCORS    []string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr              string
	NotificationTopic string
}

type FileConfigs struct {
	MaxSize int
}

// RewardConfigs carries the per-activity base rates and the daily caps on how
// many actions of each kind can still earn points.
type RewardConfigs struct {
	NewsBasePoints   uint64
	AdBasePoints     uint64
	TriviaBasePoints uint64
	ReferralPoints   uint64

	MaxDailyStories int
	MaxDailyAds     int
	MaxDailyTrivia  int
}

// WithdrawalConfigs bounds withdrawal requests. MaxPoints applies to the
// Starter tier; higher level tiers get a larger ceiling (see the policy in
// internal/common).
type WithdrawalConfigs struct {
	PointsPerUSD float64
	MinPoints    uint64
	MaxPoints    uint64
	MaxPerDay    int
}

type PayoutConfigs struct {
	// AutoPayout switches on gateway calls for airtime and gift card
	// approvals. When off, every approval is manual fulfillment.
	AutoPayout bool
	URL        string
	APIKey     string
	Timeout    time.Duration
}

type OfferwallConfigs struct {
	Providers map[string]OfferwallProviderConfigs
}

type OfferwallProviderConfigs struct {
	// Scheme selects the signature verification of this provider, either
	// "md5" or "hmac-sha256".
	Scheme string
	Secret string
}
