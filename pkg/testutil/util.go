package testutil

import (
	"context"
	"time"

	"github.com/pointward/backend/config"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/pkg/jwt"
	"github.com/pointward/backend/pkg/logger"
	"github.com/pointward/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewMockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Kafka: config.KafkaConfigs{
			NotificationTopic: "notifications",
		},
		File: config.FileConfigs{
			MaxSize: 1024 * 1024,
		},
		Reward: config.RewardConfigs{
			NewsBasePoints:   10,
			AdBasePoints:     20,
			TriviaBasePoints: 30,
			ReferralPoints:   500,
			MaxDailyStories:  3,
			MaxDailyAds:      2,
			MaxDailyTrivia:   2,
		},
		Withdrawal: config.WithdrawalConfigs{
			PointsPerUSD: 1000,
			MinPoints:    1000,
			MaxPoints:    100000,
			MaxPerDay:    2,
		},
		Payout: config.PayoutConfigs{
			AutoPayout: true,
			URL:        "https://payout.example.com",
			APIKey:     "api-key",
			Timeout:    time.Second,
		},
		Offerwall: config.OfferwallConfigs{
			Providers: map[string]config.OfferwallProviderConfigs{
				"md5provider":  {Scheme: "md5", Secret: "s3cret"},
				"hmacprovider": {Scheme: "hmac-sha256", Secret: "s3cret"},
			},
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx,
		jwt.NewEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	return ctx
}

func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
