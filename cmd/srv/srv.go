package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pointward/backend/config"
	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/domain"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/api/payout"
	"github.com/pointward/backend/pkg/kafka"
	"github.com/pointward/backend/pkg/logger"
	"github.com/pointward/backend/pkg/pubsub"
	"github.com/pointward/backend/pkg/router"
	"github.com/pointward/backend/pkg/storage"
	"github.com/pointward/backend/pkg/xcontext"
	"github.com/pointward/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo          repository.UserRepository
	transactionRepo   repository.TransactionRepository
	rewardRecordRepo  repository.RewardRecordRepository
	withdrawalRepo    repository.WithdrawalRepository
	missionRepo       repository.MissionRepository
	dailyProgressRepo repository.DailyProgressRepository
	happyHourRepo     repository.HappyHourRepository

	ledger      *common.Ledger
	leaderboard *common.Leaderboard

	storage        storage.Storage
	publisher      pubsub.Publisher
	notifier       client.NotificationClient
	redisClient    xredis.Client
	payoutEndpoint payout.IEndpoint

	rewardDomain     domain.RewardDomain
	withdrawalDomain domain.WithdrawalDomain
	missionDomain    domain.MissionDomain
	offerwallDomain  domain.OfferwallDomain
	referralDomain   domain.ReferralDomain
	userDomain       domain.UserDomain
	statisticDomain  domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}

	return fallback
}

func getEnvUint64(key string, fallback uint64) uint64 {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseUint(value, 10, 64); err == nil {
			return n
		}
	}

	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}

	return fallback
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "dev"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "pointward"),
			Password: getEnv("MYSQL_PASSWORD", "pointward"),
			Database: getEnv("MYSQL_DATABASE", "pointward"),
		},
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			Cert:         getEnv("SERVER_CERT", "cert"),
			Key:          getEnv("SERVER_KEY", "key"),
			DefaultLimit: getEnvInt("DEFAULT_LIMIT", 10),
			MaxLimit:     getEnvInt("MAX_LIMIT", 50),
			AllowCORS:    strings.Split(getEnv("ALLOW_CORS", "http://localhost:3000"), ","),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Hour * 24,
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr:              getEnv("KAFKA_ADDRESS", "localhost:9092"),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "notifications"),
		},
		Storage: storage.S3Configs{
			Region:         getEnv("STORAGE_REGION", "auto"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", "http://localhost:9000"),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", "access_key"),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", "secret_key"),
			SSLDisabled:    getEnv("STORAGE_SSL_DISABLE", "true") == "true",
			Bucket:         getEnv("STORAGE_BUCKET", "pointward"),
		},
		File: config.FileConfigs{
			MaxSize: getEnvInt("MAX_FILE_SIZE", 2*1024*1024),
		},
		Reward: config.RewardConfigs{
			NewsBasePoints:   getEnvUint64("NEWS_BASE_POINTS", 10),
			AdBasePoints:     getEnvUint64("AD_BASE_POINTS", 20),
			TriviaBasePoints: getEnvUint64("TRIVIA_BASE_POINTS", 30),
			ReferralPoints:   getEnvUint64("REFERRAL_POINTS", 500),
			MaxDailyStories:  getEnvInt("MAX_DAILY_STORIES", 20),
			MaxDailyAds:      getEnvInt("MAX_DAILY_ADS", 10),
			MaxDailyTrivia:   getEnvInt("MAX_DAILY_TRIVIA", 5),
		},
		Withdrawal: config.WithdrawalConfigs{
			PointsPerUSD: getEnvFloat("POINTS_PER_USD", 1000),
			MinPoints:    getEnvUint64("WITHDRAWAL_MIN_POINTS", 5000),
			MaxPoints:    getEnvUint64("WITHDRAWAL_MAX_POINTS", 100000),
			MaxPerDay:    getEnvInt("WITHDRAWAL_MAX_PER_DAY", 3),
		},
		Payout: config.PayoutConfigs{
			AutoPayout: getEnv("PAYOUT_AUTO", "true") == "true",
			URL:        getEnv("PAYOUT_URL", "https://payout.example.com"),
			APIKey:     getEnv("PAYOUT_API_KEY", "api_key"),
			Timeout:    time.Duration(getEnvInt("PAYOUT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Offerwall: config.OfferwallConfigs{
			Providers: map[string]config.OfferwallProviderConfigs{
				"adjoy": {
					Scheme: getEnv("ADJOY_SIGNATURE_SCHEME", "hmac-sha256"),
					Secret: getEnv("ADJOY_SECRET", "secret"),
				},
				"offertoro": {
					Scheme: getEnv("OFFERTORO_SIGNATURE_SCHEME", "md5"),
					Secret: getEnv("OFFERTORO_SECRET", "secret"),
				},
			},
		},
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "dev" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.New(mysql.Config{
		DSN:                      s.configs.Database.ConnectionString(),
		DefaultStringSize:        256,
		DisableDatetimePrecision: true,
		DontSupportRenameIndex:   true,
		DontSupportRenameColumn:  true,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadRedis(ctx context.Context) {
	redisClient, err := xredis.NewClient(xcontext.WithConfigs(ctx, *s.configs))
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	publisher, err := kafka.NewPublisher("pointward-api", []string{s.configs.Kafka.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadEndpoint() {
	s.payoutEndpoint = payout.New(s.configs.Payout)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.transactionRepo = repository.NewTransactionRepository()
	s.rewardRecordRepo = repository.NewRewardRecordRepository()
	s.withdrawalRepo = repository.NewWithdrawalRepository()
	s.missionRepo = repository.NewMissionRepository()
	s.dailyProgressRepo = repository.NewDailyProgressRepository()
	s.happyHourRepo = repository.NewHappyHourRepository()
}

func (s *srv) loadDomains() {
	s.ledger = common.NewLedger(s.userRepo, s.transactionRepo, s.rewardRecordRepo)
	s.leaderboard = common.NewLeaderboard(s.redisClient)
	s.notifier = client.NewNotificationClient(s.publisher)

	s.rewardDomain = domain.NewRewardDomain(
		s.userRepo, s.dailyProgressRepo, s.happyHourRepo, s.ledger, s.leaderboard, s.notifier)
	s.withdrawalDomain = domain.NewWithdrawalDomain(
		s.withdrawalRepo, s.userRepo, s.ledger, s.payoutEndpoint, s.notifier)
	s.missionDomain = domain.NewMissionDomain(
		s.missionRepo, s.userRepo, s.happyHourRepo, s.ledger, s.leaderboard, s.storage, s.notifier)
	s.offerwallDomain = domain.NewOfferwallDomain(s.userRepo, s.ledger, s.leaderboard, s.notifier)
	s.referralDomain = domain.NewReferralDomain(s.userRepo, s.ledger, s.leaderboard, s.notifier)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.transactionRepo, s.dailyProgressRepo)
	s.statisticDomain = domain.NewStatisticDomain(s.leaderboard)
}

func (s *srv) migrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := xcontext.WithDB(context.Background(), s.db)
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)

	return entity.MigrateTable(xcontext.DB(ctx))
}
