package common

import (
	"context"
	"fmt"
	"time"

	"github.com/pointward/backend/pkg/dateutil"
	"github.com/pointward/backend/pkg/xcontext"
	"github.com/pointward/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

func leaderboardKey(period string) string {
	return fmt.Sprintf("leaderboard:points:%s", period)
}

// Leaderboard keeps the week and month points rankings in redis sorted sets.
// Updates are best-effort: the ledger is the source of truth and a redis
// failure must never fail a credit.
type Leaderboard struct {
	redisClient xredis.Client
}

func NewLeaderboard(redisClient xredis.Client) *Leaderboard {
	return &Leaderboard{redisClient: redisClient}
}

func (l *Leaderboard) IncreasePoints(ctx context.Context, userID string, amount uint64) {
	now := time.Now()
	for _, period := range []string{dateutil.WeekPeriod(now), dateutil.MonthPeriod(now)} {
		err := l.redisClient.ZIncrBy(ctx, leaderboardKey(period), int64(amount), userID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update leaderboard %s: %v", period, err)
		}
	}
}

func (l *Leaderboard) GetRange(
	ctx context.Context, period string, offset, limit int,
) ([]redis.Z, error) {
	return l.redisClient.ZRevRangeWithScores(ctx, leaderboardKey(period), offset, limit)
}

func (l *Leaderboard) GetRank(ctx context.Context, period string, userID string) (uint64, error) {
	return l.redisClient.ZRevRank(ctx, leaderboardKey(period), userID)
}

func (l *Leaderboard) Exist(ctx context.Context, period string) (bool, error) {
	return l.redisClient.Exist(ctx, leaderboardKey(period))
}
