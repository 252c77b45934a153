package domain

import (
	"context"
	"errors"
	"time"

	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/pkg/dateutil"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

type StatisticDomain interface {
	GetLeaderBoard(context.Context, *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)
	GetMyRank(context.Context, *model.GetMyRankRequest) (*model.GetMyRankResponse, error)
}

type statisticDomain struct {
	leaderboard *common.Leaderboard
}

func NewStatisticDomain(leaderboard *common.Leaderboard) *statisticDomain {
	return &statisticDomain{leaderboard: leaderboard}
}

func periodOf(name string) (string, error) {
	switch name {
	case "week":
		return dateutil.WeekPeriod(time.Now()), nil
	case "month":
		return dateutil.MonthPeriod(time.Now()), nil
	default:
		return "", errorx.New(errorx.BadRequest, "Period must be week or month")
	}
}

func (d *statisticDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	period, err := periodOf(req.Period)
	if err != nil {
		return nil, err
	}

	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	exist, err := d.leaderboard.Exist(ctx, period)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check leaderboard existence: %v", err)
		return nil, errorx.Unknown
	}

	// A cold leaderboard starts empty and fills up as credits come in.
	if !exist {
		return &model.GetLeaderBoardResponse{LeaderBoard: []model.UserStatistic{}}, nil
	}

	entries, err := d.leaderboard.GetRange(ctx, period, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard range: %v", err)
		return nil, errorx.Unknown
	}

	data := []model.UserStatistic{}
	for i, z := range entries {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}

		data = append(data, model.UserStatistic{
			UserID:      userID,
			Value:       int(z.Score),
			CurrentRank: req.Offset + i + 1,
		})
	}

	return &model.GetLeaderBoardResponse{LeaderBoard: data}, nil
}

// GetMyRank looks up the requester's position in the period ranking. A user
// with no credits this period is simply unranked, not an error.
func (d *statisticDomain) GetMyRank(
	ctx context.Context, req *model.GetMyRankRequest,
) (*model.GetMyRankResponse, error) {
	period, err := periodOf(req.Period)
	if err != nil {
		return nil, err
	}

	rank, err := d.leaderboard.GetRank(ctx, period, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &model.GetMyRankResponse{CurrentRank: 0}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get leaderboard rank: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyRankResponse{CurrentRank: int(rank) + 1}, nil
}
