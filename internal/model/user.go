package model

type TodayProgress struct {
	StoriesRead     int `json:"stories_read"`
	AdsWatched      int `json:"ads_watched"`
	TriviaCompleted int `json:"trivia_completed"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Points         uint64        `json:"points"`
	LifetimePoints uint64        `json:"lifetime_points"`
	LevelTier      string        `json:"level_tier"`
	DailyStreak    int           `json:"daily_streak"`
	ReferralCode   string        `json:"referral_code"`
	Today          TodayProgress `json:"today"`
}

type GetLeaderBoardRequest struct {
	Period string `json:"period"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type UserStatistic struct {
	UserID      string `json:"user_id"`
	Value       int    `json:"value"`
	CurrentRank int    `json:"current_rank"`
}

type GetLeaderBoardResponse struct {
	LeaderBoard []UserStatistic `json:"leaderboard"`
}

type GetMyRankRequest struct {
	Period string `json:"period"`
}

type GetMyRankResponse struct {
	// CurrentRank is 1-based; zero means the user has not earned any points
	// in this period yet.
	CurrentRank int `json:"current_rank"`
}
