package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/pointward/backend/internal/middleware"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/pkg/router"
	"github.com/pointward/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()
	server.loadStorage()
	server.loadRedis(ct.Context)
	server.loadPublisher()
	server.loadEndpoint()
	server.loadRepos()
	server.loadDomains()
	server.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: middleware.AllowCORS(s.configs.ApiServer, s.router.Handler()),
	}

	log.Printf("Starting server on port: %s\n", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
	log.Printf("server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Public API
	publicRouter := s.router.Branch()
	{
		router.GET(publicRouter, "/getMissions", s.missionDomain.GetList)
		router.GET(publicRouter, "/getLeaderBoard", s.statisticDomain.GetLeaderBoard)
		router.GET(publicRouter, "/offerwall/postback", s.offerwallPostback)
	}

	// These following APIs need authentication with Access Token.
	authRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	authRouter.Before(authVerifier.Middleware())
	{
		// User API
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/getMyTransactions", s.userDomain.GetMyTransactions)
		router.GET(authRouter, "/getMyRank", s.statisticDomain.GetMyRank)
		router.POST(authRouter, "/bindReferral", s.referralDomain.Bind)

		// Reward API
		router.POST(authRouter, "/submitAction", s.rewardDomain.Submit)

		// Mission API
		router.POST(authRouter, "/startMission", s.missionDomain.Start)
		router.POST(authRouter, "/submitMission", s.missionDomain.Submit)

		// Withdrawal API
		router.POST(authRouter, "/createWithdrawal", s.withdrawalDomain.Create)
		router.GET(authRouter, "/getMyWithdrawals", s.withdrawalDomain.GetMyList)

		// Admin API. The domains verify the global role themselves.
		router.POST(authRouter, "/createMission", s.missionDomain.Create)
		router.POST(authRouter, "/reviewMission", s.missionDomain.Review)
		router.POST(authRouter, "/createHappyHour", s.rewardDomain.CreateHappyHour)
		router.POST(authRouter, "/approveWithdrawal", s.withdrawalDomain.Approve)
		router.POST(authRouter, "/rejectWithdrawal", s.withdrawalDomain.Reject)
		router.GET(authRouter, "/getPendingWithdrawals", s.withdrawalDomain.GetPendingList)
	}
}

// offerwallPostback adapts the provider callback to the domain: it captures
// the raw query set for signature verification and answers in the provider
// convention, "1" to stop retries and "0" otherwise.
func (s *srv) offerwallPostback(
	ctx context.Context, req *model.OfferwallPostbackRequest,
) (*model.OfferwallPostbackResponse, error) {
	query := xcontext.HTTPRequest(ctx).URL.Query()
	req.Params = make(map[string]string, len(query))
	for key := range query {
		req.Params[key] = query.Get(key)
	}

	resp, err := s.offerwallDomain.Postback(ctx, req)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Postback was refused: %v", err)
		return &model.OfferwallPostbackResponse{Result: "0"}, nil
	}

	return resp, nil
}
