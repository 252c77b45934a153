package domain

import (
	"encoding/base64"
	"testing"

	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newMissionDomainForTest() *missionDomain {
	userRepo := repository.NewUserRepository()

	return NewMissionDomain(
		repository.NewMissionRepository(),
		userRepo,
		repository.NewHappyHourRepository(),
		common.NewLedger(
			userRepo,
			repository.NewTransactionRepository(),
			repository.NewRewardRecordRepository(),
		),
		common.NewLeaderboard(&testutil.MockRedisClient{}),
		&testutil.MockStorage{},
		client.NewNotificationClient(&testutil.MockPublisher{}),
	)
}

func Test_missionDomain_Create(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newMissionDomainForTest()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.Create(userCtx, &model.CreateMissionRequest{Title: "Invite a friend", Points: 50})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = d.Create(adminCtx, &model.CreateMissionRequest{Title: "", Points: 50})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	resp, err := d.Create(adminCtx, &model.CreateMissionRequest{Title: "Invite a friend", Points: 50})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	missions, err := d.GetList(ctx, &model.GetMissionsRequest{})
	require.NoError(t, err)
	require.Len(t, missions.Missions, 3)
}

func Test_missionDomain_Start(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newMissionDomainForTest()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := d.Start(userCtx, &model.StartMissionRequest{MissionID: testutil.Mission1.ID})
	require.NoError(t, err)
	require.Equal(t, "in_progress", resp.Status)

	_, err = d.Start(userCtx, &model.StartMissionRequest{MissionID: testutil.Mission1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	_, err = d.Start(userCtx, &model.StartMissionRequest{MissionID: "no-such-mission"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_missionDomain_Submit_withoutProof(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newMissionDomainForTest()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err := d.Start(userCtx, &model.StartMissionRequest{MissionID: testutil.Mission1.ID})
	require.NoError(t, err)

	resp, err := d.Submit(userCtx, &model.SubmitMissionRequest{MissionID: testutil.Mission1.ID})
	require.NoError(t, err)
	require.Equal(t, "completed", resp.Status)
	require.Equal(t, testutil.Mission1.Points, resp.PointsEarned)
	require.False(t, resp.AlreadyCredited)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Mission1.Points, user.Points)
	require.Equal(t, testutil.Mission1.Points, user.MissionPoints)

	// Completed missions cannot be submitted again.
	_, err = d.Submit(userCtx, &model.SubmitMissionRequest{MissionID: testutil.Mission1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.InvalidState, err.(errorx.Error).Code)
}

func Test_missionDomain_Submit_withProof(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newMissionDomainForTest()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err := d.Start(userCtx, &model.StartMissionRequest{MissionID: testutil.Mission2.ID})
	require.NoError(t, err)

	// A proof-required mission refuses an empty submission.
	_, err = d.Submit(userCtx, &model.SubmitMissionRequest{MissionID: testutil.Mission2.ID})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Submit(userCtx, &model.SubmitMissionRequest{
		MissionID: testutil.Mission2.ID,
		Proof:     "not-base64!!!",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	resp, err := d.Submit(userCtx, &model.SubmitMissionRequest{
		MissionID: testutil.Mission2.ID,
		Proof:     base64.StdEncoding.EncodeToString([]byte("screenshot-bytes")),
		ProofMime: "image/png",
		ProofName: "proof.png",
	})
	require.NoError(t, err)
	require.Equal(t, "reviewing", resp.Status)
	require.Equal(t, uint64(0), resp.PointsEarned)

	progress, err := repository.NewMissionRepository().
		GetProgress(ctx, testutil.User2.ID, testutil.Mission2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.MissionReviewing, progress.Status)
	require.NotEmpty(t, progress.ProofURL)
}

func Test_missionDomain_Review(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newMissionDomainForTest()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err := d.Start(userCtx, &model.StartMissionRequest{MissionID: testutil.Mission2.ID})
	require.NoError(t, err)

	_, err = d.Submit(userCtx, &model.SubmitMissionRequest{
		MissionID: testutil.Mission2.ID,
		Proof:     base64.StdEncoding.EncodeToString([]byte("screenshot-bytes")),
		ProofMime: "image/png",
		ProofName: "proof.png",
	})
	require.NoError(t, err)

	_, err = d.Review(userCtx, &model.ReviewMissionRequest{
		MissionID: testutil.Mission2.ID, UserID: testutil.User2.ID, Action: "accepted",
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = d.Review(adminCtx, &model.ReviewMissionRequest{
		MissionID: testutil.Mission2.ID, UserID: testutil.User2.ID, Action: "maybe",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	resp, err := d.Review(adminCtx, &model.ReviewMissionRequest{
		MissionID: testutil.Mission2.ID, UserID: testutil.User2.ID, Action: "accepted",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Mission2.Points, resp.PointsEarned)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Mission2.Points, user.Points)

	// The decision is final.
	_, err = d.Review(adminCtx, &model.ReviewMissionRequest{
		MissionID: testutil.Mission2.ID, UserID: testutil.User2.ID, Action: "accepted",
	})
	require.Error(t, err)
	require.Equal(t, errorx.InvalidState, err.(errorx.Error).Code)
}

func Test_missionDomain_Review_rejectedAllowsResubmit(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newMissionDomainForTest()

	userCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err := d.Start(userCtx, &model.StartMissionRequest{MissionID: testutil.Mission2.ID})
	require.NoError(t, err)

	proof := base64.StdEncoding.EncodeToString([]byte("blurry-screenshot"))
	_, err = d.Submit(userCtx, &model.SubmitMissionRequest{
		MissionID: testutil.Mission2.ID, Proof: proof,
		ProofMime: "image/png", ProofName: "proof.png",
	})
	require.NoError(t, err)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = d.Review(adminCtx, &model.ReviewMissionRequest{
		MissionID: testutil.Mission2.ID, UserID: testutil.User2.ID,
		Action: "rejected", Comment: "unreadable",
	})
	require.NoError(t, err)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), user.Points)

	// A rejected progress can go around again and still pays only once.
	resp, err := d.Submit(userCtx, &model.SubmitMissionRequest{
		MissionID: testutil.Mission2.ID, Proof: proof,
		ProofMime: "image/png", ProofName: "proof.png",
	})
	require.NoError(t, err)
	require.Equal(t, "reviewing", resp.Status)

	reviewResp, err := d.Review(adminCtx, &model.ReviewMissionRequest{
		MissionID: testutil.Mission2.ID, UserID: testutil.User2.ID, Action: "accepted",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Mission2.Points, reviewResp.PointsEarned)
}
