package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/domain/rewardcalc"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/storage"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MissionDomain interface {
	Create(context.Context, *model.CreateMissionRequest) (*model.CreateMissionResponse, error)
	GetList(context.Context, *model.GetMissionsRequest) (*model.GetMissionsResponse, error)
	Start(context.Context, *model.StartMissionRequest) (*model.StartMissionResponse, error)
	Submit(context.Context, *model.SubmitMissionRequest) (*model.SubmitMissionResponse, error)
	Review(context.Context, *model.ReviewMissionRequest) (*model.ReviewMissionResponse, error)
}

type missionDomain struct {
	missionRepo   repository.MissionRepository
	userRepo      repository.UserRepository
	happyHourRepo repository.HappyHourRepository
	ledger        *common.Ledger
	leaderboard   *common.Leaderboard
	roleVerifier  *common.GlobalRoleVerifier
	storage       storage.Storage
	notifier      client.NotificationClient
}

func NewMissionDomain(
	missionRepo repository.MissionRepository,
	userRepo repository.UserRepository,
	happyHourRepo repository.HappyHourRepository,
	ledger *common.Ledger,
	leaderboard *common.Leaderboard,
	storage storage.Storage,
	notifier client.NotificationClient,
) *missionDomain {
	return &missionDomain{
		missionRepo:   missionRepo,
		userRepo:      userRepo,
		happyHourRepo: happyHourRepo,
		ledger:        ledger,
		leaderboard:   leaderboard,
		roleVerifier:  common.NewGlobalRoleVerifier(userRepo),
		storage:       storage,
		notifier:      notifier,
	}
}

func (d *missionDomain) Create(
	ctx context.Context, req *model.CreateMissionRequest,
) (*model.CreateMissionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	if req.Points == 0 {
		return nil, errorx.New(errorx.BadRequest, "Points must be positive")
	}

	mission := &entity.Mission{
		Base:          entity.Base{ID: uuid.NewString()},
		Title:         req.Title,
		Description:   req.Description,
		Points:        req.Points,
		RequiresProof: req.RequiresProof,
		Status:        entity.MissionActive,
		CreatedBy:     xcontext.RequestUserID(ctx),
	}

	if err := d.missionRepo.Create(ctx, mission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create mission: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateMissionResponse{ID: mission.ID}, nil
}

func (d *missionDomain) GetList(
	ctx context.Context, req *model.GetMissionsRequest,
) (*model.GetMissionsResponse, error) {
	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	missions, err := d.missionRepo.GetList(ctx, entity.MissionActive, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mission list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Mission{}
	for i := range missions {
		result = append(result, model.ConvertMission(&missions[i]))
	}

	return &model.GetMissionsResponse{Missions: result}, nil
}

func (d *missionDomain) Start(
	ctx context.Context, req *model.StartMissionRequest,
) (*model.StartMissionResponse, error) {
	mission, err := d.getActiveMission(ctx, req.MissionID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := resolveUser(ctx, d.userRepo, userID); err != nil {
		return nil, err
	}

	inserted, err := d.missionRepo.CreateProgress(ctx, &entity.MissionProgress{
		UserID:    userID,
		MissionID: mission.ID,
		Status:    entity.MissionInProgress,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create mission progress: %v", err)
		return nil, errorx.Unknown
	}

	if !inserted {
		return nil, errorx.New(errorx.AlreadyExists, "Mission was already started")
	}

	return &model.StartMissionResponse{Status: string(entity.MissionInProgress)}, nil
}

// Submit completes a proof-less mission immediately; a proof-required mission
// uploads the screenshot and waits in reviewing for an admin decision.
func (d *missionDomain) Submit(
	ctx context.Context, req *model.SubmitMissionRequest,
) (*model.SubmitMissionResponse, error) {
	mission, err := d.getActiveMission(ctx, req.MissionID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	progress, err := d.missionRepo.GetProgress(ctx, userID, mission.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Mission was not started")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission progress: %v", err)
		return nil, errorx.Unknown
	}

	switch progress.Status {
	case entity.MissionInProgress, entity.MissionRejected:
	default:
		return nil, errorx.New(errorx.InvalidState, "Mission is already %s", progress.Status)
	}

	if !mission.RequiresProof {
		points, already, err := d.creditMission(ctx, userID, mission, progress.Status)
		if err != nil {
			return nil, err
		}

		return &model.SubmitMissionResponse{
			Status:          string(entity.MissionCompleted),
			PointsEarned:    points,
			AlreadyCredited: already,
		}, nil
	}

	if req.Proof == "" {
		return nil, errorx.New(errorx.BadRequest, "This mission requires a proof image")
	}

	data, err := base64.StdEncoding.DecodeString(req.Proof)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid proof encoding")
	}

	if maxSize := xcontext.Configs(ctx).File.MaxSize; len(data) > maxSize {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of file size (%d)", maxSize)
	}

	uploaded, err := d.storage.Upload(ctx, &storage.UploadObject{
		Bucket:   xcontext.Configs(ctx).Storage.Bucket,
		Prefix:   "mission-proofs",
		FileName: fmt.Sprintf("%s_%s_%s", userID, mission.ID, req.ProofName),
		Mime:     req.ProofMime,
		Data:     data,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload mission proof: %v", err)
		return nil, errorx.Unknown
	}

	err = d.missionRepo.UpdateProgressStatus(ctx, userID, mission.ID, progress.Status,
		&entity.MissionProgress{
			Status:   entity.MissionReviewing,
			ProofURL: uploaded.Url,
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "Mission is no longer submittable")
		}

		xcontext.Logger(ctx).Errorf("Cannot update mission progress: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SubmitMissionResponse{Status: string(entity.MissionReviewing)}, nil
}

// Review decides a proof submission. Approval goes through the same
// exactly-once credit path as everything else, so re-reviewing a mission can
// never pay twice.
func (d *missionDomain) Review(
	ctx context.Context, req *model.ReviewMissionRequest,
) (*model.ReviewMissionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Action != "accepted" && req.Action != "rejected" {
		return nil, errorx.New(errorx.BadRequest, "Invalid action %s", req.Action)
	}

	mission, err := d.missionRepo.GetByID(ctx, req.MissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	progress, err := d.missionRepo.GetProgress(ctx, req.UserID, mission.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission progress: %v", err)
		return nil, errorx.Unknown
	}

	if progress.Status != entity.MissionReviewing {
		return nil, errorx.New(errorx.InvalidState, "Mission is not in review")
	}

	if req.Action == "rejected" {
		err = d.missionRepo.UpdateProgressStatus(ctx, req.UserID, mission.ID,
			entity.MissionReviewing, &entity.MissionProgress{
				Status:     entity.MissionRejected,
				ReviewerID: xcontext.RequestUserID(ctx),
				ReviewedAt: time.Now(),
				Comment:    req.Comment,
			})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.InvalidState, "Mission is no longer in review")
			}

			xcontext.Logger(ctx).Errorf("Cannot update mission progress: %v", err)
			return nil, errorx.Unknown
		}

		d.notifier.Notify(ctx, &client.Event{
			Type:   client.EventMissionReviewed,
			UserID: req.UserID,
			Metadata: map[string]any{
				"mission_id": mission.ID,
				"action":     req.Action,
			},
		})

		return &model.ReviewMissionResponse{}, nil
	}

	points, _, err := d.creditMission(ctx, req.UserID, mission, entity.MissionReviewing)
	if err != nil {
		return nil, err
	}

	d.notifier.Notify(ctx, &client.Event{
		Type:   client.EventMissionReviewed,
		UserID: req.UserID,
		Metadata: map[string]any{
			"mission_id": mission.ID,
			"action":     req.Action,
			"points":     points,
		},
	})

	return &model.ReviewMissionResponse{PointsEarned: points}, nil
}

// creditMission flips the progress to completed and credits the mission
// points with the user's current modifiers, all in one DB transaction keyed
// by the (user, mission) action id.
func (d *missionDomain) creditMission(
	ctx context.Context,
	userID string,
	mission *entity.Mission,
	from entity.MissionProgressStatus,
) (points uint64, alreadyCredited bool, err error) {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return 0, false, errorx.Unknown
	}

	modifiers := rewardcalc.ModifierSet{
		Streak:    rewardcalc.StreakMultiplier(user.DailyStreak),
		HappyHour: d.activeHappyHourMultiplier(ctx),
		Level:     rewardcalc.LevelTierOf(user.LifetimePoints).Multiplier,
	}
	points = rewardcalc.Calculate(mission.Points, modifiers)
	breakdown := rewardcalc.Breakdown(mission.Points, modifiers)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.missionRepo.UpdateProgressStatus(ctx, userID, mission.ID, from,
		&entity.MissionProgress{
			Status:     entity.MissionCompleted,
			ReviewerID: xcontext.RequestUserID(ctx),
			ReviewedAt: time.Now(),
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, errorx.New(errorx.InvalidState, "Mission is no longer completable")
		}

		xcontext.Logger(ctx).Errorf("Cannot update mission progress: %v", err)
		return 0, false, errorx.Unknown
	}

	record, claimed, err := d.ledger.ClaimAction(ctx, userID, "mission_"+mission.ID,
		entity.SourceMission, points, breakdown, nil)
	if err != nil {
		return 0, false, err
	}

	if !claimed {
		xcontext.WithCommitDBTransaction(ctx)
		return record.PointsEarned, true, nil
	}

	err = d.ledger.Credit(ctx, userID, points, entity.SourceMission, mission.ID, breakdown)
	if err != nil {
		return 0, false, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.leaderboard.IncreasePoints(ctx, userID, points)

	return points, false, nil
}

func (d *missionDomain) getActiveMission(ctx context.Context, id string) (*entity.Mission, error) {
	mission, err := d.missionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	if mission.Status != entity.MissionActive {
		return nil, errorx.New(errorx.Unavailable, "Only allow to submit active missions")
	}

	return mission, nil
}

func (d *missionDomain) activeHappyHourMultiplier(ctx context.Context) float64 {
	windows, err := d.happyHourRepo.GetActive(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get active happy hours: %v", err)
		return 1.0
	}

	if len(windows) == 0 {
		return 1.0
	}

	return windows[0].Multiplier
}
