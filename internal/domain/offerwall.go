package domain

import (
	"context"

	"github.com/pointward/backend/internal/client"
	"github.com/pointward/backend/internal/common"
	"github.com/pointward/backend/internal/domain/postback"
	"github.com/pointward/backend/internal/domain/rewardcalc"
	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/internal/repository"
	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
)

type OfferwallDomain interface {
	Postback(context.Context, *model.OfferwallPostbackRequest) (*model.OfferwallPostbackResponse, error)
}

type offerwallDomain struct {
	userRepo    repository.UserRepository
	ledger      *common.Ledger
	leaderboard *common.Leaderboard
	notifier    client.NotificationClient
}

func NewOfferwallDomain(
	userRepo repository.UserRepository,
	ledger *common.Ledger,
	leaderboard *common.Leaderboard,
	notifier client.NotificationClient,
) *offerwallDomain {
	return &offerwallDomain{
		userRepo:    userRepo,
		ledger:      ledger,
		leaderboard: leaderboard,
		notifier:    notifier,
	}
}

// Postback handles a server-to-server completion callback from an offerwall
// provider. The provider already priced the offer, so only the level
// multiplier applies on top of the reported points.
func (d *offerwallDomain) Postback(
	ctx context.Context, req *model.OfferwallPostbackRequest,
) (*model.OfferwallPostbackResponse, error) {
	providerCfg, ok := xcontext.Configs(ctx).Offerwall.Providers[req.Provider]
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Unknown provider %s", req.Provider)
	}

	if req.UserID == "" || req.OfferID == "" || req.Points == 0 {
		return nil, errorx.New(errorx.BadRequest, "Missing postback parameters")
	}

	verifier, err := postback.NewVerifier(providerCfg.Scheme, providerCfg.Secret)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create postback verifier: %v", err)
		return nil, errorx.Unknown
	}

	params := postback.Params{
		UserID:  req.UserID,
		OfferID: req.OfferID,
		Points:  req.Points,
		Raw:     req.Params,
	}

	if !verifier.Verify(params, req.Signature) {
		xcontext.Logger(ctx).Warnf(
			"Invalid postback signature from %s for user %s", req.Provider, req.UserID)
		return nil, errorx.New(errorx.SignatureInvalid, "Invalid signature")
	}

	user, err := resolveUser(ctx, d.userRepo, req.UserID)
	if err != nil {
		return nil, err
	}

	modifiers := rewardcalc.ModifierSet{
		Level: rewardcalc.LevelTierOf(user.LifetimePoints).Multiplier,
	}
	points := rewardcalc.Calculate(req.Points, modifiers)
	breakdown := rewardcalc.Breakdown(req.Points, modifiers)

	actionID := "offer_" + req.OfferID

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Providers retry postbacks aggressively; a duplicate still answers "1"
	// so the retry loop stops.
	metadata := make(entity.Map, len(req.Params))
	for key, value := range req.Params {
		metadata[key] = value
	}

	_, claimed, err := d.ledger.ClaimAction(
		ctx, req.UserID, actionID, entity.SourceOfferwall, points, breakdown, metadata)
	if err != nil {
		return nil, err
	}

	if !claimed {
		return &model.OfferwallPostbackResponse{Result: "1"}, nil
	}

	err = d.ledger.Credit(ctx, req.UserID, points, entity.SourceOfferwall, actionID, breakdown)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.leaderboard.IncreasePoints(ctx, req.UserID, points)
	d.notifier.Notify(ctx, &client.Event{
		Type:   client.EventPointsCredited,
		UserID: req.UserID,
		Metadata: map[string]any{
			"source": string(entity.SourceOfferwall),
			"points": points,
		},
	})

	return &model.OfferwallPostbackResponse{Result: "1"}, nil
}
