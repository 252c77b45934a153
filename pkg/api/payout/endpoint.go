// Package payout talks to the external fulfillment gateway that converts an
// approved withdrawal into airtime or a gift card.
package payout

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/pointward/backend/config"
	"github.com/pointward/backend/pkg/api"
	"github.com/pointward/backend/pkg/xcontext"
)

type PayoutRequest struct {
	ReferenceID string
	Method      string
	Destination string
	AmountUSD   float64
}

type PayoutResponse struct {
	Success         bool    `mapstructure:"success"`
	TransactionID   string  `mapstructure:"transaction_id"`
	DeliveredAmount float64 `mapstructure:"delivered_amount"`
	Message         string  `mapstructure:"message"`
}

type IEndpoint interface {
	SendPayout(ctx context.Context, req *PayoutRequest) (*PayoutResponse, error)
}

type Endpoint struct {
	apiGenerator api.Generator
	apiKey       string
}

func New(cfg config.PayoutConfigs) *Endpoint {
	return &Endpoint{
		apiGenerator: api.NewGenerator(cfg.URL),
		apiKey:       cfg.APIKey,
	}
}

func (e *Endpoint) SendPayout(ctx context.Context, req *PayoutRequest) (*PayoutResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, xcontext.Configs(ctx).Payout.Timeout)
	defer cancel()

	resp, err := e.apiGenerator.New("/v1/payouts").
		Header("Authorization", "Bearer "+e.apiKey).
		Body(api.JSON{
			"reference_id": req.ReferenceID,
			"method":       req.Method,
			"destination":  req.Destination,
			"amount_usd":   req.AmountUSD,
		}).
		POST(ctx)
	if err != nil {
		return nil, err
	}

	if resp.Code != 200 {
		xcontext.Logger(ctx).Errorf("Invalid payout status code: %v", resp.Body)
		return nil, fmt.Errorf("invalid status code %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return nil, errors.New("invalid body format")
	}

	result := PayoutResponse{}
	if err := mapstructure.Decode(map[string]any(body), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
