package testutil

import (
	"context"

	"github.com/pointward/backend/pkg/api/payout"
)

type MockPayoutEndpoint struct {
	SendPayoutFunc func(context.Context, *payout.PayoutRequest) (*payout.PayoutResponse, error)

	Requests []*payout.PayoutRequest
}

func (m *MockPayoutEndpoint) SendPayout(
	ctx context.Context, req *payout.PayoutRequest,
) (*payout.PayoutResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.SendPayoutFunc != nil {
		return m.SendPayoutFunc(ctx, req)
	}

	return &payout.PayoutResponse{
		Success:         true,
		TransactionID:   "gw-tx-1",
		DeliveredAmount: req.AmountUSD,
	}, nil
}
