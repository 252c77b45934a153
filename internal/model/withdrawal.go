package model

type Withdrawal struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Amount          uint64  `json:"amount"`
	AmountUSD       float64 `json:"amount_usd"`
	Method          string  `json:"method"`
	Destination     string  `json:"destination"`
	Status          string  `json:"status"`
	ProcessedAt     string  `json:"processed_at,omitempty"`
	ProcessedBy     string  `json:"processed_by,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type CreateWithdrawalRequest struct {
	Amount      uint64 `json:"amount"`
	Method      string `json:"method"`
	Destination string `json:"destination"`
}

type CreateWithdrawalResponse struct {
	ID        string  `json:"id"`
	AmountUSD float64 `json:"amount_usd"`
	Status    string  `json:"status"`
}

type ApproveWithdrawalRequest struct {
	ID string `json:"id"`
}

type ApproveWithdrawalResponse struct {
	GatewayTxID     string  `json:"gateway_tx_id,omitempty"`
	DeliveredAmount float64 `json:"delivered_amount,omitempty"`
}

type RejectWithdrawalRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type RejectWithdrawalResponse struct{}

type GetMyWithdrawalsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyWithdrawalsResponse struct {
	Withdrawals []Withdrawal `json:"withdrawals"`
}

type GetPendingWithdrawalsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPendingWithdrawalsResponse struct {
	Withdrawals []Withdrawal `json:"withdrawals"`
}
