package model

type SubmitActionRequest struct {
	// Source is one of news_reading, ad_watch, trivia.
	Source   string `json:"source"`
	ActionID string `json:"action_id"`

	// Metadata carries per-source extras, e.g. {"correct": false} for trivia.
	Metadata map[string]any `json:"metadata"`
}

type SubmitActionResponse struct {
	Awarded         bool   `json:"awarded"`
	PointsEarned    uint64 `json:"points_earned"`
	AlreadyCredited bool   `json:"already_credited"`
	Breakdown       string `json:"breakdown"`
}

type Transaction struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Amount    uint64 `json:"amount"`
	Source    string `json:"source"`
	SourceID  string `json:"source_id"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type GetMyTransactionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type BindReferralRequest struct {
	Code string `json:"code"`
}

type BindReferralResponse struct{}
