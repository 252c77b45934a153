package model

import (
	"io"
	"net/http"
)

// OfferwallPostbackRequest mirrors the query parameters offerwall providers
// send on completion callbacks. Params holds the raw query set the signature
// was computed over.
type OfferwallPostbackRequest struct {
	Provider  string `json:"provider" mapstructure:"provider"`
	UserID    string `json:"user_id" mapstructure:"user_id"`
	OfferID   string `json:"offer_id" mapstructure:"offer_id"`
	Points    uint64 `json:"points" mapstructure:"points"`
	Signature string `json:"signature" mapstructure:"signature"`

	Params map[string]string `json:"-" mapstructure:"-"`
}

type OfferwallPostbackResponse struct {
	Result string `json:"result"`
}

// Render writes the bare "1"/"0" body offerwall providers expect instead of
// the JSON envelope.
func (r *OfferwallPostbackResponse) Render(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/plain")
	_, err := io.WriteString(w, r.Result)
	return err
}

type CreateHappyHourRequest struct {
	Multiplier float64 `json:"multiplier"`
	DayOfWeek  int     `json:"day_of_week"`
	StartHour  int     `json:"start_hour"`
	EndHour    int     `json:"end_hour"`
}

type CreateHappyHourResponse struct {
	ID string `json:"id"`
}
