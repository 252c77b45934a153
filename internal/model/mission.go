package model

type Mission struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Points        uint64 `json:"points"`
	RequiresProof bool   `json:"requires_proof"`
	Status        string `json:"status"`
}

type CreateMissionRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Points        uint64 `json:"points"`
	RequiresProof bool   `json:"requires_proof"`
}

type CreateMissionResponse struct {
	ID string `json:"id"`
}

type GetMissionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMissionsResponse struct {
	Missions []Mission `json:"missions"`
}

type StartMissionRequest struct {
	MissionID string `json:"mission_id"`
}

type StartMissionResponse struct {
	Status string `json:"status"`
}

type SubmitMissionRequest struct {
	MissionID string `json:"mission_id"`

	// Proof is the base64 image content for proof-required missions.
	Proof     string `json:"proof"`
	ProofMime string `json:"proof_mime"`
	ProofName string `json:"proof_name"`
}

type SubmitMissionResponse struct {
	Status          string `json:"status"`
	PointsEarned    uint64 `json:"points_earned"`
	AlreadyCredited bool   `json:"already_credited"`
}

type ReviewMissionRequest struct {
	MissionID string `json:"mission_id"`
	UserID    string `json:"user_id"`

	// Action is either accepted or rejected.
	Action  string `json:"action"`
	Comment string `json:"comment"`
}

type ReviewMissionResponse struct {
	PointsEarned uint64 `json:"points_earned"`
}
