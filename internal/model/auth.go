package model

// AccessToken is the object embedded in the JWT bearer token.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
