package dto

// TokenPairResponse represents the response for a successful login or refresh.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
