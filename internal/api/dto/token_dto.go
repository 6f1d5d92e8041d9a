package dto

import "time"

// TokenObtainRequest payload for the credential login endpoint.
type TokenObtainRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenRefreshRequest payload for the refresh endpoint.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPairResponse carries a freshly issued access/refresh pair.
type TokenPairResponse struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// AccessTokenResponse carries a single new access token.
type AccessTokenResponse struct {
	Access    string    `json:"access"`
	ExpiresAt time.Time `json:"expires_at"`
}
