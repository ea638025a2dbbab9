package domain

// TokenPair is what the login and refresh endpoints return: a short-lived
// signed access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
