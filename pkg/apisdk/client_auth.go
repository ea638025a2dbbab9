package apisdk

import (
	"context"
	"net/http"
)

// Register creates a new user account. The account starts unverified and a
// verification token is delivered out of band.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.postJSON(ctx, "/v1/auth/register", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges user credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.postJSON(ctx, "/v1/auth/login", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminLogin exchanges administrator credentials for a token pair whose
// access token carries the administrator's roles.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.postJSON(ctx, "/v1/auth/admin/login", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates a refresh token, returning a fresh token pair. The
// presented refresh token is invalidated whether or not rotation succeeds.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.postJSON(ctx, "/v1/auth/refresh", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the authenticated principal's refresh token slot.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.postJSON(ctx, "/v1/auth/logout", accessToken, nil, nil, http.StatusNoContent)
}

// VerifyEmail consumes a one-time verification token and marks the account
// verified.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	var out MessageResponse
	req := VerifyEmailRequest{Token: token}
	if err := c.postJSON(ctx, "/v1/auth/verify-email", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword starts the password reset flow. The response is identical
// whether or not the email belongs to an account.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	req := ForgotPasswordRequest{Email: email}
	if err := c.postJSON(ctx, "/v1/auth/forgot-password", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword consumes a one-time reset token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*MessageResponse, error) {
	var out MessageResponse
	req := ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := c.postJSON(ctx, "/v1/auth/reset-password", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendVerification issues a new verification token for an unverified
// account. The response is identical whether or not the email belongs to an
// account.
func (c *Client) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	req := ResendVerificationRequest{Email: email}
	if err := c.postJSON(ctx, "/v1/auth/resend-verification", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Userinfo returns the identity described by the access token.
func (c *Client) Userinfo(ctx context.Context, accessToken string) (*UserinfoResponse, error) {
	var out UserinfoResponse
	if err := c.getJSON(ctx, "/v1/userinfo", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
