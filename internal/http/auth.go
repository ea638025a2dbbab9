package http

import (
	"net/http"

	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/httpx"
)

// AuthHandler serves the account lifecycle endpoints under /v1/auth.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister godoc
//
//	@Summary		Register a new account
//	@Description	Creates an unverified account and delivers a verification token out of band.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.RegisterRequest	true	"Registration payload"
//	@Success		201		{object}	apisdk.MessageResponse
//	@Failure		400		{object}	apisdk.ErrorResponse
//	@Failure		409		{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req apisdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.Register(r.Context(), req.Email, req.Name, req.Password, req.CompanyID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, apisdk.MessageResponse{
		Message: "account created, check your email for a verification token",
	})
}

// HandleLogin godoc
//
//	@Summary		User login
//	@Description	Exchanges credentials for an access/refresh token pair. The new refresh token replaces any previously issued one.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	apisdk.TokenResponse
//	@Failure		401		{object}	apisdk.ErrorResponse
//	@Failure		403		{object}	apisdk.ErrorResponse	"email not verified"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req apisdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, apisdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleAdminLogin godoc
//
//	@Summary		Administrator login
//	@Description	Like user login, but only accounts holding an administrator profile succeed; the access token carries role names.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	apisdk.TokenResponse
//	@Failure		401		{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/admin/login [post].
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req apisdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, apisdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleRefresh godoc
//
//	@Summary		Rotate a refresh token
//	@Description	Exchanges a valid refresh token for a fresh pair. The presented token is single-use.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	apisdk.TokenResponse
//	@Failure		401		{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req apisdk.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, apisdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Invalidates the caller's refresh token. The access token stays valid until it expires.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		apisdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleVerifyEmail godoc
//
//	@Summary		Verify an email address
//	@Description	Consumes a one-time verification token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.VerifyEmailRequest	true	"Verification token"
//	@Success		200		{object}	apisdk.MessageResponse
//	@Failure		401		{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/verify-email [post].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req apisdk.VerifyEmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.VerifyEmail(r.Context(), req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{Message: "email verified"})
}

// HandleVerifyEmailLink godoc
//
//	@Summary		Verify an email address via link
//	@Description	Same as the POST form, with the token in the query string so mailed links work directly.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	query		string	true	"Verification token"
//	@Success		200		{object}	apisdk.MessageResponse
//	@Failure		401		{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/verify-email [get].
func (h *AuthHandler) HandleVerifyEmailLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.VerifyEmail(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{Message: "email verified"})
}

// HandleForgotPassword godoc
//
//	@Summary		Start a password reset
//	@Description	Issues a reset token valid for one hour. The response does not reveal whether the email belongs to an account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	apisdk.MessageResponse
//	@Router			/v1/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req apisdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{
		Message: "if that email belongs to an account, a reset token has been sent",
	})
}

// HandleResetPassword godoc
//
//	@Summary		Complete a password reset
//	@Description	Consumes a one-time reset token and sets a new password. All existing sessions are revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.ResetPasswordRequest	true	"Reset token and new password"
//	@Success		200		{object}	apisdk.MessageResponse
//	@Failure		401		{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req apisdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{Message: "password updated"})
}

// HandleResendVerification godoc
//
//	@Summary		Resend a verification token
//	@Description	Issues a fresh verification token for an unverified account. Bounded per email address; the response does not reveal whether the account exists.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apisdk.ResendVerificationRequest	true	"Account email"
//	@Success		200		{object}	apisdk.MessageResponse
//	@Failure		429		{object}	apisdk.ErrorResponse
//	@Router			/v1/auth/resend-verification [post].
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req apisdk.ResendVerificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.ResendVerification(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{
		Message: "if that email belongs to an unverified account, a new token has been sent",
	})
}
