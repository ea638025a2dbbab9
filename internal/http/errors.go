package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/slogx"
)

// writeServiceError maps service sentinel errors onto the JSON error
// envelope. Unmapped errors are logged and reported as a generic server
// error so nothing internal leaks.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		apisdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrNotVerified):
		apisdk.ErrEmailNotVerified.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		apisdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrExpiredToken):
		apisdk.ErrExpiredToken.WriteError(w)
	case errors.Is(err, service.ErrConflict):
		apisdk.ErrConflict.WriteError(w)
	case errors.Is(err, service.ErrAccessDenied):
		apisdk.ErrAccessDenied.WriteError(w)
	case errors.Is(err, service.ErrNoAuthContext):
		slogx.FromContext(r.Context()).Error("request reached guard without auth context")
		apisdk.ErrAuthContextMissing.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		apisdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrValidation):
		apisdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrRateLimited):
		apisdk.NewAPIError(http.StatusTooManyRequests, apisdk.ErrorCodeRateLimited,
			"too many requests for this account, try again later").WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", slog.Any("err", err))
		apisdk.ErrServerError.WriteError(w)
	}
}
