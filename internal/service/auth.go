package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/notify"
	"github.com/vantagehq/vantage/internal/obs"
	"github.com/vantagehq/vantage/internal/store"
	"github.com/vantagehq/vantage/pkg/cryptox"
	"github.com/vantagehq/vantage/pkg/idx"
	"github.com/vantagehq/vantage/pkg/jwtx"
	"github.com/vantagehq/vantage/pkg/slogx"
	"golang.org/x/time/rate"
)

const (
	// DefaultResetTTL bounds how long a password reset token stays usable.
	DefaultResetTTL = time.Hour

	// MinPasswordLength is the floor for new passwords.
	MinPasswordLength = 8

	// Resend bound: a full bucket of three immediate resends, refilling one
	// every 200 seconds, tracked per email address.
	resendRefillEvery = 200 * time.Second
	resendBurst       = 3
)

// dummyPasswordHash is compared against when the email is unknown so the
// login path costs the same whether or not the account exists.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements the account lifecycle: registration, the two login
// paths, refresh rotation, logout, email verification and password reset.
type AuthService struct {
	Store           store.Store
	Tokens          *TokenService
	Notifier        notify.Notifier
	RefreshVerifier *jwtx.HS256Verifier

	// ResetTTL defaults to DefaultResetTTL when zero.
	ResetTTL time.Duration

	// Now is injectable for tests. Nil means time.Now.
	Now func() time.Time

	resendLimiters sync.Map // map[string]*rate.Limiter keyed by email
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) resetTTL() time.Duration {
	if s.ResetTTL > 0 {
		return s.ResetTTL
	}
	return DefaultResetTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateNewPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrValidation
	}
	return nil
}

// Register creates an unverified account and sends a verification token.
func (s *AuthService) Register(ctx context.Context, email, name, password, companyID string) error {
	l := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") || name == "" {
		return ErrValidation
	}
	if err := validateNewPassword(password); err != nil {
		return err
	}

	if companyID != "" {
		if _, err := s.Store.Companies().GetCompanyByID(ctx, companyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrValidation
			}
			return err
		}
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	verifyToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	user := domain.User{
		ID:              idx.New().String(),
		CompanyID:       companyID,
		Email:           email,
		Name:            name,
		PasswordHash:    passwordHash,
		VerifyTokenHash: cryptox.FingerprintToken(verifyToken),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrConflict
		}
		return err
	}

	obs.RecordOneTimeToken("verify")

	if err := s.Notifier.SendVerification(ctx, user.Email, user.Name, verifyToken); err != nil {
		// The account exists; the user can request a resend.
		l.Error("verification delivery failed", slog.String("user_id", user.ID), slog.Any("err", err))
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return nil
}

// Login authenticates a user and issues a token pair. The new refresh token
// takes over the user's single refresh slot, invalidating any previous one.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so unknown emails are not distinguishable
			// by latency.
			_ = cryptox.VerifyPassword(password, dummyPasswordHash)
			obs.RecordLogin(jwtx.KindUser, "denied")
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		obs.RecordLogin(jwtx.KindUser, "denied")
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	// Administrative accounts must use the admin entrance. Here they look
	// exactly like bad credentials.
	if _, err := s.Store.AdminProfiles().GetByUserID(ctx, user.ID); err == nil {
		obs.RecordLogin(jwtx.KindUser, "denied")
		return domain.TokenPair{}, ErrInvalidCredentials
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.TokenPair{}, err
	}

	// Only revealed after the password matched.
	if !user.Verified {
		obs.RecordLogin(jwtx.KindUser, "denied")
		return domain.TokenPair{}, ErrNotVerified
	}

	pair, err := s.Tokens.IssueUserPair(user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := s.storeRefresh(ctx, user.ID, pair.RefreshToken); err != nil {
		return domain.TokenPair{}, err
	}

	obs.RecordLogin(jwtx.KindUser, "ok")
	obs.RecordTokenPair()
	l.Info("user login", slog.String("user_id", user.ID))
	return pair, nil
}

// AdminLogin authenticates an administrator. A user without an admin profile
// is rejected with the same error as bad credentials.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyPasswordHash)
			obs.RecordLogin(jwtx.KindAdmin, "denied")
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		obs.RecordLogin(jwtx.KindAdmin, "denied")
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	if !user.Verified {
		obs.RecordLogin(jwtx.KindAdmin, "denied")
		return domain.TokenPair{}, ErrNotVerified
	}

	profile, err := s.Store.AdminProfiles().GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			obs.RecordLogin(jwtx.KindAdmin, "denied")
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	roles, err := s.Store.Roles().GetRoleNamesForIDs(ctx, profile.RoleIDs)
	if err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.Tokens.IssueAdminPair(user, profile.ID, roles)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := s.storeRefresh(ctx, user.ID, pair.RefreshToken); err != nil {
		return domain.TokenPair{}, err
	}

	obs.RecordLogin(jwtx.KindAdmin, "ok")
	obs.RecordTokenPair()
	l.Info("admin login", slog.String("user_id", user.ID), slog.String("profile_id", profile.ID))
	return pair, nil
}

// Refresh rotates a refresh token. The presented token must be validly
// signed, unexpired and match the subject's current slot; rotation replaces
// the slot atomically so the old token is single-use.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.RefreshVerifier.Verify(rawToken)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidToken
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		// An empty slot, or a mismatch against a newer login's token, both
		// reject the presented token without disturbing the current slot.
		if user.RefreshTokenHash == "" {
			return ErrInvalidToken
		}
		if err := cryptox.VerifyRefreshToken(rawToken, user.RefreshTokenHash); err != nil {
			return ErrInvalidToken
		}

		pair, err = s.issuePairFor(ctx, tx, user)
		if err != nil {
			return err
		}

		newHash, err := cryptox.HashRefreshToken(pair.RefreshToken)
		if err != nil {
			return err
		}
		return tx.Users().SetRefreshTokenHash(ctx, user.ID, newHash)
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	obs.RecordTokenPair()
	l.Info("refresh rotated", slog.String("user_id", claims.Subject))
	return pair, nil
}

// issuePairFor re-issues the right kind of pair for the subject: admin
// claims when an admin profile exists, user claims otherwise.
func (s *AuthService) issuePairFor(ctx context.Context, tx store.Tx, user domain.User) (domain.TokenPair, error) {
	profile, err := tx.AdminProfiles().GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.Tokens.IssueUserPair(user)
		}
		return domain.TokenPair{}, err
	}

	roles, err := tx.Roles().GetRoleNamesForIDs(ctx, profile.RoleIDs)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return s.Tokens.IssueAdminPair(user, profile.ID, roles)
}

// Logout clears the subject's refresh slot. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	err := s.Store.Users().SetRefreshTokenHash(ctx, userID, "")
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// VerifyEmail consumes a one-time verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	l := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}

	user, err := s.Store.Users().GetUserByVerifyTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if err := s.Store.Users().MarkVerified(ctx, user.ID); err != nil {
		return err
	}

	l.Info("email verified", slog.String("user_id", user.ID))
	return nil
}

// ForgotPassword issues a reset token. The outcome is identical whether or
// not the email belongs to an account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("reset requested for unknown email")
			return nil
		}
		return err
	}

	resetToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	expiresAt := s.now().UTC().Add(s.resetTTL())
	if err := s.Store.Users().SetResetToken(ctx, user.ID, cryptox.FingerprintToken(resetToken), expiresAt); err != nil {
		return err
	}

	obs.RecordOneTimeToken("reset")

	if err := s.Notifier.SendPasswordReset(ctx, user.Email, user.Name, resetToken); err != nil {
		l.Error("reset delivery failed", slog.String("user_id", user.ID), slog.Any("err", err))
	}

	l.Info("reset token issued", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword consumes a reset token and sets a new password. Expired
// tokens are rejected with ErrExpiredToken and their state cleared, so a
// later guess of the same token fails as invalid. A successful reset revokes
// the refresh slot.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	l := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	user, err := s.Store.Users().GetUserByResetTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	// Expiry is exclusive: a token presented at the exact expiry instant is
	// already dead. Expired state is cleared so a later retry of the same
	// token reads as plain invalid.
	if user.ResetTokenExpiresAt == nil || !s.now().Before(*user.ResetTokenExpiresAt) {
		if err := s.Store.Users().ClearResetToken(ctx, user.ID); err != nil {
			l.Error("clearing expired reset token failed", slog.String("user_id", user.ID), slog.Any("err", err))
		}
		return ErrExpiredToken
	}

	passwordHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, passwordHash); err != nil {
			return err
		}
		if err := tx.Users().ClearResetToken(ctx, user.ID); err != nil {
			return err
		}
		// Any live session predates the reset.
		return tx.Users().SetRefreshTokenHash(ctx, user.ID, "")
	})
	if err != nil {
		return err
	}

	l.Info("password reset", slog.String("user_id", user.ID))
	return nil
}

// ResendVerification issues a fresh verification token for an unverified
// account, bounded per email address.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)
	if email == "" {
		return ErrValidation
	}

	if !s.resendLimiter(email).Allow() {
		return ErrRateLimited
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.Verified {
		return nil
	}

	verifyToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	if err := s.Store.Users().SetVerifyTokenHash(ctx, user.ID, cryptox.FingerprintToken(verifyToken)); err != nil {
		return err
	}

	obs.RecordOneTimeToken("verify")

	if err := s.Notifier.SendVerification(ctx, user.Email, user.Name, verifyToken); err != nil {
		l.Error("verification delivery failed", slog.String("user_id", user.ID), slog.Any("err", err))
	}

	l.Info("verification token reissued", slog.String("user_id", user.ID))
	return nil
}

func (s *AuthService) resendLimiter(email string) *rate.Limiter {
	if limiter, ok := s.resendLimiters.Load(email); ok {
		return limiter.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Every(resendRefillEvery), resendBurst)
	actual, _ := s.resendLimiters.LoadOrStore(email, limiter)
	return actual.(*rate.Limiter)
}

// storeRefresh hashes the raw refresh token and takes over the user's slot.
func (s *AuthService) storeRefresh(ctx context.Context, userID, rawToken string) error {
	hash, err := cryptox.HashRefreshToken(rawToken)
	if err != nil {
		return err
	}
	return s.Store.Users().SetRefreshTokenHash(ctx, userID, hash)
}
