package service

import (
	"time"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/pkg/jwtx"
	"golang.org/x/sync/errgroup"
)

// TokenService mints paired access and refresh tokens. The access token is
// signed with the asymmetric key so resource servers can verify it from the
// published JWKS; the refresh token is HMAC-signed with a secret that never
// leaves this service.
type TokenService struct {
	AccessSigner  jwtx.Signer
	RefreshSigner *jwtx.HS256Signer
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Now is injectable for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueUserPair mints a pair for a regular user. The access token carries
// the user's company.
func (s *TokenService) IssueUserPair(user domain.User) (domain.TokenPair, error) {
	now := s.now()
	claims := jwtx.NewUserClaims(user.ID, user.Email, user.Name, user.CompanyID, s.AccessTTL, s.Issuer, now)
	return s.signPair(claims, user.ID, now)
}

// IssueAdminPair mints a pair for an administrator. The access token carries
// the admin profile id and role names instead of a company.
func (s *TokenService) IssueAdminPair(user domain.User, profileID string, roles []string) (domain.TokenPair, error) {
	now := s.now()
	claims := jwtx.NewAdminClaims(user.ID, user.Email, user.Name, profileID, roles, s.AccessTTL, s.Issuer, now)
	return s.signPair(claims, user.ID, now)
}

// signPair signs the two tokens concurrently. The refresh claims carry a
// millisecond nonce so back-to-back pairs for the same subject are distinct.
func (s *TokenService) signPair(access jwtx.Claims, subject string, now time.Time) (domain.TokenPair, error) {
	var (
		g            errgroup.Group
		accessToken  string
		refreshToken string
	)

	g.Go(func() error {
		var err error
		accessToken, err = s.AccessSigner.Sign(access)
		return err
	})

	g.Go(func() error {
		refresh := jwtx.NewRefreshClaims(subject, s.RefreshTTL, s.Issuer, now)
		var err error
		refreshToken, err = s.RefreshSigner.Sign(refresh)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
