package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/vantagehq/vantage/pkg/cryptox"
	"github.com/vantagehq/vantage/pkg/idx"
	"github.com/vantagehq/vantage/pkg/jwtx"
)

const (
	defaultRSABits         = 4096
	minRefreshSecretLength = 32
)

// InitSigningKeys builds the access token signer and the public key set from
// the configured algorithm.
//
// When AUTH_SIGNING_KEY_FILE points at a PEM private key it is loaded and the
// service fails to start if the file is unreadable or does not match the
// algorithm. With no key file an ephemeral key is generated on startup, which
// invalidates every outstanding access token on restart.
//
// Supported algorithms: EdDSA, RS256
func InitSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.KeySet, jwtx.Signer, jwtx.Verifier, error) {
	pemKey, err := loadOrGenerateKey(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	kid := idx.New().String()

	var signer jwtx.Signer
	switch cfg.Algorithm {
	case "RS256":
		signer, err = jwtx.NewSignerRS256(kid, pemKey)
	case "EdDSA", "":
		signer, err = jwtx.NewSignerEdDSA(kid, pemKey)
	default:
		return nil, nil, nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize %s signer: %w", cfg.Algorithm, err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	var verifier jwtx.Verifier
	if cfg.Algorithm == "RS256" {
		verifier = jwtx.NewCommonRS256(keys, cfg.Issuer)
	} else {
		verifier = jwtx.NewCommonEdDSA(keys, cfg.Issuer)
	}

	logger.Info("signing key ready",
		"algorithm", signer.Alg(),
		"kid", signer.KID(),
		"issuer", cfg.Issuer,
	)

	return keys, signer, verifier, nil
}

func loadOrGenerateKey(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.SigningKeyFile != "" {
		pemKey, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read signing key file %s: %w", cfg.SigningKeyFile, err)
		}
		logger.Info("loaded signing key", "path", cfg.SigningKeyFile)
		return pemKey, nil
	}

	logger.Warn("no signing key file configured, generating an ephemeral key; existing access tokens are now invalid")

	if cfg.Algorithm == "RS256" {
		bits := cfg.RSABits
		if bits == 0 {
			bits = defaultRSABits
		}
		return cryptox.GenerateRSAKey(bits)
	}

	return cryptox.GenerateEd25519Key()
}

// InitRefreshSecret validates the configured refresh HMAC secret. Outside dev
// a missing or short secret is a startup failure. In dev a random secret is
// generated so the service still comes up, at the cost of invalidating
// refresh tokens on restart.
func InitRefreshSecret(cfg Config, logger *slog.Logger) ([]byte, error) {
	secret := []byte(cfg.RefreshSecret)

	if len(secret) >= minRefreshSecretLength {
		return secret, nil
	}

	if len(secret) > 0 {
		return nil, fmt.Errorf("AUTH_REFRESH_SECRET must be at least %d bytes, got %d", minRefreshSecretLength, len(secret))
	}

	if cfg.Env != "dev" {
		return nil, errors.New("AUTH_REFRESH_SECRET is required outside dev")
	}

	generated, err := cryptox.GenerateToken(minRefreshSecretLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev refresh secret: %w", err)
	}

	logger.Warn("AUTH_REFRESH_SECRET not set, generated a dev-only secret; refresh tokens will not survive restarts")
	return []byte(generated), nil
}
