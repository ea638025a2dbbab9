package apisdk

import (
	"context"

	"github.com/vantagehq/vantage/pkg/jwtx"
)

// Livez reports whether the service process is up.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/livez", "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz reports whether the service can reach its dependencies and has its
// signing keys loaded.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/readyz", "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JWKS fetches the public signing keys used to verify access tokens.
func (c *Client) JWKS(ctx context.Context) (*jwtx.JWKS, error) {
	var out jwtx.JWKS
	if err := c.getJSON(ctx, "/.well-known/jwks.json", "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
