// Package apisdk provides a Go client for the Vantage authentication API,
// along with the shared wire types and error vocabulary used by both the
// server handlers and the client.
//
// The error types in this package are the single source of truth for the
// JSON error envelope: handlers use APIError.WriteError to produce responses
// and the client parses responses back into the same APIError values, so
// errors.Is works across the wire for the predefined errors.
package apisdk
