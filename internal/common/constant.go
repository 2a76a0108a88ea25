// Package common contains shared constants and sentinel errors used across
// the taskkeeper server packages.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the session token.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only authorization scheme accepted by the server.
	BearerScheme = "Bearer"
)
