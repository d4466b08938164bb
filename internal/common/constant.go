// Package common contains shared constants and sentinel errors used across
// Plant Disease Detector client components.
package common

// Header names set on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerScheme            = "Bearer"
)

// Keys of the persisted session in the local metadata store.
const (
	AuthenticatedKey = "isAuthenticated"
	AccessTokenKey   = "accessToken"
)
