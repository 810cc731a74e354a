package common

const (
	// AuthorizationHeaderName carries the bearer credential on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the authorization scheme prefix, including the trailing space.
	BearerScheme = "Bearer "

	// TokenMetadataKey is the client-side durable key holding the raw token.
	TokenMetadataKey = "token"
)
