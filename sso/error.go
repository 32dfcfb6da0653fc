package sso

import (
	"errors"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")
	ErrInvalidCACert    = errors.New("invalid CA certificate")

	// ErrMalformedToken reports a JWT that does not have exactly three
	// dot-separated segments. The message is load-bearing: existing consumers
	// match on "Invalid JWT format".
	ErrMalformedToken = errors.New("Invalid JWT format")

	// ErrPayloadParse reports a decoded JWT segment, or an embedded JSON
	// string claim, that is not valid JSON.
	ErrPayloadParse = errors.New("payload is not valid JSON")

	// ErrUnknownDecode reports any non-parse failure while decoding a JWT.
	ErrUnknownDecode = errors.New("unknown decode error")

	// ErrInvalidRoles reports a role check called with something other than a
	// list of strings.
	ErrInvalidRoles = errors.New("roles must be a list of strings")

	// ErrUnknownProvider reports an unrecognized identity_provider claim when
	// normalizing under WithStrictProviders.
	ErrUnknownProvider = errors.New("unknown identity provider")

	ErrTokenExchange     = errors.New("token exchange failed")
	ErrIncompleteRefresh = errors.New("incomplete refresh response")
	ErrIntrospection     = errors.New("token introspection failed")
)
