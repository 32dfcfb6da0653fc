package sso

import (
	"encoding/json"
	"fmt"
)

// AccessToken is an oauth access_token
type AccessToken string

// RedactedAccessToken is the redacted string or json for an oauth access_token
const RedactedAccessToken = "[REDACTED: access_token]"

// String will redact the token
func (t AccessToken) String() string {
	return RedactedAccessToken
}

// MarshalJSON will redact the token
func (t AccessToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedAccessToken)
}

// RefreshToken is an oauth refresh_token
type RefreshToken string

// RedactedRefreshToken is the redacted string or json for an oauth refresh_token
const RedactedRefreshToken = "[REDACTED: refresh_token]"

// String will redact the token
func (t RefreshToken) String() string {
	return RedactedRefreshToken
}

// MarshalJSON will redact the token
func (t RefreshToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedRefreshToken)
}

// IdToken is an oidc id_token
type IdToken string

// RedactedIdToken is the redacted string or json for an oidc id_token
const RedactedIdToken = "[REDACTED: id_token]"

// String will redact the token
func (t IdToken) String() string {
	return RedactedIdToken
}

// MarshalJSON will redact the token
func (t IdToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedIdToken)
}

// Claims retrieves the IdToken payload claims. No verification is performed.
func (t IdToken) Claims(claims interface{}) error {
	const op = "IdToken.Claims"
	if len(t) == 0 {
		return fmt.Errorf("%s: id_token is empty: %w", op, ErrInvalidParameter)
	}
	if claims == nil {
		return fmt.Errorf("%s: claims interface is nil: %w", op, ErrNilParameter)
	}
	return UnmarshalClaims(string(t), claims)
}

// Decode retrieves the IdToken payload as a ClaimsPayload, ready for
// NormalizeUser. No verification is performed.
func (t IdToken) Decode() (ClaimsPayload, error) {
	const op = "IdToken.Decode"
	if len(t) == 0 {
		return nil, fmt.Errorf("%s: id_token is empty: %w", op, ErrInvalidParameter)
	}
	return DecodeJWT(string(t))
}

// TokenSet is the raw result of an authorization-code exchange, passed
// through verbatim from the token endpoint's JSON response.
type TokenSet struct {
	IdToken          IdToken      `json:"id_token"`
	AccessToken      AccessToken  `json:"access_token"`
	RefreshToken     RefreshToken `json:"refresh_token"`
	RefreshExpiresIn int64        `json:"refresh_expires_in"`
}

// RefreshedTokenSet is the raw result of a refresh-token grant.
type RefreshedTokenSet struct {
	AccessToken AccessToken `json:"access_token"`
	IdToken     IdToken     `json:"id_token"`
	ExpiresIn   int64       `json:"expires_in"`
}
