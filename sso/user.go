package sso

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SSOUser is the normalized, provider-agnostic view of a decoded token
// payload. The base token fields are copied verbatim from the claims payload;
// GUID, Username and the name/email fields are derived per identity provider.
// OriginalTokenPayload keeps the untouched claims for callers that need
// provider-native fields.
type SSOUser struct {
	Exp               int64
	Iat               int64
	AuthTime          int64
	Jti               string
	Iss               string
	Aud               string
	Sub               string
	Typ               string
	Azp               string
	Nonce             string
	SessionState      string
	Scope             string
	AtHash            string
	Sid               string
	IdentityProvider  string
	EmailVerified     bool
	PreferredUsername string

	// ClientRoles is never nil, even when the claim is absent.
	ClientRoles []string

	GUID        string
	Username    string
	DisplayName string
	FirstName   string
	LastName    string
	Email       string

	OriginalTokenPayload ClaimsPayload
}

// HasRoles reports whether the user's client_roles satisfy the required
// roles. See the package-level HasRoles for the roles contract. A nil user
// resolves to false without inspecting roles.
func (u *SSOUser) HasRoles(roles interface{}, opt ...Option) (bool, error) {
	if u == nil {
		return false, nil
	}
	return HasRoles(u.OriginalTokenPayload, roles, opt...)
}

// NormalizeUser maps a decoded claims payload into an SSOUser. The base token
// fields are copied with scope and at_hash defaulting to "" and client_roles
// to an empty slice, then the provider-specific fields are derived according
// to the identity_provider claim's kind.
//
// An unrecognized identity_provider normalizes through the generic fallback
// mapping so that additional providers degrade gracefully. Callers that want
// a hard failure instead can pass WithStrictProviders, which fails with
// ErrUnknownProvider naming the identifier.
func NormalizeUser(payload ClaimsPayload, opt ...Option) (*SSOUser, error) {
	const op = "sso.NormalizeUser"
	if payload == nil {
		return nil, fmt.Errorf("%s: claims payload is nil: %w", op, ErrNilParameter)
	}
	opts := getUserOpts(opt...)

	u := &SSOUser{
		Exp:                  payload.Int64("exp"),
		Iat:                  payload.Int64("iat"),
		AuthTime:             payload.Int64("auth_time"),
		Jti:                  payload.String("jti"),
		Iss:                  payload.String("iss"),
		Aud:                  payload.String("aud"),
		Sub:                  payload.String("sub"),
		Typ:                  payload.String("typ"),
		Azp:                  payload.String("azp"),
		Nonce:                payload.String("nonce"),
		SessionState:         payload.String("session_state"),
		Scope:                payload.String("scope"),
		AtHash:               payload.String("at_hash"),
		Sid:                  payload.String("sid"),
		IdentityProvider:     payload.IdentityProvider(),
		EmailVerified:        payload.Bool("email_verified"),
		PreferredUsername:    payload.String("preferred_username"),
		ClientRoles:          payload.ClientRoles(),
		OriginalTokenPayload: payload,
	}

	switch ClassifyProvider(u.IdentityProvider) {
	case KindIDIR:
		u.Email = payload.String("email")
		u.GUID = payload.String("idir_user_guid")
		u.Username = payload.String("idir_username")
		u.FirstName = payload.String("given_name")
		u.LastName = payload.String("family_name")
		u.DisplayName = payload.String("display_name")

	case KindBCeID:
		u.Email = payload.String("email")
		u.GUID = payload.String("bceid_user_guid")
		u.Username = payload.String("bceid_username")
		u.DisplayName = payload.String("display_name")
		u.FirstName, u.LastName = splitDisplayName(u.DisplayName)

	case KindGitHub:
		u.Email = payload.String("email")
		u.GUID = payload.String("github_id")
		u.Username = payload.String("github_username")
		u.DisplayName = payload.String("display_name")
		u.FirstName, u.LastName = splitDisplayName(u.DisplayName)

	case KindDigitalCredential:
		local := localPart(u.PreferredUsername)
		u.GUID = local
		u.Username = local
		if raw := payload.String("vc_presented_attributes"); raw != "" {
			// vc_presented_attributes is a JSON-encoded string claim, not a
			// nested object.
			var attributes map[string]interface{}
			if err := json.Unmarshal([]byte(raw), &attributes); err != nil {
				return nil, fmt.Errorf("%s: vc_presented_attributes: %v: %w", op, err, ErrPayloadParse)
			}
			if email, ok := attributes["email"].(string); ok {
				u.Email = email
			}
		}

	default:
		if opts.withStrictProviders {
			return nil, fmt.Errorf("%s: identity provider %q: %w", op, u.IdentityProvider, ErrUnknownProvider)
		}
		// BC Services Card style provider, or something newer: derive what we
		// can from the generic claims.
		if u.PreferredUsername != "" {
			local := localPart(u.PreferredUsername)
			u.GUID = local
			u.Username = local
		}
		u.DisplayName = payload.String("display_name")
		u.Email = payload.String("email")
		first, last := splitDisplayName(u.DisplayName)
		if givenName := payload.String("given_name"); givenName != "" {
			first = givenName
		}
		if familyName := payload.String("family_name"); familyName != "" {
			last = familyName
		}
		u.FirstName = first
		u.LastName = last
	}

	return u, nil
}

// splitDisplayName splits on ASCII space: the first token is the first name
// and the remaining tokens, rejoined with single spaces, are the last name. A
// single-word display name yields an empty last name.
func splitDisplayName(displayName string) (first, last string) {
	parts := strings.Split(displayName, " ")
	return parts[0], strings.Join(parts[1:], " ")
}

// localPart returns the part of a preferred_username before the first "@".
func localPart(preferredUsername string) string {
	return strings.Split(preferredUsername, "@")[0]
}

// userOptions is the set of available options
type userOptions struct {
	withStrictProviders bool
}

// getUserOpts gets the defaults and applies the opt overrides passed in.
func getUserOpts(opt ...Option) userOptions {
	opts := userOptions{}
	ApplyOpts(&opts, opt...)
	return opts
}

// WithStrictProviders makes NormalizeUser fail on an unrecognized
// identity_provider instead of falling back to the generic mapping.
func WithStrictProviders() Option {
	return func(o interface{}) {
		if o, ok := o.(*userOptions); ok {
			o.withStrictProviders = true
		}
	}
}
