package sso

import (
	strutil "github.com/bcgov/citz-imb-sso-go-core/sso/internal/strutils"
)

// ProviderKind is the category of an identity provider recognized by the SSO
// service.
type ProviderKind string

const (
	KindIDIR              ProviderKind = "idir"
	KindBCeID             ProviderKind = "bceid"
	KindGitHub            ProviderKind = "github"
	KindDigitalCredential ProviderKind = "digitalcredential"

	// KindUnknown covers every identity_provider value outside the four fixed
	// sets, including BC Services Card style providers that use the client id
	// as the provider value.
	KindUnknown ProviderKind = "unknown"
)

// The fixed identity_provider values for each provider kind. These are
// process-wide constants and must not be mutated.
var (
	IDIRIdentityProviders              = []string{"idir", "azureidir"}
	BCeIDIdentityProviders             = []string{"bceidbasic", "bceidbusiness", "bceidboth"}
	GitHubIdentityProviders            = []string{"githubbcgov"}
	DigitalCredentialIdentityProviders = []string{"digitalcredential"}
)

// ClassifyProvider categorizes an identity_provider claim value into a
// ProviderKind. Values outside the fixed sets classify as KindUnknown.
func ClassifyProvider(identityProvider string) ProviderKind {
	switch {
	case strutil.StrListContains(IDIRIdentityProviders, identityProvider):
		return KindIDIR
	case strutil.StrListContains(BCeIDIdentityProviders, identityProvider):
		return KindBCeID
	case strutil.StrListContains(GitHubIdentityProviders, identityProvider):
		return KindGitHub
	case strutil.StrListContains(DigitalCredentialIdentityProviders, identityProvider):
		return KindDigitalCredential
	default:
		return KindUnknown
	}
}
