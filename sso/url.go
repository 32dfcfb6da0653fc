package sso

import (
	"fmt"
	"net/url"

	"github.com/hashicorp/go-multierror"
)

// LoginURL builds the authorization URL to redirect a user to for
// authentication, carrying the kc_idp_hint that selects the identity
// provider. The redirect URI is double URL-encoded, matching what the SSO
// service expects from its clients.
//
// Supported options: WithResponseType (default "code"), WithScope (default
// "email+openid").
func (c *Config) LoginURL(idpHint string, redirectURI string, opt ...Option) (string, error) {
	const op = "Config.LoginURL"
	var result *multierror.Error
	if idpHint == "" {
		result = multierror.Append(result, fmt.Errorf("idp hint is empty: %w", ErrInvalidParameter))
	}
	if redirectURI == "" {
		result = multierror.Append(result, fmt.Errorf("redirect URI is empty: %w", ErrInvalidParameter))
	}
	if err := result.ErrorOrNil(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	opts := getURLOpts(opt...)

	params := url.Values{}
	params.Set("client_id", c.ClientID)
	params.Set("response_type", opts.withResponseType)
	params.Set("scope", opts.withScope)
	params.Set("redirect_uri", url.QueryEscape(redirectURI))
	params.Set("kc_idp_hint", idpHint)

	return c.EndpointBase() + "/auth?" + params.Encode(), nil
}

// LogoutURL builds the logout redirect URL. Because the SSO service sits
// behind SiteMinder, the Keycloak logout URL (with id_token_hint and the
// double-encoded post-logout redirect URI) is itself double-encoded as the
// returl parameter of the per-environment SiteMinder logoff URL, so that both
// sessions end.
func (c *Config) LogoutURL(idToken IdToken, postLogoutRedirectURI string) (string, error) {
	const op = "Config.LogoutURL"
	var result *multierror.Error
	if idToken == "" {
		result = multierror.Append(result, fmt.Errorf("id token is empty: %w", ErrInvalidParameter))
	}
	if postLogoutRedirectURI == "" {
		result = multierror.Append(result, fmt.Errorf("post-logout redirect URI is empty: %w", ErrInvalidParameter))
	}
	if err := result.ErrorOrNil(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	keycloakParams := url.Values{}
	keycloakParams.Set("id_token_hint", string(idToken))
	keycloakParams.Set("post_logout_redirect_uri", url.QueryEscape(postLogoutRedirectURI))
	logoutURL := c.EndpointBase() + "/logout?" + keycloakParams.Encode()

	siteMinderParams := url.Values{}
	siteMinderParams.Set("retnow", "1")
	siteMinderParams.Set("returl", url.QueryEscape(logoutURL))

	return c.Environment.SiteMinderLogoutURL() + "?" + siteMinderParams.Encode(), nil
}

// urlOptions is the set of available options
type urlOptions struct {
	withResponseType string
	withScope        string
}

// getURLOpts gets the defaults and applies the opt overrides passed in.
func getURLOpts(opt ...Option) urlOptions {
	opts := urlOptions{
		withResponseType: "code",
		withScope:        "email+openid",
	}
	ApplyOpts(&opts, opt...)
	return opts
}

// WithResponseType overrides the response_type sent on a login URL.
func WithResponseType(responseType string) Option {
	return func(o interface{}) {
		if o, ok := o.(*urlOptions); ok {
			o.withResponseType = responseType
		}
	}
}

// WithScope overrides the scope sent on a login URL.
func WithScope(scope string) Option {
	return func(o interface{}) {
		if o, ok := o.(*urlOptions); ok {
			o.withScope = scope
		}
	}
}
