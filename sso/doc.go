// Package sso provides helpers for integrating with the BC government
// single-sign-on service: a standard Keycloak realm fronted by a SiteMinder
// reverse proxy. It supports building login and logout redirect URLs,
// exchanging an authorization code for tokens, refreshing tokens, token
// introspection, decoding JWT payloads, and normalizing the claim sets of the
// supported identity providers (IDIR, BCeID, GitHub, Digital Credentials)
// into a single SSOUser shape with a role-check helper.
//
// Decoding a JWT with this package extracts its payload only. No signature or
// expiry verification is performed; callers that need a trust guarantee must
// use Client.IntrospectToken or verify the token through another mechanism.
package sso
