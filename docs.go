// core (citz-imb-sso-go-core) provides helpers for integrating Go services
// with the BC government single-sign-on service: login/logout redirect URLs,
// token exchange, refresh and introspection, JWT payload decoding, and
// normalization of identity-provider claim sets into a single user shape.
//
// See the sso package.
package core
