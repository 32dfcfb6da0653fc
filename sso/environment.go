package sso

// Environment identifies one of the three deployments of the BC government
// SSO service.
type Environment string

const (
	EnvironmentDev  Environment = "dev"
	EnvironmentTest Environment = "test"
	EnvironmentProd Environment = "prod"
)

// Protocol is the Keycloak protocol path segment used when building endpoint
// URLs. ProtocolOIDC is the canonical segment for the token endpoint.
type Protocol string

const (
	ProtocolOIDC Protocol = "openid-connect"
	ProtocolSAML Protocol = "saml"
)

// DefaultRealm is the shared realm used by the standard SSO service.
const DefaultRealm = "standard"

var authURLs = map[Environment]string{
	EnvironmentDev:  "https://dev.loginproxy.gov.bc.ca/auth",
	EnvironmentTest: "https://test.loginproxy.gov.bc.ca/auth",
	EnvironmentProd: "https://loginproxy.gov.bc.ca/auth",
}

var siteMinderLogoutURLs = map[Environment]string{
	EnvironmentDev:  "https://logontest7.gov.bc.ca/clp-cgi/logoff.cgi",
	EnvironmentTest: "https://logontest7.gov.bc.ca/clp-cgi/logoff.cgi",
	EnvironmentProd: "https://logon7.gov.bc.ca/clp-cgi/logoff.cgi",
}

// Valid reports whether e is one of the known environments.
func (e Environment) Valid() bool {
	_, ok := authURLs[e]
	return ok
}

// AuthURL returns the base URL of the SSO service for the environment.
func (e Environment) AuthURL() string {
	return authURLs[e]
}

// SiteMinderLogoutURL returns the SiteMinder proxy logoff URL for the
// environment. Logging out of the SSO service requires ending the SiteMinder
// session as well, so logout redirects go through this URL.
func (e Environment) SiteMinderLogoutURL() string {
	return siteMinderLogoutURLs[e]
}
