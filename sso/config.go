package sso

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

type ClientSecret string

// RedactedClientSecret is the redacted string or json for an oauth client secret
const RedactedClientSecret = "[REDACTED: client secret]"

// String will redact the client secret
func (t ClientSecret) String() string {
	return RedactedClientSecret
}

// MarshalJSON will redact the client secret
func (t ClientSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedClientSecret)
}

// Config represents the configuration for an SSO integration: the relying
// party credentials plus the environment, realm and protocol that select the
// Keycloak endpoints.
type Config struct {
	// ClientID is the relying party id
	ClientID string

	// ClientSecret is the relying party secret
	ClientSecret ClientSecret

	// Environment selects the dev, test or prod deployment of the SSO
	// service.
	Environment Environment

	// Realm is the Keycloak realm. Defaults to DefaultRealm.
	Realm string

	// Protocol is the Keycloak protocol path segment. Defaults to
	// ProtocolOIDC.
	Protocol Protocol

	// BaseURL optionally overrides the per-environment SSO base URL. Useful
	// for private deployments and tests.
	BaseURL string

	// ProviderCA is an optional CA cert to use when sending requests to the
	// SSO service.
	ProviderCA string

	// Logger is an optional logger
	Logger hclog.Logger
}

// NewConfig composes a new config for an SSO integration.
// Supported options:
//
//	WithEnvironment
//	WithRealm
//	WithProtocol
//	WithBaseURL
//	WithProviderCA
//	WithLogger
func NewConfig(clientID string, clientSecret ClientSecret, opt ...Option) (*Config, error) {
	const op = "sso.NewConfig"
	opts := getConfigOpts(opt...)
	c := &Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Environment:  opts.withEnvironment,
		Realm:        opts.withRealm,
		Protocol:     opts.withProtocol,
		BaseURL:      opts.withBaseURL,
		ProviderCA:   opts.withProviderCA,
		Logger:       opts.withLogger,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	return c, nil
}

// Validate the config. All problems found are reported, not just the first.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil: %w", ErrNilParameter)
	}
	var result *multierror.Error
	if c.ClientID == "" {
		result = multierror.Append(result, fmt.Errorf("client id is empty: %w", ErrInvalidParameter))
	}
	if c.ClientSecret == "" {
		result = multierror.Append(result, fmt.Errorf("client secret is empty: %w", ErrInvalidParameter))
	}
	if !c.Environment.Valid() {
		result = multierror.Append(result, fmt.Errorf("environment %q is not one of dev, test, prod: %w", c.Environment, ErrInvalidParameter))
	}
	if c.Realm == "" {
		result = multierror.Append(result, fmt.Errorf("realm is empty: %w", ErrInvalidParameter))
	}
	if c.Protocol == "" {
		result = multierror.Append(result, fmt.Errorf("protocol is empty: %w", ErrInvalidParameter))
	}
	return result.ErrorOrNil()
}

// EndpointBase returns the realm and protocol qualified base URL,
// {base}/realms/{realm}/protocol/{protocol}, from which the auth, token,
// introspection and logout endpoints hang.
func (c *Config) EndpointBase() string {
	base := c.BaseURL
	if base == "" {
		base = c.Environment.AuthURL()
	}
	return fmt.Sprintf("%s/realms/%s/protocol/%s", base, c.Realm, c.Protocol)
}

// TokenURL returns the token endpoint URL.
func (c *Config) TokenURL() string {
	return c.EndpointBase() + "/token"
}

// IntrospectionURL returns the token introspection endpoint URL.
func (c *Config) IntrospectionURL() string {
	return c.EndpointBase() + "/token/introspect"
}

// HTTPClient is a helper function that creates a new http client for the
// config, using the optional CA certificate PEM if provided, otherwise the
// installed system CA chain.
func (c *Config) HTTPClient() (*http.Client, error) {
	tr := cleanhttp.DefaultPooledTransport()

	if c.ProviderCA != "" {
		certPool := x509.NewCertPool()
		if ok := certPool.AppendCertsFromPEM([]byte(c.ProviderCA)); !ok {
			return nil, fmt.Errorf("could not parse CA PEM value: %w", ErrInvalidCACert)
		}
		tr.TLSClientConfig = &tls.Config{
			RootCAs: certPool,
		}
	}

	return &http.Client{
		Transport: tr,
	}, nil
}

// HTTPClientContext is a helper function that returns a new Context that
// carries the provided HTTP client. This method sets the same context key used
// by the github.com/coreos/go-oidc and golang.org/x/oauth2 packages, so the
// returned context works for those packages as well.
func HTTPClientContext(ctx context.Context, client *http.Client) context.Context {
	// simple to implement as a wrapper for the coreos package
	return oidc.ClientContext(ctx, client)
}

// configOptions is the set of available options
type configOptions struct {
	withEnvironment Environment
	withRealm       string
	withProtocol    Protocol
	withBaseURL     string
	withProviderCA  string
	withLogger      hclog.Logger
}

// configDefaults is a handy way to get the defaults at runtime and during unit
// tests.
func configDefaults() configOptions {
	return configOptions{
		withEnvironment: EnvironmentDev,
		withRealm:       DefaultRealm,
		withProtocol:    ProtocolOIDC,
	}
}

// getConfigOpts gets the defaults and applies the opt overrides passed in.
func getConfigOpts(opt ...Option) configOptions {
	opts := configDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithEnvironment selects the SSO environment for the config. The default is
// EnvironmentDev.
func WithEnvironment(e Environment) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withEnvironment = e
		}
	}
}

// WithRealm provides an optional Keycloak realm for the config
func WithRealm(realm string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withRealm = realm
		}
	}
}

// WithProtocol provides an optional Keycloak protocol segment for the config
func WithProtocol(p Protocol) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withProtocol = p
		}
	}
}

// WithBaseURL overrides the per-environment SSO base URL for the config
func WithBaseURL(baseURL string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withBaseURL = baseURL
		}
	}
}

// WithProviderCA provides an optional CA cert for the config
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withProviderCA = cert
		}
	}
}

// WithLogger provides an optional logger for the config
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withLogger = l
		}
	}
}
