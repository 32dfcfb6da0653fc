package sso

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// Client performs the token operations against the SSO service's token
// endpoint: authorization-code exchange, refresh and introspection. It is
// stateless; every call is an independent request honoring the caller's
// context for cancellation and deadlines.
type Client struct {
	config *Config
	logger hclog.Logger
}

// NewClient creates a Client for the config.
func NewClient(c *Config) (*Client, error) {
	const op = "sso.NewClient"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	logger := c.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		config: c,
		logger: logger,
	}, nil
}

// ExchangeCode exchanges an authorization code for tokens. The request is a
// form-encoded POST with an HTTP Basic authorization header built from the
// config's client id and secret. The returned TokenSet carries the response
// body's id_token, access_token, refresh_token and refresh_expires_in fields
// verbatim, without validation.
//
// Supported options: WithGrantType (default "authorization_code").
func (c *Client) ExchangeCode(ctx context.Context, code string, redirectURI string, opt ...Option) (*TokenSet, error) {
	const op = "Client.ExchangeCode"
	if code == "" {
		return nil, fmt.Errorf("%s: code is empty: %w", op, ErrInvalidParameter)
	}
	if redirectURI == "" {
		return nil, fmt.Errorf("%s: redirect URI is empty: %w", op, ErrInvalidParameter)
	}
	opts := getClientOpts(opt...)

	form := url.Values{}
	form.Set("grant_type", opts.withGrantType)
	form.Set("client_id", c.config.ClientID)
	form.Set("redirect_uri", redirectURI)
	form.Set("code", code)

	header := http.Header{}
	header.Set("Authorization", "Basic "+basicAuth(c.config.ClientID, string(c.config.ClientSecret)))
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := c.postForm(ctx, c.config.TokenURL(), header, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%s: Failed to fetch tokens: %d %s: %w", op, status, http.StatusText(status), ErrTokenExchange)
	}

	var tokens TokenSet
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("%s: malformed token response: %v: %w", op, err, ErrTokenExchange)
	}
	c.logger.Debug("exchanged authorization code for tokens", "op", op)
	return &tokens, nil
}

// RefreshTokens refreshes a token set. The refresh token is introspected
// first; an inactive token resolves to (nil, nil) without a token-endpoint
// request. The refresh request itself is form-encoded with the client id and
// secret in the body, not in an authorization header; the SSO client
// configuration expects the two grants to authenticate differently.
//
// A response missing either access_token or id_token fails with
// ErrIncompleteRefresh even when the HTTP status was successful.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken RefreshToken) (*RefreshedTokenSet, error) {
	const op = "Client.RefreshTokens"
	if refreshToken == "" {
		return nil, fmt.Errorf("%s: refresh token is empty: %w", op, ErrInvalidParameter)
	}

	active, err := c.IntrospectToken(ctx, string(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !active {
		c.logger.Debug("refresh token is not active, skipping refresh", "op", op)
		return nil, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", string(c.config.ClientSecret))
	form.Set("refresh_token", string(refreshToken))

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, body, err := c.postForm(ctx, c.config.TokenURL(), header, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var tokens RefreshedTokenSet
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("%s: Couldn't get access or id token from KC token endpoint: %w", op, ErrIncompleteRefresh)
	}
	if tokens.AccessToken == "" || tokens.IdToken == "" {
		return nil, fmt.Errorf("%s: Couldn't get access or id token from KC token endpoint: %w", op, ErrIncompleteRefresh)
	}
	c.logger.Debug("refreshed tokens", "op", op)
	return &tokens, nil
}

// IntrospectToken asks the SSO service whether the token is currently active
// (not expired or revoked). A response without an active field is treated as
// inactive.
func (c *Client) IntrospectToken(ctx context.Context, jwt string) (bool, error) {
	const op = "Client.IntrospectToken"
	if jwt == "" {
		return false, fmt.Errorf("%s: token is empty: %w", op, ErrInvalidParameter)
	}

	form := url.Values{}
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", string(c.config.ClientSecret))
	form.Set("token", jwt)

	header := http.Header{}
	header.Set("Accept", "*/*")
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := c.postForm(ctx, c.config.IntrospectionURL(), header, form)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if status < 200 || status > 299 {
		return false, fmt.Errorf("%s: Failed to validate JWT: %d %s: %w", op, status, http.StatusText(status), ErrIntrospection)
	}

	var reply struct {
		Active *bool `json:"active"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return false, fmt.Errorf("%s: malformed introspection response: %v: %w", op, err, ErrIntrospection)
	}
	if reply.Active == nil {
		return false, nil
	}
	return *reply.Active, nil
}

// postForm issues a form-encoded POST and returns the status code and body.
// The http client comes from the context when one was attached with
// HTTPClientContext, otherwise from the config.
func (c *Client) postForm(ctx context.Context, endpoint string, header http.Header, form url.Values) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := c.httpClient(ctx)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("unable to create request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	c.logger.Debug("posting form to SSO endpoint", "url", endpoint)
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("unable to read response from %s: %w", endpoint, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) httpClient(ctx context.Context) (*http.Client, error) {
	// HTTPClientContext stores the client under the oauth2 package's context
	// key, the same convention coreos/go-oidc reads.
	if client, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && client != nil {
		return client, nil
	}
	return c.config.HTTPClient()
}

func basicAuth(clientID, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
}

// clientOptions is the set of available options
type clientOptions struct {
	withGrantType string
}

// getClientOpts gets the defaults and applies the opt overrides passed in.
func getClientOpts(opt ...Option) clientOptions {
	opts := clientOptions{
		withGrantType: "authorization_code",
	}
	ApplyOpts(&opts, opt...)
	return opts
}

// WithGrantType overrides the grant_type sent on an authorization-code
// exchange.
func WithGrantType(grantType string) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withGrantType = grantType
		}
	}
}
