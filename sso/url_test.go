package sso

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoginURL(t *testing.T) {
	t.Parallel()
	t.Run("dev-defaults", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewConfig("my-client-id", "my-client-secret")
		require.NoError(err)

		got, err := c.LoginURL("idir", "https://myapp.com/callback")
		require.NoError(err)

		require.True(strings.HasPrefix(got, "https://dev.loginproxy.gov.bc.ca/auth/realms/standard/protocol/openid-connect/auth?"), got)
		u, err := url.Parse(got)
		require.NoError(err)
		q := u.Query()
		assert.Equal("my-client-id", q.Get("client_id"))
		assert.Equal("code", q.Get("response_type"))
		assert.Equal("email+openid", q.Get("scope"))
		assert.Equal("idir", q.Get("kc_idp_hint"))
		// the redirect URI is double-encoded, so one parse still leaves one
		// layer of escaping
		assert.Equal(url.QueryEscape("https://myapp.com/callback"), q.Get("redirect_uri"))
	})
	t.Run("custom-parameters", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewConfig("test-client-id", "my-client-secret",
			WithEnvironment(EnvironmentTest),
			WithRealm("custom"),
			WithProtocol(ProtocolSAML),
		)
		require.NoError(err)

		got, err := c.LoginURL("bceidbasic", "https://testapp.com/callback",
			WithResponseType("token"),
			WithScope("profile+openid"),
		)
		require.NoError(err)

		require.True(strings.HasPrefix(got, "https://test.loginproxy.gov.bc.ca/auth/realms/custom/protocol/saml/auth?"), got)
		u, err := url.Parse(got)
		require.NoError(err)
		q := u.Query()
		assert.Equal("token", q.Get("response_type"))
		assert.Equal("profile+openid", q.Get("scope"))
		assert.Equal("bceidbasic", q.Get("kc_idp_hint"))
	})
	t.Run("missing-arguments", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewConfig("my-client-id", "my-client-secret")
		require.NoError(err)

		_, err = c.LoginURL("", "")
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted %q but got %q", ErrInvalidParameter, err)
		assert.Contains(err.Error(), "idp hint is empty")
		assert.Contains(err.Error(), "redirect URI is empty")
	})
}

func TestConfig_LogoutURL(t *testing.T) {
	t.Parallel()
	t.Run("dev", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewConfig("my-client-id", "my-client-secret")
		require.NoError(err)

		got, err := c.LogoutURL(IdToken("test-id-token"), "https://myapp.com/")
		require.NoError(err)

		require.True(strings.HasPrefix(got, "https://logontest7.gov.bc.ca/clp-cgi/logoff.cgi?"), got)
		u, err := url.Parse(got)
		require.NoError(err)
		q := u.Query()
		assert.Equal("1", q.Get("retnow"))

		// returl is the double-encoded Keycloak logout URL; one layer of
		// escaping remains after parsing the outer query
		returl, err := url.QueryUnescape(q.Get("returl"))
		require.NoError(err)
		require.True(strings.HasPrefix(returl, "https://dev.loginproxy.gov.bc.ca/auth/realms/standard/protocol/openid-connect/logout?"), returl)
		inner, err := url.Parse(returl)
		require.NoError(err)
		iq := inner.Query()
		assert.Equal("test-id-token", iq.Get("id_token_hint"))
		assert.Equal(url.QueryEscape("https://myapp.com/"), iq.Get("post_logout_redirect_uri"))
	})
	t.Run("prod-siteminder-host", func(t *testing.T) {
		require := require.New(t)
		c, err := NewConfig("my-client-id", "my-client-secret", WithEnvironment(EnvironmentProd))
		require.NoError(err)

		got, err := c.LogoutURL(IdToken("test-id-token"), "https://myapp.com/")
		require.NoError(err)
		require.True(strings.HasPrefix(got, "https://logon7.gov.bc.ca/clp-cgi/logoff.cgi?"), got)
	})
	t.Run("missing-arguments", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewConfig("my-client-id", "my-client-secret")
		require.NoError(err)

		_, err = c.LogoutURL("", "")
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted %q but got %q", ErrInvalidParameter, err)
		assert.Contains(err.Error(), "id token is empty")
		assert.Contains(err.Error(), "post-logout redirect URI is empty")
	})
}
