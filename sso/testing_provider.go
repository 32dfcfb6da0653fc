package sso

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

// TestSSOProvider is a local server imitating the SSO service's token and
// introspection endpoints, which makes writing tests against the Client much
// easier. It serves {/realms/{realm}/protocol/openid-connect}/token and
// /token/introspect, signing issued id_tokens with a throwaway ECDSA key.
type TestSSOProvider struct {
	httpServer *httptest.Server

	mu                   sync.Mutex
	clientID             string
	clientSecret         string
	realm                string
	protocol             Protocol
	expectedAuthCode     string
	expectedRefreshToken string
	active               bool
	omitActiveField      bool
	omitIDToken          bool
	omitAccessToken      bool
	customClaims         map[string]interface{}
	tokenRequestCount    int

	privKey *ecdsa.PrivateKey

	t *testing.T
}

// StartTestSSOProvider creates a disposable TestSSOProvider. The server stops
// automatically when the test completes. Tokens introspect as active unless
// SetActive(false) is called.
func StartTestSSOProvider(t *testing.T) *TestSSOProvider {
	t.Helper()
	require := require.New(t)

	privKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(err)

	p := &TestSSOProvider{
		t:        t,
		realm:    DefaultRealm,
		protocol: ProtocolOIDC,
		active:   true,
		privKey:  privKey,
	}
	p.httpServer = httptest.NewServer(p)
	t.Cleanup(p.httpServer.Close)

	return p
}

// Stop stops the running TestSSOProvider.
func (p *TestSSOProvider) Stop() {
	p.httpServer.Close()
}

// Addr returns the current base URL for the test provider's running
// webserver, suitable for WithBaseURL.
func (p *TestSSOProvider) Addr() string { return p.httpServer.URL }

// SetClientCreds configures the client id and secret the provider requires
// from token and introspection requests.
func (p *TestSSOProvider) SetClientCreds(clientID, clientSecret string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientID = clientID
	p.clientSecret = clientSecret
}

// SetExpectedAuthCode configures the only authorization code the /token
// endpoint will accept.
func (p *TestSSOProvider) SetExpectedAuthCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedAuthCode = code
}

// SetExpectedRefreshToken configures the only refresh token the /token
// endpoint will accept for the refresh_token grant.
func (p *TestSSOProvider) SetExpectedRefreshToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedRefreshToken = token
}

// SetActive configures the active value returned by /token/introspect.
func (p *TestSSOProvider) SetActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = active
}

// OmitActiveField makes /token/introspect return an empty JSON object with
// no active field.
func (p *TestSSOProvider) OmitActiveField() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.omitActiveField = true
}

// OmitIDTokens forces an error state where the /token endpoint does not
// return id_token.
func (p *TestSSOProvider) OmitIDTokens() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.omitIDToken = true
}

// OmitAccessTokens forces an error state where the /token endpoint does not
// return access_token.
func (p *TestSSOProvider) OmitAccessTokens() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.omitAccessToken = true
}

// SetCustomClaims lets you set extra claims to embed in issued id_tokens,
// for example identity_provider and the provider-specific fields.
func (p *TestSSOProvider) SetCustomClaims(customClaims map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.customClaims = customClaims
}

// TokenRequestCount reports how many requests the /token endpoint has
// received (introspection requests are not counted).
func (p *TestSSOProvider) TokenRequestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokenRequestCount
}

// SignJWT bundles the provided claims into a signed JWT using the provider's
// signing key.
func (p *TestSSOProvider) SignJWT(claims map[string]interface{}) string {
	p.t.Helper()
	require := require.New(p.t)

	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.ES256, Key: p.privKey},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(err)

	raw, err := jwt.Signed(sig).Claims(claims).CompactSerialize()
	require.NoError(err)

	return raw
}

func (p *TestSSOProvider) issueIDToken() string {
	now := time.Now()
	jti, err := uuid.GenerateUUID()
	require.NoError(p.t, err)

	claims := map[string]interface{}{
		"iss": fmt.Sprintf("%s/realms/%s", p.Addr(), p.realm),
		"aud": p.clientID,
		"azp": p.clientID,
		"sub": "a1b2c3d4e5f6@idir",
		"jti": jti,
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
	}
	for k, v := range p.customClaims {
		claims[k] = v
	}
	return p.SignJWT(claims)
}

func (p *TestSSOProvider) writeJSON(w http.ResponseWriter, out interface{}) error {
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

func (p *TestSSOProvider) writeTokenErrorResponse(w http.ResponseWriter, statusCode int, errorCode, errorMessage string) error {
	body := struct {
		Code string `json:"error"`
		Desc string `json:"error_description,omitempty"`
	}{
		Code: errorCode,
		Desc: errorMessage,
	}

	w.WriteHeader(statusCode)
	return p.writeJSON(w, &body)
}

// ServeHTTP implements the test provider's http.Handler.
func (p *TestSSOProvider) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.t.Helper()

	w.Header().Set("Content-Type", "application/json")

	basePath := fmt.Sprintf("/realms/%s/protocol/%s", p.realm, p.protocol)

	switch req.URL.Path {
	case basePath + "/token":
		p.tokenRequestCount++

		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := req.ParseForm(); err != nil {
			_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_request", "unparseable form body")
			return
		}

		switch req.PostFormValue("grant_type") {
		case "refresh_token":
			if req.PostFormValue("client_id") != p.clientID ||
				req.PostFormValue("client_secret") != p.clientSecret {
				_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_client", "invalid client credentials")
				return
			}
			if req.PostFormValue("refresh_token") != p.expectedRefreshToken {
				_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_grant", "unexpected refresh_token")
				return
			}

			reply := map[string]interface{}{
				"expires_in": 300,
				"token_type": "Bearer",
			}
			if !p.omitAccessToken {
				reply["access_token"] = p.issueIDToken()
			}
			if !p.omitIDToken {
				reply["id_token"] = p.issueIDToken()
			}
			_ = p.writeJSON(w, reply)

		default:
			wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(p.clientID+":"+p.clientSecret))
			if req.Header.Get("Authorization") != wantAuth {
				_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_client", "missing or invalid basic auth")
				return
			}
			if req.PostFormValue("code") != p.expectedAuthCode {
				_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_grant", "unexpected authorization code")
				return
			}

			reply := map[string]interface{}{
				"refresh_token":      "test-refresh-token",
				"refresh_expires_in": 1800,
				"token_type":         "Bearer",
			}
			if !p.omitAccessToken {
				reply["access_token"] = p.issueIDToken()
			}
			if !p.omitIDToken {
				reply["id_token"] = p.issueIDToken()
			}
			_ = p.writeJSON(w, reply)
		}

	case basePath + "/token/introspect":
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := req.ParseForm(); err != nil {
			_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_request", "unparseable form body")
			return
		}
		if req.PostFormValue("client_id") != p.clientID ||
			req.PostFormValue("client_secret") != p.clientSecret {
			_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_client", "invalid client credentials")
			return
		}

		if p.omitActiveField {
			_ = p.writeJSON(w, map[string]interface{}{})
			return
		}
		_ = p.writeJSON(w, map[string]interface{}{"active": p.active})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
