package sso

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_String(t *testing.T) {
	t.Parallel()
	t.Run("redacted", func(t *testing.T) {
		assert := assert.New(t)
		const want = RedactedAccessToken
		tk := AccessToken("super secret token")
		assert.Equalf(want, tk.String(), "AccessToken.String() = %v, want %v", tk.String(), want)
	})
}

func TestAccessToken_MarshalJSON(t *testing.T) {
	t.Parallel()
	t.Run("redacted", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		want := fmt.Sprintf(`"%s"`, RedactedAccessToken)
		tk := AccessToken("super secret token")
		got, err := tk.MarshalJSON()
		require.NoError(err)
		assert.Equalf([]byte(want), got, "AccessToken.MarshalJSON() = %s, want %s", got, want)
	})
}

func TestRefreshToken_String(t *testing.T) {
	t.Parallel()
	t.Run("redacted", func(t *testing.T) {
		assert := assert.New(t)
		const want = RedactedRefreshToken
		tk := RefreshToken("super secret token")
		assert.Equalf(want, tk.String(), "RefreshToken.String() = %v, want %v", tk.String(), want)
	})
}

func TestIdToken_String(t *testing.T) {
	t.Parallel()
	t.Run("redacted", func(t *testing.T) {
		assert := assert.New(t)
		const want = RedactedIdToken
		tk := IdToken("super secret token")
		assert.Equalf(want, tk.String(), "IdToken.String() = %v, want %v", tk.String(), want)
	})
}

func TestIdToken_MarshalJSON(t *testing.T) {
	t.Parallel()
	t.Run("redacted", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		want := fmt.Sprintf(`"%s"`, RedactedIdToken)
		tk := IdToken("super secret token")
		got, err := tk.MarshalJSON()
		require.NoError(err)
		assert.Equalf([]byte(want), got, "IdToken.MarshalJSON() = %s, want %s", got, want)
	})
}

func TestIdToken_Claims(t *testing.T) {
	t.Parallel()
	t.Run("all-claims", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tk := IdToken(testJwt)
		var claims map[string]interface{}
		require.NoError(tk.Claims(&claims))
		assert.Equal(map[string]interface{}{
			"iat":  float64(1516239022),
			"name": "John Doe",
			"sub":  "1234567890",
		}, claims)
	})
	t.Run("no-token", func(t *testing.T) {
		assert := assert.New(t)
		tk := IdToken("")
		var claims map[string]interface{}
		err := tk.Claims(&claims)
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted %q but got %q", ErrInvalidParameter, err)
	})
	t.Run("nil-claims", func(t *testing.T) {
		assert := assert.New(t)
		tk := IdToken(testJwt)
		err := tk.Claims(nil)
		assert.Truef(errors.Is(err, ErrNilParameter), "wanted %q but got %q", ErrNilParameter, err)
	})
}

func TestIdToken_Decode(t *testing.T) {
	t.Parallel()
	t.Run("payload", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tk := IdToken(testJwt)
		payload, err := tk.Decode()
		require.NoError(err)
		assert.Equal("1234567890", payload.String("sub"))
	})
	t.Run("no-token", func(t *testing.T) {
		assert := assert.New(t)
		tk := IdToken("")
		_, err := tk.Decode()
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted %q but got %q", ErrInvalidParameter, err)
	})
}

func TestTokenSet_Unmarshal(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	body := []byte(`{"id_token":"id","access_token":"at","refresh_token":"rt","refresh_expires_in":1800}`)
	var tokens TokenSet
	require.NoError(json.Unmarshal(body, &tokens))
	assert.Equal(IdToken("id"), tokens.IdToken)
	assert.Equal(AccessToken("at"), tokens.AccessToken)
	assert.Equal(RefreshToken("rt"), tokens.RefreshToken)
	assert.Equal(int64(1800), tokens.RefreshExpiresIn)
}
