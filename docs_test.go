package core_test

import (
	"context"
	"fmt"

	"github.com/bcgov/citz-imb-sso-go-core/sso"
)

func Example_loginURL() {
	cfg, err := sso.NewConfig("my-client-id", "my-client-secret")
	if err != nil {
		// handle error
	}

	loginURL, err := cfg.LoginURL("idir", "https://myapp.com/callback")
	if err != nil {
		// handle error
	}
	fmt.Println(loginURL)

	// Output:
	// https://dev.loginproxy.gov.bc.ca/auth/realms/standard/protocol/openid-connect/auth?client_id=my-client-id&kc_idp_hint=idir&redirect_uri=https%253A%252F%252Fmyapp.com%252Fcallback&response_type=code&scope=email%2Bopenid
}

func Example_normalizeUser() {
	payload := sso.ClaimsPayload{
		"identity_provider": "idir",
		"idir_user_guid":    "A1B2C3D4E5F6",
		"idir_username":     "JDOE",
		"given_name":        "John",
		"family_name":       "Doe",
		"email":             "john.doe@gov.bc.ca",
		"client_roles":      []interface{}{"admin"},
	}

	user, err := sso.NormalizeUser(payload)
	if err != nil {
		// handle error
	}

	isAdmin, err := user.HasRoles([]string{"admin"})
	if err != nil {
		// handle error
	}
	fmt.Println(user.Username, user.FirstName, user.LastName, isAdmin)

	// Output:
	// JDOE John Doe true
}

func Example_tokens() {
	ctx := context.Background()

	cfg, err := sso.NewConfig("my-client-id", "my-client-secret",
		sso.WithEnvironment(sso.EnvironmentProd),
	)
	if err != nil {
		// handle error
	}

	client, err := sso.NewClient(cfg)
	if err != nil {
		// handle error
	}

	// exchange the authorization code returned to the redirect URI
	tokens, err := client.ExchangeCode(ctx, "authorization-code", "https://myapp.com/callback")
	if err != nil {
		// handle error
	}

	payload, err := tokens.IdToken.Decode()
	if err != nil {
		// handle error
	}

	user, err := sso.NormalizeUser(payload)
	if err != nil {
		// handle error
	}
	fmt.Println(user.Username)

	// later, refresh the session; an inactive refresh token returns nil
	// tokens without an error
	refreshed, err := client.RefreshTokens(ctx, tokens.RefreshToken)
	if err != nil {
		// handle error
	}
	if refreshed == nil {
		// re-authenticate
	}
}
