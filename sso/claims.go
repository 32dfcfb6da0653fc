package sso

// ClaimsPayload is the open, string-keyed mapping decoded from a JWT's
// payload segment. Values keep the shapes encoding/json gives them: strings,
// bools, float64 numbers, []interface{} and nested maps.
type ClaimsPayload map[string]interface{}

// Has reports whether the claim is present.
func (p ClaimsPayload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the claim as a string, or "" when absent or not a string.
func (p ClaimsPayload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Bool returns the claim as a bool, or false when absent or not a bool.
func (p ClaimsPayload) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Int64 returns the claim as an int64. JSON numbers decode as float64, so the
// value is truncated toward zero.
func (p ClaimsPayload) Int64(key string) int64 {
	f, _ := p[key].(float64)
	return int64(f)
}

// StringSlice returns the claim as a []string. Non-string elements are
// skipped. The result is never nil.
func (p ClaimsPayload) StringSlice(key string) []string {
	out := []string{}
	switch v := p[key].(type) {
	case []string:
		out = append(out, v...)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// IdentityProvider returns the identity_provider claim, the dispatch key for
// normalization.
func (p ClaimsPayload) IdentityProvider() string {
	return p.String("identity_provider")
}

// ClientRoles returns the client_roles claim, or an empty slice when absent.
func (p ClaimsPayload) ClientRoles() []string {
	return p.StringSlice("client_roles")
}
