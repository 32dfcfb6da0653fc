package sso

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJWT splits a compact JWT into its three dot-separated segments and
// decodes the payload segment into a ClaimsPayload. It performs no signature,
// expiry or algorithm verification; decoding is structural extraction only.
//
// A string without exactly three non-empty segments fails with
// ErrMalformedToken. A payload that is not valid JSON fails with
// ErrPayloadParse carrying the underlying diagnostic. Any other failure (for
// example corrupt base64) is wrapped into ErrUnknownDecode.
func DecodeJWT(jwt string) (ClaimsPayload, error) {
	const op = "sso.DecodeJWT"
	raw, err := decodePayloadSegment(op, jwt)
	if err != nil {
		return nil, err
	}
	var payload ClaimsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%s: json.Unmarshal: %v: %w", op, err, ErrPayloadParse)
	}
	return payload, nil
}

// UnmarshalClaims decodes a JWT's payload segment into the claims the caller
// provides, which must be a non-nil pointer.
func UnmarshalClaims(jwt string, claims interface{}) error {
	const op = "sso.UnmarshalClaims"
	if claims == nil {
		return fmt.Errorf("%s: claims interface is nil: %w", op, ErrNilParameter)
	}
	raw, err := decodePayloadSegment(op, jwt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, claims); err != nil {
		return fmt.Errorf("%s: json.Unmarshal: %v: %w", op, err, ErrPayloadParse)
	}
	return nil
}

func decodePayloadSegment(op string, jwt string) ([]byte, error) {
	parts := strings.Split(jwt, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
		}
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("%s: base64 decoding of payload failed: %v: %w", op, err, ErrUnknownDecode)
	}
	return raw, nil
}
