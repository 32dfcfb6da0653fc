package sso

import (
	"fmt"

	strutil "github.com/bcgov/citz-imb-sso-go-core/sso/internal/strutils"
)

// HasRoles reports whether the claims payload's client_roles satisfy the
// required roles. By default at least one required role must be present; with
// WithRequireAllRoles every required role must be present. The comparison
// ignores order and duplicates.
//
// roles accepts a []string. Any other runtime shape, including a bare string
// or a list with a non-string element, fails with ErrInvalidRoles naming the
// offending type. A nil payload resolves to false before roles is inspected;
// a payload with no client_roles resolves to false only after roles has been
// validated.
func HasRoles(payload ClaimsPayload, roles interface{}, opt ...Option) (bool, error) {
	const op = "sso.HasRoles"
	if payload == nil {
		return false, nil
	}
	required, err := rolesAsStrings(op, roles)
	if err != nil {
		return false, err
	}
	userRoles := payload.ClientRoles()
	if len(userRoles) == 0 {
		return false, nil
	}
	required = strutil.RemoveDuplicatesStable(required, false)

	opts := getRolesOpts(opt...)
	if opts.withRequireAllRoles {
		return strutil.StrListSubset(userRoles, required), nil
	}
	for _, role := range required {
		if strutil.StrListContains(userRoles, role) {
			return true, nil
		}
	}
	return false, nil
}

func rolesAsStrings(op string, roles interface{}) ([]string, error) {
	switch v := roles.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: received roles element as type %T, expected string: %w", op, item, ErrInvalidRoles)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: received roles as type %T, expected []string: %w", op, roles, ErrInvalidRoles)
	}
}

// rolesOptions is the set of available options
type rolesOptions struct {
	withRequireAllRoles bool
}

// getRolesOpts gets the defaults and applies the opt overrides passed in.
func getRolesOpts(opt ...Option) rolesOptions {
	opts := rolesOptions{}
	ApplyOpts(&opts, opt...)
	return opts
}

// WithRequireAllRoles requires every role in the list to be present, instead
// of at least one.
func WithRequireAllRoles() Option {
	return func(o interface{}) {
		if o, ok := o.(*rolesOptions); ok {
			o.withRequireAllRoles = true
		}
	}
}
