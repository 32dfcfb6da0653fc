package sso

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyProvider(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	tests := []struct {
		identityProvider string
		want             ProviderKind
	}{
		{"idir", KindIDIR},
		{"azureidir", KindIDIR},
		{"bceidbasic", KindBCeID},
		{"bceidbusiness", KindBCeID},
		{"bceidboth", KindBCeID},
		{"githubbcgov", KindGitHub},
		{"digitalcredential", KindDigitalCredential},
		{"bcservicescard-client", KindUnknown},
		{"github", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equalf(tt.want, ClassifyProvider(tt.identityProvider), "ClassifyProvider(%q)", tt.identityProvider)
	}
}
