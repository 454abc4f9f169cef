// Package google normalizes Google OpenID Connect user-info payloads.
package google

import (
	"github.com/goliatone/go-identity/federated"
)

const providerName = "google"

// Provider implements federated.Provider for Google.
type Provider struct{}

// New creates a Google normalizer.
func New() *Provider {
	return &Provider{}
}

// Name implements federated.Provider.
func (p *Provider) Name() string {
	return providerName
}

// Normalize implements federated.Provider. Google payloads are flat: the
// stable subject id lives in "sub", the email in "email".
func (p *Provider) Normalize(attributes map[string]any) (*federated.Profile, error) {
	sub := federated.StringAttr(attributes, "sub")
	if sub == "" {
		return nil, federated.ErrMalformedPayload
	}

	return &federated.Profile{
		Provider:       providerName,
		ProviderUserID: sub,
		Email:          federated.StringAttr(attributes, "email"),
		Name:           federated.StringAttr(attributes, "name"),
		AvatarURL:      federated.StringAttr(attributes, "picture"),
		Raw:            attributes,
	}, nil
}
