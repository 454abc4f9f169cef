// Package kakao normalizes Kakao user-info payloads.
package kakao

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-identity/federated"
)

const providerName = "kakao"

// Provider implements federated.Provider for Kakao.
type Provider struct{}

// New creates a Kakao normalizer.
func New() *Provider {
	return &Provider{}
}

// Name implements federated.Provider.
func (p *Provider) Name() string {
	return providerName
}

// Normalize implements federated.Provider. Kakao nests attributes: the
// numeric subject id is top-level, the email lives under "kakao_account"
// (present only when the user consented), nickname and avatar under
// "properties".
func (p *Provider) Normalize(attributes map[string]any) (*federated.Profile, error) {
	id := subjectID(attributes)
	if id == "" {
		return nil, federated.ErrMalformedPayload
	}

	profile := &federated.Profile{
		Provider:       providerName,
		ProviderUserID: id,
		Raw:            attributes,
	}

	if account := federated.MapAttr(attributes, "kakao_account"); account != nil {
		profile.Email = federated.StringAttr(account, "email")
	}

	if props := federated.MapAttr(attributes, "properties"); props != nil {
		profile.Name = federated.StringAttr(props, "nickname")
		profile.AvatarURL = federated.StringAttr(props, "profile_image")
	}

	return profile, nil
}

// subjectID renders Kakao's numeric id as a string. Decoded JSON delivers it
// as float64; providers occasionally hand over ints or strings in tests.
func subjectID(attributes map[string]any) string {
	if attributes == nil {
		return ""
	}

	switch v := attributes["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
