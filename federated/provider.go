package federated

import "github.com/goliatone/go-errors"

// Provider normalizes one identity provider's attribute schema into a Profile.
// The OAuth2 authorization-code exchange happens upstream; implementations
// receive the already-fetched user-info payload and perform no I/O.
type Provider interface {
	// Name returns the provider tag (e.g. "google", "kakao").
	Name() string

	// Normalize maps the provider's raw user-info payload to a Profile.
	Normalize(attributes map[string]any) (*Profile, error)
}

// ErrMalformedPayload is returned when a provider payload cannot be mapped.
var ErrMalformedPayload = errors.New("malformed provider payload", errors.CategoryBadInput).
	WithTextCode("federated_malformed_payload").
	WithCode(errors.CodeBadRequest)

// StringAttr reads a string attribute from a raw payload, tolerating absent
// keys and non-string values.
func StringAttr(attributes map[string]any, key string) string {
	if attributes == nil {
		return ""
	}
	if val, ok := attributes[key].(string); ok {
		return val
	}
	return ""
}

// MapAttr reads a nested object attribute from a raw payload.
func MapAttr(attributes map[string]any, key string) map[string]any {
	if attributes == nil {
		return nil
	}
	if val, ok := attributes[key].(map[string]any); ok {
		return val
	}
	return nil
}
