package memory

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// Sanitizer rewrites string values before they leave the model.
type Sanitizer interface {
	Sanitize(value string) string
}

// PolicySanitizer strips markup using a bluemonday policy. The policy output
// is HTML-escaped; it is unescaped again because the serializer escapes for
// XML on its own.
type PolicySanitizer struct {
	Policy *bluemonday.Policy
}

// Sanitize applies the policy.
func (s PolicySanitizer) Sanitize(value string) string {
	if s.Policy == nil || value == "" {
		return value
	}
	return html.UnescapeString(strings.TrimSpace(s.Policy.Sanitize(value)))
}

// StrictSanitizer removes every element from string values, keeping text.
func StrictSanitizer() Sanitizer {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return PolicySanitizer{Policy: strictPolicy}
}

func sanitizeValue(s Sanitizer, value any) any {
	if s == nil {
		return value
	}
	switch v := value.(type) {
	case string:
		return s.Sanitize(v)
	case []any:
		out := make([]any, len(v))
		for i, member := range v {
			out[i] = sanitizeValue(s, member)
		}
		return out
	default:
		return value
	}
}
