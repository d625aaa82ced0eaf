package logging

import "strings"

const redacted = "*****"

var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"jwt":           {},
	"authorization": {},
	"apikey":        {},
	"api_key":       {},
}

// Sanitize returns a copy of a decoded JSON value with credential fields masked.
// Non-container values are returned unchanged.
func Sanitize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				out[k] = redacted
				continue
			}
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	default:
		return v
	}
}
