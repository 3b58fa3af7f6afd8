// Package redact masks sensitive header values before they are buffered
// or persisted anywhere.
package redact

import "strings"

// Mask is the fixed token substituted for a sensitive value.
const Mask = "<masked>"

// DefaultSensitiveHeaders lists the header names masked when no custom
// list is configured. Matching is case-insensitive.
func DefaultSensitiveHeaders() []string {
	return []string{
		"authorization",
		"proxy-authorization",
		"cookie",
		"set-cookie",
		"x-api-key",
		"x-auth-token",
	}
}

// Headers returns a copy of h with every sensitive value replaced by Mask.
// Name matching is case-insensitive. The input map is never mutated;
// non-sensitive entries are carried over unchanged. A nil input yields a
// nil result.
func Headers(h map[string]string, sensitive []string) map[string]string {
	if h == nil {
		return nil
	}

	names := make(map[string]struct{}, len(sensitive))
	for _, name := range sensitive {
		names[strings.ToLower(name)] = struct{}{}
	}

	out := make(map[string]string, len(h))
	for name, value := range h {
		if _, ok := names[strings.ToLower(name)]; ok {
			out[name] = Mask
		} else {
			out[name] = value
		}
	}
	return out
}

// IsMasked reports whether a value is the redaction token. The assembler
// uses it to flag masked header parameters in the report.
func IsMasked(value string) bool {
	return value == Mask
}
