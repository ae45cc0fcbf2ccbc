package util

import "strings"

// Truthy reports whether an environment-style string value should be
// interpreted as enabled.
func Truthy(s string) bool {
	normalized := strings.ToLower(strings.TrimSpace(s))
	return normalized == "true" || normalized == "1" || normalized == "yes" || normalized == "on"
}
