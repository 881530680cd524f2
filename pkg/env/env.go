// Package env reads process environment variables with fallbacks. Typed
// service configuration lives in pkg/config; this covers the few lookups
// needed before that config is loaded.
package env

import "os"

// Get returns the named variable's value, or fallback when it is unset or
// blank.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
