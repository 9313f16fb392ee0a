package env

import "os"

// Get returns the value of key, or fallback when it is unset or empty.
// Platform-injected variables such as PORT are read this way instead of
// through the STOREFRONT_ prefixed config.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
