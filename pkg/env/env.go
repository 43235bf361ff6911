package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val, ok := Lookup(key); ok {
		return val
	}
	return fallback
}

// Lookup reports whether key holds a non-blank value.
func Lookup(key string) (string, bool) {
	val := strings.TrimSpace(os.Getenv(key))
	return val, val != ""
}

// Instance names the running process for logs. Platform dynos set DYNO;
// everything else reports as local.
func Instance() string {
	return Get("DYNO", "local")
}
