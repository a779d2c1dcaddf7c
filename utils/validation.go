package utils

import (
	"net/url"
	"strings"
)

// MissingFields returns the names of required form fields that are absent or blank.
// Passwords are opaque and only need to be non-empty; check them directly.
func MissingFields(form url.Values, names ...string) []string {
	var missing []string
	for _, name := range names {
		if strings.TrimSpace(form.Get(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
