// Package validate provides shared hostname validation, normalization, and
// scope-checking helpers.
package validate

import (
	"regexp"
	"strings"
)

// domainRegexp validates RFC-compliant hostnames.
var domainRegexp = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsDomain reports whether s is a valid RFC-compliant hostname.
func IsDomain(s string) bool {
	return domainRegexp.MatchString(s)
}

// Normalize lower-cases a raw candidate hostname and strips surrounding
// whitespace and any trailing dot. Candidates from upstream sources arrive in
// any case and may carry the FQDN root dot.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "."))
}

// InScope reports whether host falls under the target domain: the domain
// itself or any sub-label of it. Both arguments must already be normalized.
// "example.com.evil.net" and "notexample.com" are out of scope for
// "example.com".
func InScope(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// StripWildcard removes a leading wildcard label ("*.") from a certificate
// subject name, yielding the base hostname for scope checking.
func StripWildcard(s string) string {
	return strings.TrimPrefix(s, "*.")
}
