// Package linkedin holds the pure helpers for working with LinkedIn profile
// URLs and headlines. Everything here is synchronous string work; no network.
package linkedin

import (
	"net/url"
	"regexp"
	"strings"
)

var publicIDPattern = regexp.MustCompile(`/in/([^/?#]+)`)

// IsProfileURL reports whether the URL points at a LinkedIn profile page.
func IsProfileURL(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "linkedin.com/in/")
}

// NormalizeProfileURL canonicalizes a profile URL so that variants differing
// only by query string, hash fragment or trailing slash compare equal.
// The result keeps scheme, host and path and nothing else.
func NormalizeProfileURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Not an absolute URL; fall back to plain string surgery.
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			raw = raw[:i]
		}
		return strings.TrimSuffix(raw, "/")
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// SameProfile reports whether two URLs refer to the same profile after
// normalization.
func SameProfile(a, b string) bool {
	na := NormalizeProfileURL(a)
	return na != "" && na == NormalizeProfileURL(b)
}

// PublicID extracts the public profile slug ("/in/<slug>") from a profile
// URL. Returns "" when the URL carries no slug.
func PublicID(raw string) string {
	m := publicIDPattern.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	slug := m[1]
	if strings.Contains(slug, "%") {
		if decoded, err := url.QueryUnescape(slug); err == nil {
			return decoded
		}
	}
	return slug
}

// CompanyFromHeadline derives the current company from a headline like
// "Senior Engineer at Acme". The split happens on the last " at " so titles
// such as "Head of Data at Scale at Initech" resolve to the trailing company.
// Returns "" when the headline carries no company marker.
func CompanyFromHeadline(headline string) string {
	idx := strings.LastIndex(headline, " at ")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(headline[idx+len(" at "):])
}
