// Package requestmeta inspects transport facts about incoming requests.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// IsHTTPS reports whether the request arrived over TLS, directly or via a
// trusted proxy.
func IsHTTPS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https") {
		return true
	}
	return strings.EqualFold(r.URL.Scheme, "https")
}

// HasSameOriginProof reports whether the Origin or Referer header proves the
// request came from this host over the same scheme. State-changing handlers
// use it as a CSRF check.
func HasSameOriginProof(r *http.Request) bool {
	if r == nil {
		return false
	}
	scheme := "http"
	if IsHTTPS(r) {
		scheme = "https"
	}
	host := strings.TrimSpace(r.Host)
	if host == "" {
		return false
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		return matchesOrigin(origin, scheme, host)
	}
	if referer := strings.TrimSpace(r.Header.Get("Referer")); referer != "" {
		return matchesOrigin(referer, scheme, host)
	}
	return false
}

func matchesOrigin(raw, scheme, host string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !strings.EqualFold(parsed.Scheme, scheme) {
		return false
	}
	return strings.EqualFold(parsed.Host, host)
}
