package domain

import (
	"net"
	"net/url"
	"strings"
)

// RestorePath is the tenant-origin path that redeems handoff tokens.
const RestorePath = "/auth/session-restore"

// SubdomainOf returns the single leftmost label of host when host is exactly
// "<label>.<baseDomain>". Ports are ignored and comparison is case-insensitive. Hosts
// outside baseDomain, the bare base domain and nested labels report false.
func SubdomainOf(host, baseDomain string) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	baseDomain = strings.TrimSuffix(strings.ToLower(baseDomain), ".")
	if baseDomain == "" {
		return "", false
	}

	label, found := strings.CutSuffix(host, "."+baseDomain)
	if !found || label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

// TenantHost returns the host of a tenant origin.
func TenantHost(subdomain, baseDomain string) string {
	return subdomain + "." + baseDomain
}

// RestoreURL builds the URL on the tenant origin that redeems tokenID. The token id is
// the only value placed in the URL.
func RestoreURL(scheme, subdomain, baseDomain, tokenID string) string {
	u := url.URL{
		Scheme:   scheme,
		Host:     TenantHost(subdomain, baseDomain),
		Path:     RestorePath,
		RawQuery: url.Values{"token": []string{tokenID}}.Encode(),
	}
	return u.String()
}
