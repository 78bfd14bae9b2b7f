package ranking

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Matches reports whether a result item's domain belongs to a tracked domain.
//
// In exact mode the two strings must be equal. In subdomain mode both sides
// are reduced to their registrable root label (the eTLD+1 without its public
// suffix), so blog.example.com matches example.com and shop.example.co.uk
// matches example.co.uk.
func Matches(resultDomain, trackedDomain string, subdomainMode bool) bool {
	if !subdomainMode {
		return resultDomain == trackedDomain
	}
	root := RootDomain(trackedDomain)
	if root == "" {
		return false
	}
	return RootDomain(resultDomain) == root
}

// RootDomain returns the registrable label of a host: "example" for
// foo.example.co.uk. Hosts without a public suffix (IP addresses, single
// labels such as localhost) are returned normalized but otherwise unchanged.
func RootDomain(domain string) string {
	host := normalizeHost(domain)
	if host == "" || net.ParseIP(host) != nil {
		return host
	}

	etldPlusOne, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	suffix, _ := publicsuffix.PublicSuffix(etldPlusOne)
	return strings.TrimSuffix(etldPlusOne, "."+suffix)
}

// normalizeHost lowercases a domain and strips any scheme, path, port and
// trailing dot so that URLs pasted into a project still compare as hosts.
func normalizeHost(domain string) string {
	host := strings.ToLower(strings.TrimSpace(domain))
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	return strings.TrimSuffix(host, ".")
}
