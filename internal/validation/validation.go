package validation

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/publicsuffix"
)

// ProjectIDPattern defines the valid project ID format: alphanumeric, hyphens, underscores.
var ProjectIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// hostnamePattern matches a dot-separated list of LDH labels.
var hostnamePattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z0-9-]{2,63}$`)

// MaxKeywordLength is the longest keyword the SERP provider accepts.
const MaxKeywordLength = 700

// DateLayout is the wire format of run dates.
const DateLayout = "2006-01-02"

// ValidateProjectID checks if a project ID matches the allowed pattern.
func ValidateProjectID(id string) bool {
	if id == "" || len(id) > 100 {
		return false
	}
	return ProjectIDPattern.MatchString(id)
}

// NormalizeDomain reduces user input to a bare lowercase host: scheme, path,
// port and trailing dot are removed. The www label is kept because result
// domains are reported with it.
func NormalizeDomain(input string) string {
	host := strings.ToLower(strings.TrimSpace(input))
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	} else if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

// ValidateDomain checks that a normalized domain is a registrable hostname
// under a known public suffix.
func ValidateDomain(domain string) (bool, string) {
	if domain == "" {
		return false, "Domain is required"
	}
	if len(domain) > 253 {
		return false, "Domain is too long"
	}
	if net.ParseIP(domain) != nil {
		return false, "Domain must be a hostname, not an IP address"
	}
	if !hostnamePattern.MatchString(domain) {
		return false, "Invalid domain format"
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return false, "Domain must be registrable under a public suffix"
	}
	return true, ""
}

// ValidateKeyword checks if a search keyword can be submitted.
func ValidateKeyword(keyword string) (bool, string) {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return false, "Keyword is required"
	}
	if len([]rune(trimmed)) > MaxKeywordLength {
		return false, "Keyword is too long"
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return false, "Keyword contains control characters"
		}
	}
	return true, ""
}

// ValidateCoordinates checks a "latitude,longitude[,radius]" location.
// An empty value is allowed and leaves location to the provider default.
func ValidateCoordinates(coords string) (bool, string) {
	if coords == "" {
		return true, ""
	}
	parts := strings.Split(coords, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return false, "Coordinates must be latitude,longitude[,radius]"
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return false, "Coordinates must be numeric"
		}
		values[i] = v
	}
	if values[0] < -90 || values[0] > 90 {
		return false, "Latitude must be between -90 and 90"
	}
	if values[1] < -180 || values[1] > 180 {
		return false, "Longitude must be between -180 and 180"
	}
	if len(values) == 3 && values[2] <= 0 {
		return false, "Radius must be positive"
	}
	return true, ""
}

// ParseDate parses a YYYY-MM-DD run date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
