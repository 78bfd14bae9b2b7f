package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		result    string
		tracked   string
		subdomain bool
		expected  bool
	}{
		{"subdomain mode matches subdomain", "blog.example.com", "example.com", true, true},
		{"exact mode rejects subdomain", "blog.example.com", "example.com", false, false},
		{"exact mode equal", "example.com", "example.com", false, true},
		{"exact mode different", "other.com", "example.com", false, false},
		{"subdomain mode multi-part suffix", "shop.example.co.uk", "example.co.uk", true, true},
		{"subdomain mode tracked www", "example.com", "www.example.com", true, true},
		{"subdomain mode different roots", "blog.other.com", "example.com", true, false},
		{"subdomain mode case insensitive", "Blog.Example.COM", "example.com", true, true},
		{"subdomain mode empty tracked", "example.com", "", true, false},
		{"subdomain mode ip address", "10.0.0.1", "10.0.0.1", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(tt.result, tt.tracked, tt.subdomain))
		})
	}
}

func TestRootDomain(t *testing.T) {
	tests := []struct {
		domain   string
		expected string
	}{
		{"foo.example.co.uk", "example"},
		{"example.co.uk", "example"},
		{"blog.example.com", "example"},
		{"https://www.example.com/path?q=1", "example"},
		{"example.com.", "example"},
		{"example.com:8080", "example"},
		{"192.168.1.10", "192.168.1.10"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.expected, RootDomain(tt.domain))
		})
	}
}
