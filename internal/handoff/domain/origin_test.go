package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdomainOf(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		subdomain string
		ok        bool
	}{
		{"tenant host", "acme.example.com", "acme", true},
		{"tenant host with port", "acme.example.com:8443", "acme", true},
		{"mixed case", "ACME.Example.com", "acme", true},
		{"trailing dot", "acme.example.com.", "acme", true},
		{"central origin", "app.example.com", "app", true},
		{"bare base domain", "example.com", "", false},
		{"nested label", "a.acme.example.com", "", false},
		{"foreign domain", "acme.evil.com", "", false},
		{"suffix trick", "acme.notexample.com", "", false},
		{"empty host", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subdomain, ok := SubdomainOf(tt.host, "example.com")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.subdomain, subdomain)
		})
	}

	t.Run("empty base domain never matches", func(t *testing.T) {
		_, ok := SubdomainOf("acme.", "")
		assert.False(t, ok)
	})
}

func TestRestoreURL(t *testing.T) {
	raw := RestoreURL("https", "acme", "example.com", "abc_-123")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "acme.example.com", u.Host)
	assert.Equal(t, RestorePath, u.Path)
	assert.Equal(t, url.Values{"token": {"abc_-123"}}, u.Query())
}
