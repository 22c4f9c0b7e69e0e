package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vahedem/subhunt/internal/validate"
)

func TestIsDomain(t *testing.T) {
	valid := []string{"example.com", "api.example.com", "a-b.example.co.uk", "xn--bcher-kva.example"}
	for _, s := range valid {
		assert.True(t, validate.IsDomain(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "example", "-bad.example.com", "has space.com", "$(injection)", "example.com/"}
	for _, s := range invalid {
		assert.False(t, validate.IsDomain(s), "expected %q to be invalid", s)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Example.COM", "example.com"},
		{"api.example.com.", "api.example.com"},
		{"  www.example.com \n", "www.example.com"},
		{"already.example.com", "already.example.com"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, validate.Normalize(tc.in))
	}
}

func TestInScope(t *testing.T) {
	domain := "example.com"

	assert.True(t, validate.InScope("example.com", domain))
	assert.True(t, validate.InScope("api.example.com", domain))
	assert.True(t, validate.InScope("deep.nested.example.com", domain))

	assert.False(t, validate.InScope("example.com.evil.net", domain))
	assert.False(t, validate.InScope("notexample.com", domain))
	assert.False(t, validate.InScope("example.org", domain))
}

func TestStripWildcard(t *testing.T) {
	assert.Equal(t, "example.com", validate.StripWildcard("*.example.com"))
	assert.Equal(t, "api.example.com", validate.StripWildcard("api.example.com"))
}
