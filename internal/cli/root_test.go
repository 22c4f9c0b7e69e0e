package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahedem/subhunt/internal/apperr"
	"github.com/vahedem/subhunt/internal/version"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_InvalidDomain(t *testing.T) {
	testCases := []string{
		"not a domain",
		"*.example.com",
		"example..com",
		"",
	}
	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			_, _, err := execute(t, tc)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}

func TestRootCmd_RequiresExactlyOneArg(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)

	_, _, err = execute(t, "a.com", "b.com")
	assert.Error(t, err)
}

func TestRootCmd_RejectsNonPositiveSettings(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"concurrency", []string{"--concurrency", "0", "example.com"}},
		{"max-in-flight", []string{"--max-in-flight", "-1", "example.com"}},
		{"attempts", []string{"--attempts", "0", "example.com"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "at least 1")
		})
	}
}

func TestRootCmd_RejectsBadProxyScheme(t *testing.T) {
	_, _, err := execute(t, "--proxy", "ftp://proxy.local:21", "example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRootCmd_Version(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "subhunt version "+version.Version+"\n", stdout)
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "subhunt <domain>")
	assert.Contains(t, stdout, "--all-sources")
	assert.True(t, strings.Contains(stdout, "--nameserver"))
}
