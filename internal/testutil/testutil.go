// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"

	"github.com/vahedem/subhunt/internal/resolver"
)

// MockResolver implements resolver.Resolver for testing. Set LookupHostFn to
// control resolution behavior; the zero value resolves nothing.
type MockResolver struct {
	LookupHostFn func(ctx context.Context, host string) ([]string, error)
}

var _ resolver.Resolver = (*MockResolver)(nil)

// LookupHost implements resolver.Resolver.
func (m *MockResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if m.LookupHostFn != nil {
		return m.LookupHostFn(ctx, host)
	}
	return nil, nil
}

// TableResolver returns a MockResolver answering from a fixed host→addresses
// table. Hosts absent from the table yield an empty address set.
func TableResolver(table map[string][]string) *MockResolver {
	return &MockResolver{
		LookupHostFn: func(_ context.Context, host string) ([]string, error) {
			return table[host], nil
		},
	}
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
