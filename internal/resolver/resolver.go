package resolver

import (
	"context"
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/proxy"
)

// Resolver resolves a hostname to its set of IP address strings.
// An empty slice with a nil error is a valid "name exists but has no
// addresses" outcome; callers treat errors and empty sets alike as
// "did not resolve".
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// System returns a Resolver backed by the platform resolver.
//
// When proxyURL is empty or its scheme is not "socks5", the standard system
// resolver is used (nil Dial field, so Go uses the platform resolver).
//
// When proxyURL is a socks5:// URL, DNS queries are tunnelled through the
// SOCKS5 proxy using DNS-over-TCP, preventing DNS leaks to the local ISP.
func System(proxyURL string) (Resolver, error) {
	if proxyURL == "" || !strings.HasPrefix(proxyURL, "socks5://") {
		return &systemResolver{inner: &net.Resolver{}}, nil
	}

	// Strip the scheme to get host:port.
	host := strings.TrimPrefix(proxyURL, "socks5://")

	dialer, err := proxy.SOCKS5("tcp", host, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("creating SOCKS5 dialer for DNS: %w", err)
	}

	// proxy.SOCKS5 returns a ContextDialer; type-assert to get DialContext.
	ctxDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not implement ContextDialer")
	}

	return &systemResolver{inner: &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			return ctxDialer.DialContext(ctx, "tcp", address)
		},
	}}, nil
}

type systemResolver struct {
	inner *net.Resolver
}

func (r *systemResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return r.inner.LookupHost(ctx, host)
}
