package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// queryTimeout bounds a single DNS exchange against the configured nameserver.
const queryTimeout = 5 * time.Second

// Direct queries a specific nameserver for A and AAAA records instead of
// going through the platform resolver. Useful when the system resolver is
// slow, caching aggressively, or not the vantage point the operator wants.
type Direct struct {
	nameserver string
	udp        *dns.Client
	tcp        *dns.Client
}

// NewDirect creates a Direct resolver for the given nameserver address.
// A missing port defaults to :53.
func NewDirect(nameserver string) *Direct {
	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		nameserver = net.JoinHostPort(nameserver, "53")
	}
	return &Direct{
		nameserver: nameserver,
		udp:        &dns.Client{Timeout: queryTimeout},
		tcp:        &dns.Client{Net: "tcp", Timeout: queryTimeout},
	}
}

// LookupHost resolves host to its combined A and AAAA address set.
// A name that does not exist yields an empty set and a nil error; transport
// failures are returned as errors and normalized by the caller.
func (d *Direct) LookupHost(ctx context.Context, host string) ([]string, error) {
	var addrs []string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		records, err := d.query(ctx, host, qtype)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, records...)
	}
	return addrs, nil
}

func (d *Direct) query(ctx context.Context, host string, qtype uint16) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)

	in, _, err := d.udp.ExchangeContext(ctx, m, d.nameserver)
	if err != nil {
		return nil, fmt.Errorf("querying %s for %s: %w", d.nameserver, host, err)
	}
	if in.Truncated {
		// Large answers need the TCP fallback path.
		in, _, err = d.tcp.ExchangeContext(ctx, m, d.nameserver)
		if err != nil {
			return nil, fmt.Errorf("TCP retry against %s for %s: %w", d.nameserver, host, err)
		}
	}

	var addrs []string
	for _, rr := range in.Answer {
		switch v := rr.(type) {
		case *dns.A:
			addrs = append(addrs, v.A.String())
		case *dns.AAAA:
			addrs = append(addrs, v.AAAA.String())
		}
	}
	return addrs, nil
}
