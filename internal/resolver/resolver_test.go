package resolver_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahedem/subhunt/internal/resolver"
)

func TestSystem_NoProxy(t *testing.T) {
	r, err := resolver.System("")
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestSystem_NonSocksProxyIgnored(t *testing.T) {
	r, err := resolver.System("http://127.0.0.1:8080")
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestSystem_SocksProxy(t *testing.T) {
	r, err := resolver.System("socks5://127.0.0.1:1080")
	require.NoError(t, err)
	assert.NotNil(t, r)
}

// startNameserver runs a local authoritative server answering for
// live.example.com and returns its address.
func startNameserver(t *testing.T) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		q := req.Question[0]
		switch {
		case q.Name == "live.example.com." && q.Qtype == dns.TypeA:
			rr, err := dns.NewRR("live.example.com. 60 IN A 192.0.2.10")
			if err == nil {
				m.Answer = append(m.Answer, rr)
			}
		case q.Name == "live.example.com." && q.Qtype == dns.TypeAAAA:
			// no AAAA records; empty answer section
		default:
			m.Rcode = dns.RcodeNameError
		}
		_ = w.WriteMsg(m)
	})

	srv := &dns.Server{PacketConn: pc, Handler: mux}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.ShutdownContext(ctx)
	})

	return pc.LocalAddr().String()
}

func TestDirect_ResolvesA(t *testing.T) {
	addr := startNameserver(t)
	r := resolver.NewDirect(addr)

	addrs, err := r.LookupHost(context.Background(), "live.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.0.2.10"}, addrs)
}

func TestDirect_MissingNameYieldsEmptySet(t *testing.T) {
	addr := startNameserver(t)
	r := resolver.NewDirect(addr)

	addrs, err := r.LookupHost(context.Background(), "ghost.example.com")
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestDirect_UnreachableNameserver(t *testing.T) {
	r := resolver.NewDirect("127.0.0.1:1")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := r.LookupHost(ctx, "live.example.com")
	assert.Error(t, err)
}
