package resolve

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestServer runs a UDP DNS server on localhost for the test.
func startTestServer(t *testing.T, handler func(dns.ResponseWriter, *dns.Msg)) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &dns.Server{PacketConn: pc, Handler: dns.HandlerFunc(handler)}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func answer(records map[uint16]dns.RR) func(dns.ResponseWriter, *dns.Msg) {
	return func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		if rr, ok := records[r.Question[0].Qtype]; ok {
			m.Answer = append(m.Answer, rr)
		}
		_ = w.WriteMsg(m)
	}
}

func TestNewAddsDefaultPort(t *testing.T) {
	r, err := New("192.0.2.53", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.53:53", r.Server())

	r, err = New("192.0.2.53:5353", 0)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.53:5353", r.Server())
}

func TestResolveA(t *testing.T) {
	addr := startTestServer(t, answer(map[uint16]dns.RR{
		dns.TypeA: &dns.A{
			Hdr: dns.RR_Header{Name: "web.lan.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
			A:   net.ParseIP("192.0.2.10"),
		},
	}))

	r, err := New(addr, time.Second)
	require.NoError(t, err)

	ip, err := r.Resolve(context.Background(), "web.lan")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.10", ip)
}

func TestResolveFallsBackToAAAA(t *testing.T) {
	addr := startTestServer(t, answer(map[uint16]dns.RR{
		dns.TypeAAAA: &dns.AAAA{
			Hdr:  dns.RR_Header{Name: "v6.lan.", Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: 60},
			AAAA: net.ParseIP("2001:db8::10"),
		},
	}))

	r, err := New(addr, time.Second)
	require.NoError(t, err)

	ip, err := r.Resolve(context.Background(), "v6.lan")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::10", ip)
}

func TestResolveNXDomain(t *testing.T) {
	addr := startTestServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeNameError)
		_ = w.WriteMsg(m)
	})

	r, err := New(addr, time.Second)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "missing.lan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NXDOMAIN")
}

func TestResolveNoAnswer(t *testing.T) {
	addr := startTestServer(t, answer(nil))

	r, err := New(addr, time.Second)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "empty.lan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no answer")
}
