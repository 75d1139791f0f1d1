// Package resolve looks up addresses for hosts that Zabbix reaches by DNS name.
package resolve

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// DefaultTimeout is the default per-query timeout.
const DefaultTimeout = 3 * time.Second

// Resolver queries one DNS server for A, then AAAA, records.
type Resolver struct {
	server string
	client *dns.Client
}

// New creates a Resolver for server ("host" or "host:port"). An empty
// server uses the first nameserver from /etc/resolv.conf.
func New(server string, timeout time.Duration) (*Resolver, error) {
	if server == "" {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("resolve: no server given and resolv.conf unreadable: %w", err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("resolve: no nameservers in resolv.conf")
		}
		server = net.JoinHostPort(conf.Servers[0], conf.Port)
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Resolver{
		server: server,
		client: &dns.Client{Timeout: timeout},
	}, nil
}

// Server returns the nameserver address in use.
func (r *Resolver) Server() string {
	return r.server
}

// Resolve returns the first A record for name, falling back to AAAA.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		addr, err := r.query(ctx, name, qtype)
		if err == nil {
			return addr, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (r *Resolver) query(ctx context.Context, name string, qtype uint16) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return "", fmt.Errorf("dns %s %s: %w", dns.TypeToString[qtype], name, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("dns %s %s: rcode %s", dns.TypeToString[qtype], name, dns.RcodeToString[resp.Rcode])
	}

	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			return v.A.String(), nil
		case *dns.AAAA:
			return v.AAAA.String(), nil
		}
	}
	return "", fmt.Errorf("dns %s %s: no answer", dns.TypeToString[qtype], name)
}
