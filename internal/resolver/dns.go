package resolver

import (
	"context"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// NewDNS creates a [DNS] resolver that queries the specified server directly.
// If the server address carries no port, the standard DNS port is assumed.
func NewDNS(server string) *DNS {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &DNS{
		server: server,
		client: new(dns.Client),
	}
}

// DNS resolves hostnames by querying a single DNS server over UDP,
// bypassing the system resolver configuration.
type DNS struct {
	server string
	client *dns.Client
}

func (r *DNS) LookupHost(ctx context.Context, host string) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)

	reply, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return "", fmt.Errorf("resolve %q via %v: %w", host, r.server, err)
	}
	if reply.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("resolve %q via %v: %v", host, r.server, dns.RcodeToString[reply.Rcode])
	}

	for _, rr := range reply.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", fmt.Errorf("resolve %q via %v: no A records", host, r.server)
}
