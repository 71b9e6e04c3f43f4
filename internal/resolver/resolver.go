package resolver

import (
	"context"
	"fmt"
	"net"
)

// Resolver performs a forward name lookup, mapping a hostname to a single IPv4 address.
type Resolver interface {
	LookupHost(ctx context.Context, host string) (string, error)
}

// NewSystem creates a [System] resolver backed by the platform's default resolver.
func NewSystem() *System {
	return &System{net.DefaultResolver}
}

// System resolves hostnames through the operating system's name resolution facilities.
type System struct {
	resolver *net.Resolver
}

func (r *System) LookupHost(ctx context.Context, host string) (string, error) {
	addrs, err := r.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", host, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("resolve %q: no addresses found", host)
	}
	return addrs[0].String(), nil
}
