package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// resolver is swapped in tests.
type resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

var dns resolver = net.DefaultResolver

const lookupTimeout = 3 * time.Second

// IsEmailDomainValid reports whether the domain of email accepts mail: it
// has an MX record or at least resolves.
func IsEmailDomainValid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if mx, err := dns.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := dns.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
