package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// Resolver is the subset of *net.Resolver used to check mail domains.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// EmailDomain returns the lower-cased part after the last "@".
func EmailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(strings.TrimSuffix(email[at+1:], ".")), true
}

// HasMailDomain accepts a domain with an MX record, or failing that, one
// that resolves to an address.
func HasMailDomain(ctx context.Context, r Resolver, email string) bool {
	domain, ok := EmailDomain(email)
	if !ok {
		return false
	}

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if hosts, err := r.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return true
	}
	return false
}

func IsEmailDomainValid(email string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	return HasMailDomain(ctx, net.DefaultResolver, email)
}
