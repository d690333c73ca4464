package validators

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	mx  map[string]bool
	ips map[string]bool
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if f.mx[name] {
		return []*net.MX{{Host: "mx." + name}}, nil
	}
	return nil, errors.New("no mx")
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if f.ips[host] {
		return []net.IPAddr{{IP: net.IPv4(10, 0, 0, 1)}}, nil
	}
	return nil, errors.New("no such host")
}

func TestIsEmailDomainValid(t *testing.T) {
	prev := dns
	t.Cleanup(func() { dns = prev })
	dns = fakeResolver{
		mx:  map[string]bool{"clinica.com.br": true},
		ips: map[string]bool{"only-a.example": true},
	}

	ctx := context.Background()
	assert.True(t, IsEmailDomainValid(ctx, "ana@clinica.com.br"))
	assert.True(t, IsEmailDomainValid(ctx, "ana@only-a.example"))
	assert.False(t, IsEmailDomainValid(ctx, "ana@nowhere.invalid"))
	assert.False(t, IsEmailDomainValid(ctx, "no-at-sign"))
	assert.False(t, IsEmailDomainValid(ctx, "trailing@"))
	assert.False(t, IsEmailDomainValid(ctx, "@leading.example"))
}
