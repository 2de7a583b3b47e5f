//go:build !tinygo

package netboot

import (
	"context"
	"fmt"
	"net"
	"net/netip"
)

// HostRadio stands in for the WiFi radio when the firmware runs on a host that is already on the
// network. It does not reconfigure interfaces; Connect only checks that the static address is
// assigned to one of them.
type HostRadio struct {
	static Static

	// interfaceAddrs is net.InterfaceAddrs, swappable in tests.
	interfaceAddrs func() ([]net.Addr, error)
}

func NewHostRadio() *HostRadio {
	return &HostRadio{interfaceAddrs: net.InterfaceAddrs}
}

func (r *HostRadio) SetIPv4(s Static) error {
	r.static = s
	return nil
}

func (r *HostRadio) Connect(_ context.Context, _, _ string) error {
	addrs, err := r.interfaceAddrs()
	if err != nil {
		return err
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		if ip, ok := netip.AddrFromSlice(ipnet.IP); ok && ip.Unmap() == r.static.Address {
			return nil
		}
	}
	return fmt.Errorf("address %s is not assigned to any interface", r.static.Address)
}

func (r *HostRadio) Addr() (netip.Addr, error) {
	return r.static.Address, nil
}
