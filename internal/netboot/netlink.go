//go:build tinygo

package netboot

import (
	"context"
	"net/netip"
	"time"

	"tinygo.org/x/drivers/netdev"
	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"
)

// NetlinkRadio joins through whatever WiFi co-processor the board's netlink probe finds.
//
// The netlink interface has no call for static addressing; the co-processor leases an address
// and SetIPv4 only records the request so Join can report a mismatch.
type NetlinkRadio struct {
	link   netlink.Netlinker
	dev    netdev.Netdever
	static Static

	ConnectTimeout time.Duration
}

// NewNetlinkRadio probes the board for its network device.
func NewNetlinkRadio() *NetlinkRadio {
	link, dev := probe.Probe()
	time.Sleep(1 * time.Second)
	return &NetlinkRadio{
		link:           link,
		dev:            dev,
		ConnectTimeout: 10 * time.Second,
	}
}

func (r *NetlinkRadio) SetIPv4(s Static) error {
	r.static = s
	return nil
}

func (r *NetlinkRadio) Connect(_ context.Context, ssid, password string) error {
	return r.link.NetConnect(&netlink.ConnectParams{
		Ssid:           ssid,
		Passphrase:     password,
		AuthType:       netlink.AuthTypeWPA2,
		ConnectTimeout: r.ConnectTimeout,
	})
}

func (r *NetlinkRadio) Addr() (netip.Addr, error) {
	return r.dev.Addr()
}
