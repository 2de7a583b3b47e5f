// Package netboot brings the network interface up: it applies a static IPv4 address and joins a
// WiFi network, yielding the address the HTTP endpoint binds to.
package netboot

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/ajanata/ledweb-hardware/internal/logger"
)

// ErrNoSSID is returned by Join when no network name was configured.
var ErrNoSSID = errors.New("no WiFi SSID configured")

// Static is a validated static IPv4 assignment.
type Static struct {
	Address netip.Addr
	Netmask netip.Addr
	Gateway netip.Addr
}

// ParseStatic parses the three dotted-quad literals of a static assignment.
func ParseStatic(address, netmask, gateway string) (Static, error) {
	var s Static
	var err error
	if s.Address, err = parseIPv4("address", address); err != nil {
		return Static{}, err
	}
	if s.Netmask, err = parseIPv4("netmask", netmask); err != nil {
		return Static{}, err
	}
	if s.Gateway, err = parseIPv4("gateway", gateway); err != nil {
		return Static{}, err
	}
	return s, nil
}

func parseIPv4(what, s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%s: %w", what, err)
	}
	if !a.Is4() {
		return netip.Addr{}, fmt.Errorf("%s: %q is not an IPv4 address", what, s)
	}
	return a, nil
}

// Radio is the network interface the bootstrapper drives.
type Radio interface {
	// SetIPv4 applies a static assignment; it is called before Connect.
	SetIPv4(s Static) error
	// Connect blocks until the network is joined or joining failed.
	Connect(ctx context.Context, ssid, password string) error
	// Addr reports the address the interface ended up with.
	Addr() (netip.Addr, error)
}

// Params is the raw configuration for a Bootstrapper.
type Params struct {
	Address  string
	Netmask  string
	Gateway  string
	SSID     string
	Password string
}

type Bootstrapper struct {
	static   Static
	ssid     string
	password string
	radio    Radio
	log      logger.Logger
}

// Binding is an established network attachment.
type Binding struct {
	Addr netip.Addr
}

// New validates p. Nothing is sent to radio until Join.
func New(p Params, radio Radio, log logger.Logger) (*Bootstrapper, error) {
	s, err := ParseStatic(p.Address, p.Netmask, p.Gateway)
	if err != nil {
		return nil, err
	}
	return &Bootstrapper{
		static:   s,
		ssid:     p.SSID,
		password: p.Password,
		radio:    radio,
		log:      log,
	}, nil
}

// Static returns the validated static assignment.
func (b *Bootstrapper) Static() Static {
	return b.static
}

// Join applies the static address and joins the network. Failures are returned as is; there is
// no retry.
func (b *Bootstrapper) Join(ctx context.Context) (Binding, error) {
	b.log.Info("Connecting to WiFi", "ssid", b.ssid)

	if err := b.radio.SetIPv4(b.static); err != nil {
		return Binding{}, fmt.Errorf("set static address: %w", err)
	}
	if b.ssid == "" {
		return Binding{}, ErrNoSSID
	}
	if err := b.radio.Connect(ctx, b.ssid, b.password); err != nil {
		return Binding{}, fmt.Errorf("connect to %q: %w", b.ssid, err)
	}

	addr, err := b.radio.Addr()
	if err != nil {
		return Binding{}, fmt.Errorf("read address: %w", err)
	}
	if addr != b.static.Address {
		b.log.Warn("radio address differs from configured static address", "configured", b.static.Address, "actual", addr)
	}

	b.log.Info("Connected to WiFi", "addr", addr)
	return Binding{Addr: addr}, nil
}
