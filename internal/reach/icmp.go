//go:build !tinygo

package reach

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"syscall"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const protocolICMP = 1

// packetConn is the part of *icmp.PacketConn the pinger uses.
type packetConn interface {
	WriteTo(b []byte, dst net.Addr) (int, error)
	ReadFrom(b []byte) (int, net.Addr, error)
	SetDeadline(t time.Time) error
	Close() error
}

// ICMP sends an echo request over an unprivileged ICMP socket. On Linux this needs
// net.ipv4.ping_group_range to cover the process group.
type ICMP struct {
	Timeout time.Duration

	id  int
	seq int

	listen func(network, address string) (packetConn, error)
}

func NewICMP() *ICMP {
	return &ICMP{
		Timeout: 2 * time.Second,
		id:      os.Getpid() & 0xffff,
		listen: func(network, address string) (packetConn, error) {
			return icmp.ListenPacket(network, address)
		},
	}
}

// unreachable reports errors that mean the echo cannot get anywhere right now, as opposed to
// the probe itself being broken.
func unreachable(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	for _, e := range []error{syscall.ENETUNREACH, syscall.EHOSTUNREACH, syscall.ENETDOWN, syscall.EHOSTDOWN} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Ping returns ErrNoReply on timeouts and unreachable networks or hosts. Only failing to open
// or configure the socket is a hard error.
func (p *ICMP) Ping(ctx context.Context, addr netip.Addr) (time.Duration, error) {
	if !addr.Is4() {
		return 0, fmt.Errorf("icmp: %s is not IPv4", addr)
	}

	conn, err := p.listen("udp4", "0.0.0.0")
	if err != nil {
		return 0, fmt.Errorf("icmp listen: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, err
	}

	p.seq = (p.seq + 1) & 0xffff
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: p.id, Seq: p.seq, Data: []byte("ledweb")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	if _, err := conn.WriteTo(wb, &net.UDPAddr{IP: addr.AsSlice()}); err != nil {
		if unreachable(err) {
			return 0, ErrNoReply
		}
		return 0, fmt.Errorf("icmp write: %w", err)
	}

	rb := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(rb)
		if err != nil {
			if unreachable(err) {
				return 0, ErrNoReply
			}
			return 0, fmt.Errorf("icmp read: %w", err)
		}
		reply, err := icmp.ParseMessage(protocolICMP, rb[:n])
		if err != nil {
			continue
		}
		// the kernel rewrites the ID on unprivileged sockets, so only the sequence is checked
		if echo, ok := reply.Body.(*icmp.Echo); ok && reply.Type == ipv4.ICMPTypeEchoReply && echo.Seq == p.seq {
			return time.Since(start), nil
		}
	}
}
