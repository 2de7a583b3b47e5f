// Package reach probes whether a remote address answers.
package reach

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strconv"
	"time"
)

// ErrNoReply means the probe went out but nothing came back.
var ErrNoReply = errors.New("no reply")

// Pinger sends one probe and returns the round trip time. A missing reply is ErrNoReply; other
// errors mean the probe could not be sent at all.
type Pinger interface {
	Ping(ctx context.Context, addr netip.Addr) (time.Duration, error)
}

// Dial probes by opening a TCP connection, for network stacks without raw ICMP.
type Dial struct {
	Port    int
	Timeout time.Duration

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewDial probes port 53, which public resolvers such as 8.8.4.4 accept.
func NewDial() *Dial {
	d := &net.Dialer{}
	return &Dial{Port: 53, Timeout: 2 * time.Second, dial: d.DialContext}
}

func (d *Dial) Ping(ctx context.Context, addr netip.Addr) (time.Duration, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	start := time.Now()
	c, err := d.dial(ctx, "tcp", net.JoinHostPort(addr.String(), strconv.Itoa(d.Port)))
	if err != nil {
		return 0, ErrNoReply
	}
	rtt := time.Since(start)
	_ = c.Close()
	return rtt, nil
}
