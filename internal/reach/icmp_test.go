//go:build !tinygo

package reach

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"os"
	"syscall"
	"testing"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// fakeConn answers each echo request with a reply carrying the same sequence number.
type fakeConn struct {
	writeErr error
	readErr  error

	reply []byte
}

func (f *fakeConn) WriteTo(b []byte, _ net.Addr) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	req, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil {
		return 0, err
	}
	echo := req.Body.(*icmp.Echo)
	f.reply, err = (&icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: echo}).Marshal(nil)
	return len(b), err
}

func (f *fakeConn) ReadFrom(b []byte) (int, net.Addr, error) {
	if f.readErr != nil {
		return 0, nil, f.readErr
	}
	if f.reply == nil {
		return 0, nil, &net.OpError{Op: "read", Net: "udp", Err: timeoutErr{}}
	}
	n := copy(b, f.reply)
	f.reply = nil
	return n, nil, nil
}

func (f *fakeConn) SetDeadline(time.Time) error { return nil }
func (f *fakeConn) Close() error                { return nil }

func newFakeICMP(c *fakeConn, listenErr error) *ICMP {
	return &ICMP{
		Timeout: time.Second,
		id:      1,
		listen: func(string, string) (packetConn, error) {
			if listenErr != nil {
				return nil, listenErr
			}
			return c, nil
		},
	}
}

func sendtoErr(errno syscall.Errno) error {
	return &net.OpError{Op: "write", Net: "udp", Err: os.NewSyscallError("sendto", errno)}
}

func TestICMP_Reply(t *testing.T) {
	p := newFakeICMP(&fakeConn{}, nil)

	for i := 0; i < 2; i++ {
		if _, err := p.Ping(context.Background(), netip.MustParseAddr("8.8.4.4")); err != nil {
			t.Fatalf("Ping() %d err=%v", i, err)
		}
	}
}

func TestICMP_NoReply(t *testing.T) {
	cases := map[string]*fakeConn{
		"network unreachable": {writeErr: sendtoErr(syscall.ENETUNREACH)},
		"host unreachable":    {writeErr: sendtoErr(syscall.EHOSTUNREACH)},
		"network down":        {writeErr: sendtoErr(syscall.ENETDOWN)},
		"read unreachable":    {readErr: &net.OpError{Op: "read", Net: "udp", Err: os.NewSyscallError("recvfrom", syscall.EHOSTUNREACH)}},
		"timeout":             {readErr: &net.OpError{Op: "read", Net: "udp", Err: timeoutErr{}}},
	}

	for name, c := range cases {
		p := newFakeICMP(c, nil)
		if _, err := p.Ping(context.Background(), netip.MustParseAddr("8.8.4.4")); !errors.Is(err, ErrNoReply) {
			t.Fatalf("%s: expected ErrNoReply, got %v", name, err)
		}
	}
}

func TestICMP_HardErrors(t *testing.T) {
	p := newFakeICMP(nil, os.NewSyscallError("socket", syscall.EACCES))
	_, err := p.Ping(context.Background(), netip.MustParseAddr("8.8.4.4"))
	if err == nil || errors.Is(err, ErrNoReply) {
		t.Fatalf("expected listen failure to be a hard error, got %v", err)
	}

	p = newFakeICMP(&fakeConn{writeErr: sendtoErr(syscall.EPERM)}, nil)
	_, err = p.Ping(context.Background(), netip.MustParseAddr("8.8.4.4"))
	if err == nil || errors.Is(err, ErrNoReply) {
		t.Fatalf("expected permission failure to be a hard error, got %v", err)
	}

	if _, err := p.Ping(context.Background(), netip.MustParseAddr("::1")); err == nil {
		t.Fatalf("expected IPv6 target to be rejected")
	}
}
