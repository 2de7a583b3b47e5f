// Package health runs the periodic connectivity check.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/ajanata/ledweb-hardware/internal/logger"
	"github.com/ajanata/ledweb-hardware/internal/reach"
	"github.com/ajanata/ledweb-hardware/internal/status"
)

// Clock returns a monotonic reading. time.Now carries one.
type Clock func() time.Time

type Config struct {
	Target   netip.Addr
	Interval time.Duration
	// SSID is shown while connected.
	SSID string
}

// Monitor probes Target at most once per Interval. Missed windows are not caught up.
type Monitor struct {
	cfg    Config
	pinger reach.Pinger
	sink   status.Sink
	now    Clock
	log    logger.Logger

	last time.Time
}

// New arms the first window to end one Interval after now.
func New(cfg Config, pinger reach.Pinger, sink status.Sink, now Clock, log logger.Logger) *Monitor {
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		cfg:    cfg,
		pinger: pinger,
		sink:   sink,
		now:    now,
		log:    log,
		last:   now(),
	}
}

// Due reports whether a full interval has elapsed since the last check.
func (m *Monitor) Due() bool {
	return m.now().Sub(m.last) >= m.cfg.Interval
}

// Last is when the current window started.
func (m *Monitor) Last() time.Time {
	return m.last
}

// Check probes if due. ran reports whether a probe was attempted. The window is re-armed before
// probing, so a failed probe still waits a full interval.
func (m *Monitor) Check(ctx context.Context) (ran bool, err error) {
	now := m.now()
	if now.Sub(m.last) < m.cfg.Interval {
		return false, nil
	}
	m.last = now

	rtt, err := m.pinger.Ping(ctx, m.cfg.Target)
	switch {
	case errors.Is(err, reach.ErrNoReply):
		m.log.Warn("lost connection", "target", m.cfg.Target)
		m.sink.SetDisconnected()
		return true, nil
	case err != nil:
		return true, fmt.Errorf("ping %s: %w", m.cfg.Target, err)
	}

	m.log.Debug("connected", "target", m.cfg.Target, "rtt", rtt)
	m.sink.SetConnected(m.cfg.SSID)
	return true, nil
}
