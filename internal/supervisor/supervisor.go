// Package supervisor runs the firmware main loop: start the HTTP endpoint once, then alternate
// the health check with endpoint polls forever. A bind failure at startup resets the device;
// any later failure is logged and the loop carries on.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajanata/ledweb-hardware/internal/httpd"
	"github.com/ajanata/ledweb-hardware/internal/logger"
)

// ErrReset is returned by Start when it invoked the reset action and the action returned, which
// only happens off-device.
var ErrReset = errors.New("device reset requested")

// Endpoint is the HTTP server as the loop sees it.
type Endpoint interface {
	Start(addr string) error
	Poll() error
}

// HealthCheck runs the connectivity check when it is due.
type HealthCheck interface {
	Check(ctx context.Context) (ran bool, err error)
}

const (
	StepHealth = "health"
	StepPoll   = "poll"
)

// StepResult is the outcome of one step of one loop iteration. Err is always recoverable.
type StepResult struct {
	Step string
	Ran  bool
	Err  error
}

type Options struct {
	// RestartDelay is waited before resetting after a bind failure.
	RestartDelay time.Duration
	// Reset restarts the device. On hardware it does not return.
	Reset func()
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
	// Idle is slept after each iteration; zero spins.
	Idle time.Duration
}

type Supervisor struct {
	endpoint Endpoint
	health   HealthCheck
	opts     Options
	log      logger.Logger

	started   bool
	resetting bool
}

func New(endpoint Endpoint, health HealthCheck, opts Options, log logger.Logger) *Supervisor {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Supervisor{endpoint: endpoint, health: health, opts: opts, log: log}
}

// Start binds the endpoint. On a bind failure it waits RestartDelay and resets; there is no
// retry in place and every later Start fails with ErrReset.
func (s *Supervisor) Start(addr string) error {
	if s.resetting {
		return ErrReset
	}
	if s.started {
		return nil
	}

	s.log.Info("starting server..")
	err := s.endpoint.Start(addr)
	if err == nil {
		s.started = true
		s.log.Info("Listening on http://" + addr)
		return nil
	}

	var bindErr *httpd.BindError
	if !errors.As(err, &bindErr) {
		return fmt.Errorf("start server: %w", err)
	}

	s.resetting = true
	s.log.Error("server failed to start", "err", err)
	s.opts.Sleep(s.opts.RestartDelay)
	s.log.Warn("restarting..")
	if s.opts.Reset != nil {
		s.opts.Reset()
	}
	return ErrReset
}

// Step runs one loop iteration: health check, then poll. Panics in either step are recovered
// into errors. Errors are logged and returned, never acted on.
func (s *Supervisor) Step(ctx context.Context) []StepResult {
	results := []StepResult{
		s.run(StepHealth, func() (bool, error) { return s.health.Check(ctx) }),
		s.run(StepPoll, func() (bool, error) { return true, s.endpoint.Poll() }),
	}
	for _, r := range results {
		if r.Err != nil {
			s.log.Error("step failed", "step", r.Step, "err", r.Err)
		}
	}
	return results
}

func (s *Supervisor) run(step string, fn func() (bool, error)) (r StepResult) {
	r.Step = step
	defer func() {
		if p := recover(); p != nil {
			r.Ran = true
			r.Err = fmt.Errorf("panic: %v", p)
		}
	}()
	r.Ran, r.Err = fn()
	return r
}

// Run starts the endpoint on addr and loops until ctx is done. On the device ctx is never done.
func (s *Supervisor) Run(ctx context.Context, addr string) error {
	if err := s.Start(addr); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step(ctx)
		if s.opts.Idle > 0 {
			s.opts.Sleep(s.opts.Idle)
		}
	}
}
