// Package httpd is a single-threaded HTTP/1.x endpoint. Connections are accepted in the
// background but requests are only read, routed and answered from Poll, on the caller's
// goroutine.
package httpd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ajanata/ledweb-hardware/internal/logger"
)

// Response is what a Handler answers with.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Handler routes a parsed request. A non-nil error drops the connection without an answer.
type Handler interface {
	ServeRequest(req *http.Request) (Response, error)
}

// BindError is returned by Start when the listening socket cannot be opened.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return "bind " + e.Addr + ": " + e.Err.Error()
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// State is where the server is in its lifecycle.
type State int

const (
	Stopped State = iota
	Starting
	Listening
	Polling
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Listening:
		return "listening"
	case Polling:
		return "polling"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Options bound how much work one Poll may do.
type Options struct {
	// ReadTimeout bounds reading a request and writing its response.
	ReadTimeout time.Duration
	// Backlog is how many accepted connections may wait for Poll.
	Backlog int
	// MaxPerPoll caps the connections served by one Poll.
	MaxPerPoll int
}

// DefaultOptions suits a single client on a microcontroller.
func DefaultOptions() Options {
	return Options{
		ReadTimeout: 2 * time.Second,
		Backlog:     4,
		MaxPerPoll:  4,
	}
}

// Server is not safe for concurrent use; only the accept loop runs in the background.
type Server struct {
	handler Handler
	opts    Options
	log     logger.Logger

	listen func(network, addr string) (net.Listener, error)

	ln    net.Listener
	conns chan net.Conn
	state State
}

// New returns a stopped server; call Start to bind it.
func New(handler Handler, opts Options, log logger.Logger) *Server {
	if opts.Backlog < 1 {
		opts.Backlog = 1
	}
	if opts.MaxPerPoll < 1 {
		opts.MaxPerPoll = 1
	}
	return &Server{
		handler: handler,
		opts:    opts,
		log:     log,
		listen:  net.Listen,
	}
}

// Start binds addr ("host:port"). A failure leaves the server stopped and returns *BindError.
func (s *Server) Start(addr string) error {
	if s.state != Stopped {
		return fmt.Errorf("server already %s", s.state)
	}
	s.state = Starting

	ln, err := s.listen("tcp", addr)
	if err != nil {
		s.state = Stopped
		return &BindError{Addr: addr, Err: err}
	}

	s.ln = ln
	s.conns = make(chan net.Conn, s.opts.Backlog)
	s.state = Listening
	go s.acceptLoop(ln, s.conns)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener, conns chan<- net.Conn) {
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				close(conns)
				return
			}
			s.log.Warn("accept failed", "err", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}
		conns <- c
	}
}

// Addr is the bound address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// State is the current lifecycle state.
func (s *Server) State() State {
	return s.state
}

// Poll serves the connections that are already waiting and returns without blocking for new
// ones. Per-connection failures are joined into the returned error.
func (s *Server) Poll() error {
	if s.state != Listening && s.state != Polling {
		return fmt.Errorf("poll on %s server", s.state)
	}
	s.state = Polling

	var errs []error
	for i := 0; i < s.opts.MaxPerPoll; i++ {
		select {
		case c, ok := <-s.conns:
			if !ok {
				s.state = Stopped
				return errors.Join(append(errs, net.ErrClosed)...)
			}
			if err := s.serve(c); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
	return errors.Join(errs...)
}

func (s *Server) serve(c net.Conn) error {
	defer c.Close()
	if s.opts.ReadTimeout > 0 {
		_ = c.SetDeadline(time.Now().Add(s.opts.ReadTimeout))
	}

	req, err := http.ReadRequest(bufio.NewReader(c))
	if err != nil {
		return fmt.Errorf("read request from %s: %w", c.RemoteAddr(), err)
	}

	r, err := s.handler.ServeRequest(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	resp := &http.Response{
		StatusCode:    r.Status,
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{},
		ContentLength: int64(len(r.Body)),
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		Close:         true,
		Request:       req,
	}
	if r.ContentType != "" {
		resp.Header.Set("Content-Type", r.ContentType)
	}
	if err := resp.Write(c); err != nil {
		return fmt.Errorf("write response to %s: %w", c.RemoteAddr(), err)
	}
	return nil
}

// Close stops accepting. Connections not yet polled are dropped.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	s.ln = nil
	s.state = Stopped
	for c := range s.conns {
		_ = c.Close()
	}
	return err
}
