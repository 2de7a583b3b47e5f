// Package status reports connectivity to whatever the device shows it on.
package status

import "github.com/ajanata/ledweb-hardware/internal/logger"

// Sink receives connectivity changes from the health monitor.
type Sink interface {
	SetConnected(ssid string)
	SetDisconnected()
}

const (
	ConnectedText    = "Connected to:"
	DisconnectedText = "Disconnected!"
)

// TextSink writes two text lines, e.g. two rows of a textbuf.Buffer.
type TextSink struct {
	connect func(string) error
	ssid    func(string) error
	log     logger.Logger
}

// NewTextSink takes setters for the connection line and the SSID line.
func NewTextSink(connect, ssid func(string) error, log logger.Logger) *TextSink {
	return &TextSink{connect: connect, ssid: ssid, log: log}
}

func (t *TextSink) SetConnected(ssid string) {
	t.set(ConnectedText, ssid)
}

func (t *TextSink) SetDisconnected() {
	t.set(DisconnectedText, "")
}

func (t *TextSink) set(connect, ssid string) {
	if err := t.connect(connect); err != nil {
		t.log.Warn("status line write failed", "err", err)
	}
	if err := t.ssid(ssid); err != nil {
		t.log.Warn("status line write failed", "err", err)
	}
}

// LogSink reports to the log.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (l *LogSink) SetConnected(ssid string) {
	l.log.Info("connected", "ssid", ssid)
}

func (l *LogSink) SetDisconnected() {
	l.log.Warn("lost connection")
}

// Multi fans out to several sinks.
type Multi []Sink

func (m Multi) SetConnected(ssid string) {
	for _, s := range m {
		s.SetConnected(ssid)
	}
}

func (m Multi) SetDisconnected() {
	for _, s := range m {
		s.SetDisconnected()
	}
}
