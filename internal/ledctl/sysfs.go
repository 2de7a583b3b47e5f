//go:build !tinygo

package ledctl

import (
	"os"

	"github.com/ajanata/ledweb-hardware/internal/logger"
)

// Sysfs drives a Linux LED class device through its brightness file, e.g.
// /sys/class/leds/ACT/brightness on a Raspberry Pi.
type Sysfs struct {
	path string
	log  logger.Logger
}

func NewSysfs(path string, log logger.Logger) *Sysfs {
	return &Sysfs{path: path, log: log}
}

// Set writes 1 or 0. Write failures are logged, the LED is treated as infallible.
func (s *Sysfs) Set(value bool) {
	v := []byte("0")
	if value {
		v = []byte("1")
	}
	if err := os.WriteFile(s.path, v, 0o644); err != nil {
		s.log.Warn("led write failed", "path", s.path, "err", err)
	}
}

// Log only reports LED changes, for hosts without an LED.
type Log struct {
	log logger.Logger
}

func NewLog(log logger.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Set(value bool) {
	l.log.Info("led", "on", value)
}
