//go:build tinygo

package logger

import "fmt"

// New returns a logger writing to the serial console. Levels below level are dropped.
func New(level string) Logger {
	return console{min: levelOf(level)}
}

// Sync is a no-op, console output is unbuffered.
func Sync() {}

const (
	debugLevel = iota
	infoLevel
	warnLevel
	errorLevel
)

func levelOf(s string) int {
	switch s {
	case "debug":
		return debugLevel
	case "warn":
		return warnLevel
	case "error":
		return errorLevel
	}
	return infoLevel
}

type console struct {
	min int
}

func (c console) log(level int, tag, msg string, kv []interface{}) {
	if level < c.min {
		return
	}
	line := tag + " " + msg
	for i := 0; i+1 < len(kv); i += 2 {
		line += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	println(line)
}

func (c console) Debug(msg string, kv ...interface{}) { c.log(debugLevel, "DBG", msg, kv) }
func (c console) Info(msg string, kv ...interface{})  { c.log(infoLevel, "INF", msg, kv) }
func (c console) Warn(msg string, kv ...interface{})  { c.log(warnLevel, "WRN", msg, kv) }
func (c console) Error(msg string, kv ...interface{}) { c.log(errorLevel, "ERR", msg, kv) }
