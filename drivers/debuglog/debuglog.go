// Package debuglog provides probing for the debug output of GBA emulators.
//
// Real hardware has no debug output, see the subdirectories for supported
// emulators.
package debuglog

import (
	"io"

	"github.com/clktmr/gbaenv/bios"
	"github.com/clktmr/gbaenv/drivers/debuglog/mgba"
	"github.com/clktmr/gbaenv/drivers/debuglog/nocash"
	"github.com/clktmr/gbaenv/drivers/debuglog/vba"
	"github.com/clktmr/gbaenv/env"
	"github.com/clktmr/gbaenv/hw"
)

type Logger interface {
	io.Writer
}

// ProbeAll returns the first debug output found, or nil. It only tries
// outputs which are safe to probe on every target, which excludes VBA.
func ProbeAll(bus hw.Bus) (l Logger) {
	if m := mgba.Probe(bus); m != nil {
		l = m
	} else if n := nocash.Probe(bus); n != nil {
		l = n
	}
	return
}

// ForEnvironment returns the debug output of an already detected
// environment. Output is discarded if the environment has none.
func ForEnvironment(e env.Environment, bus hw.Bus, fw bios.Firmware) Logger {
	switch e {
	case env.MGBA:
		if m := mgba.Probe(bus); m != nil {
			return m
		}
	case env.NoCashGBA:
		if n := nocash.Probe(bus); n != nil {
			return n
		}
	case env.VisualBoyAdvance:
		if fw != nil {
			return vba.New(fw)
		}
	}
	return io.Discard
}

// Flush sends pending output of loggers which buffer lines.
func Flush(l Logger) error {
	if f, ok := l.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// SystemWriter is the function type of rtos.SetSystemWriter.
type SystemWriter func(fd int, p []byte) int

// NewSystemWriter returns a SystemWriter which writes to l, so print() and
// panics reach the debug output.
func NewSystemWriter(l Logger) SystemWriter {
	return func(fd int, p []byte) int {
		n, _ := l.Write(p)
		return n
	}
}
