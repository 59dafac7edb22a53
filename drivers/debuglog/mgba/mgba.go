// Package mgba implements logging to mGBA's debug console.
package mgba

import (
	"github.com/clktmr/gbaenv/hw"
)

const (
	enableRequest = 0xc0de
	enableAck     = 0x1dea

	bufferSize = 256
	maxLine    = bufferSize - 1 // leave room for NUL
	flagSend   = 0x100
)

// Level is the log level a message is shown with.
type Level uint16

const (
	LevelFatal Level = iota // halts emulation
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

type MGBA struct {
	bus   hw.Bus
	level Level
	line  [maxLine]byte
	n     int
}

// Probe enables the debug registers and returns nil if they don't respond.
func Probe(bus hw.Bus) *MGBA {
	enable := hw.R[uint16](bus, hw.MGBADebugEnable)
	enable.Store(enableRequest)
	if enable.Load() == enableAck {
		return &MGBA{bus: bus, level: LevelInfo}
	}
	return nil
}

// SetLevel sets the level of following messages.
func (v *MGBA) SetLevel(level Level) {
	v.level = level
}

// Write buffers p and sends every complete line as a message. Lines longer
// than the emulator's buffer are split.
func (v *MGBA) Write(p []byte) (n int, err error) {
	// If used as a SystemWriter we might be in a syscall. Make sure we
	// don't allocate.
	for _, c := range p {
		if c == '\n' {
			v.send(v.line[:v.n])
			v.n = 0
			continue
		}
		if v.n == len(v.line) {
			v.send(v.line[:])
			v.n = 0
		}
		v.line[v.n] = c
		v.n++
	}
	return len(p), nil
}

// Flush sends a pending incomplete line.
func (v *MGBA) Flush() error {
	if v.n > 0 {
		v.send(v.line[:v.n])
		v.n = 0
	}
	return nil
}

func (v *MGBA) send(msg []byte) {
	hw.WriteIO(v.bus, hw.MGBADebugString, msg)
	v.bus.Store8(hw.MGBADebugString+hw.Addr(len(msg)), 0)
	hw.R[uint16](v.bus, hw.MGBADebugFlags).Store(uint16(v.level) | flagSend)
}
