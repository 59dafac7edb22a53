// Package nocash implements logging to the debug message window of no$gba.
package nocash

import (
	"github.com/clktmr/gbaenv/hw"
)

type NoCash struct {
	bus hw.Bus
}

// Probe returns nil if the emulator's identifier isn't present, which is the
// case for everything but the no$gba debug build.
func Probe(bus hw.Bus) *NoCash {
	var sig [len(hw.NoCashID)]byte
	hw.ReadIO(bus, hw.NoCashSignature, sig[:])
	if string(sig[:]) != hw.NoCashID {
		return nil
	}
	return &NoCash{bus}
}

// Write outputs p one character at a time. The emulator interprets '%'
// sequences in messages, character output is passed through unchanged.
func (v *NoCash) Write(p []byte) (n int, err error) {
	for _, c := range p {
		v.bus.Store8(hw.NoCashCharOut, c)
	}
	return len(p), nil
}
