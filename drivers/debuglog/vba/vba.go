// Package vba implements logging through VisualBoyAdvance's log BIOS call.
//
// The call crashes real hardware and most other emulators. Only use it after
// the environment is known.
package vba

import (
	"errors"
	"unsafe"

	"github.com/clktmr/gbaenv/bios"
)

var ErrIgnored = errors.New("vba: log call ignored")

const bufferSize = 256

type VBA struct {
	fw  bios.Firmware
	buf [bufferSize]byte
}

func New(fw bios.Firmware) *VBA {
	return &VBA{fw: fw}
}

// Write passes p to the log call in chunks of at most bufferSize bytes. NUL
// characters would terminate the message early and are dropped.
func (v *VBA) Write(p []byte) (n int, err error) {
	// If used as a SystemWriter we might be in a syscall. Make sure we
	// don't allocate.
	k := 0
	for i, c := range p {
		if c != 0 {
			v.buf[k] = c
			k++
		}
		if k == len(v.buf) || i == len(p)-1 {
			if k > 0 && !v.print(k) {
				return n, ErrIgnored
			}
			n, k = i+1, 0
		}
	}
	return n, nil
}

// print passes the first k bytes of the buffer. The firmware doesn't retain
// the message, so it isn't copied into a string.
func (v *VBA) print(k int) bool {
	return v.fw.DebugPrint(unsafe.String(&v.buf[0], k))
}
