//go:build gba

package bios

import "unsafe"

func init() {
	Default = swi{}
}

type swi struct{}

func (swi) Checksum() uint32 { return biosChecksum() }

// The emulator expects a NUL terminated string. Longer messages are passed in
// several calls.
var printBuf [256]byte

func (swi) DebugPrint(msg string) bool {
	// Called from the system writer, which must not allocate.
	for len(msg) > 0 {
		n := copy(printBuf[:len(printBuf)-1], msg)
		printBuf[n] = 0
		debugPrint(unsafe.Pointer(&printBuf[0]))
		msg = msg[n:]
	}
	return true
}

//go:noescape
func biosChecksum() uint32

//go:noescape
func debugPrint(p unsafe.Pointer)
