// Package bios exposes the GBA BIOS functions used to fingerprint the system.
//
// The calls are software interrupts and need machine code, so they are hidden
// behind the [Firmware] interface.
package bios

// Firmware provides BIOS calls.
type Firmware interface {
	// Checksum returns the result of GetBiosChecksum (SWI 0x0D).
	Checksum() uint32

	// DebugPrint passes msg to SWI 0xFF, which some emulators use as a log
	// call. It reports whether the call returned. On most targets it
	// doesn't, the system crashes instead. msg must not be retained after
	// the call returns.
	DebugPrint(msg string) bool
}

// Default is the BIOS of the running target. It's nil if the program wasn't
// built for the gba target.
var Default Firmware
