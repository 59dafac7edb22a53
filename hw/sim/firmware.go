package sim

import "strings"

// Firmware simulates the BIOS calls used for probing. It implements
// bios.Firmware.
type Firmware struct {
	Sum uint32 // returned by Checksum

	// If DebugLockup is set, DebugPrint locks up the target with this
	// reason. Otherwise messages are collected in Log.
	DebugLockup string
	// DebugIgnored makes DebugPrint report that the message wasn't
	// delivered.
	DebugIgnored bool

	Log   strings.Builder
	Calls []string
}

func (f *Firmware) Checksum() uint32 {
	f.Calls = append(f.Calls, "Checksum")
	return f.Sum
}

func (f *Firmware) DebugPrint(msg string) bool {
	f.Calls = append(f.Calls, "DebugPrint")
	if f.DebugLockup != "" {
		panic(Lockup{f.DebugLockup})
	}
	if f.DebugIgnored {
		return false
	}
	f.Log.WriteString(msg)
	return true
}

// Output returns the text printed through any debug channel, with
// surrounding whitespace removed.
func (f *Firmware) Output() string {
	return strings.TrimSpace(f.Log.String())
}
