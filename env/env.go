// Package env identifies the console or emulator a GBA ROM is running on.
//
// There is no register telling the platform apart, so [Detect] runs a fixed
// sequence of hardware probes and returns the environment of the first one
// that matches. Call it once at startup, before anything else touches the
// registers it probes.
package env

import (
	"fmt"
	"strings"
)

// Environment is the closed set of systems Detect can tell apart.
type Environment uint8

const (
	Unknown Environment = iota
	// DS or DS Lite running the ROM from the GBA slot
	NintendoDS
	// mGBA or NanoBoyAdvance
	MGBA
	// no$gba, debug build only
	NoCashGBA
	// Real hardware, but also matches some accurate emulators
	GameBoyAdvance
	GameBoyAdvanceMicro
	// gpSP or the MyBoy! Android emulator
	GpSP
	VisualBoyAdvance

	environmentLast
)

var names = [...]string{
	Unknown:             "Unknown",
	NintendoDS:          "NintendoDS",
	MGBA:                "mGBA",
	NoCashGBA:           "NoCashGBA",
	GameBoyAdvance:      "GameBoyAdvance",
	GameBoyAdvanceMicro: "GameBoyAdvanceMicro",
	GpSP:                "gpSP",
	VisualBoyAdvance:    "VisualBoyAdvance",
}

func (e Environment) String() string {
	if e < environmentLast {
		return names[e]
	}
	return fmt.Sprintf("Environment(%d)", uint8(e))
}

func (e Environment) MarshalText() ([]byte, error) {
	if e >= environmentLast {
		return nil, fmt.Errorf("invalid environment %d", uint8(e))
	}
	return []byte(e.String()), nil
}

func (e *Environment) UnmarshalText(text []byte) (err error) {
	*e, err = ParseEnvironment(string(text))
	return
}

// ParseEnvironment returns the environment named s, ignoring case.
func ParseEnvironment(s string) (Environment, error) {
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return Environment(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown environment %q", s)
}

// Environments returns all environments, Unknown included.
func Environments() []Environment {
	envs := make([]Environment, environmentLast)
	for i := range envs {
		envs[i] = Environment(i)
	}
	return envs
}
