// Copyright 2024 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rom

import (
	"errors"
	"fmt"
)

// Cartridge header offsets, see https://problemkaputt.de/gbatek.htm#gbacartridgeheader
const (
	offTitle      = 0xa0
	offGameCode   = 0xac
	offMakerCode  = 0xb0
	offFixed      = 0xb2
	offComplement = 0xbd
	headerSize    = 0xc0

	fixedValue = 0x96
)

var ErrShortROM = errors.New("rom: image smaller than cartridge header")

// Header holds the writable fields of the cartridge header. The entry branch
// and logo are expected to be provided by the runtime's startup code.
type Header struct {
	Title     string // up to 12 characters
	GameCode  string // 4 characters
	MakerCode string // 2 characters
}

// Write stores h in rom and updates the header complement check.
func (h *Header) Write(rom []byte) error {
	if len(rom) < headerSize {
		return ErrShortROM
	}
	fields := []struct {
		name  string
		value string
		off   int
		size  int
	}{
		{"title", h.Title, offTitle, 12},
		{"game code", h.GameCode, offGameCode, 4},
		{"maker code", h.MakerCode, offMakerCode, 2},
	}
	for _, f := range fields {
		if len(f.value) > f.size {
			return fmt.Errorf("rom: %s %q longer than %d characters", f.name, f.value, f.size)
		}
		for i := range f.size {
			var c byte
			if i < len(f.value) {
				c = f.value[i]
			}
			if c >= 0x80 {
				return fmt.Errorf("rom: %s %q is not ascii", f.name, f.value)
			}
			rom[f.off+i] = c
		}
	}
	rom[offFixed] = fixedValue
	rom[offComplement] = complement(rom)
	return nil
}

// complement returns the header check value the BIOS verifies at boot.
func complement(rom []byte) byte {
	var chk byte
	for _, b := range rom[offTitle:offComplement] {
		chk -= b
	}
	return chk - 0x19
}

// Valid reports whether the header complement check of rom is correct.
func Valid(rom []byte) bool {
	return len(rom) >= headerSize && rom[offComplement] == complement(rom)
}
