package sim

import "github.com/clktmr/gbaenv/hw"

// BIOS checksums as returned by GetBiosChecksum (SWI 0x0D)
const (
	ChecksumGBA uint32 = 0xbaae187f
	ChecksumDS  uint32 = 0xbaae1880
)

// Target describes a simulated console or emulator.
type Target struct {
	Name        string
	Description string
	New         func() (*Sim, *Firmware)
}

// Targets lists all simulated environments.
var Targets = []Target{
	{"gba", "Game Boy Advance", newGBA},
	{"micro", "Game Boy Advance Micro", newMicro},
	{"ds", "Nintendo DS in GBA mode", newDS},
	{"mgba", "mGBA", newMGBA},
	{"nocash", "no$gba (debug build)", newNoCash},
	{"nocash-release", "no$gba (release build)", newNoCashRelease},
	{"gpsp", "gpSP", newGpSP},
	{"vba", "VisualBoyAdvance", newVBA},
	{"generic", "emulator without any known signature", newGeneric},
}

// Lookup returns the target with the given name.
func Lookup(name string) (Target, bool) {
	for _, t := range Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// Names returns the names of all targets.
func Names() []string {
	names := make([]string, len(Targets))
	for i, t := range Targets {
		names[i] = t.Name
	}
	return names
}

func newBase(sum uint32) (*Sim, *Firmware) {
	s := New()
	s.Poke(hw.DISPCNT, 2, uint32(hw.ForcedBlank))
	s.Poke(hw.ScratchWord, 4, 0)
	return s, &Firmware{Sum: sum}
}

// openBus makes the region [addr, addr+size) ignore stores and return v on
// loads.
func openBus(s *Sim, addr hw.Addr, size int, v uint32) {
	h := &Hook{
		Load:  func(s *Sim, width int) uint32 { return v },
		Store: func(s *Sim, width int, v uint32) {},
	}
	for i := 0; i < size; i++ {
		s.Hook(addr+hw.Addr(i), h)
	}
}

// ewram emulates MEMCNT and the EWRAM scratch word. Reads of the scratch word
// return garbage if the wait control is set faster than maxWait.
func ewram(s *Sim, memcnt hw.MemoryControl, maxWait uint32) {
	s.Poke(hw.MEMCNT, 4, uint32(memcnt))
	s.Hook(hw.ScratchWord, &Hook{
		Load: func(s *Sim, width int) uint32 {
			v := s.Peek(hw.ScratchWord, width)
			if hw.MemoryControl(s.Peek(hw.MEMCNT, 4)).EWRAMWait() > maxWait {
				return ^v
			}
			return v
		},
	})
}

// realHardware locks up on calls to unimplemented BIOS functions and reads
// open bus from the emulator debug ports.
func realHardware(s *Sim, f *Firmware, bus uint32) {
	f.DebugLockup = "undefined BIOS call 0xff"
	openBus(s, hw.MGBADebugEnable, 2, bus)
	openBus(s, hw.NoCashSignature, 16, bus)
}

func newGBA() (*Sim, *Firmware) {
	s, f := newBase(ChecksumGBA)
	ewram(s, hw.MemoryControlBIOS, 0xe)
	realHardware(s, f, 0x4770_4770)
	return s, f
}

func newMicro() (*Sim, *Firmware) {
	s, f := newBase(ChecksumGBA)
	ewram(s, hw.MemoryControlBIOS, 0xd)
	realHardware(s, f, 0x4770_4770)
	return s, f
}

func newDS() (*Sim, *Firmware) {
	s, f := newBase(ChecksumDS)
	openBus(s, hw.MEMCNT, 4, 0x6e15_6015)
	realHardware(s, f, 0x6e15_6015)
	return s, f
}

func newMGBA() (*Sim, *Firmware) {
	s, f := newBase(ChecksumGBA)
	ewram(s, hw.MemoryControlBIOS, 0xe)

	var enabled bool
	s.Hook(hw.MGBADebugEnable, &Hook{
		Load: func(s *Sim, width int) uint32 {
			if enabled {
				return 0x1dea
			}
			return 0
		},
		Store: func(s *Sim, width int, v uint32) {
			enabled = v == 0xc0de
		},
	})
	s.Hook(hw.MGBADebugFlags, &Hook{
		Store: func(s *Sim, width int, v uint32) {
			if !enabled || v&0x100 == 0 {
				return
			}
			var msg []byte
			for i := hw.Addr(0); i < 256; i++ {
				c := byte(s.Peek(hw.MGBADebugString+i, 1))
				if c == 0 {
					break
				}
				msg = append(msg, c)
			}
			for i := hw.Addr(0); i < 256; i++ {
				s.Poke(hw.MGBADebugString+i, 1, 0)
			}
			f.Log.Write(msg)
			f.Log.WriteByte('\n')
		},
	})
	return s, f
}

func newNoCash() (*Sim, *Firmware) {
	s, f := newNoCashRelease()
	s.PokeBytes(hw.NoCashSignature, []byte("no$gba v3.05"))
	s.Hook(hw.NoCashCharOut, &Hook{
		Store: func(s *Sim, width int, v uint32) {
			f.Log.WriteByte(byte(v))
		},
	})
	return s, f
}

func newNoCashRelease() (*Sim, *Firmware) {
	s, f := newBase(ChecksumGBA)
	ewram(s, hw.MemoryControlBIOS, 0xe)
	f.DebugLockup = "undefined BIOS call 0xff"
	return s, f
}

// gpSP doesn't emulate MEMCNT, but a write to it corrupts the display
// control.
func newGpSP() (*Sim, *Firmware) {
	s, f := newBase(ChecksumGBA)
	s.Hook(hw.MEMCNT, &Hook{
		Load: func(s *Sim, width int) uint32 { return 0 },
		Store: func(s *Sim, width int, v uint32) {
			dispcnt := s.Peek(hw.DISPCNT, 2)
			s.Poke(hw.DISPCNT, 2, dispcnt&^uint32(hw.BG0Enable))
		},
	})
	f.DebugLockup = "unhandled swi 0xff"
	return s, f
}

func newVBA() (*Sim, *Firmware) {
	s, f := newBase(ChecksumGBA)
	openBus(s, hw.MEMCNT, 4, 0)
	return s, f
}

func newGeneric() (*Sim, *Firmware) {
	s, f := newVBA()
	f.DebugIgnored = true
	return s, f
}

