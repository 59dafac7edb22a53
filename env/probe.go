package env

import (
	"github.com/clktmr/gbaenv/bios"
	"github.com/clktmr/gbaenv/debug"
	"github.com/clktmr/gbaenv/hw"
)

// System is the hardware a probe runs against.
type System struct {
	Bus  hw.Bus
	BIOS bios.Firmware
}

// A Probe tests for a single hardware signature. It must leave every register
// it writes either at its previous value or at a value documented as safe,
// and it must give the same answer when called twice.
type Probe func(sys System) bool

// Sum of GetBiosChecksum on the DS is 0xbaae1880, one more than on the GBA.
const dsChecksumComplement = 0x4551_e780

// IsNintendoDS reports whether the ROM runs on a DS. Registers of later probes
// read open bus there, so it must run first.
func IsNintendoDS(sys System) bool {
	if sys.BIOS == nil {
		return false
	}
	return dsFlag(sys.BIOS.Checksum()) != 0
}

// dsFlag is 1 if the checksum's sum with the complement carries out to zero.
func dsFlag(sum uint32) uint32 {
	if sum+dsChecksumComplement == 0 {
		return 1
	}
	return 0
}

// IsMGBA enables mGBA's debug registers, which answer with a magic value.
func IsMGBA(sys System) bool {
	enable := hw.R[uint16](sys.Bus, hw.MGBADebugEnable)
	prev := enable.Load()
	enable.Store(0xc0de)
	ok := enable.Load() == 0x1dea
	enable.Store(prev)
	return ok
}

// IsNoCashGBA reads the emulator's identifier. Only the debug build maps it.
func IsNoCashGBA(sys System) bool {
	var sig [len(hw.NoCashID)]byte
	hw.ReadIO(sys.Bus, hw.NoCashSignature, sig[:])
	return string(sig[:]) == hw.NoCashID
}

// IsGameBoyAdvance checks MEMCNT for the values real hardware has after boot.
// Accurate emulators emulate it as well, so it must run after their probes.
func IsGameBoyAdvance(sys System) bool {
	memcnt := hw.R[hw.MemoryControl](sys.Bus, hw.MEMCNT).Load()
	return memcnt == hw.MemoryControlBIOS || memcnt == hw.MemoryControlFast
}

// IsGameBoyAdvanceMicro reports whether the fastest EWRAM timing that works
// is the one of the Micro, which can't run EWRAM with a single wait state.
func IsGameBoyAdvanceMicro(sys System) bool {
	return TrainMemory(sys) == hw.MemoryControlBIOS
}

// ramTestPattern must not be a value open bus could return.
const ramTestPattern = 0x7071_7518

// ramTest writes and reads back a pattern to the EWRAM scratch word. The
// scratch word is cleared afterwards.
func ramTest(bus hw.Bus) bool {
	word := hw.R[uint32](bus, hw.ScratchWord)
	word.Store(ramTestPattern)
	v := word.Load()
	word.Store(0)
	return v == ramTestPattern
}

// TrainMemory sets the EWRAM wait control to each code from 0 to
// hw.EWRAMWaitMax in ascending order until a RAM test fails. It returns
// MEMCNT with the last code that passed, or with the field cleared if code 0
// failed already. MEMCNT and the display control are restored before
// returning, the latter because gpSP corrupts it on every MEMCNT write.
//
// Effects of the codes aren't monotonic on all targets, so this is a linear
// search.
func TrainMemory(sys System) hw.MemoryControl {
	dispcnt := hw.R[hw.DisplayControl](sys.Bus, hw.DISPCNT)
	prevDisplay := dispcnt.Load()
	memcnt := hw.R[hw.MemoryControl](sys.Bus, hw.MEMCNT)
	orig := memcnt.Load()
	good := orig.WithEWRAMWait(0)

	for code := uint32(0); code <= hw.EWRAMWaitMax; code++ {
		v := orig.WithEWRAMWait(code)
		memcnt.Store(v)
		if !ramTest(sys.Bus) {
			break
		}
		good = v
	}
	memcnt.Store(orig)
	dispcnt.Store(prevDisplay)

	debug.Assert(good.EWRAMWait() <= hw.EWRAMWaitMax, "wait control out of range")
	return good
}

// overclock tries the GBA's fastest EWRAM timing and falls back to the BIOS
// default if the RAM doesn't keep up. MEMCNT is left at one of the two.
func overclock(bus hw.Bus) bool {
	memcnt := hw.R[hw.MemoryControl](bus, hw.MEMCNT)
	word := hw.R[uint32](bus, hw.ScratchWord)

	memcnt.Store(hw.MemoryControlFast)
	word.Store(1)
	ok := word.Load() == 1
	word.Store(0)
	if !ok {
		memcnt.Store(hw.MemoryControlBIOS)
	}
	return ok
}

// IsGpSP detects gpSP by a side effect of writing MEMCNT: it clears BG0 in the
// display control. The display control is restored, but MEMCNT is left at a
// valid timing which may differ from the previous one.
//
// This probe can crash real hardware and other emulators. It is not part of
// [DefaultOrder].
func IsGpSP(sys System) bool {
	dispcnt := hw.R[hw.DisplayControl](sys.Bus, hw.DISPCNT)
	prev := dispcnt.Load()
	dispcnt.Store(hw.BG0Enable) // mode 0

	overclock(sys.Bus)

	cleared := dispcnt.LoadBits(hw.BG0Enable) == 0
	dispcnt.Store(prev)
	return cleared
}

// IsVisualBoyAdvance prints through VBA's log call. There is nothing to read
// back, so the probe matches whenever the call returns. Every other target
// crashes or ignores it, which makes this the last resort.
func IsVisualBoyAdvance(sys System) bool {
	if sys.BIOS == nil {
		return false
	}
	return sys.BIOS.DebugPrint("VBA") && sys.BIOS.DebugPrint("\n")
}
