package hw

// Memory regions
const (
	EWRAM Addr = 0x0200_0000 // on-board work RAM, 256 KiB
	IWRAM Addr = 0x0300_0000 // on-chip work RAM, 32 KiB
	IO    Addr = 0x0400_0000
	ROM   Addr = 0x0800_0000 // game pak, wait state 0

	// ScratchWord is the last word of EWRAM. The linker script reserves it
	// for memory tests, its content is undefined.
	ScratchWord Addr = EWRAM + 0x3_fffc
)

// LCD and system control
const (
	DISPCNT Addr = IO + 0x000 // 16 bit
	MEMCNT  Addr = IO + 0x800 // 32 bit, internal memory control, mirrored every 64K
)

// Debug ports of emulators. Unmapped on hardware.
const (
	MGBADebugString Addr = 0x04ff_f600 // 256 bytes
	MGBADebugFlags  Addr = 0x04ff_f700 // 16 bit
	MGBADebugEnable Addr = 0x04ff_f780 // 16 bit

	NoCashSignature Addr = 0x04ff_fa00 // identifier, debug build only
	NoCashCharOut   Addr = 0x04ff_fa1c // 8 bit
)

// NoCashID is the prefix of the identifier at NoCashSignature. A version
// string follows it.
const NoCashID = "no$gba "

type DisplayControl uint16

const ModeMask DisplayControl = 0x7

const (
	FrameSelect DisplayControl = 1 << (iota + 4)
	HBlankOAMAccess
	OBJ1D
	ForcedBlank
	BG0Enable
	BG1Enable
	BG2Enable
	BG3Enable
	OBJEnable
	Win0Enable
	Win1Enable
	OBJWinEnable
)

// MemoryControl is the layout of MEMCNT. Only the EWRAM wait control is
// documented, the remaining bits must keep their boot value.
type MemoryControl uint32

const (
	EWRAMWaitShift = 24
	EWRAMWaitMax   = 0xe // 0xf locks up the console

	EWRAMWaitMask MemoryControl = 0xf << EWRAMWaitShift
)

// Known MEMCNT values
const (
	MemoryControlBIOS MemoryControl = 0x0d00_0020 // after boot, fastest setting of the Micro
	MemoryControlFast MemoryControl = 0x0e00_0020 // fastest setting of the GBA
)

// EWRAMWait returns the EWRAM wait control field.
func (m MemoryControl) EWRAMWait() uint32 {
	return uint32(m&EWRAMWaitMask) >> EWRAMWaitShift
}

// WithEWRAMWait returns m with its EWRAM wait control field set to code.
func (m MemoryControl) WithEWRAMWait(code uint32) MemoryControl {
	return m&^EWRAMWaitMask | MemoryControl(code)<<EWRAMWaitShift&EWRAMWaitMask
}
