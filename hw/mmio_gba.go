//go:build gba

package hw

import (
	"embedded/mmio"
	"unsafe"
)

func init() {
	Default = mmioBus{}
}

// mmioBus accesses physical memory. The GBA has no MMU, so addresses are
// used as pointers directly.
type mmioBus struct{}

func (mmioBus) Load8(addr Addr) uint8 {
	return (*mmio.U8)(unsafe.Pointer(uintptr(addr))).Load()
}

func (mmioBus) Load16(addr Addr) uint16 {
	return (*mmio.U16)(unsafe.Pointer(uintptr(addr))).Load()
}

func (mmioBus) Load32(addr Addr) uint32 {
	return (*mmio.U32)(unsafe.Pointer(uintptr(addr))).Load()
}

func (mmioBus) Store8(addr Addr, v uint8) {
	(*mmio.U8)(unsafe.Pointer(uintptr(addr))).Store(v)
}

func (mmioBus) Store16(addr Addr, v uint16) {
	(*mmio.U16)(unsafe.Pointer(uintptr(addr))).Store(v)
}

func (mmioBus) Store32(addr Addr, v uint32) {
	(*mmio.U32)(unsafe.Pointer(uintptr(addr))).Store(v)
}
