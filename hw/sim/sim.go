// Package sim implements a simulated GBA register file.
//
// A [Sim] is plain little-endian memory plus optional per-address hooks which
// emulate register semantics. All accesses through the [hw.Bus] interface are
// recorded, raw accesses through Peek and Poke are not. Targets in this
// package assemble a Sim and a [Firmware] behaving like a specific console or
// emulator.
package sim

import (
	"fmt"
	"maps"
	"slices"

	"github.com/clktmr/gbaenv/hw"
)

// Op is the kind of a bus access.
type Op uint8

const (
	Load Op = iota
	Store
)

func (op Op) String() string {
	if op == Store {
		return "store"
	}
	return "load"
}

// Access is a single recorded bus access.
type Access struct {
	Op    Op
	Addr  hw.Addr
	Width int // bytes
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%-5v %d 0x%08x 0x%0*x", a.Op, a.Width*8, uint32(a.Addr), a.Width*2, a.Value)
}

// Hook emulates the behaviour of a register. A nil Load reads raw memory, a
// nil Store writes raw memory.
type Hook struct {
	Load  func(s *Sim, width int) uint32
	Store func(s *Sim, width int, v uint32)
}

// Lockup is the panic value of a simulated target that stopped responding.
type Lockup struct {
	Reason string
}

func (l Lockup) Error() string { return "target locked up: " + l.Reason }

// Sim is a simulated register file. It's not safe for concurrent use.
type Sim struct {
	mem   map[hw.Addr]byte
	hooks map[hw.Addr]*Hook
	trace []Access
}

func New() *Sim {
	return &Sim{
		mem:   make(map[hw.Addr]byte),
		hooks: make(map[hw.Addr]*Hook),
	}
}

// Hook installs h for accesses starting at addr.
func (s *Sim) Hook(addr hw.Addr, h *Hook) {
	s.hooks[addr] = h
}

// Lockup stops the simulation.
func (s *Sim) Lockup(reason string) {
	panic(Lockup{reason})
}

// Peek reads raw memory without triggering hooks.
func (s *Sim) Peek(addr hw.Addr, width int) (v uint32) {
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint32(s.mem[addr+hw.Addr(i)])
	}
	return
}

// Poke writes raw memory without triggering hooks.
func (s *Sim) Poke(addr hw.Addr, width int, v uint32) {
	for i := range width {
		s.mem[addr+hw.Addr(i)] = byte(v >> (8 * i))
	}
}

// PokeBytes writes p to raw memory starting at addr.
func (s *Sim) PokeBytes(addr hw.Addr, p []byte) {
	for i, b := range p {
		s.mem[addr+hw.Addr(i)] = b
	}
}

// Trace returns all bus accesses since the last call to ResetTrace.
func (s *Sim) Trace() []Access { return slices.Clone(s.trace) }

func (s *Sim) ResetTrace() { s.trace = s.trace[:0] }

// Stores returns the distinct addresses written since the last ResetTrace,
// in ascending order.
func (s *Sim) Stores() []hw.Addr {
	var addrs []hw.Addr
	for _, a := range s.trace {
		if a.Op == Store {
			addrs = append(addrs, a.Addr)
		}
	}
	slices.Sort(addrs)
	return slices.Compact(addrs)
}

// Snapshot returns a copy of the raw memory.
func (s *Sim) Snapshot() map[hw.Addr]byte {
	return maps.Clone(s.mem)
}

func (s *Sim) load(addr hw.Addr, width int) (v uint32) {
	if h := s.hooks[addr]; h != nil && h.Load != nil {
		v = h.Load(s, width)
	} else {
		v = s.Peek(addr, width)
	}
	if width < 4 {
		v &= 1<<(8*width) - 1
	}
	s.trace = append(s.trace, Access{Load, addr, width, v})
	return v
}

func (s *Sim) store(addr hw.Addr, width int, v uint32) {
	s.trace = append(s.trace, Access{Store, addr, width, v})
	if h := s.hooks[addr]; h != nil && h.Store != nil {
		h.Store(s, width, v)
	} else {
		s.Poke(addr, width, v)
	}
}

func (s *Sim) Load8(addr hw.Addr) uint8   { return uint8(s.load(addr, 1)) }
func (s *Sim) Load16(addr hw.Addr) uint16 { return uint16(s.load(addr, 2)) }
func (s *Sim) Load32(addr hw.Addr) uint32 { return s.load(addr, 4) }

func (s *Sim) Store8(addr hw.Addr, v uint8)   { s.store(addr, 1, uint32(v)) }
func (s *Sim) Store16(addr hw.Addr, v uint16) { s.store(addr, 2, uint32(v)) }
func (s *Sim) Store32(addr hw.Addr, v uint32) { s.store(addr, 4, v) }
