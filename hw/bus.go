package hw

// Addr represents a physical memory address
type Addr uint32

// Bus performs volatile accesses of a fixed width.
type Bus interface {
	Load8(addr Addr) uint8
	Load16(addr Addr) uint16
	Load32(addr Addr) uint32
	Store8(addr Addr, v uint8)
	Store16(addr Addr, v uint16)
	Store32(addr Addr, v uint32)
}

// Default is the bus of the running target. It's nil if the program wasn't
// built for the gba target.
var Default Bus

// Word is the set of register widths the GBA bus supports.
type Word interface {
	~uint8 | ~uint16 | ~uint32
}

// Reg is a register of type T at a fixed address.
type Reg[T Word] struct {
	bus  Bus
	addr Addr
}

// R returns the register at addr on bus.
func R[T Word](bus Bus, addr Addr) Reg[T] {
	return Reg[T]{bus, addr}
}

func (r Reg[T]) Addr() Addr { return r.addr }

func (r Reg[T]) Load() T {
	switch width[T]() {
	case 1:
		return T(r.bus.Load8(r.addr))
	case 2:
		return T(r.bus.Load16(r.addr))
	}
	return T(r.bus.Load32(r.addr))
}

func (r Reg[T]) Store(v T) {
	switch width[T]() {
	case 1:
		r.bus.Store8(r.addr, uint8(v))
	case 2:
		r.bus.Store16(r.addr, uint16(v))
	default:
		r.bus.Store32(r.addr, uint32(v))
	}
}

// LoadBits returns the register value masked with mask.
func (r Reg[T]) LoadBits(mask T) T {
	return r.Load() & mask
}

// width returns the size of T in bytes. Named types like DisplayControl don't
// match a type switch on the underlying type, so the size is derived from the
// value range instead.
func width[T Word]() int {
	ones := ^T(0)
	switch {
	case uint32(ones) <= 0xff:
		return 1
	case uint32(ones) <= 0xffff:
		return 2
	}
	return 4
}

// ReadIO copies len(p) bytes starting at addr into p using byte loads.
func ReadIO(bus Bus, addr Addr, p []byte) {
	for i := range p {
		p[i] = bus.Load8(addr + Addr(i))
	}
}

// WriteIO copies p to addr using byte stores.
func WriteIO(bus Bus, addr Addr, p []byte) {
	for i, b := range p {
		bus.Store8(addr+Addr(i), b)
	}
}
