// The hw package provides access to the Game Boy Advance's memory-mapped
// registers.
//
// All accesses go through a [Bus]. On the gba target [Default] performs real
// MMIO, other builds have no default bus and must inject one, usually a
// simulated register file from hw/sim. Every Load and Store is exactly one
// bus access. A Bus must never cache, merge or drop accesses, because
// probing hardware often relies on the side effect rather than the value.
package hw
