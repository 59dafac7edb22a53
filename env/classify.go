package env

import (
	"slices"

	"github.com/clktmr/gbaenv/bios"
	"github.com/clktmr/gbaenv/debug"
	"github.com/clktmr/gbaenv/hw"
)

// Rule maps a probe to the environment it identifies.
type Rule struct {
	Name  string
	Env   Environment
	Probe Probe
}

// Probes may crash or give false positives on targets which an earlier probe
// identifies. Never reorder these lists, only append to them after checking
// every supported target.
//
//   - The DS check comes first, MEMCNT reads open bus on the DS.
//   - The emulator signatures come before the MEMCNT checks, which some of
//     these emulators pass as well.
//   - The Micro's memory training comes before the GBA check, because the
//     Micro boots with a MEMCNT value the GBA check accepts.
//   - gpSP may crash real hardware, which is ruled out before.
//   - The VBA log call crashes most targets and can't be verified, it's last.
var (
	defaultOrder = []Rule{
		{"ds", NintendoDS, IsNintendoDS},
		{"mgba", MGBA, IsMGBA},
		{"nocash", NoCashGBA, IsNoCashGBA},
		{"micro", GameBoyAdvanceMicro, IsGameBoyAdvanceMicro},
		{"gba", GameBoyAdvance, IsGameBoyAdvance},
		{"vba", VisualBoyAdvance, IsVisualBoyAdvance},
	}

	extendedOrder = []Rule{
		{"ds", NintendoDS, IsNintendoDS},
		{"mgba", MGBA, IsMGBA},
		{"nocash", NoCashGBA, IsNoCashGBA},
		{"micro", GameBoyAdvanceMicro, IsGameBoyAdvanceMicro},
		{"gba", GameBoyAdvance, IsGameBoyAdvance},
		{"gpsp", GpSP, IsGpSP},
		{"vba", VisualBoyAdvance, IsVisualBoyAdvance},
	}
)

// DefaultOrder is safe to run on all supported targets except gpSP, which
// crashes in the final VBA probe.
func DefaultOrder() []Rule { return slices.Clone(defaultOrder) }

// ExtendedOrder adds the gpSP probe, which changes MEMCNT and corrupts the
// display control on some targets.
func ExtendedOrder() []Rule { return slices.Clone(extendedOrder) }

// Classifier runs probes in a fixed order and returns the environment of the
// first match.
type Classifier struct {
	sys   System
	rules []Rule
	trace func(rule Rule, matched bool)
}

// New returns a classifier for the given bus and firmware. A nil firmware
// makes the probes relying on BIOS calls fail.
func New(bus hw.Bus, fw bios.Firmware, rules []Rule) *Classifier {
	debug.Assert(bus != nil, "no bus")
	if debug.Enabled {
		for _, r := range rules {
			debug.Assert(r.Probe != nil, "rule without probe")
			debug.Assert(r.Env != Unknown, "rule for unknown environment")
		}
	}
	return &Classifier{sys: System{bus, fw}, rules: rules}
}

// Trace sets a function which is called with the result of every probe run.
func (c *Classifier) Trace(fn func(rule Rule, matched bool)) {
	c.trace = fn
}

// Classify runs the probes. It always returns, unless a probe crashed the
// target.
func (c *Classifier) Classify() Environment {
	for _, rule := range c.rules {
		matched := rule.Probe(c.sys)
		if c.trace != nil {
			c.trace(rule, matched)
		}
		if matched {
			return rule.Env
		}
	}
	return Unknown
}

// Detect identifies the running system using the default probe order. It
// must only be called on the gba target.
func Detect() Environment {
	return New(hw.Default, bios.Default, defaultOrder).Classify()
}
