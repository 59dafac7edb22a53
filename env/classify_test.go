package env_test

import (
	"slices"
	"testing"

	"github.com/clktmr/gbaenv/env"
	"github.com/clktmr/gbaenv/hw"
	"github.com/clktmr/gbaenv/hw/sim"
	"github.com/google/go-cmp/cmp"
)

// classify runs the classifier on a fresh instance of target. A simulated
// lockup is returned instead of propagated.
func classify(t *testing.T, target sim.Target, rules []env.Rule) (e env.Environment, lockup *sim.Lockup) {
	t.Helper()
	bus, fw := target.New()
	return run(bus, fw, rules)
}

func run(bus *sim.Sim, fw *sim.Firmware, rules []env.Rule) (e env.Environment, lockup *sim.Lockup) {
	defer func() {
		if r := recover(); r != nil {
			l, ok := r.(sim.Lockup)
			if !ok {
				panic(r)
			}
			lockup = &l
		}
	}()
	return env.New(bus, fw, rules).Classify(), nil
}

const lockedUp = env.Environment(0xff)

func TestTargets(t *testing.T) {
	tests := map[string]struct {
		dflt, extended env.Environment
	}{
		"gba":            {env.GameBoyAdvance, env.GameBoyAdvance},
		"micro":          {env.GameBoyAdvanceMicro, env.GameBoyAdvanceMicro},
		"ds":             {env.NintendoDS, env.NintendoDS},
		"mgba":           {env.MGBA, env.MGBA},
		"nocash":         {env.NoCashGBA, env.NoCashGBA},
		"nocash-release": {env.GameBoyAdvance, env.GameBoyAdvance},
		"gpsp":           {lockedUp, env.GpSP},
		"vba":            {env.VisualBoyAdvance, env.VisualBoyAdvance},
		"generic":        {env.Unknown, env.Unknown},
	}
	if len(tests) != len(sim.Targets) {
		t.Fatalf("%d targets untested", len(sim.Targets)-len(tests))
	}
	orders := map[string]struct {
		rules []env.Rule
		want  func(dflt, extended env.Environment) env.Environment
	}{
		"default":  {env.DefaultOrder(), func(d, _ env.Environment) env.Environment { return d }},
		"extended": {env.ExtendedOrder(), func(_, e env.Environment) env.Environment { return e }},
	}
	for name, tc := range tests {
		target, ok := sim.Lookup(name)
		if !ok {
			t.Fatal("missing target", name)
		}
		for oname, order := range orders {
			t.Run(name+"/"+oname, func(t *testing.T) {
				want := order.want(tc.dflt, tc.extended)
				got, lockup := classify(t, target, order.rules)
				if lockup != nil {
					got = lockedUp
				}
				if got != want {
					t.Fatalf("expected %v, got %v (lockup: %v)", want, got, lockup)
				}
			})
		}
	}
}

func TestDeterminism(t *testing.T) {
	for _, target := range sim.Targets {
		t.Run(target.Name, func(t *testing.T) {
			bus1, fw1 := target.New()
			bus2, fw2 := target.New()
			e1, l1 := run(bus1, fw1, env.ExtendedOrder())
			e2, l2 := run(bus2, fw2, env.ExtendedOrder())
			if e1 != e2 || (l1 == nil) != (l2 == nil) {
				t.Fatalf("results differ: %v/%v, %v/%v", e1, e2, l1, l2)
			}
			if diff := cmp.Diff(bus1.Trace(), bus2.Trace()); diff != "" {
				t.Fatalf("bus traces differ (-first +second):\n%s", diff)
			}

			// Running again on the same, already probed target
			e3, _ := run(bus1, fw1, env.ExtendedOrder())
			if e3 != e1 {
				t.Fatalf("second run returned %v, first %v", e3, e1)
			}
		})
	}
}

// observable returns the values of all registers a probe writes, as seen by
// the program.
func observable(bus *sim.Sim) map[string]uint32 {
	return map[string]uint32{
		"DISPCNT":         bus.Peek(hw.DISPCNT, 2),
		"MEMCNT":          hw.R[uint32](bus, hw.MEMCNT).Load(),
		"MGBADebugEnable": uint32(hw.R[uint16](bus, hw.MGBADebugEnable).Load()),
	}
}

// Display settings a program may have before detection. BG0 must be set in
// one of them, gpSP clears it on MEMCNT writes.
var displays = map[string]hw.DisplayControl{
	"blank": hw.ForcedBlank,
	"mode0": hw.BG0Enable | hw.BG2Enable,
}

func TestRestoration(t *testing.T) {
	for _, target := range sim.Targets {
		for _, rule := range env.DefaultOrder() {
			for display, dispcnt := range displays {
				t.Run(target.Name+"/"+rule.Name+"/"+display, func(t *testing.T) {
					bus, fw := target.New()
					bus.Poke(hw.DISPCNT, 2, uint32(dispcnt))
					sys := env.System{Bus: bus, BIOS: fw}
					before, regsBefore := bus.Snapshot(), observable(bus)

					var lockup *sim.Lockup
					func() {
						defer func() {
							if r := recover(); r != nil {
								l := r.(sim.Lockup)
								lockup = &l
							}
						}()
						rule.Probe(sys)
					}()
					if lockup != nil {
						t.Skip("probe not applicable:", lockup)
					}

					after, regsAfter := bus.Snapshot(), observable(bus)
					// The scratch word is documented to be left cleared.
					for i := range hw.Addr(4) {
						delete(before, hw.ScratchWord+i)
						delete(after, hw.ScratchWord+i)
					}
					if diff := cmp.Diff(before, after); diff != "" {
						t.Errorf("memory changed (-before +after):\n%s", diff)
					}
					if diff := cmp.Diff(regsBefore, regsAfter); diff != "" {
						t.Errorf("registers changed (-before +after):\n%s", diff)
					}
					if v := bus.Peek(hw.ScratchWord, 4); v != 0 {
						t.Errorf("scratch word left at %#x", v)
					}
				})
			}
		}
	}
}

func TestGpSPLeavesSafeState(t *testing.T) {
	for _, name := range []string{"gpsp", "gba", "micro", "vba"} {
		target, _ := sim.Lookup(name)
		t.Run(name, func(t *testing.T) {
			bus, fw := target.New()
			dispcnt := bus.Peek(hw.DISPCNT, 2)
			env.IsGpSP(env.System{Bus: bus, BIOS: fw})
			if got := bus.Peek(hw.DISPCNT, 2); got != dispcnt {
				t.Errorf("DISPCNT changed from %#x to %#x", dispcnt, got)
			}
			if name == "gba" || name == "micro" {
				memcnt := hw.MemoryControl(bus.Peek(hw.MEMCNT, 4))
				if memcnt != hw.MemoryControlBIOS && memcnt != hw.MemoryControlFast {
					t.Errorf("MEMCNT left at %#x", memcnt)
				}
			}
		})
	}
}

func TestPriority(t *testing.T) {
	order := env.ExtendedOrder()
	n := len(order)
	for set := range 1 << n {
		calls := make([]int, n)
		rules := slices.Clone(order)
		for i := range rules {
			rules[i].Probe = func(env.System) bool {
				calls[i]++
				return set&(1<<i) != 0
			}
		}

		got := env.New(sim.New(), nil, rules).Classify()

		want, first := env.Unknown, n
		for i := range n {
			if set&(1<<i) != 0 {
				want, first = order[i].Env, i
				break
			}
		}
		if got != want {
			t.Fatalf("set %07b: expected %v, got %v", set, want, got)
		}
		for i, c := range calls {
			if i <= first && i < n && c != 1 {
				t.Fatalf("set %07b: probe %s ran %d times", set, order[i].Name, c)
			}
			if i > first && c != 0 {
				t.Fatalf("set %07b: probe %s ran after match", set, order[i].Name)
			}
		}
	}
}

func TestOrderInvariants(t *testing.T) {
	for name, rules := range map[string][]env.Rule{
		"default":  env.DefaultOrder(),
		"extended": env.ExtendedOrder(),
	} {
		t.Run(name, func(t *testing.T) {
			idx := func(n string) int {
				return slices.IndexFunc(rules, func(r env.Rule) bool { return r.Name == n })
			}
			if idx("ds") != 0 {
				t.Error("ds must be first")
			}
			if idx("vba") != len(rules)-1 {
				t.Error("vba must be last")
			}
			for _, sig := range []string{"mgba", "nocash"} {
				if idx(sig) > idx("gba") || idx(sig) > idx("micro") {
					t.Errorf("%s must precede the MEMCNT checks", sig)
				}
			}
			if idx("micro") > idx("gba") {
				t.Error("micro must precede gba")
			}
			if gpsp := idx("gpsp"); gpsp != -1 {
				if name == "default" {
					t.Error("gpsp in default order")
				}
				if gpsp < idx("gba") || gpsp < idx("micro") {
					t.Error("gpsp must follow the real hardware checks")
				}
			}
		})
	}

	// The returned slices are copies.
	env.DefaultOrder()[0].Env = env.VisualBoyAdvance
	if env.DefaultOrder()[0].Env != env.NintendoDS {
		t.Fatal("default order was modified")
	}
}

func TestOrderViolation(t *testing.T) {
	tests := map[string]struct {
		target string
		move   string // rule moved to the front
	}{
		"vba on gba":    {"gba", "vba"},
		"vba on ds":     {"ds", "vba"},
		"vba on nocash": {"nocash", "vba"},
		"vba on micro":  {"micro", "vba"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rules := env.ExtendedOrder()
			i := slices.IndexFunc(rules, func(r env.Rule) bool { return r.Name == tc.move })
			rule := rules[i]
			rules = slices.Insert(slices.Delete(rules, i, i+1), 0, rule)

			target, _ := sim.Lookup(tc.target)
			if _, lockup := classify(t, target, rules); lockup == nil {
				t.Fatal("expected lockup")
			}
		})
	}

	// Without the DS check nothing matches before the VBA log call.
	target, _ := sim.Lookup("ds")
	if _, lockup := classify(t, target, env.DefaultOrder()[1:]); lockup == nil {
		t.Fatal("expected lockup")
	}
}

func TestScenarios(t *testing.T) {
	t.Run("legacy checksum wins", func(t *testing.T) {
		bus, fw := sim.Targets[0].New()
		fw.Sum = sim.ChecksumDS
		bus.PokeBytes(hw.NoCashSignature, []byte("no$gba "))
		got, lockup := run(bus, fw, env.ExtendedOrder())
		if lockup != nil || got != env.NintendoDS {
			t.Fatalf("expected %v, got %v (%v)", env.NintendoDS, got, lockup)
		}
		if trace := bus.Trace(); len(trace) != 0 {
			t.Fatalf("ds probe accessed the bus: %v", trace)
		}
	})
	t.Run("debug register without signature", func(t *testing.T) {
		target, _ := sim.Lookup("mgba")
		if got, _ := classify(t, target, env.DefaultOrder()); got != env.MGBA {
			t.Fatalf("expected %v, got %v", env.MGBA, got)
		}
	})
	t.Run("signature without debug register", func(t *testing.T) {
		target, _ := sim.Lookup("nocash")
		if got, _ := classify(t, target, env.DefaultOrder()); got != env.NoCashGBA {
			t.Fatalf("expected %v, got %v", env.NoCashGBA, got)
		}
	})
	t.Run("no signature", func(t *testing.T) {
		target, _ := sim.Lookup("generic")
		if got, _ := classify(t, target, env.DefaultOrder()); got != env.Unknown {
			t.Fatalf("expected %v, got %v", env.Unknown, got)
		}
	})
	t.Run("no firmware", func(t *testing.T) {
		bus, _ := sim.Targets[len(sim.Targets)-1].New()
		if got, _ := run(bus, nil, env.DefaultOrder()); got != env.Unknown {
			t.Fatalf("expected %v, got %v", env.Unknown, got)
		}
	})
}

func TestTrace(t *testing.T) {
	target, _ := sim.Lookup("gba")
	bus, fw := target.New()
	c := env.New(bus, fw, env.DefaultOrder())
	var got []string
	c.Trace(func(rule env.Rule, matched bool) {
		if matched {
			got = append(got, rule.Name+"!")
		} else {
			got = append(got, rule.Name)
		}
	})
	c.Classify()
	want := []string{"ds", "mgba", "nocash", "micro", "gba!"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}
