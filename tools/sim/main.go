// Package sim runs the environment classifier against simulated targets.
package sim

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/clktmr/gbaenv/drivers/debuglog"
	"github.com/clktmr/gbaenv/env"
	hwsim "github.com/clktmr/gbaenv/hw/sim"
)

const usageString = `Run environment detection on a simulated target.

Usage: %s [flags] <target|all>

Targets: %s

Environments: %s

`

var (
	flags = flag.NewFlagSet("sim", flag.ExitOnError)

	order   = flags.String("order", "default", "default | extended")
	verbose = flags.Bool("v", false, "print probe results and bus accesses")
	expect  expectation
)

func init() {
	flags.Var(&expect, "expect", "exit with an error unless each target is detected as `environment`")
}

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrMismatch      = errors.New("unexpected environment")
)

// expectation is an optional environment flag.
type expectation struct {
	env env.Environment
	set bool
}

func (e *expectation) String() string {
	if !e.set {
		return ""
	}
	return e.env.String()
}

func (e *expectation) Set(s string) error {
	if err := e.env.UnmarshalText([]byte(s)); err != nil {
		return err
	}
	e.set = true
	return nil
}

// check returns an error if got isn't the expected environment.
func (e *expectation) check(got env.Environment) error {
	if e.set && got != e.env {
		return fmt.Errorf("%w: expected %v, got %v", ErrMismatch, e.env, got)
	}
	return nil
}

func usage() {
	var envs []string
	for _, e := range env.Environments() {
		envs = append(envs, e.String())
	}
	fmt.Fprintf(flags.Output(), usageString, "sim",
		strings.Join(hwsim.Names(), ", "), strings.Join(envs, ", "))
	flags.PrintDefaults()
}

func rules(name string) ([]env.Rule, error) {
	switch name {
	case "default":
		return env.DefaultOrder(), nil
	case "extended":
		return env.ExtendedOrder(), nil
	}
	return nil, fmt.Errorf("unknown order %q", name)
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}

	r, err := rules(*order)
	if err != nil {
		log.Fatalln(err)
	}

	targets := hwsim.Targets
	if name := flags.Arg(0); name != "all" {
		t, ok := hwsim.Lookup(name)
		if !ok {
			log.Fatalf("%v: %s", ErrUnknownTarget, name)
		}
		targets = []hwsim.Target{t}
	}

	failed := false
	for _, t := range targets {
		e, err := report(os.Stdout, t, r, *verbose)
		if err == nil {
			err = expect.check(e)
		}
		if err != nil {
			log.Println(t.Name+":", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// report classifies a fresh instance of t and writes the result to w.
func report(w io.Writer, t hwsim.Target, rules []env.Rule, verbose bool) (env.Environment, error) {
	bus, fw := t.New()
	c := env.New(bus, fw, rules)
	if verbose {
		fmt.Fprintf(w, "%s (%s)\n", t.Name, t.Description)
		c.Trace(func(rule env.Rule, matched bool) {
			fmt.Fprintf(w, "  probe %-6s %v\n", rule.Name, matched)
		})
	}

	e, err := classify(c)
	if verbose {
		for _, a := range bus.Trace() {
			fmt.Fprintf(w, "  %v\n", a)
		}
		for _, call := range fw.Calls {
			fmt.Fprintf(w, "  bios  %s\n", call)
		}
	}
	if err != nil {
		return e, err
	}
	if verbose {
		// Debug outputs a program finds without running detection first.
		fmt.Fprintf(w, "  debuglog %T\n", debuglog.ProbeAll(bus))
	}
	fmt.Fprintf(w, "%-15s %v\n", t.Name, e)
	return e, nil
}

func classify(c *env.Classifier) (e env.Environment, err error) {
	defer func() {
		if r := recover(); r != nil {
			lockup, ok := r.(hwsim.Lockup)
			if !ok {
				panic(r)
			}
			err = lockup
		}
	}()
	return c.Classify(), nil
}
