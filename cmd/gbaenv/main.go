//go:build gba

// Command gbaenv prints the system it's running on to the emulator's debug
// output.
package main

import (
	"fmt"
	"time"

	"github.com/clktmr/gbaenv/bios"
	"github.com/clktmr/gbaenv/drivers/debuglog"
	"github.com/clktmr/gbaenv/env"
	"github.com/clktmr/gbaenv/hw"
)

func main() {
	e := env.Detect()

	log := debuglog.ForEnvironment(e, hw.Default, bios.Default)
	fmt.Fprintf(log, "System: %v\n", e)
	debuglog.Flush(log)

	for {
		time.Sleep(time.Second)
	}
}
