//go:build gba

// Package testing provides utilities for writing tests which run on the GBA
// or in an emulator.
package testing

import (
	"embedded/rtos"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/clktmr/gbaenv/bios"
	"github.com/clktmr/gbaenv/drivers/debuglog"
	"github.com/clktmr/gbaenv/env"
	"github.com/clktmr/gbaenv/hw"

	"github.com/embeddedgo/fs/termfs"
)

// Detected is the environment found before running the tests.
var Detected env.Environment

// TestMain should be used as TestMain for tests running on the target.
func TestMain(m *testing.M) {
	// Detection must happen before anything else touches the registers,
	// including the loggers.
	Detected = env.Detect()

	// Output is lost on real hardware.
	logger := debuglog.ForEnvironment(Detected, hw.Default, bios.Default)

	syswriter := debuglog.NewSystemWriter(logger)
	rtos.SetSystemWriter(syswriter)

	fs := termfs.NewLight("termfs", nil, logger)
	rtos.Mount(fs, "/dev/console")
	var err error
	os.Stdout, err = os.OpenFile("/dev/console", syscall.O_WRONLY, 0)
	if err != nil {
		panic(err)
	}
	os.Stderr = os.Stdout

	fmt.Printf("running on %v\n", Detected)

	// TODO find a way to pass these from the 'go test' command
	os.Args = append(os.Args, "-test.v")

	code := m.Run()
	debuglog.Flush(logger)
	os.Exit(code)
}
