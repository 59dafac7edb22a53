// Copyright 2024 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rom

import (
	"bufio"
	"debug/elf"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

const usageString = `ELF to GBA ROM converter.

Usage: %s [flags] <elffile>

`

var (
	flags = flag.NewFlagSet("rom", flag.ExitOnError)

	infile string
	title  = flags.String("title", "", "game title in the cartridge header, defaults to the file name")
	code   = flags.String("code", "GENV", "game code")
	maker  = flags.String("maker", "01", "maker code")
	run    = flags.String("run", "", "Run the ROM with command")
)

var ErrDataBeforeEntry = errors.New("data before entry point")

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "rom")
	flags.PrintDefaults()
}

// objcopy returns the loadable sections of src placed relative to the entry
// point, padded to a multiple of 4 bytes.
func objcopy(src *elf.File) ([]byte, error) {
	var rom []byte
	for _, s := range src.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, err
		}

		if s.Addr < src.Entry {
			return nil, fmt.Errorf("section %s: %w", s.Name, ErrDataBeforeEntry)
		}

		off := int(s.Addr - src.Entry)
		if end := off + len(data); end > len(rom) {
			rom = append(rom, make([]byte, end-len(rom))...)
		}
		copy(rom[off:], data)
	}
	for len(rom)%4 != 0 {
		rom = append(rom, 0)
	}
	return rom, nil
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() == 1 {
		infile = flags.Arg(0)
	} else {
		flags.Usage()
		os.Exit(1)
	}

	outfile, _ := strings.CutSuffix(infile, ".elf")
	outfile += ".gba"

	elffile, err := elf.Open(infile)
	if err != nil {
		log.Fatalln(err)
	}
	defer elffile.Close()

	rom, err := objcopy(elffile)
	if err != nil {
		log.Fatalln("objcopy:", err)
	}

	hdr := Header{Title: *title, GameCode: *code, MakerCode: *maker}
	if hdr.Title == "" {
		base, _ := strings.CutSuffix(filepath.Base(outfile), ".gba")
		hdr.Title = strings.ToUpper(base[:min(len(base), 12)])
	}
	if err = hdr.Write(rom); err != nil {
		log.Fatalln("write rom header:", err)
	}

	if err = os.WriteFile(outfile, rom, 0o644); err != nil {
		log.Fatalln(err)
	}

	if *run != "" {
		runROM(*run, outfile)
	}
}

func runROM(cmdpath, rompath string) {
	args, err := shellquote.Split(cmdpath)
	if err != nil {
		log.Fatal("run:", err)
	}
	args = append(args, rompath)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	processGroupEnable(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Fatal("open stdout:", err)
	}

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)

	err = cmd.Start()
	if err != nil {
		log.Fatal("start command:", err)
	}

	go func() {
		<-sigintr
		stdout.Close()
		err := processGroupKill(cmd)
		if err != nil {
			log.Println(err)
		}
	}()

	code := watch(stdout, func() {
		go func() {
			// give panic() time to print the stacktrace
			time.Sleep(500 * time.Millisecond)
			stdout.Close()
			err := processGroupKill(cmd)
			if err != nil {
				log.Println(err)
			}
		}()
	})
	cmd.Wait()
	os.Exit(code)
}

// watch logs every line of the emulator's output. It calls done once the
// program printed its result, panicked or a test run finished, and returns
// the exit code after r is drained.
func watch(r io.Reader, done func()) (code int) {
	scanner := bufio.NewScanner(r)
	exiting := false
	for scanner.Scan() {
		line := scanner.Text()
		log.Println(line)
		if exiting {
			continue
		}
		switch {
		case strings.HasPrefix(line, "fatal error:"), strings.HasPrefix(line, "panic:"):
			fallthrough
		case line == "FAIL":
			code = 1
			fallthrough
		case line == "PASS", strings.HasPrefix(line, "System: "):
			exiting = true
			done()
		}
	}
	return code
}
