// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/ias/emulator"
	"github.com/ezrec/ias/shell"
)

func main() {
	var file string
	var interactive bool
	var base int
	var verbose bool

	flag.StringVar(&file, "f", "", "assembly file to run")
	flag.BoolVar(&interactive, "i", false, "Interactive shell after the run")
	flag.IntVar(&base, "b", 0, "Base (load) address")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Cpu.Verbose = verbose

	err := emu.Cpu.SetBase(base)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if len(file) == 0 && !interactive {
		log.Fatalf("%v: no file to run (-f), and not interactive (-i)", os.Args[0])
	}

	if len(file) != 0 {
		source, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("%v: %v", file, err)
		}

		prog, err := emu.Assemble(string(source))
		if err != nil {
			log.Fatalf("%v: %v", file, err)
		}

		err = emu.Load(prog)
		if err != nil {
			// Leave the machine as it was, for inspection.
			log.Printf("%v: %v", file, err)
			interactive = true
		}
	}

	if interactive {
		sh := shell.NewShell(emu)
		err = sh.Run(os.Stdin, os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}
}
