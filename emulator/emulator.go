// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ias/cpu"
	"github.com/ezrec/ias/internal"
)

const (
	DISPLAY_MEMORY_MIN = 0  // Default lower bound of a memory listing.
	DISPLAY_MEMORY_MAX = 15 // Default upper bound of a memory listing.
)

var _emulator_defines = map[string]string{
	"DISPLAY_MEMORY_MIN": fmt.Sprintf("%v", DISPLAY_MEMORY_MIN),
	"DISPLAY_MEMORY_MAX": fmt.Sprintf("%v", DISPLAY_MEMORY_MAX),
}

// Emulator state. CPU + assembler + the loaded program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	asm cpu.Assembler
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles source text to be loaded at the base address,
// with the emulator defines predefined.
func (emu *Emulator) Assemble(source string) (prog *cpu.Program, err error) {
	return emu.assemble(source, emu.Cpu.Base())
}

// assemble assembles source text, with its first statement at origin.
func (emu *Emulator) assemble(source string, origin int) (prog *cpu.Program, err error) {
	emu.asm.Verbose = emu.Verbose
	emu.asm.Origin = origin
	for key, value := range emu.Defines() {
		emu.asm.Predefine(key, value)
	}
	emu.asm.Predefine("BASE", fmt.Sprintf("%d", emu.Cpu.Base()))

	return emu.asm.Assemble(source)
}

// Load sets the program's data cells, copies its instruction words
// to memory at the base address, and runs it to completion.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	emu.Program = prog

	defer func() {
		if err != nil {
			err = emu.runtimeError(err)
		}
	}()

	for _, datum := range prog.Data {
		err = emu.Cpu.Poke(datum.Addr, datum.Word)
		if err != nil {
			return
		}
	}

	return emu.Cpu.LoadAndRun(prog.Words())
}

// Tick executes a single fetch/execute cycle from memory.
func (emu *Emulator) Tick() (err error) {
	err = emu.Cpu.Tick()
	if err != nil {
		err = emu.runtimeError(err)
	}

	return
}

// runtimeError locates a machine error at the source line of the
// faulting instruction.
func (emu *Emulator) runtimeError(err error) error {
	pc := emu.Cpu.PC
	var fault *cpu.ErrFault
	if errors.As(err, &fault) {
		pc = fault.PC
	}

	return &ErrRuntime{LineNo: emu.lineAt(pc), Err: err}
}

// Run assembles source text, then loads and runs it.
func (emu *Emulator) Run(source string) (err error) {
	prog, err := emu.Assemble(source)
	if err != nil {
		return
	}

	return emu.Load(prog)
}

// Exec assembles a line of source, and single-steps each of its
// instructions at the current program counter. Labels on the line are
// relative to the program counter. While the instruction buffer holds a
// pending half, nothing is executed and the error wraps cpu.ErrStepPending.
func (emu *Emulator) Exec(line string) (err error) {
	prog, err := emu.assemble(line, int(emu.Cpu.PC))
	if err != nil {
		return
	}

	for _, datum := range prog.Data {
		err = emu.Cpu.Poke(datum.Addr, datum.Word)
		if err != nil {
			return
		}
	}

	for _, stmt := range prog.Statements {
		if emu.Verbose {
			log.Printf("exec: %v", stmt.Text())
		}
		err = emu.Cpu.Step(stmt.Word)
		if err != nil {
			err = &ErrRuntime{LineNo: stmt.LineNo, Err: err}
			return
		}
	}

	return
}

// LineNo returns the source line number of the instruction at the
// program counter, or 0 if it is not part of the loaded program.
func (emu *Emulator) LineNo() int {
	return emu.lineAt(emu.Cpu.PC)
}

// lineAt returns the source line number of the instruction at an address.
func (emu *Emulator) lineAt(pc uint16) int {
	if emu.Program == nil {
		return 0
	}

	offset := int(pc) - emu.Cpu.Base()
	dbg := emu.Program.Debug(offset)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}
