package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	MEMORY_LIMIT = 1024 // Number of words of memory.
)

var _cpu_defines = map[string]string{
	"MEMORY_LIMIT": fmt.Sprintf("%v", MEMORY_LIMIT),
	"OPCODE_MAX":   fmt.Sprintf("%v", OPCODE_MAX),
	"ADDRESS_MAX":  fmt.Sprintf("%v", ADDRESS_MAX),
}

// Accumulator holds a numeric value and its word view.
type Accumulator struct {
	Value int64
	Word  Word
}

// Registers is a snapshot of the register file.
type Registers struct {
	AC      int64  // Accumulator value.
	ACWord  Word   // Accumulator word view.
	MQ      int64  // Multiplier-quotient register.
	MAR     uint16 // Memory address register.
	MBR     Word   // Memory buffer register.
	PC      uint16 // Program counter.
	IR      Opcode // Instruction register.
	IBR     Half   // Instruction buffer register.
	IBRFull bool   // Set if IBR holds a pending half-instruction.
}

// Cpu is the simulation context for the accumulator machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory [MEMORY_LIMIT]Word // Main memory.

	AC      Accumulator // Accumulator.
	MQ      int64       // Multiplier-quotient register.
	MAR     uint16      // Memory address register.
	MBR     Word        // Memory buffer register.
	PC      uint16      // Program counter.
	IR      Opcode      // Instruction register.
	IBR     Half        // Instruction buffer register.
	IBRFull bool        // Set if IBR holds a pending half-instruction.

	Halted  bool // Set by HLT; stops Run.
	Ticks   int  // Fetch/execute cycles since reset.
	Fetches int  // Instruction words read from memory since reset.

	base uint16 // Program base (load) address.
}

// NewCpu creates a new CPU, with zeroed memory and registers.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current register state as a string.
func (cpu *Cpu) String() (text string) {
	regs := cpu.Registers()

	ibr := "-- ---"
	if regs.IBRFull {
		ibr = fmt.Sprintf("%02X %03X", uint8(regs.IBR.Op), regs.IBR.Addr)
	}

	text += fmt.Sprintf("% 4s: %d\n", "pc", regs.PC)
	text += fmt.Sprintf("% 4s: %d\n", "ac", regs.AC)
	text += fmt.Sprintf("% 4s: %d\n", "mq", regs.MQ)
	text += fmt.Sprintf("% 4s: %d\n", "mar", regs.MAR)
	text += fmt.Sprintf("% 4s: %02X %03X %02X %03X\n", "mbr",
		uint8(regs.MBR.Left.Op), regs.MBR.Left.Addr, uint8(regs.MBR.Right.Op), regs.MBR.Right.Addr)
	text += fmt.Sprintf("% 4s: %v\n", "ir", regs.IR)
	text += fmt.Sprintf("% 4s: %v\n", "ibr", ibr)

	return
}

// Base returns the program base address.
func (cpu *Cpu) Base() int {
	return int(cpu.base)
}

// SetBase sets the program base address.
// As a side effect, the program counter is reset to the new base address.
// An address beyond the memory limit is rejected with a logged warning,
// and no state is changed.
func (cpu *Cpu) SetBase(addr int) (err error) {
	if addr < 0 || addr >= MEMORY_LIMIT {
		log.Printf("cpu: base address %d exceeds memory limit %d", addr, MEMORY_LIMIT)
		err = ErrBaseAddress
		return
	}

	cpu.base = uint16(addr)
	cpu.PC = cpu.base

	return
}

// ResetRegisters clears the register file. Memory is untouched.
// The base address is kept, and the program counter is set to it;
// use SetBase to change it.
func (cpu *Cpu) ResetRegisters() {
	if cpu.Verbose {
		log.Printf("cpu: reset registers")
	}

	cpu.AC = Accumulator{}
	cpu.MQ = 0
	cpu.MAR = 0
	cpu.MBR = Word{}
	cpu.IR = 0
	cpu.IBR = Half{}
	cpu.IBRFull = false
	cpu.PC = cpu.base

	cpu.Halted = false
	cpu.Ticks = 0
	cpu.Fetches = 0
}

// Reset clears both memory and the register file.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	cpu.ResetRegisters()
}

// Registers returns a snapshot of the register file.
func (cpu *Cpu) Registers() Registers {
	return Registers{
		AC:      cpu.AC.Value,
		ACWord:  cpu.AC.Word,
		MQ:      cpu.MQ,
		MAR:     cpu.MAR,
		MBR:     cpu.MBR,
		PC:      cpu.PC,
		IR:      cpu.IR,
		IBR:     cpu.IBR,
		IBRFull: cpu.IBRFull,
	}
}

// Peek returns the word at a memory address.
func (cpu *Cpu) Peek(addr int) (word Word, err error) {
	if addr < 0 || addr >= MEMORY_LIMIT {
		err = ErrMemoryAccess(addr)
		return
	}

	word = cpu.Memory[addr]
	return
}

// Poke sets the word at a memory address.
func (cpu *Cpu) Poke(addr int, word Word) (err error) {
	if addr < 0 || addr >= MEMORY_LIMIT {
		err = ErrMemoryAccess(addr)
		return
	}

	cpu.Memory[addr] = word
	return
}

// MemoryRange returns the words from lower to higher, inclusive,
// as (address, word) pairs.
func (cpu *Cpu) MemoryRange(lower, higher int) (cells iter.Seq2[int, Word], err error) {
	if lower < 0 || lower > higher || higher >= MEMORY_LIMIT {
		err = errors.Join(ErrMemoryRange, fmt.Errorf("%d:%d", lower, higher))
		return
	}

	cells = func(yield func(addr int, word Word) bool) {
		for addr := lower; addr <= higher; addr++ {
			if !yield(addr, cpu.Memory[addr]) {
				return
			}
		}
	}

	return
}

// Load copies words into memory, starting at the base address.
func (cpu *Cpu) Load(words []Word) (err error) {
	end := int(cpu.base) + len(words)
	if end > MEMORY_LIMIT {
		err = ErrMemoryAccess(end - 1)
		return
	}

	copy(cpu.Memory[cpu.base:end], words)

	return
}

// LoadAndRun copies words into memory at the base address, and runs from
// the base address until the program counter reaches the memory limit or
// a HLT. Any pending half in the instruction buffer is discarded.
func (cpu *Cpu) LoadAndRun(words []Word) (err error) {
	err = cpu.Load(words)
	if err != nil {
		return
	}

	cpu.jump(cpu.base)

	return cpu.Run()
}

// Run repeats the fetch/execute cycle until the program counter
// reaches the memory limit, a HLT is executed, or a fault occurs.
func (cpu *Cpu) Run() (err error) {
	cpu.Halted = false

	for !cpu.Halted && int(cpu.PC) < MEMORY_LIMIT {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Step stores a single instruction word at the program counter,
// and executes exactly one fetch/execute cycle.
//
// While the instruction buffer holds the right half of the word at the
// program counter, Step returns ErrStepPending and changes nothing; Tick
// executes the buffered half, and ResetRegisters discards it.
func (cpu *Cpu) Step(word Word) (err error) {
	if cpu.IBRFull {
		err = ErrStepPending
		return
	}

	err = cpu.Poke(int(cpu.PC), word)
	if err != nil {
		err = &ErrFault{PC: cpu.PC, Op: cpu.IR, Addr: cpu.MAR, Err: err}
		return
	}

	cpu.Halted = false

	return cpu.Tick()
}

// Tick executes a single fetch/execute cycle.
func (cpu *Cpu) Tick() (err error) {
	pc := cpu.PC

	defer func() {
		if err != nil {
			err = &ErrFault{PC: pc, Op: cpu.IR, Addr: cpu.MAR, Err: err}
		}
	}()

	op, addr, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(op, addr)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Fetch resolves the next half-instruction to execute.
//
// A pending half in the instruction buffer is consumed without a memory read.
// Otherwise the word at the program counter is read; if only one half is
// populated it is taken, and if both are, the left half is taken and the
// right half is buffered for the next fetch.
func (cpu *Cpu) Fetch() (op Opcode, addr uint16, err error) {
	if cpu.IBRFull {
		cpu.IR = cpu.IBR.Op
		cpu.MAR = cpu.IBR.Addr
		cpu.IBR = Half{}
		cpu.IBRFull = false
		cpu.PC++
		op, addr = cpu.IR, cpu.MAR
		return
	}

	cpu.MAR = cpu.PC
	if int(cpu.MAR) >= MEMORY_LIMIT {
		err = ErrMemoryAccess(cpu.MAR)
		return
	}
	cpu.MBR = cpu.Memory[cpu.MAR]
	cpu.Fetches++

	left, right := cpu.MBR.Left, cpu.MBR.Right
	switch {
	case left.Empty():
		cpu.IR = right.Op
		cpu.MAR = right.Addr
		cpu.PC++
	case right.Empty():
		cpu.IR = left.Op
		cpu.MAR = left.Addr
		cpu.PC++
	default:
		cpu.IR = left.Op
		cpu.MAR = left.Addr
		cpu.IBR = right
		cpu.IBRFull = true
	}

	op, addr = cpu.IR, cpu.MAR
	return
}

// Execute executes a single decoded half-instruction.
func (cpu *Cpu) Execute(op Opcode, addr uint16) (err error) {
	if cpu.Verbose {
		log.Printf("%03d: %v %d", cpu.PC, op, addr)
	}

	action, ok := dispatch[op]
	if !ok {
		err = errors.Join(ErrOpcodeUnknown, fmt.Errorf("%v %d", op, addr))
		return
	}

	return action(cpu, addr)
}
