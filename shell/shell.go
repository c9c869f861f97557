// Package shell implements the interactive command loop of the emulator.
//
// Lines are either shell commands (print, reset, set, help, exit) or a
// single line of assembly, which is executed at the program counter.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/ezrec/ias/cpu"
	"github.com/ezrec/ias/emulator"
	"github.com/ezrec/ias/translate"
)

const PROMPT = ">>> "

var helpText = []string{
	"print registers            show the register file",
	"print memory [lo:hi|hi]    show memory, default 0:15",
	"reset                      clear the registers, keeping the base address",
	"reset all                  clear memory and registers",
	"set mem ADDR VALUE         store VALUE at ADDR",
	"set base ADDR              set the base address and program counter",
	"step                       execute the next instruction in memory",
	"exit                       leave the shell",
	"<instruction>              execute one line of assembly",
}

// Shell is an interactive session on an emulator.
type Shell struct {
	Emulator *emulator.Emulator
	Prompt   string
}

// NewShell creates a shell for an emulator.
func NewShell(emu *emulator.Emulator) (sh *Shell) {
	sh = &Shell{
		Emulator: emu,
		Prompt:   PROMPT,
	}

	return
}

// Run reads lines from in until end of input or an exit command.
// Command errors are written to out, and do not stop the loop.
func (sh *Shell) Run(in io.Reader, out io.Writer) (err error) {
	scanner := bufio.NewScanner(in)

	io.WriteString(out, sh.Prompt)
	for scanner.Scan() {
		done, cmd_err := sh.Command(scanner.Text(), out)
		if cmd_err != nil {
			translate.Fprintf(out, "error: %v\n", cmd_err)
		}
		if done {
			return
		}
		io.WriteString(out, sh.Prompt)
	}

	return scanner.Err()
}

// Command executes a single line.
func (sh *Shell) Command(line string, out io.Writer) (done bool, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	emu := sh.Emulator

	switch {
	case words[0] == "exit" || words[0] == "quit":
		done = true
	case words[0] == "help":
		for _, text := range helpText {
			fmt.Fprintln(out, text)
		}
	case words[0] == "print":
		err = sh.print(words[1:], out)
	case words[0] == "reset" && len(words) == 1:
		emu.Cpu.ResetRegisters()
	case words[0] == "reset" && len(words) == 2 && words[1] == "all":
		emu.Cpu.Reset()
	case words[0] == "set":
		err = sh.set(words[1:])
	case words[0] == "step" && len(words) == 1:
		err = emu.Tick()
	default:
		err = emu.Exec(line)
	}

	return
}

// print handles `print registers` and `print memory`.
func (sh *Shell) print(words []string, out io.Writer) (err error) {
	if len(words) == 0 {
		err = ErrCommand("print")
		return
	}

	switch words[0] {
	case "registers":
		if len(words) != 1 {
			err = ErrCommand("print registers")
			return
		}
		io.WriteString(out, sh.Emulator.Cpu.String())
	case "memory":
		if len(words) > 2 {
			err = ErrCommand("print memory")
			return
		}
		lower, higher := emulator.DISPLAY_MEMORY_MIN, emulator.DISPLAY_MEMORY_MAX
		if len(words) == 2 {
			lower, higher, err = parseRange(words[1], lower, higher)
			if err != nil {
				return
			}
		}
		var cells iter.Seq2[int, cpu.Word]
		cells, err = sh.Emulator.Cpu.MemoryRange(lower, higher)
		if err != nil {
			return
		}
		for addr, word := range cells {
			fmt.Fprintf(out, "%4d: %02X %03X %02X %03X %14d\n", addr,
				uint8(word.Left.Op), word.Left.Addr,
				uint8(word.Right.Op), word.Right.Addr,
				word.Value())
		}
	default:
		err = ErrCommand("print " + words[0])
	}

	return
}

// set handles `set mem ADDR VALUE` and `set base ADDR`.
func (sh *Shell) set(words []string) (err error) {
	emu := sh.Emulator

	switch {
	case len(words) == 3 && words[0] == "mem":
		var addr, value int64
		addr, err = parseNumber(words[1])
		if err != nil {
			return
		}
		value, err = parseNumber(words[2])
		if err != nil {
			return
		}
		err = emu.Cpu.Poke(int(addr), cpu.WordOf(value))
	case len(words) == 2 && words[0] == "base":
		var addr int64
		addr, err = parseNumber(words[1])
		if err != nil {
			return
		}
		err = emu.Cpu.SetBase(int(addr))
	default:
		err = ErrCommand(strings.Join(append([]string{"set"}, words...), " "))
	}

	return
}

// parseRange parses `lo:hi` or `hi`.
func parseRange(text string, lower, higher int) (lo, hi int, err error) {
	lo, hi = lower, higher

	lo_text, hi_text, has_lo := strings.Cut(text, ":")
	if !has_lo {
		hi_text = text
		lo_text = ""
	}

	if len(lo_text) > 0 {
		var value int64
		value, err = parseNumber(lo_text)
		if err != nil {
			return
		}
		lo = int(value)
	}

	if len(hi_text) > 0 {
		var value int64
		value, err = parseNumber(hi_text)
		if err != nil {
			return
		}
		hi = int(value)
	}

	return
}

// parseNumber parses a decimal or 0x-prefixed hexadecimal number.
func parseNumber(text string) (value int64, err error) {
	value, err = strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrNumber(text)
	}
	return
}
