package shell

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/ias/cpu"
	"github.com/ezrec/ias/emulator"
)

var _ = Describe("Shell", func() {
	var (
		emu *emulator.Emulator
		sh  *Shell
		out *bytes.Buffer
	)

	BeforeEach(func() {
		emu = emulator.NewEmulator()
		sh = NewShell(emu)
		out = &bytes.Buffer{}
	})

	// Helper to feed lines to the shell and return its output
	run := func(lines ...string) string {
		err := sh.Run(strings.NewReader(strings.Join(lines, "\n")), out)
		Expect(err).NotTo(HaveOccurred())
		return out.String()
	}

	Describe("Run", func() {
		It("should prompt for every line", func() {
			text := run("help", "help")
			Expect(strings.Count(text, PROMPT)).To(Equal(3))
		})

		It("should stop at exit", func() {
			run("exit", "set mem 1 1")
			Expect(emu.Cpu.Memory[1]).To(Equal(cpu.Word{}))
		})

		It("should stop at quit", func() {
			done, err := sh.Command("quit", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
		})

		It("should continue after an error", func() {
			text := run("frobnicate", "set mem 1 1")
			Expect(text).To(ContainSubstring("error: "))
			Expect(text).To(ContainSubstring("frobnicate"))
			Expect(emu.Cpu.Memory[1].Value()).To(Equal(int64(1)))
		})

		It("should ignore blank lines", func() {
			done, err := sh.Command("   ", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeFalse())
			Expect(out.Len()).To(Equal(0))
		})
	})

	Describe("help", func() {
		It("should list the commands", func() {
			text := run("help")
			Expect(text).To(ContainSubstring("print registers"))
			Expect(text).To(ContainSubstring("set base ADDR"))
			Expect(text).To(ContainSubstring("keeping the base address"))
			Expect(text).To(ContainSubstring("step"))
		})
	})

	Describe("assembly", func() {
		It("should execute instructions at the program counter", func() {
			run("STORI M(10), 5", "LOAD M(10)", "ADD M(10)")
			Expect(emu.Cpu.AC.Value).To(Equal(int64(10)))
			Expect(emu.Cpu.PC).To(Equal(uint16(2)))
		})

		It("should report runtime errors", func() {
			_, err := sh.Command("DIV M(11)", out)
			Expect(err).To(MatchError(cpu.ErrDivideByZero))
		})

		It("should report syntax errors", func() {
			_, err := sh.Command("LOAD M(", out)
			Expect(err).To(MatchError(cpu.ErrOperand))
		})
	})

	Describe("print", func() {
		It("should show the registers", func() {
			run("STORI M(10), 5", "LOAD M(10)", "print registers")
			Expect(out.String()).To(ContainSubstring("ac: 5\n"))
			Expect(out.String()).To(ContainSubstring("pc: 1\n"))
		})

		It("should show the default memory range", func() {
			_, err := sh.Command("print memory", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(out.String(), "\n")).To(Equal(16))
			Expect(out.String()).To(HavePrefix("   0: 00 000 00 000"))
		})

		It("should show a memory range", func() {
			Expect(emu.Cpu.Poke(10, cpu.WordOf(5))).To(Succeed())
			Expect(emu.Cpu.Poke(11, cpu.WordOf(-1))).To(Succeed())

			_, err := sh.Command("print memory 10:11", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal(
				"  10: 00 000 00 005              5\n" +
					"  11: FF FFF FF FFF             -1\n"))
		})

		It("should show memory up to an address", func() {
			_, err := sh.Command("print memory 3", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(out.String(), "\n")).To(Equal(4))
		})

		It("should reject an invalid range", func() {
			_, err := sh.Command("print memory 5:2", out)
			Expect(err).To(MatchError(cpu.ErrMemoryRange))

			_, err = sh.Command("print memory 0:1024", out)
			Expect(err).To(MatchError(cpu.ErrMemoryRange))

			_, err = sh.Command("print memory x", out)
			Expect(err).To(MatchError(ErrNumber("x")))
		})

		It("should reject unknown targets", func() {
			_, err := sh.Command("print flags", out)
			Expect(err).To(MatchError(ErrCommand("print flags")))

			_, err = sh.Command("print", out)
			Expect(err).To(MatchError(ErrCommand("print")))
		})
	})

	Describe("set", func() {
		It("should store a value in memory", func() {
			_, err := sh.Command("set mem 0x14 -94", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Cpu.Memory[20].Value()).To(Equal(int64(-94)))
		})

		It("should reject an address outside memory", func() {
			_, err := sh.Command("set mem 1024 1", out)
			Expect(err).To(MatchError(cpu.ErrMemoryAccess(1024)))
		})

		It("should set the base address", func() {
			_, err := sh.Command("set base 100", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Cpu.Base()).To(Equal(100))
			Expect(emu.Cpu.PC).To(Equal(uint16(100)))

			_, err = sh.Command("set base 1024", out)
			Expect(err).To(MatchError(cpu.ErrBaseAddress))
			Expect(emu.Cpu.Base()).To(Equal(100))
		})

		It("should reject malformed commands", func() {
			_, err := sh.Command("set mem 1", out)
			Expect(err).To(MatchError(ErrCommand("set mem 1")))

			_, err = sh.Command("set mem one 1", out)
			Expect(err).To(MatchError(ErrNumber("one")))
		})
	})

	Describe("step", func() {
		BeforeEach(func() {
			word, err := cpu.NewWord(uint(cpu.OP_LSH), 0, uint(cpu.OP_HLT), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Cpu.Poke(0, word)).To(Succeed())
			run("step")
		})

		It("should buffer the right half of a word", func() {
			Expect(emu.Cpu.IBRFull).To(BeTrue())
			Expect(emu.Cpu.IR).To(Equal(cpu.OP_LSH))
		})

		It("should refuse to execute over a buffered half", func() {
			_, err := sh.Command("LOAD MQ", out)
			Expect(err).To(MatchError(cpu.ErrStepPending))
			Expect(emu.Cpu.IBRFull).To(BeTrue())
		})

		It("should execute the buffered half", func() {
			_, err := sh.Command("step", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Cpu.Halted).To(BeTrue())
			Expect(emu.Cpu.PC).To(Equal(uint16(1)))
		})

		It("should report a fault", func() {
			emu.Cpu.ResetRegisters()
			emu.Cpu.PC = cpu.MEMORY_LIMIT
			_, err := sh.Command("step", out)
			Expect(err).To(MatchError(cpu.ErrMemoryAccess(0)))
		})
	})

	Describe("reset", func() {
		BeforeEach(func() {
			Expect(emu.Cpu.SetBase(4)).To(Succeed())
			run("STORI M(20), 5", "LOAD M(16)")
			Expect(emu.Cpu.AC.Value).To(Equal(int64(5)))
		})

		It("should clear the registers", func() {
			_, err := sh.Command("reset", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Cpu.Registers()).To(Equal(cpu.Registers{PC: 4}))
			Expect(emu.Cpu.Memory[20].Value()).To(Equal(int64(5)))
		})

		It("should clear memory and registers", func() {
			_, err := sh.Command("reset all", out)
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Cpu.Registers()).To(Equal(cpu.Registers{PC: 4}))
			Expect(emu.Cpu.Memory[20]).To(Equal(cpu.Word{}))
		})
	})
})

var _ = Describe("parseRange", func() {
	It("should parse both bounds", func() {
		lo, hi, err := parseRange("2:0x10", 0, 15)
		Expect(err).NotTo(HaveOccurred())
		Expect(lo).To(Equal(2))
		Expect(hi).To(Equal(16))
	})

	It("should default missing bounds", func() {
		lo, hi, err := parseRange(":7", 3, 15)
		Expect(err).NotTo(HaveOccurred())
		Expect(lo).To(Equal(3))
		Expect(hi).To(Equal(7))

		lo, hi, err = parseRange("9", 0, 15)
		Expect(err).NotTo(HaveOccurred())
		Expect(lo).To(Equal(0))
		Expect(hi).To(Equal(9))
	})
})
