// Package cpu implements the processor and assembler for a single-accumulator
// stored-program machine.
//
// Memory holds 1024 words of 40 bits. Each word carries two 20-bit
// half-instructions, an 8-bit opcode and a 12-bit address, or is read as a
// signed two's complement number. The register file is the accumulator (AC),
// the multiplier-quotient register (MQ), the memory address and buffer
// registers (MAR, MBR), the program counter (PC), and the instruction and
// instruction buffer registers (IR, IBR).
//
// The assembler lexes and parses mnemonic source text into instruction
// words, supporting equates and compile-time expression evaluation.
package cpu
