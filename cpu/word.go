// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
)

const (
	OPCODE_MAX  = 0xff  // Largest opcode field value (8 bits).
	ADDRESS_MAX = 0xfff // Largest address field value (12 bits).

	WORD_BITS = 40                   // Bits in a packed word.
	WORD_MASK = (1 << WORD_BITS) - 1 // Mask of a packed word.
	WORD_SIGN = 1 << (WORD_BITS - 1) // Sign bit of a packed word.

	LEFT_OP_SHIFT    = 32
	LEFT_ADDR_SHIFT  = 20
	RIGHT_OP_SHIFT   = 12
	RIGHT_ADDR_SHIFT = 0
)

// Half is a single 20-bit half-instruction.
type Half struct {
	Op   Opcode
	Addr uint16
}

// Empty returns true if both the opcode and address are zero.
func (h Half) Empty() bool {
	return h.Op == 0 && h.Addr == 0
}

func (h Half) String() string {
	return fmt.Sprintf("%02x:%03x", uint8(h.Op), h.Addr)
}

// Word is one memory cell, holding a left and a right half-instruction.
type Word struct {
	Left  Half
	Right Half
}

// NewWord creates a word, checking that every field fits its bit width.
func NewWord(lop, laddr, rop, raddr uint) (word Word, err error) {
	switch {
	case lop > OPCODE_MAX:
		err = &ErrWordField{Field: "left opcode", Value: lop}
	case laddr > ADDRESS_MAX:
		err = &ErrWordField{Field: "left address", Value: laddr}
	case rop > OPCODE_MAX:
		err = &ErrWordField{Field: "right opcode", Value: rop}
	case raddr > ADDRESS_MAX:
		err = &ErrWordField{Field: "right address", Value: raddr}
	}
	if err != nil {
		return
	}

	word = Word{
		Left:  Half{Op: Opcode(lop), Addr: uint16(laddr)},
		Right: Half{Op: Opcode(rop), Addr: uint16(raddr)},
	}
	return
}

// Pack combines the four fields into a single 40-bit quantity.
func (w Word) Pack() uint64 {
	return (uint64(w.Left.Op) << LEFT_OP_SHIFT) |
		(uint64(w.Left.Addr&ADDRESS_MAX) << LEFT_ADDR_SHIFT) |
		(uint64(w.Right.Op) << RIGHT_OP_SHIFT) |
		(uint64(w.Right.Addr&ADDRESS_MAX) << RIGHT_ADDR_SHIFT)
}

// Unpack splits a 40-bit quantity into its four fields.
// Bits above the word width are ignored.
func Unpack(bits uint64) Word {
	return Word{
		Left: Half{
			Op:   Opcode((bits >> LEFT_OP_SHIFT) & OPCODE_MAX),
			Addr: uint16((bits >> LEFT_ADDR_SHIFT) & ADDRESS_MAX),
		},
		Right: Half{
			Op:   Opcode((bits >> RIGHT_OP_SHIFT) & OPCODE_MAX),
			Addr: uint16((bits >> RIGHT_ADDR_SHIFT) & ADDRESS_MAX),
		},
	}
}

// Value returns the word as a signed (two's complement) 40-bit number.
func (w Word) Value() int64 {
	return signExtend(w.Pack())
}

// WordOf returns the word view of the low 40 bits of value.
func WordOf(value int64) Word {
	return Unpack(uint64(value) & WORD_MASK)
}

// signExtend interprets the low 40 bits as a signed number.
func signExtend(bits uint64) int64 {
	bits &= WORD_MASK
	if bits&WORD_SIGN != 0 {
		return int64(bits) - (1 << WORD_BITS)
	}
	return int64(bits)
}

func (w Word) String() string {
	return fmt.Sprintf("%v %v", w.Left, w.Right)
}
