package cpu

// Opcode is a machine instruction code.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP               = Opcode(0)  // NOP
	OP_LOAD              = Opcode(1)  // LOAD M(X)
	OP_LOAD_NEG          = Opcode(2)  // LOAD -M(X)
	OP_LOAD_ABS          = Opcode(3)  // LOAD |M(X)|
	OP_LOAD_ABS_NEG      = Opcode(4)  // LOAD -|M(X)|
	OP_ADD               = Opcode(5)  // ADD M(X)
	OP_SUB               = Opcode(6)  // SUB M(X)
	OP_ADD_ABS           = Opcode(7)  // ADD |M(X)|
	OP_SUB_ABS           = Opcode(8)  // SUB |M(X)|
	OP_LOAD_TO_MQ        = Opcode(9)  // LOAD MQ,M(X)
	OP_LOAD_FROM_MQ      = Opcode(10) // LOAD MQ
	OP_MUL               = Opcode(11) // MUL M(X)
	OP_DIV               = Opcode(12) // DIV M(X)
	OP_JUMP_LEFT         = Opcode(13) // JUMP M(X,0:19)
	OP_JUMP_RIGHT        = Opcode(14) // JUMP M(X,20:39)
	OP_JUMP_COND_LEFT    = Opcode(15) // JUMP+ M(X,0:19)
	OP_JUMP_COND_RIGHT   = Opcode(16) // JUMP+ M(X,20:39)
	OP_LEFT_ADDR_MODIFY  = Opcode(18) // STOR M(X,8:19)
	OP_RIGHT_ADDR_MODIFY = Opcode(19) // STOR M(X,28:39)
	OP_LSH               = Opcode(20) // LSH
	OP_RSH               = Opcode(21) // RSH
	OP_STOR              = Opcode(33) // STOR M(X)
	OP_HLT               = Opcode(50) // HLT
)

// Instruction creates a word holding a single instruction in its right half.
// A word with an empty left half executes only its right half.
func Instruction(op Opcode, addr uint) (word Word, err error) {
	return NewWord(0, 0, uint(op), addr)
}

// Defined returns true if the opcode has an entry in the dispatch table.
func (op Opcode) Defined() bool {
	_, ok := dispatch[op]
	return ok
}
