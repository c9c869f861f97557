package cpu

const (
	MUL_HIGH_MASK  = 0xff_fff0_0000 // Product bits sent to the accumulator.
	MUL_LOW_MASK   = 0x00_000f_ffff // Product bits kept in MQ.
	MUL_HIGH_SHIFT = 20
)

// dispatch maps each defined opcode to its operation.
var dispatch = map[Opcode]func(cpu *Cpu, addr uint16) error{
	OP_NOP:               (*Cpu).nop,
	OP_LOAD:              (*Cpu).load,
	OP_LOAD_NEG:          (*Cpu).loadNeg,
	OP_LOAD_ABS:          (*Cpu).loadAbs,
	OP_LOAD_ABS_NEG:      (*Cpu).loadAbsNeg,
	OP_ADD:               (*Cpu).add,
	OP_SUB:               (*Cpu).sub,
	OP_ADD_ABS:           (*Cpu).addAbs,
	OP_SUB_ABS:           (*Cpu).subAbs,
	OP_LOAD_TO_MQ:        (*Cpu).loadToMQ,
	OP_LOAD_FROM_MQ:      (*Cpu).loadFromMQ,
	OP_MUL:               (*Cpu).mul,
	OP_DIV:               (*Cpu).div,
	OP_JUMP_LEFT:         (*Cpu).jumpLeft,
	OP_JUMP_RIGHT:        (*Cpu).jumpRight,
	OP_JUMP_COND_LEFT:    (*Cpu).jumpCondLeft,
	OP_JUMP_COND_RIGHT:   (*Cpu).jumpCondRight,
	OP_LEFT_ADDR_MODIFY:  (*Cpu).leftAddrModify,
	OP_RIGHT_ADDR_MODIFY: (*Cpu).rightAddrModify,
	OP_LSH:               (*Cpu).lsh,
	OP_RSH:               (*Cpu).rsh,
	OP_STOR:              (*Cpu).store,
	OP_HLT:               (*Cpu).halt,
}

// setAC sets the accumulator value, truncated to the word width,
// and re-derives its word view.
func (cpu *Cpu) setAC(value int64) {
	cpu.AC.Value = signExtend(uint64(value))
	cpu.AC.Word = WordOf(cpu.AC.Value)
}

// read loads M(addr) into the memory buffer register.
func (cpu *Cpu) read(addr int) (value int64, err error) {
	cpu.MBR, err = cpu.Peek(addr)
	if err != nil {
		return
	}

	value = cpu.MBR.Value()
	return
}

func abs(value int64) int64 {
	if value < 0 {
		return -value
	}
	return value
}

// jump sets the next instruction address, discarding any buffered half.
func (cpu *Cpu) jump(target uint16) {
	cpu.MAR = target
	cpu.PC = target
	cpu.IBR = Half{}
	cpu.IBRFull = false
}

func (cpu *Cpu) nop(addr uint16) (err error) {
	return
}

// LOAD M(X), offset forward from the base address.
func (cpu *Cpu) load(addr uint16) (err error) {
	value, err := cpu.read(int(cpu.base) + int(addr))
	if err != nil {
		return
	}
	cpu.setAC(value)
	return
}

// LOAD -M(X), offset backward from the base address.
func (cpu *Cpu) loadNeg(addr uint16) (err error) {
	value, err := cpu.read(int(cpu.base) - int(addr))
	if err != nil {
		return
	}
	cpu.setAC(value)
	return
}

// LOAD |M(X)|
func (cpu *Cpu) loadAbs(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.setAC(abs(value))
	return
}

// LOAD -|M(X)|, offset backward from the base address.
func (cpu *Cpu) loadAbsNeg(addr uint16) (err error) {
	value, err := cpu.read(int(cpu.base) - int(addr))
	if err != nil {
		return
	}
	cpu.setAC(-abs(value))
	return
}

// ADD M(X)
func (cpu *Cpu) add(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.setAC(cpu.AC.Value + value)
	return
}

// SUB M(X)
func (cpu *Cpu) sub(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.setAC(cpu.AC.Value - value)
	return
}

// ADD |M(X)|
func (cpu *Cpu) addAbs(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.setAC(cpu.AC.Value + abs(value))
	return
}

// SUB |M(X)|
func (cpu *Cpu) subAbs(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.setAC(cpu.AC.Value - abs(value))
	return
}

// LOAD MQ,M(X)
func (cpu *Cpu) loadToMQ(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.MQ = value
	return
}

// LOAD MQ
func (cpu *Cpu) loadFromMQ(addr uint16) (err error) {
	cpu.setAC(cpu.MQ)
	return
}

// MUL M(X): high 20 bits of the product to AC, low 20 bits to MQ.
func (cpu *Cpu) mul(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}

	// Unsigned wraparound keeps the low 64 bits of the signed product.
	product := uint64(cpu.MQ) * uint64(value)

	cpu.MQ = int64(product & MUL_LOW_MASK)
	cpu.setAC(int64((product & MUL_HIGH_MASK) >> MUL_HIGH_SHIFT))
	return
}

// DIV M(X): quotient to MQ, remainder to AC.
func (cpu *Cpu) div(addr uint16) (err error) {
	value, err := cpu.read(int(addr))
	if err != nil {
		return
	}

	if cpu.AC.Value == 0 || value == 0 {
		err = ErrDivideByZero
		return
	}

	cpu.MQ = cpu.AC.Value / value
	cpu.setAC(cpu.AC.Value % value)
	return
}

// JUMP M(X,0:19)
func (cpu *Cpu) jumpLeft(addr uint16) (err error) {
	_, err = cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.jump(cpu.MBR.Left.Addr)
	return
}

// JUMP M(X,20:39)
func (cpu *Cpu) jumpRight(addr uint16) (err error) {
	_, err = cpu.read(int(addr))
	if err != nil {
		return
	}
	cpu.jump(cpu.MBR.Right.Addr)
	return
}

// JUMP+ M(X,0:19)
func (cpu *Cpu) jumpCondLeft(addr uint16) (err error) {
	if cpu.AC.Value < 0 {
		return
	}
	return cpu.jumpLeft(addr)
}

// JUMP+ M(X,20:39)
func (cpu *Cpu) jumpCondRight(addr uint16) (err error) {
	if cpu.AC.Value < 0 {
		return
	}
	return cpu.jumpRight(addr)
}

// STOR M(X,8:19): left address of M(X) from the right address of AC.
func (cpu *Cpu) leftAddrModify(addr uint16) (err error) {
	if int(addr) >= MEMORY_LIMIT {
		err = ErrMemoryAccess(addr)
		return
	}
	cpu.MBR = cpu.AC.Word
	cpu.Memory[addr].Left.Addr = cpu.MBR.Right.Addr
	return
}

// STOR M(X,28:39): right address of M(X) from the right address of AC.
func (cpu *Cpu) rightAddrModify(addr uint16) (err error) {
	if int(addr) >= MEMORY_LIMIT {
		err = ErrMemoryAccess(addr)
		return
	}
	cpu.MBR = cpu.AC.Word
	cpu.Memory[addr].Right.Addr = cpu.MBR.Right.Addr
	return
}

// LSH
func (cpu *Cpu) lsh(addr uint16) (err error) {
	cpu.setAC(cpu.AC.Value << 1)
	return
}

// RSH
func (cpu *Cpu) rsh(addr uint16) (err error) {
	cpu.setAC(cpu.AC.Value >> 1)
	return
}

// STOR M(X)
func (cpu *Cpu) store(addr uint16) (err error) {
	cpu.MBR = cpu.AC.Word
	return cpu.Poke(int(addr), cpu.MBR)
}

// HLT
func (cpu *Cpu) halt(addr uint16) (err error) {
	cpu.Halted = true
	return
}
