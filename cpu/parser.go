package cpu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Statement is a single assembled instruction.
type Statement struct {
	LineNo int     // Source line of the mnemonic.
	Tokens []Token // Mnemonic and operand tokens.
	Word   Word    // Assembled instruction word.
}

// Text returns the statement's tokens as assembly text.
func (stmt *Statement) Text() string {
	return tokenText(stmt.Tokens)
}

// Datum is a memory cell set before the program runs.
type Datum struct {
	LineNo int
	Addr   int
	Word   Word
}

// bitRange is the field selector of a jump or partial store.
type bitRange [2]uint64

var (
	BITS_LEFT_HALF  = &bitRange{0, 19}
	BITS_RIGHT_HALF = &bitRange{20, 39}
	BITS_LEFT_ADDR  = &bitRange{8, 19}
	BITS_RIGHT_ADDR = &bitRange{28, 39}
)

// form is an operand shape of a mnemonic. In a shape, 'M' is the
// memory token, 'Q' the MQ register, and 'n' a number.
type form struct {
	shape string
	op    Opcode
	bits  *bitRange // Required bit range selector, if any.
	datum bool      // Emits a memory cell instead of an instruction.
}

// formMap maps each mnemonic to its accepted operand forms.
var formMap = map[TokenKind][]form{
	TOKEN_LOAD: {
		{shape: "M(n)", op: OP_LOAD},
		{shape: "-M(n)", op: OP_LOAD_NEG},
		{shape: "|M(n)|", op: OP_LOAD_ABS},
		{shape: "-|M(n)|", op: OP_LOAD_ABS_NEG},
		{shape: "Q", op: OP_LOAD_FROM_MQ},
		{shape: "Q,M(n)", op: OP_LOAD_TO_MQ},
	},
	TOKEN_ADD: {
		{shape: "M(n)", op: OP_ADD},
		{shape: "|M(n)|", op: OP_ADD_ABS},
	},
	TOKEN_SUB: {
		{shape: "M(n)", op: OP_SUB},
		{shape: "|M(n)|", op: OP_SUB_ABS},
	},
	TOKEN_MUL: {
		{shape: "M(n)", op: OP_MUL},
	},
	TOKEN_DIV: {
		{shape: "M(n)", op: OP_DIV},
	},
	TOKEN_JUMP: {
		{shape: "M(n,n:n)", op: OP_JUMP_LEFT, bits: BITS_LEFT_HALF},
		{shape: "M(n,n:n)", op: OP_JUMP_RIGHT, bits: BITS_RIGHT_HALF},
	},
	TOKEN_JUMP_COND: {
		{shape: "M(n,n:n)", op: OP_JUMP_COND_LEFT, bits: BITS_LEFT_HALF},
		{shape: "M(n,n:n)", op: OP_JUMP_COND_RIGHT, bits: BITS_RIGHT_HALF},
	},
	TOKEN_STOR: {
		{shape: "M(n)", op: OP_STOR},
		{shape: "M(n,n:n)", op: OP_LEFT_ADDR_MODIFY, bits: BITS_LEFT_ADDR},
		{shape: "M(n,n:n)", op: OP_RIGHT_ADDR_MODIFY, bits: BITS_RIGHT_ADDR},
	},
	TOKEN_LSH: {
		{shape: "", op: OP_LSH},
	},
	TOKEN_RSH: {
		{shape: "", op: OP_RSH},
	},
	TOKEN_HLT: {
		{shape: "", op: OP_HLT},
	},
	TOKEN_STORI: {
		{shape: "M(n),n", datum: true},
		{shape: "M(n),-n", datum: true},
	},
}

// Parser converts a token stream into instruction words.
// No state is retained between calls to Parse.
type Parser struct{}

// Parse assembles tokens into statements and data cells.
// On error, nothing is returned but the error.
func (p *Parser) Parse(tokens []Token) (stmts []Statement, data []Datum, err error) {
	for len(tokens) > 0 {
		group := nextGroup(tokens)
		tokens = tokens[len(group):]

		var stmt Statement
		var datum Datum
		var is_datum bool
		stmt, datum, is_datum, err = p.parseGroup(group)
		if err != nil {
			err = &ErrSyntax{LineNo: group[0].Line, Line: tokenText(group), Err: err}
			stmts, data = nil, nil
			return
		}

		if is_datum {
			data = append(data, datum)
		} else {
			stmts = append(stmts, stmt)
		}
	}

	return
}

// nextGroup returns the leading token and all following operand tokens,
// up to the next mnemonic.
func nextGroup(tokens []Token) []Token {
	end := 1
	for end < len(tokens) && !tokens[end].Kind.Mnemonic() {
		end++
	}
	return tokens[:end]
}

// parseGroup assembles a single mnemonic and its operands.
func (p *Parser) parseGroup(group []Token) (stmt Statement, datum Datum, is_datum bool, err error) {
	mnemonic := group[0]
	if !mnemonic.Kind.Mnemonic() {
		err = errors.Join(ErrOperand, fmt.Errorf("'%v' without mnemonic", mnemonic.Lexeme))
		return
	}

	shape, nums, err := shapeOf(group[1:])
	if err != nil {
		return
	}

	forms := formMap[mnemonic.Kind]

	var matched *form
	var shaped bool
	for n := range forms {
		fm := &forms[n]
		if fm.shape != shape {
			continue
		}
		shaped = true
		if fm.bits != nil && (nums[1] != fm.bits[0] || nums[2] != fm.bits[1]) {
			continue
		}
		matched = fm
		break
	}

	switch {
	case matched != nil:
		// pass
	case shaped:
		err = errors.Join(ErrBitRange, fmt.Errorf("%d:%d", nums[1], nums[2]))
		return
	case len(shape) == 0:
		err = ErrOperandMissing
		return
	default:
		err = errors.Join(ErrOperand, fmt.Errorf("'%v'", tokenText(group[1:])))
		return
	}

	if matched.datum {
		is_datum = true
		datum, err = makeDatum(mnemonic.Line, shape, nums)
		return
	}

	var addr uint64
	if len(nums) > 0 {
		addr = nums[0]
	}
	if addr > ADDRESS_MAX {
		err = &ErrWordField{Field: "address", Value: uint(addr)}
		return
	}

	word, err := Instruction(matched.op, uint(addr))
	if err != nil {
		return
	}

	stmt = Statement{
		LineNo: mnemonic.Line,
		Tokens: group,
		Word:   word,
	}

	return
}

// makeDatum creates a memory cell from STORI operands.
func makeDatum(lineno int, shape string, nums []uint64) (datum Datum, err error) {
	addr, value := nums[0], nums[1]
	if addr >= MEMORY_LIMIT {
		err = ErrMemoryAccess(addr)
		return
	}

	negative := strings.HasSuffix(shape, "-n")
	switch {
	case negative && value > WORD_SIGN:
		err = errors.Join(ErrNumber, fmt.Errorf("-%d", value))
		return
	case !negative && value > WORD_MASK:
		err = errors.Join(ErrNumber, fmt.Errorf("%d", value))
		return
	}

	signed := int64(value)
	if negative {
		signed = -signed
	}

	datum = Datum{
		LineNo: lineno,
		Addr:   int(addr),
		Word:   WordOf(signed),
	}

	return
}

// shapeOf reduces operand tokens to a shape string and their numbers.
func shapeOf(operands []Token) (shape string, nums []uint64, err error) {
	var sb strings.Builder

	for _, token := range operands {
		switch token.Kind {
		case TOKEN_MEMORY:
			sb.WriteByte('M')
		case TOKEN_REGISTER_MQ:
			sb.WriteByte('Q')
		case TOKEN_DEC, TOKEN_HEX:
			var value uint64
			value, err = token.Value()
			if err != nil {
				return
			}
			nums = append(nums, value)
			sb.WriteByte('n')
		default:
			if token.Kind.Mnemonic() {
				err = ErrOperand
				return
			}
			sb.WriteString(token.Lexeme)
		}
	}

	shape = sb.String()
	return
}

// Value returns the value of a numeric token.
func (token Token) Value() (value uint64, err error) {
	base := 10
	if token.Kind == TOKEN_HEX {
		base = 16
	}

	value, err = strconv.ParseUint(token.Lexeme, base, 64)
	if err != nil {
		err = errors.Join(ErrNumber, err)
	}
	return
}

// tokenText reconstructs assembly text from tokens.
func tokenText(tokens []Token) string {
	var sb strings.Builder

	for n, token := range tokens {
		switch {
		case token.Kind.Mnemonic():
			if n > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(token.Lexeme)
			if n+1 < len(tokens) {
				sb.WriteByte(' ')
			}
		case token.Kind == TOKEN_HEX:
			sb.WriteString("0x" + token.Lexeme)
		default:
			sb.WriteString(token.Lexeme)
		}
	}

	return sb.String()
}
