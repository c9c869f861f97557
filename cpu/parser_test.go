package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseSource(t *testing.T, source string) (stmts []Statement, data []Datum, err error) {
	tokens, err := NewLexer(source).Scan()
	if err != nil {
		t.Fatalf("%v: %v", source, err)
	}

	p := &Parser{}
	return p.Parse(tokens)
}

func TestParser_Forms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		op     Opcode
		addr   uint16
	}){
		{"LOAD M(5)", OP_LOAD, 5},
		{"LOAD -M(5)", OP_LOAD_NEG, 5},
		{"LOAD |M(5)|", OP_LOAD_ABS, 5},
		{"LOAD -|M(5)|", OP_LOAD_ABS_NEG, 5},
		{"LOAD MQ", OP_LOAD_FROM_MQ, 0},
		{"LOAD MQ,M(0x20)", OP_LOAD_TO_MQ, 0x20},
		{"ADD M(6)", OP_ADD, 6},
		{"ADD |M(6)|", OP_ADD_ABS, 6},
		{"SUB M(7)", OP_SUB, 7},
		{"SUB |M(7)|", OP_SUB_ABS, 7},
		{"MUL M(8)", OP_MUL, 8},
		{"DIV M(9)", OP_DIV, 9},
		{"JUMP M(10,0:19)", OP_JUMP_LEFT, 10},
		{"JUMP M(10,20:39)", OP_JUMP_RIGHT, 10},
		{"JUMP+ M(11,0:19)", OP_JUMP_COND_LEFT, 11},
		{"JUMP+ M(11,20:39)", OP_JUMP_COND_RIGHT, 11},
		{"STOR M(12)", OP_STOR, 12},
		{"STOR M(12,8:19)", OP_LEFT_ADDR_MODIFY, 12},
		{"STOR M(12,28:39)", OP_RIGHT_ADDR_MODIFY, 12},
		{"LSH", OP_LSH, 0},
		{"RSH", OP_RSH, 0},
		{"HLT", OP_HLT, 0},
		{"STOR M(0xfff)", OP_STOR, ADDRESS_MAX},
	}

	for _, entry := range table {
		stmts, data, err := parseSource(t, entry.source)
		assert.NoError(err, entry.source)
		assert.Empty(data, entry.source)
		if !assert.Len(stmts, 1, entry.source) {
			continue
		}
		stmt := stmts[0]
		assert.Equal(1, stmt.LineNo, entry.source)
		assert.Equal(Word{Right: Half{Op: entry.op, Addr: entry.addr}}, stmt.Word, entry.source)
		assert.Equal(entry.op.String(), stmt.Word.Right.Op.String(), entry.source)
	}
}

func TestParser_Program(t *testing.T) {
	assert := assert.New(t)

	source := "LOAD M(5)\n// subtract\nSUB M(3)\nSTORI M(3), 94\n\nSTOR M(4)\nSTORI M(0x10), -0x10\nHLT"
	stmts, data, err := parseSource(t, source)
	assert.NoError(err)

	if assert.Len(stmts, 4) {
		assert.Equal([]int{1, 3, 6, 8}, []int{stmts[0].LineNo, stmts[1].LineNo, stmts[2].LineNo, stmts[3].LineNo})
		assert.Equal("LOAD M(5)", stmts[0].Text())
		assert.Equal("SUB M(3)", stmts[1].Text())
		assert.Equal("HLT", stmts[3].Text())
	}

	assert.Equal([]Datum{
		{LineNo: 4, Addr: 3, Word: WordOf(94)},
		{LineNo: 7, Addr: 16, Word: WordOf(-16)},
	}, data)
}

func TestParser_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		lineno int
		err    error
	}){
		{"LOAD", 1, ErrOperandMissing},
		{"ADD", 1, ErrOperandMissing},
		{"HLT M(1)", 1, ErrOperand},
		{"LOAD M(1", 1, ErrOperand},
		{"LOAD M(1)\nADD -M(2)", 2, ErrOperand},
		{"MUL MQ", 1, ErrOperand},
		{"JUMP M(1)", 1, ErrOperand},
		{"JUMP M(1,0:20)", 1, ErrBitRange},
		{"JUMP+ M(1,8:19)", 1, ErrBitRange},
		{"STOR M(1,0:19)", 1, ErrBitRange},
		{"STOR M(0x1000)", 1, &ErrWordField{}},
		{"STORI M(1)", 1, ErrOperand},
		{"STORI M(1024), 5", 1, ErrMemoryAccess(0)},
		{"STORI M(1), 0x10000000000", 1, ErrNumber},
		{"STORI M(1), -0x8000000001", 1, ErrNumber},
		{"LOAD M(99999999999999999999)", 1, ErrNumber},
	}

	for _, entry := range table {
		stmts, data, err := parseSource(t, entry.source)
		assert.ErrorIs(err, entry.err, entry.source)
		assert.Nil(stmts, entry.source)
		assert.Nil(data, entry.source)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.source) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.source)
		}
	}
}

func TestParser_DatumLimits(t *testing.T) {
	assert := assert.New(t)

	_, data, err := parseSource(t, "STORI M(1023), 0xffffffffff\nSTORI M(0), -0x8000000000")
	assert.NoError(err)
	if assert.Len(data, 2) {
		assert.Equal(int64(-1), data[0].Word.Value())
		assert.Equal(int64(-WORD_SIGN), data[1].Word.Value())
	}
}

func TestParser_Stateless(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}

	tokens, err := NewLexer("LOAD M(1)\nHLT").Scan()
	assert.NoError(err)
	stmts, _, err := p.Parse(tokens)
	assert.NoError(err)
	assert.Len(stmts, 2)

	tokens, err = NewLexer("ADD M(2)").Scan()
	assert.NoError(err)
	stmts, _, err = p.Parse(tokens)
	assert.NoError(err)
	assert.Len(stmts, 1)
	assert.Equal(OP_ADD, stmts[0].Word.Right.Op)
}
