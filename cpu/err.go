package cpu

import (
	"errors"

	"github.com/ezrec/ias/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrDivideByZero  = errors.New(f("divide by zero"))
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))
	ErrBaseAddress   = errors.New(f("base address exceeds memory limit"))
	ErrMemoryRange   = errors.New(f("memory range invalid"))
	ErrStepPending   = errors.New(f("instruction buffer pending"))

	// Lexer errors
	ErrSourceEmpty = errors.New(f("source empty"))

	// Parser errors
	ErrOperand        = errors.New(f("operand invalid"))
	ErrOperandMissing = errors.New(f("operand missing"))
	ErrBitRange       = errors.New(f("bit range invalid"))
	ErrNumber         = errors.New(f("number invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrMacroDepth      = errors.New(f(".macro expansion too deep"))
)

// ErrWordField is returned when a word field exceeds its bit width.
type ErrWordField struct {
	Field string
	Value uint
}

func (err *ErrWordField) Error() string {
	return f("%v %d exceeds field width", err.Field, err.Value)
}

func (err *ErrWordField) Is(target error) (ok bool) {
	_, ok = target.(*ErrWordField)
	return
}

// ErrMemoryAccess is returned when an absent memory slot is accessed.
type ErrMemoryAccess int

func (err ErrMemoryAccess) Error() string {
	return f("memory access at %d outside 0..%d", int(err), MEMORY_LIMIT-1)
}

func (err ErrMemoryAccess) Is(target error) (ok bool) {
	_, ok = target.(ErrMemoryAccess)
	return
}

// ErrFault is a fatal machine error, raised while executing an instruction.
// The machine state is left as it was at the failing instruction.
type ErrFault struct {
	PC   uint16 // Program counter when the fault was raised.
	Op   Opcode // Instruction register.
	Addr uint16 // Memory address register.
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at pc %d (%v %d): %v", err.PC, err.Op, err.Addr, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// IsFault returns true if err is a fatal machine error, as opposed
// to a recoverable assembly error.
func IsFault(err error) bool {
	var fault *ErrFault
	return errors.As(err, &fault)
}

// ErrMnemonicUnknown is returned by the lexer for an unrecognized mnemonic.
type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("mnemonic '%v' unknown", string(err))
}

// ErrCharacter is returned by the lexer for an unexpected character.
type ErrCharacter rune

func (err ErrCharacter) Error() string {
	return f("character '%c' unexpected", rune(err))
}

// ErrSyntax is a recoverable assembly error at a source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseExpression is returned when a $(...) expression cannot be evaluated.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrMacro locates an error inside a macro expansion.
type ErrMacro struct {
	Macro string
	Line  int // Source line of the macro body.
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err)
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
