package cpu

import (
	"iter"
)

// Program is an assembled program: instruction words, loaded consecutively
// from the base address, and data cells set beforehand.
type Program struct {
	Statements []Statement
	Data       []Datum
}

type Debug struct {
	*Statement
	Offset int
}

// Debug returns the statement at an offset from the program start.
func (prog *Program) Debug(offset int) (dbg Debug) {
	if offset < 0 || offset >= len(prog.Statements) {
		return
	}

	dbg = Debug{
		Statement: &prog.Statements[offset],
		Offset:    offset,
	}

	return
}

// Words returns the instruction words of the program.
func (prog *Program) Words() (words []Word) {
	for _, word := range prog.Codes() {
		words = append(words, word)
	}

	return
}

// Codes iterates over the program offsets and their instruction words.
func (prog *Program) Codes() iter.Seq2[int, Word] {
	return func(yield func(offset int, word Word) bool) {
		for n, stmt := range prog.Statements {
			if !yield(n, stmt.Word) {
				return
			}
		}
	}
}
