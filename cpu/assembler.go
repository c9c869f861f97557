// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	MACRO_DEPTH_MAX = 16 // Maximum nesting of macro invocations.
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	Name   string   // Name of the macro.
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.

	reArgs *regexp.Regexp
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"MEMORY_LIMIT": fmt.Sprintf("%d", MEMORY_LIMIT),
	"OPCODE_MAX":   fmt.Sprintf("%d", OPCODE_MAX),
	"ADDRESS_MAX":  fmt.Sprintf("%d", ADDRESS_MAX),
}

// reParen matches $(expr), with at most one level of nested parentheses.
var reParen = regexp.MustCompile(`\$\((?:[^$()]|\([^$()]*\))*\)`)

// reLabel matches a leading `NAME:` label.
var reLabel = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):(?:\s+|$)`)

// reName matches a macro or argument name.
var reName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Assembler is a macro assembler, translating mnemonic source text into
// a Program.
//
// Before lexing, each line is preprocessed:
//   - `.macro NAME ARG...` up to `.endm` defines a macro. A line starting with
//     NAME is replaced by the macro body, with each ARG replaced by the
//     invocation's value, and `@` replaced by a prefix unique to the expansion.
//   - `LABEL:` at the start of a line defines LABEL as an equate holding the
//     address of the line's statement, Origin plus its statement offset.
//   - `.equ NAME VALUE` defines an equate, and is otherwise blank.
//   - `$(expr)` is evaluated as a Starlark expression, with the equates
//     as integer globals, and replaced by its decimal value.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Origin  int               // Address of the first statement.
	Equate  map[string]string // Map of equates.
	Macro   map[string]*Macro // Map of macros.

	predefine  map[string]string // Predefines
	expansions int               // Count of macro expansions.

	lexer  Lexer
	parser Parser
}

// asmLine is a line of source, after macro expansion.
type asmLine struct {
	lineno    int    // Source line, of the outermost macro invocation.
	text      string // Line text.
	macro     string // Macro expanded, if any.
	macroLine int    // Source line of the macro body.
}

// wrap locates an error at the line.
func (line *asmLine) wrap(err error) error {
	var syntax *ErrSyntax
	if errors.As(err, &syntax) {
		err = syntax.Err
	}

	if len(line.macro) != 0 {
		err = ErrMacro{Macro: line.macro, Line: line.macroLine, Err: err}
	}

	return &ErrSyntax{LineNo: line.lineno, Line: line.text, Err: err}
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine preprocesses a single line of source.
func (asm *Assembler) parseLine(line string, lineno int) (out string, err error) {
	if len(line) == 0 || strings.HasPrefix(line, COMMENT) {
		out = line
		return
	}

	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	words := strings.Fields(line)

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	// Do $() evaluations
	out = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})

	return
}

// splitLabels removes the leading labels from a line.
func splitLabels(text string) (labels []string, rest string) {
	rest = text
	for {
		match := reLabel.FindStringSubmatch(rest)
		if match == nil {
			return
		}
		labels = append(labels, match[1])
		rest = rest[len(match[0]):]
	}
}

// isStatement returns true if the line assembles to an instruction word.
func isStatement(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 || strings.HasPrefix(words[0], COMMENT) {
		return false
	}

	return words[0] != ".equ" && words[0] != "STORI"
}

// newMacro creates a macro from the words of its `.macro` line.
func (asm *Assembler) newMacro(words []string, lineno int) (macro *Macro, err error) {
	if len(words) == 0 || !reName.MatchString(words[0]) {
		err = ErrMacroSyntax
		return
	}

	name := words[0]
	if _, ok := mnemonicMap[name]; ok {
		err = ErrMacroSyntax
		return
	}
	if _, ok := asm.Macro[name]; ok {
		err = ErrMacroDuplicate
		return
	}

	args := words[1:]
	for n, arg := range args {
		if !reName.MatchString(arg) || arg == "M" || arg == "MQ" || slices.Contains(args[:n], arg) {
			err = ErrMacroSyntax
			return
		}
	}

	macro = &Macro{
		Name:   name,
		LineNo: lineno,
		Args:   args,
	}
	if len(args) > 0 {
		macro.reArgs = regexp.MustCompile(`\b(` + strings.Join(args, "|") + `)\b`)
	}

	asm.Macro[name] = macro
	return
}

// substitute replaces the macro arguments in a line of the macro body.
func (macro *Macro) substitute(line string, values []string) string {
	if macro.reArgs == nil {
		return line
	}

	return macro.reArgs.ReplaceAllStringFunc(line, func(arg string) string {
		return values[slices.Index(macro.Args, arg)]
	})
}

// expand appends a line to lines, replacing a macro invocation with its body.
func (asm *Assembler) expand(lines []asmLine, line asmLine, depth int) (out []asmLine, err error) {
	out = lines

	labels, rest := splitLabels(line.text)
	words := strings.Fields(rest)
	if len(words) == 0 {
		out = append(out, line)
		return
	}

	macro, ok := asm.Macro[words[0]]
	if !ok {
		out = append(out, line)
		return
	}

	if depth >= MACRO_DEPTH_MAX {
		err = line.wrap(ErrMacroDepth)
		return
	}

	values := words[1:]
	if len(values) != len(macro.Args) {
		err = line.wrap(ErrMacroSyntax)
		return
	}

	// Labels of the invocation mark the first line of the body.
	if len(labels) > 0 {
		label_line := line
		label_line.text = strings.Join(labels, ": ") + ":"
		out = append(out, label_line)
	}

	asm.expansions++
	prefix := fmt.Sprintf("%v_%v_", macro.Name, asm.expansions)

	for n, body := range macro.Lines {
		text := macro.substitute(body, values)
		text = strings.ReplaceAll(text, "@", prefix)
		inner := asmLine{
			lineno:    line.lineno,
			text:      text,
			macro:     macro.Name,
			macroLine: macro.LineNo + 1 + n,
		}
		out, err = asm.expand(out, inner, depth+1)
		if err != nil {
			return
		}
	}

	return
}

// defineLabels removes the labels from each line, and defines them as
// equates holding the address of their statement.
func (asm *Assembler) defineLabels(lines []asmLine) (err error) {
	offset := 0
	for n := range lines {
		line := &lines[n]

		labels, rest := splitLabels(line.text)
		for _, label := range labels {
			_, ok := asm.Equate[label]
			if ok {
				err = line.wrap(ErrLabelDuplicate)
				return
			}
			asm.Equate[label] = fmt.Sprintf("%d", asm.Origin+offset)
			if asm.Verbose {
				log.Printf("%v: %v = %v", line.lineno, label, asm.Origin+offset)
			}
		}
		line.text = rest

		if isStatement(rest) {
			offset++
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var lines []asmLine
	var lineno int
	var macro *Macro

	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.Macro = make(map[string]*Macro)
	asm.expansions = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := asmLine{lineno: lineno, text: strings.TrimSpace(text)}
		words := strings.Fields(line.text)

		switch {
		case len(words) > 0 && words[0] == ".macro":
			if macro != nil {
				err = line.wrap(ErrMacroNesting)
				return
			}
			macro, err = asm.newMacro(words[1:], lineno)
			if err != nil {
				err = line.wrap(err)
				return
			}
		case len(words) > 0 && words[0] == ".endm":
			if macro == nil {
				err = line.wrap(ErrMacroLonelyEndm)
				return
			}
			macro = nil
		case macro != nil:
			macro.Lines = append(macro.Lines, line.text)
		default:
			lines, err = asm.expand(lines, line, 0)
			if err != nil {
				return
			}
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = &ErrSyntax{LineNo: macro.LineNo, Line: ".macro " + macro.Name, Err: ErrMacroLonely}
		return
	}

	err = asm.defineLabels(lines)
	if err != nil {
		return
	}

	prog = &Program{}

	for _, line := range lines {
		var text string
		text, err = asm.parseLine(line.text, line.lineno)
		if err != nil {
			err = line.wrap(err)
			prog = nil
			return
		}

		asm.lexer.SetSource(text)
		_, err = asm.lexer.Scan()
		if errors.Is(err, ErrSourceEmpty) {
			err = nil
			continue
		}
		if err != nil {
			err = line.wrap(err)
			prog = nil
			return
		}

		tokens := asm.lexer.Tokens()
		for n := range tokens {
			tokens[n].Line = line.lineno
		}

		stmts, data, parse_err := asm.parser.Parse(tokens)
		if parse_err != nil {
			err = line.wrap(parse_err)
			prog = nil
			return
		}

		prog.Statements = append(prog.Statements, stmts...)
		prog.Data = append(prog.Data, data...)
	}

	if asm.Verbose {
		for _, stmt := range prog.Statements {
			log.Printf("%v: %v => %v", stmt.LineNo, stmt.Text(), stmt.Word)
		}
	}

	return
}

// Assemble parses source text into a Program.
func (asm *Assembler) Assemble(source string) (prog *Program, err error) {
	return asm.Parse(strings.NewReader(source))
}
