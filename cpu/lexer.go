package cpu

import (
	"strings"
	"unicode"
)

// TokenKind is the lexical class of a token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_LOAD        = TokenKind(0)  // LOAD
	TOKEN_STOR        = TokenKind(1)  // STOR
	TOKEN_JUMP        = TokenKind(2)  // JUMP
	TOKEN_JUMP_COND   = TokenKind(3)  // JUMP+
	TOKEN_ADD         = TokenKind(4)  // ADD
	TOKEN_SUB         = TokenKind(5)  // SUB
	TOKEN_MUL         = TokenKind(6)  // MUL
	TOKEN_DIV         = TokenKind(7)  // DIV
	TOKEN_LSH         = TokenKind(8)  // LSH
	TOKEN_RSH         = TokenKind(9)  // RSH
	TOKEN_HLT         = TokenKind(10) // HLT
	TOKEN_STORI       = TokenKind(11) // STORI
	TOKEN_REGISTER_MQ = TokenKind(12) // MQ
	TOKEN_MEMORY      = TokenKind(13) // M
	TOKEN_HEX         = TokenKind(14) // hex
	TOKEN_DEC         = TokenKind(15) // dec
	TOKEN_LEFT_PAREN  = TokenKind(16) // (
	TOKEN_RIGHT_PAREN = TokenKind(17) // )
	TOKEN_NEG         = TokenKind(18) // -
	TOKEN_ABS         = TokenKind(19) // |
	TOKEN_COMMA       = TokenKind(20) // ,
	TOKEN_COLON       = TokenKind(21) // :
)

// Mnemonic returns true if the token kind starts an instruction.
func (kind TokenKind) Mnemonic() bool {
	return kind <= TOKEN_STORI
}

// Number returns true if the token kind is a numeric literal.
func (kind TokenKind) Number() bool {
	return kind == TOKEN_HEX || kind == TOKEN_DEC
}

// COMMENT starts a comment line.
const COMMENT = "//"

// mnemonicMap maps the leading word of a line to its token kind.
var mnemonicMap = map[string]TokenKind{
	"LOAD":  TOKEN_LOAD,
	"STOR":  TOKEN_STOR,
	"JUMP":  TOKEN_JUMP,
	"JUMP+": TOKEN_JUMP_COND,
	"ADD":   TOKEN_ADD,
	"SUB":   TOKEN_SUB,
	"MUL":   TOKEN_MUL,
	"DIV":   TOKEN_DIV,
	"LSH":   TOKEN_LSH,
	"RSH":   TOKEN_RSH,
	"HLT":   TOKEN_HLT,
	"STORI": TOKEN_STORI,
}

// symbolMap maps single character operands to their token kind.
var symbolMap = map[byte]TokenKind{
	'(': TOKEN_LEFT_PAREN,
	')': TOKEN_RIGHT_PAREN,
	'-': TOKEN_NEG,
	'|': TOKEN_ABS,
	',': TOKEN_COMMA,
	':': TOKEN_COLON,
}

// Token is a single lexeme of assembly source.
type Token struct {
	Lexeme string
	Line   int // Source line, starting at 1.
	Kind   TokenKind
}

// sourceLine is a non-empty, non-comment line of source.
type sourceLine struct {
	lineno int
	text   string
}

// Lexer converts assembly source text into tokens.
// A lexer may be re-pointed at a new source with SetSource, which discards
// all state from the previous scan.
type Lexer struct {
	source string
	lines  []sourceLine
	tokens []Token
}

// NewLexer creates a lexer for the source text.
func NewLexer(source string) (lx *Lexer) {
	lx = &Lexer{}
	lx.SetSource(source)
	return
}

// SetSource resets the lexer to scan a new source text.
func (lx *Lexer) SetSource(source string) {
	lx.source = source
	lx.tokens = nil
	lx.lines = lx.lines[:0]

	for n, text := range strings.Split(source, "\n") {
		text = strings.TrimSpace(text)
		if len(text) == 0 || strings.HasPrefix(text, COMMENT) {
			continue
		}
		lx.lines = append(lx.lines, sourceLine{lineno: n + 1, text: text})
	}
}

// Tokens returns the tokens from the last scan.
func (lx *Lexer) Tokens() []Token {
	return lx.tokens
}

// Scan tokenizes the whole source.
func (lx *Lexer) Scan() (tokens []Token, err error) {
	lx.tokens = nil

	if len(lx.lines) == 0 {
		err = ErrSourceEmpty
		return
	}

	for _, line := range lx.lines {
		err = lx.scanLine(line)
		if err != nil {
			err = &ErrSyntax{LineNo: line.lineno, Line: line.text, Err: err}
			lx.tokens = nil
			return
		}
	}

	tokens = lx.tokens
	return
}

// scanLine tokenizes a mnemonic and its operands.
func (lx *Lexer) scanLine(line sourceLine) (err error) {
	mnemonic, operands := line.text, ""
	if n := strings.IndexFunc(line.text, unicode.IsSpace); n >= 0 {
		mnemonic, operands = line.text[:n], line.text[n:]
	}

	kind, ok := mnemonicMap[mnemonic]
	if !ok {
		err = ErrMnemonicUnknown(mnemonic)
		return
	}
	lx.addToken(kind, mnemonic, line.lineno)

	// Whitespace between operands is not significant.
	operands = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, operands)

	for i := 0; i < len(operands); i++ {
		curr := operands[i]
		var next byte
		if i+1 < len(operands) {
			next = operands[i+1]
		}

		if kind, ok := symbolMap[curr]; ok {
			lx.addToken(kind, string(curr), line.lineno)
			continue
		}

		switch {
		case curr == 'M' && next == 'Q':
			lx.addToken(TOKEN_REGISTER_MQ, "MQ", line.lineno)
			i++
		case curr == 'M':
			lx.addToken(TOKEN_MEMORY, "M", line.lineno)
		case curr == '0' && (next == 'x' || next == 'X'):
			begin := i + 2
			end := begin
			for end < len(operands) && isHex(operands[end]) {
				end++
			}
			if end == begin {
				err = ErrCharacter(next)
				return
			}
			lx.addToken(TOKEN_HEX, operands[begin:end], line.lineno)
			i = end - 1
		case isDigit(curr):
			end := i
			for end < len(operands) && isDigit(operands[end]) {
				end++
			}
			lx.addToken(TOKEN_DEC, operands[i:end], line.lineno)
			i = end - 1
		default:
			err = ErrCharacter(rune(curr))
			return
		}
	}

	return
}

func (lx *Lexer) addToken(kind TokenKind, lexeme string, lineno int) {
	lx.tokens = append(lx.tokens, Token{Lexeme: lexeme, Line: lineno, Kind: kind})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
