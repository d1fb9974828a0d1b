// Package parser turns squiggly filter expressions into filter node trees.
//
// Grammar:
//
//	filter     := node (',' node)*
//	node       := ['-'] name keyFns? valueFns? nested?
//	name       := IDENT | '*' | '**' range? | '$' IDENT | glob
//	range      := '[' INT? ':' INT? ']'     (max is exclusive)
//	nested     := '{' filter? '}'
//	keyFns     := ('@' call)+               (applied to the key)
//	valueFns   := ('|' call)+               (applied to the value)
//	call       := IDENT ['(' args? ')']
//	arg        := NUMBER | STRING | REGEX | '$' IDENT | call
//
// A glob is a name containing '*' or '?' (for example addr*), matched as a
// pattern. Function names are bound against a registry while parsing, so an
// unknown function fails the parse instead of surfacing mid-traversal.
package parser

import "unicode"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent  // may contain glob metacharacters
	TokenNumber
	TokenString
	TokenRegex
	TokenComma
	TokenDash
	TokenDollar
	TokenAt
	TokenPipe
	TokenColon
	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
)

// Token represents a lexical token with its source position.
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// Lexer tokenizes a filter expression.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Line: l.line, Column: l.col}
	}

	start := Token{Line: l.line, Column: l.col}
	ch := l.input[l.pos]

	switch ch {
	case ',':
		return l.single(start, TokenComma)
	case '-':
		return l.single(start, TokenDash)
	case '$':
		return l.single(start, TokenDollar)
	case '@':
		return l.single(start, TokenAt)
	case '|':
		return l.single(start, TokenPipe)
	case ':':
		return l.single(start, TokenColon)
	case '{':
		return l.single(start, TokenLBrace)
	case '}':
		return l.single(start, TokenRBrace)
	case '(':
		return l.single(start, TokenLParen)
	case ')':
		return l.single(start, TokenRParen)
	case '[':
		return l.single(start, TokenLBracket)
	case ']':
		return l.single(start, TokenRBracket)
	case '\'', '"':
		return l.readString(start, ch)
	case '/':
		return l.readRegex(start)
	}

	if isDigit(ch) {
		return l.readNumber(start)
	}
	if isNameStart(ch) {
		return l.readName(start)
	}

	// Unknown character, skip.
	l.advance()
	return l.NextToken()
}

func (l *Lexer) single(tok Token, t TokenType) Token {
	tok.Type = t
	tok.Value = string(l.input[l.pos])
	l.advance()
	return tok
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.advance()
	}
}

func (l *Lexer) readString(tok Token, quote byte) Token {
	l.advance() // skip opening quote
	var out []byte
	for l.pos < len(l.input) && l.input[l.pos] != quote {
		if l.input[l.pos] == '\\' && l.pos+1 < len(l.input) {
			l.advance()
			out = append(out, l.input[l.pos])
			l.advance()
			continue
		}
		out = append(out, l.input[l.pos])
		l.advance()
	}
	if l.pos < len(l.input) {
		l.advance() // skip closing quote
	}
	tok.Type = TokenString
	tok.Value = string(out)
	return tok
}

func (l *Lexer) readRegex(tok Token) Token {
	l.advance() // skip opening slash
	var out []byte
	for l.pos < len(l.input) && l.input[l.pos] != '/' {
		if l.input[l.pos] == '\\' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
			l.advance()
		}
		out = append(out, l.input[l.pos])
		l.advance()
	}
	if l.pos < len(l.input) {
		l.advance() // skip closing slash
	}
	tok.Type = TokenRegex
	tok.Value = string(out)
	return tok
}

func (l *Lexer) readNumber(tok Token) Token {
	start := l.pos
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
		l.advance()
	}
	tok.Type = TokenNumber
	tok.Value = l.input[start:l.pos]
	return tok
}

func (l *Lexer) readName(tok Token) Token {
	start := l.pos
	for l.pos < len(l.input) && isNameChar(l.input[l.pos]) {
		l.advance()
	}
	tok.Type = TokenIdent
	tok.Value = l.input[start:l.pos]
	return tok
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNameStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_' || ch == '*' || ch == '?'
}

func isNameChar(ch byte) bool {
	r := rune(ch)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || ch == '_' || ch == '*' || ch == '?'
}
