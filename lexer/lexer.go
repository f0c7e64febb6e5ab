// Package lexer implements a lexical scanner for the SQLite/Firebird dialect.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ha1tch/litebird/token"
)

// Lexer represents a lexical scanner. A Lexer is not safe for concurrent
// use; create one per input.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
	prev         token.Type // last token other than a comment
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += size
	}
	l.column++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

// peekChar returns the next character without advancing the position.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token from the input. Comments are returned as
// COMMENT tokens; the parser skips them.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	start, line, column := l.position, l.line, l.column
	tok := l.scan()
	tok.Line = line
	tok.Column = column
	tok.Offset = start
	tok.Raw = l.input[start:l.position]
	if tok.Type != token.COMMENT {
		l.prev = tok.Type
	}
	return tok
}

func (l *Lexer) scan() token.Token {
	var tok token.Token

	if l.atEOF() {
		tok.Type = token.EOF
		return tok
	}

	switch l.ch {
	case '-':
		if l.peekChar() == '-' {
			tok.Type = token.COMMENT
			tok.Literal = l.readLineComment()
			return tok
		}
		tok = l.newToken(token.MINUS, "-")
	case '/':
		if l.peekChar() == '*' {
			tok.Type = token.COMMENT
			tok.Literal = l.readBlockComment()
			return tok
		}
		tok = l.newToken(token.SLASH, "/")
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.newToken(token.CONCAT, "||")
		} else {
			tok = l.newToken(token.PIPE, "|")
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(token.LTE, "<=")
		case '>':
			l.readChar()
			tok = l.newToken(token.NEQ, "<>")
		case '<':
			l.readChar()
			tok = l.newToken(token.LSHIFT, "<<")
		default:
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(token.GTE, ">=")
		case '>':
			l.readChar()
			tok = l.newToken(token.RSHIFT, ">>")
		default:
			tok = l.newToken(token.GT, ">")
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.DOUBLEEQ, "==")
		} else {
			tok = l.newToken(token.EQ, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.NEQ, "!=")
		} else {
			tok = l.newToken(token.UNEXPECTED_CHAR, "!")
		}
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '~':
		tok = l.newToken(token.TILDE, "~")
	case '%':
		tok = l.newToken(token.PERCENT, "%")
	case '&':
		tok = l.newToken(token.AMP, "&")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '.':
		if isDigit(l.peekChar()) {
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(token.DOT, ".")
	case ':':
		if isLetter(l.peekChar()) {
			return l.readBindParameter()
		}
		tok = l.newToken(token.COLON, ":")
	case '?':
		return l.readBindParameter()
	case '@', '$':
		if isLetter(l.peekChar()) || isDigit(l.peekChar()) {
			return l.readBindParameter()
		}
		tok = l.newToken(token.UNEXPECTED_CHAR, string(l.ch))
	case '\'':
		s, ok := l.readQuoted('\'', '\'')
		if !ok {
			return l.unexpected(s)
		}
		tok.Type = token.STRING
		tok.Literal = s
		return tok
	case '"':
		s, ok := l.readQuoted('"', '"')
		if !ok {
			return l.unexpected(s)
		}
		tok.Type = token.IDENT
		tok.Literal = s
		return tok
	case '`':
		s, ok := l.readQuoted('`', '`')
		if !ok {
			return l.unexpected(s)
		}
		tok.Type = token.IDENT
		tok.Literal = s
		return tok
	case '[':
		// Array bounds such as INTEGER[1:10] or CHAR(8)[-5:5] follow a type
		// keyword or its closing parenthesis. Anything else is a
		// bracket-quoted identifier, so [1st col] stays a name.
		if endsDatatype(l.prev) && l.boundsAhead() {
			tok = l.newToken(token.LBRACKET, "[")
			break
		}
		s, ok := l.readQuoted('[', ']')
		if !ok {
			return l.unexpected(s)
		}
		tok.Type = token.IDENT
		tok.Literal = s
		return tok
	case 'x', 'X':
		if l.peekChar() == '\'' {
			return l.readBlobLiteral()
		}
		return l.readWord()
	default:
		if isDigit(l.ch) {
			tok.Type = token.NUMBER
			if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
				tok.Literal = l.readHexLiteral()
			} else {
				tok.Literal = l.readNumber()
			}
			return tok
		}
		if isLetter(l.ch) {
			return l.readWord()
		}
		tok = l.newToken(token.UNEXPECTED_CHAR, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType token.Type, literal string) token.Token {
	return token.Token{
		Type:    tokenType,
		Literal: literal,
	}
}

// unexpected wraps an unterminated or malformed lexeme.
func (l *Lexer) unexpected(lexeme string) token.Token {
	return token.Token{Type: token.UNEXPECTED_CHAR, Literal: lexeme}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
		l.readChar()
	}
}

// boundsAhead reports whether the input after the current [ holds only
// array bounds up to the closing ].
func (l *Lexer) boundsAhead() bool {
	for i := l.readPosition; i < len(l.input); i++ {
		switch c := l.input[i]; {
		case c == ']':
			return true
		case isDigit(rune(c)), c == '-', c == ':', c == ',',
			c == ' ', c == '\t', c == '\n', c == '\r':
		default:
			return false
		}
	}
	return false
}

func (l *Lexer) readWord() token.Token {
	word := l.readIdentifier()
	return token.Token{Type: token.LookupIdent(word), Literal: word}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '$' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readQuoted reads a quoted lexeme whose closing delimiter is closeCh. A
// doubled closing delimiter stands for one literal delimiter, except for
// bracket quoting which has no escape. The second result is false when the
// input ends before the closing delimiter.
func (l *Lexer) readQuoted(openCh, closeCh rune) (string, bool) {
	start := l.position
	var result strings.Builder
	l.readChar() // consume opening delimiter

	for {
		if l.atEOF() {
			return l.input[start:], false
		}
		if l.ch == closeCh {
			if openCh == closeCh && l.peekChar() == closeCh {
				result.WriteRune(l.ch)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return result.String(), true
		}
		result.WriteRune(l.ch)
		l.readChar()
	}
}

func (l *Lexer) readBindParameter() token.Token {
	position := l.position
	sigil := l.ch
	l.readChar()
	if sigil == '?' {
		for isDigit(l.ch) {
			l.readChar()
		}
	} else {
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '$' {
			l.readChar()
		}
	}
	lit := l.input[position:l.position]
	return token.Token{Type: token.BIND, Literal: lit}
}

func (l *Lexer) readNumber() string {
	position := l.position

	for isDigit(l.ch) {
		l.readChar()
	}

	// Decimal part; a trailing dot with no digits is still part of the number.
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[position:l.position]
}

func (l *Lexer) readHexLiteral() string {
	position := l.position
	l.readChar() // consume 0
	l.readChar() // consume x
	for isHexDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readBlobLiteral() token.Token {
	start := l.position
	l.readChar() // consume X
	s, ok := l.readQuoted('\'', '\'')
	if !ok {
		return l.unexpected(l.input[start:])
	}
	if len(s)%2 != 0 || strings.IndexFunc(s, func(r rune) bool { return !isHexDigit(r) }) >= 0 {
		return l.unexpected(l.input[start:l.position])
	}
	return token.Token{Type: token.BLOB_LITERAL, Literal: s}
}

func (l *Lexer) readLineComment() string {
	position := l.position
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readBlockComment reads a /* ... */ comment. Block comments do not nest and
// an unterminated comment runs to the end of input.
func (l *Lexer) readBlockComment() string {
	position := l.position
	l.readChar() // consume /
	l.readChar() // consume *

	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}

	return l.input[position:l.position]
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch >= utf8.RuneSelf && !unicode.IsSpace(ch) && ch != utf8.RuneError
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// endsDatatype reports whether array bounds may follow a token of type t.
func endsDatatype(t token.Type) bool {
	switch t {
	case token.SMALLINT, token.INTEGER, token.INT, token.BIGINT,
		token.FLOAT, token.PRECISION,
		token.DATE, token.TIME, token.TIMESTAMP,
		token.DECIMAL, token.NUMERIC,
		token.CHAR, token.CHARACTER, token.VARCHAR, token.VARYING, token.NCHAR,
		token.BLOB, token.RPAREN:
		return true
	}
	return false
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Tokenize returns all tokens from the input as a slice, ending with EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	return tokens
}
