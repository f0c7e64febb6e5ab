package parser

import (
	"fmt"

	"github.com/ha1tch/litebird/token"
)

// ParseError describes one syntax error. Rule names the grammar rule that
// failed, Expected what it was looking for, and Found the offending token.
type ParseError struct {
	Rule     string
	Expected string
	Found    token.Token
	Line     int
	Column   int
	Msg      string
	// Fatal is set for input the scanner could not tokenize at a statement
	// boundary. Parsing stops after a fatal error.
	Fatal bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Column, e.Msg)
}

// bailout is the panic value used to abandon the current statement after an
// error has been recorded. It never escapes the package.
type bailout struct{}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.STRING, token.BLOB_LITERAL, token.BIND:
		return fmt.Sprintf("%s %s", tok.Type, tok.Raw)
	case token.UNEXPECTED_CHAR:
		return fmt.Sprintf("unexpected input %q", tok.Literal)
	}
	return tok.Type.String()
}

// errorAt records a syntax error at tok without abandoning the statement.
func (p *Parser) errorAt(tok token.Token, expected string) *ParseError {
	rule := "sql_stmt"
	if n := len(p.rules); n > 0 {
		rule = p.rules[n-1]
	}
	err := &ParseError{
		Rule:     rule,
		Expected: expected,
		Found:    tok,
		Line:     tok.Line,
		Column:   tok.Column,
		Msg:      fmt.Sprintf("%s: expected %s, found %s", rule, expected, describe(tok)),
	}
	p.errors = append(p.errors, err)
	return err
}

// failAt records a syntax error at tok and abandons the statement.
func (p *Parser) failAt(tok token.Token, expected string) {
	p.errorAt(tok, expected)
	panic(bailout{})
}

// fail records a syntax error at the current token and abandons the
// statement.
func (p *Parser) fail(expected string) {
	p.failAt(p.curToken, expected)
}

// failf abandons the statement with a free-form message.
func (p *Parser) failf(tok token.Token, format string, args ...interface{}) {
	err := p.errorAt(tok, "")
	err.Msg = fmt.Sprintf("%s: %s", err.Rule, fmt.Sprintf(format, args...))
	panic(bailout{})
}
