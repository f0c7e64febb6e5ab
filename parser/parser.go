// Package parser implements a parser for SQL that mixes SQLite DDL and DML
// with Firebird procedural extensions.
//
// Expressions are parsed by precedence climbing. Statements are chosen by
// looking a few tokens ahead; the few rules that cannot be decided that way
// are tried speculatively and rolled back on failure. Procedure and EXECUTE
// BLOCK bodies are kept as opaque token spans balanced on BEGIN/END.
package parser

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"go.uber.org/multierr"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// DefaultMaxDepth bounds rule nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 512

// TokenSource supplies tokens to the parser. *lexer.Lexer implements it.
// COMMENT tokens are skipped; the source must eventually return EOF.
type TokenSource interface {
	NextToken() token.Token
}

// Options configures a Parser.
type Options struct {
	// MaxDepth limits the nesting of expressions, subqueries and blocks.
	MaxDepth int
	// StopOnError stops ParseProgram after the first statement that fails.
	StopOnError bool
	// Logger receives recovery and dispatch traces. Defaults to a null logger.
	Logger hclog.Logger
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser holds the state of one parse. It is not safe for concurrent use;
// independent parsers may run concurrently.
type Parser struct {
	src  TokenSource
	opts Options
	log  hclog.Logger

	toks  []token.Token // lookahead buffer, toks[pos] is curToken
	pos   int
	marks int

	curToken  token.Token
	peekToken token.Token

	errors []*ParseError
	rules  []string // active grammar rules, innermost last
	body   bodyState

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser with default options.
func New(src TokenSource) *Parser {
	return NewWithOptions(src, Options{})
}

// NewWithOptions creates a Parser reading from src.
func NewWithOptions(src TokenSource, opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	p := &Parser{
		src:    src,
		opts:   opts,
		log:    opts.Logger,
		errors: []*ParseError{},
	}
	p.registerExpressionFns()
	p.sync()
	return p
}

// Errors returns the parser errors as strings.
func (p *Parser) Errors() []string {
	out := make([]string, len(p.errors))
	for i, e := range p.errors {
		out[i] = e.Error()
	}
	return out
}

// ParseErrors returns the recorded syntax errors in source order.
func (p *Parser) ParseErrors() []*ParseError {
	return p.errors
}

// Err combines all recorded errors into one, or returns nil.
func (p *Parser) Err() error {
	var err error
	for _, e := range p.errors {
		err = multierr.Append(err, e)
	}
	return err
}

// -----------------------------------------------------------------------------
// Token buffer
// -----------------------------------------------------------------------------

// fill makes sure the buffer holds n tokens past the current one.
func (p *Parser) fill(n int) {
	for len(p.toks) <= p.pos+n {
		if k := len(p.toks); k > 0 && p.toks[k-1].Type == token.EOF {
			p.toks = append(p.toks, p.toks[k-1])
			continue
		}
		tok := p.src.NextToken()
		if tok.Type == token.COMMENT {
			continue
		}
		p.toks = append(p.toks, tok)
	}
}

// peekAt returns the token n positions after the current one.
func (p *Parser) peekAt(n int) token.Token {
	p.fill(n)
	return p.toks[p.pos+n]
}

func (p *Parser) sync() {
	p.curToken = p.peekAt(0)
	p.peekToken = p.peekAt(1)
}

func (p *Parser) nextToken() {
	if p.curToken.Type == token.EOF {
		return
	}
	p.pos++
	p.sync()
}

// mark remembers the current position for a later rewind or release.
func (p *Parser) mark() int {
	p.marks++
	return p.pos
}

func (p *Parser) rewind(m int) {
	p.marks--
	p.pos = m
	p.sync()
}

func (p *Parser) release() {
	p.marks--
}

// compact drops consumed tokens when no mark can refer to them.
func (p *Parser) compact() {
	if p.marks == 0 && p.pos > 0 {
		n := copy(p.toks, p.toks[p.pos:])
		p.toks = p.toks[:n]
		p.pos = 0
	}
}

// prevToken returns the token before the current one, if still buffered.
func (p *Parser) prevToken() (token.Token, bool) {
	if p.pos == 0 {
		return token.Token{}, false
	}
	return p.toks[p.pos-1], true
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) peekAtIs(n int, t token.Type) bool {
	return p.peekAt(n).Type == t
}

// expectPeek advances when the next token has type t and fails otherwise.
func (p *Parser) expectPeek(t token.Type) {
	if !p.peekTokenIs(t) {
		p.failAt(p.peekToken, t.String())
	}
	p.nextToken()
}

// acceptPeek advances and reports true when the next token has type t.
func (p *Parser) acceptPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// expectCur fails unless the current token has type t.
func (p *Parser) expectCur(t token.Type) {
	if !p.curTokenIs(t) {
		p.fail(t.String())
	}
}

// enter pushes a grammar rule and enforces the nesting limit. The returned
// function pops it.
func (p *Parser) enter(rule string) func() {
	if len(p.rules) >= p.opts.MaxDepth {
		p.failf(p.curToken, "nesting exceeds maximum depth of %d", p.opts.MaxDepth)
	}
	p.rules = append(p.rules, rule)
	n := len(p.rules)
	return func() { p.rules = p.rules[:n-1] }
}

// speculate runs fn and reports whether it parsed without error. On failure
// the token position and the error list are restored.
func (p *Parser) speculate(fn func()) (ok bool) {
	m := p.mark()
	nerrs, nrules := len(p.errors), len(p.rules)
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.errors = p.errors[:nerrs]
			p.rules = p.rules[:nrules]
			p.rewind(m)
			ok = false
			return
		}
		p.release()
	}()
	fn()
	return true
}

// -----------------------------------------------------------------------------
// Driver
// -----------------------------------------------------------------------------

// ParseProgram parses every statement in the input. Statements that fail
// to parse are reported through Errors and left out of the result; parsing
// resumes at the next statement.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for {
		for p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.curTokenIs(token.EOF) {
			break
		}
		p.compact()

		if p.curTokenIs(token.UNEXPECTED_CHAR) {
			program.Statements = append(program.Statements,
				&ast.ErrorStatement{Token: p.curToken, Lexeme: p.curToken.Literal})
			err := p.errorAt(p.curToken, "a statement")
			err.Fatal = true
			p.log.Debug("stopping at unscannable input", "line", p.curToken.Line, "column", p.curToken.Column)
			break
		}

		nerrs := len(p.errors)
		stmt, explain := p.parseStatementRecover()
		if stmt != nil {
			if explain != nil {
				explain.Index = len(program.Statements)
				program.Explains = append(program.Explains, explain)
			}
			program.Statements = append(program.Statements, stmt)
		}
		if p.opts.StopOnError && len(p.errors) > nerrs {
			break
		}
	}

	return program
}

// parseStatementRecover parses one statement and its terminator. A syntax
// error abandons the statement and resynchronises the token stream.
func (p *Parser) parseStatementRecover() (stmt ast.Statement, explain *ast.Explain) {
	start := p.curToken
	p.body = bodyNone
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			stmt, explain = nil, nil
			p.rules = p.rules[:0]
			last := p.errors[len(p.errors)-1]
			p.log.Debug("recovering from syntax error", "rule", last.Rule,
				"line", last.Line, "column", last.Column, "statement_line", start.Line)
			p.skipBody(start.Offset)
			p.synchronize(start.Offset)
		}
	}()

	explain = p.parseExplain()
	stmt = p.parseStatement()
	p.log.Trace("parsed statement", "type", fmt.Sprintf("%T", stmt), "line", start.Line)

	p.nextToken()
	p.expectStatementEnd()
	return stmt, explain
}

// expectStatementEnd checks what follows a statement. A missing semicolon
// before a statement keyword that starts a new line is reported but the
// statement is kept.
func (p *Parser) expectStatementEnd() {
	switch {
	case p.curTokenIs(token.SEMICOLON), p.curTokenIs(token.EOF):
		return
	case isStatementStart(p.curToken.Type):
		p.errorAt(p.curToken, "; between statements")
		return
	}
	p.fail("; or end of input")
}

// synchronize skips to the next ; or to a statement keyword that begins a
// line after the failed statement's first token.
func (p *Parser) synchronize(start int) {
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.SEMICOLON) {
		if p.curToken.Offset > start && isStatementStart(p.curToken.Type) && p.startsLine() {
			return
		}
		p.nextToken()
	}
}

// bodyState tracks the BEGIN ... END block of the statement being parsed,
// so that recovery does not resume inside it.
type bodyState int

const (
	bodyNone     bodyState = iota
	bodyExpected           // in the header of a statement that ends in a block
	bodyLocals             // past AS, among the DECLARE lines
	bodyOpen               // inside a trigger body of parsed statements
)

// skipBody moves past the block of a failed statement. In a header it
// looks for the block's BEGIN, crossing only the ; of DECLARE lines, and
// gives up at a ; or at a statement keyword that starts a later line. It then
// skips to the matching END, counting CASE ... END pairs.
func (p *Parser) skipBody(start int) {
	depth := 0
	switch p.body {
	case bodyNone:
		return
	case bodyOpen:
		depth = 1
	case bodyExpected, bodyLocals:
		locals := p.body == bodyLocals
		for !p.curTokenIs(token.BEGIN) {
			switch {
			case p.curTokenIs(token.EOF):
				return
			case p.curTokenIs(token.DECLARE):
				locals = true
			case p.curTokenIs(token.SEMICOLON):
				if !p.peekTokenIs(token.DECLARE) && !(locals && p.peekTokenIs(token.BEGIN)) {
					return
				}
			case p.curToken.Offset > start && isStatementStart(p.curToken.Type) && p.startsLine():
				return
			}
			p.nextToken()
		}
	}
	p.body = bodyNone

	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.BEGIN, token.CASE:
			depth++
		case token.END:
			depth--
		}
		p.nextToken()
		if depth == 0 {
			return
		}
	}
}

func (p *Parser) startsLine() bool {
	prev, ok := p.prevToken()
	return !ok || prev.Line < p.curToken.Line
}

var statementStarts = map[token.Type]bool{
	token.ALTER:     true,
	token.ANALYZE:   true,
	token.ATTACH:    true,
	token.BEGIN:     true,
	token.COMMIT:    true,
	token.CREATE:    true,
	token.DELETE:    true,
	token.DETACH:    true,
	token.DROP:      true,
	token.END:       true,
	token.EXECUTE:   true,
	token.EXPLAIN:   true,
	token.INSERT:    true,
	token.PRAGMA:    true,
	token.RECREATE:  true,
	token.REINDEX:   true,
	token.RELEASE:   true,
	token.REPLACE:   true,
	token.ROLLBACK:  true,
	token.SAVEPOINT: true,
	token.SELECT:    true,
	token.UPDATE:    true,
	token.VACUUM:    true,
	token.VALUES:    true,
	token.WITH:      true,
}

func isStatementStart(t token.Type) bool {
	return statementStarts[t]
}

// parseExplain consumes an EXPLAIN [QUERY PLAN] prefix.
func (p *Parser) parseExplain() *ast.Explain {
	if !p.curTokenIs(token.EXPLAIN) {
		return nil
	}
	e := &ast.Explain{Token: p.curToken}
	if p.peekTokenIs(token.QUERY) {
		p.nextToken()
		p.expectPeek(token.PLAN)
		e.QueryPlan = true
	}
	p.nextToken()
	return e
}

// -----------------------------------------------------------------------------
// Statement dispatch
// -----------------------------------------------------------------------------

// parseStatement selects a statement rule from the current token and up to
// three tokens of lookahead. It starts on the statement's first token and
// ends on its last.
func (p *Parser) parseStatement() ast.Statement {
	defer p.enter("sql_stmt")()

	switch p.curToken.Type {
	case token.SELECT, token.VALUES:
		return p.parseSelectStatement()
	case token.WITH:
		return p.parseWithStatement()
	case token.INSERT, token.REPLACE:
		return p.parseInsertStatement(nil)
	case token.UPDATE:
		return p.parseUpdateStatement(nil)
	case token.DELETE:
		return p.parseDeleteStatement(nil)
	case token.CREATE:
		return p.parseCreateStatement()
	case token.ALTER:
		switch p.peekToken.Type {
		case token.TABLE:
			return p.parseAlterTableStatement()
		case token.PROCEDURE:
			return p.parseProcedureStatement()
		}
		p.failAt(p.peekToken, "TABLE or PROCEDURE")
	case token.RECREATE:
		if !p.peekTokenIs(token.PROCEDURE) {
			p.failAt(p.peekToken, "PROCEDURE")
		}
		return p.parseProcedureStatement()
	case token.EXECUTE:
		return p.parseExecuteBlockStatement()
	case token.DROP:
		return p.parseDropStatement()
	case token.BEGIN:
		return p.parseBeginStatement()
	case token.COMMIT, token.END:
		return p.parseCommitStatement()
	case token.ROLLBACK:
		return p.parseRollbackStatement()
	case token.SAVEPOINT:
		return p.parseSavepointStatement()
	case token.RELEASE:
		return p.parseReleaseStatement()
	case token.PRAGMA:
		return p.parsePragmaStatement()
	case token.ANALYZE:
		return p.parseAnalyzeStatement()
	case token.ATTACH:
		return p.parseAttachStatement()
	case token.DETACH:
		return p.parseDetachStatement()
	case token.REINDEX:
		return p.parseReindexStatement()
	case token.VACUUM:
		return p.parseVacuumStatement()
	}
	p.fail("a statement")
	return nil
}

// parseCreateStatement dispatches the CREATE family. The object kind can sit
// up to three tokens after CREATE (CREATE OR ALTER PROCEDURE).
func (p *Parser) parseCreateStatement() ast.Statement {
	kind := p.peekAt(1)
	switch kind.Type {
	case token.TEMP, token.TEMPORARY:
		kind = p.peekAt(2)
	case token.UNIQUE:
		kind = p.peekAt(2)
		if kind.Type != token.INDEX {
			p.failAt(kind, "INDEX")
		}
	case token.VIRTUAL:
		kind = p.peekAt(2)
		if kind.Type != token.TABLE {
			p.failAt(kind, "TABLE")
		}
		return p.parseCreateVirtualTableStatement()
	case token.OR:
		if !p.peekAtIs(2, token.ALTER) {
			p.failAt(p.peekAt(2), "ALTER")
		}
		if !p.peekAtIs(3, token.PROCEDURE) {
			p.failAt(p.peekAt(3), "PROCEDURE")
		}
		return p.parseProcedureStatement()
	}

	switch kind.Type {
	case token.TABLE:
		return p.parseCreateTableStatement()
	case token.INDEX:
		return p.parseCreateIndexStatement()
	case token.VIEW:
		return p.parseCreateViewStatement()
	case token.TRIGGER:
		return p.parseCreateTriggerStatement()
	case token.PROCEDURE:
		if p.peekTokenIs(token.PROCEDURE) {
			return p.parseProcedureStatement()
		}
	}
	p.failAt(kind, "TABLE, INDEX, VIEW, TRIGGER, VIRTUAL TABLE or PROCEDURE")
	return nil
}

// parseWithStatement parses a WITH clause and the statement it prefixes.
func (p *Parser) parseWithStatement() ast.Statement {
	with := p.parseWithClause()
	p.nextToken()
	switch p.curToken.Type {
	case token.SELECT, token.VALUES:
		return p.parseSelectBody(with)
	case token.INSERT, token.REPLACE:
		return p.parseInsertStatement(with)
	case token.UPDATE:
		return p.parseUpdateStatement(with)
	case token.DELETE:
		return p.parseDeleteStatement(with)
	}
	p.fail("SELECT, INSERT, UPDATE or DELETE")
	return nil
}
