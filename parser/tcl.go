package parser

import (
	"strings"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// peekOptionalName reports whether the next token can be an optional
// trailing name. Statement keywords are left for the next statement.
func (p *Parser) peekOptionalName() bool {
	t := p.peekToken.Type
	switch {
	case t == token.IDENT, t == token.STRING:
		return true
	case t.IsKeyword():
		return !isStatementStart(t)
	}
	return false
}

// -----------------------------------------------------------------------------
// Transaction control
// -----------------------------------------------------------------------------

func (p *Parser) parseBeginStatement() *ast.BeginStatement {
	stmt := &ast.BeginStatement{Token: p.curToken}
	if p.acceptPeek(token.DEFERRED) || p.acceptPeek(token.IMMEDIATE) || p.acceptPeek(token.EXCLUSIVE) {
		stmt.Mode = strings.ToUpper(p.curToken.Literal)
	}
	if p.acceptPeek(token.TRANSACTION) {
		stmt.Transaction = true
		if p.peekOptionalName() {
			stmt.Name = p.expectPeekName()
		}
	}
	return stmt
}

// parseCommitStatement parses COMMIT or END [TRANSACTION [name]].
func (p *Parser) parseCommitStatement() *ast.CommitStatement {
	stmt := &ast.CommitStatement{Token: p.curToken}
	if p.acceptPeek(token.TRANSACTION) {
		stmt.Transaction = true
		if p.peekOptionalName() {
			stmt.Name = p.expectPeekName()
		}
	}
	return stmt
}

func (p *Parser) parseRollbackStatement() *ast.RollbackStatement {
	stmt := &ast.RollbackStatement{Token: p.curToken}
	if p.acceptPeek(token.TRANSACTION) {
		stmt.Transaction = true
		if !p.peekTokenIs(token.TO) && p.peekOptionalName() {
			stmt.Name = p.expectPeekName()
		}
	}
	if p.acceptPeek(token.TO) {
		stmt.SavepointKeyword = p.acceptPeek(token.SAVEPOINT)
		stmt.Savepoint = p.expectPeekName()
	}
	return stmt
}

func (p *Parser) parseSavepointStatement() *ast.SavepointStatement {
	return &ast.SavepointStatement{Token: p.curToken, Name: p.expectPeekName()}
}

func (p *Parser) parseReleaseStatement() *ast.ReleaseStatement {
	stmt := &ast.ReleaseStatement{Token: p.curToken}
	stmt.SavepointKeyword = p.acceptPeek(token.SAVEPOINT)
	stmt.Name = p.expectPeekName()
	return stmt
}

// -----------------------------------------------------------------------------
// Utility statements
// -----------------------------------------------------------------------------

// parsePragmaStatement parses PRAGMA name [= value | (value)].
func (p *Parser) parsePragmaStatement() *ast.PragmaStatement {
	stmt := &ast.PragmaStatement{Token: p.curToken}
	stmt.Name = p.expectPeekQualifiedName()
	switch {
	case p.acceptPeek(token.EQ):
		p.nextToken()
		stmt.Value = p.parsePragmaValue()
	case p.acceptPeek(token.LPAREN):
		stmt.Called = true
		p.nextToken()
		stmt.Value = p.parsePragmaValue()
		p.expectPeek(token.RPAREN)
	}
	return stmt
}

// parsePragmaValue parses a signed number, a name or a string.
func (p *Parser) parsePragmaValue() ast.Expression {
	switch t := p.curToken.Type; {
	case t == token.PLUS, t == token.MINUS, t == token.NUMBER:
		return p.parseSignedLiteral()
	case t == token.STRING:
		return p.parseLiteral()
	case t == token.IDENT, t.IsKeyword():
		return &ast.ColumnRef{Token: p.curToken, Column: p.parseName()}
	}
	p.fail("a pragma value")
	return nil
}

func (p *Parser) parseAnalyzeStatement() *ast.AnalyzeStatement {
	stmt := &ast.AnalyzeStatement{Token: p.curToken}
	if p.peekOptionalName() {
		stmt.Target = p.expectPeekQualifiedName()
	}
	return stmt
}

func (p *Parser) parseReindexStatement() *ast.ReindexStatement {
	stmt := &ast.ReindexStatement{Token: p.curToken}
	if p.peekOptionalName() {
		stmt.Target = p.expectPeekQualifiedName()
	}
	return stmt
}

func (p *Parser) parseAttachStatement() *ast.AttachStatement {
	stmt := &ast.AttachStatement{Token: p.curToken}
	stmt.Database = p.acceptPeek(token.DATABASE)
	stmt.Expr = p.expectPeekExpression()
	p.expectPeek(token.AS)
	stmt.Schema = p.expectPeekName()
	return stmt
}

func (p *Parser) parseDetachStatement() *ast.DetachStatement {
	stmt := &ast.DetachStatement{Token: p.curToken}
	stmt.Database = p.acceptPeek(token.DATABASE)
	stmt.Schema = p.expectPeekName()
	return stmt
}

// parseVacuumStatement parses VACUUM [schema] [INTO file].
func (p *Parser) parseVacuumStatement() *ast.VacuumStatement {
	stmt := &ast.VacuumStatement{Token: p.curToken}
	if !p.peekTokenIs(token.INTO) && p.peekOptionalName() {
		stmt.Schema = p.expectPeekName()
	}
	if p.acceptPeek(token.INTO) {
		stmt.Into = p.expectPeekExpression()
	}
	return stmt
}
