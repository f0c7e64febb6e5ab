package parser

import (
	"strings"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// parseOrAction parses the action after INSERT OR / UPDATE OR.
func (p *Parser) parseOrAction() string {
	p.nextToken()
	switch p.curToken.Type {
	case token.REPLACE, token.ROLLBACK, token.ABORT, token.FAIL, token.IGNORE:
		return strings.ToUpper(p.curToken.Literal)
	}
	p.fail("REPLACE, ROLLBACK, ABORT, FAIL or IGNORE")
	return ""
}

// -----------------------------------------------------------------------------
// INSERT
// -----------------------------------------------------------------------------

func (p *Parser) parseInsertStatement(with *ast.WithClause) *ast.InsertStatement {
	defer p.enter("insert_stmt")()

	stmt := &ast.InsertStatement{Token: p.curToken, With: with}
	if p.curTokenIs(token.REPLACE) {
		stmt.Replace = true
	} else if p.acceptPeek(token.OR) {
		stmt.OrAction = p.parseOrAction()
	}
	p.expectPeek(token.INTO)
	stmt.Table = p.expectPeekQualifiedName()
	if p.acceptPeek(token.AS) {
		stmt.Alias = p.expectPeekName()
	}
	if p.acceptPeek(token.LPAREN) {
		stmt.Columns = p.parseNameList()
	}

	switch {
	case p.acceptPeek(token.DEFAULT):
		p.expectPeek(token.VALUES)
		stmt.DefaultValues = true
	case p.peekTokenIs(token.VALUES):
		p.nextToken()
		stmt.Values = p.parseValuesTuples()
	case isSelectStart(p.peekToken.Type):
		p.nextToken()
		stmt.Select = p.parseSelectStatement()
	default:
		p.failAt(p.peekToken, "VALUES, SELECT or DEFAULT VALUES")
	}
	return stmt
}

// -----------------------------------------------------------------------------
// UPDATE
// -----------------------------------------------------------------------------

func (p *Parser) parseUpdateStatement(with *ast.WithClause) *ast.UpdateStatement {
	defer p.enter("update_stmt")()

	stmt := &ast.UpdateStatement{Token: p.curToken, With: with}
	if p.acceptPeek(token.OR) {
		stmt.OrAction = p.parseOrAction()
	}
	p.nextToken()
	stmt.Table = p.parseTableName(false)
	p.expectPeek(token.SET)

	for {
		sc := &ast.SetClause{Column: p.expectPeekName()}
		p.expectPeek(token.EQ)
		sc.Value = p.expectPeekExpression()
		stmt.Set = append(stmt.Set, sc)
		if !p.acceptPeek(token.COMMA) {
			break
		}
	}

	if p.acceptPeek(token.WHERE) {
		stmt.Where = p.expectPeekExpression()
	}
	stmt.OrderBy = p.parseOrderBy()
	stmt.Limit = p.parseLimit()
	stmt.Limited = stmt.OrderBy != nil || stmt.Limit != nil
	return stmt
}

// -----------------------------------------------------------------------------
// DELETE
// -----------------------------------------------------------------------------

func (p *Parser) parseDeleteStatement(with *ast.WithClause) *ast.DeleteStatement {
	defer p.enter("delete_stmt")()

	stmt := &ast.DeleteStatement{Token: p.curToken, With: with}
	p.expectPeek(token.FROM)
	p.nextToken()
	stmt.Table = p.parseTableName(false)
	if p.acceptPeek(token.WHERE) {
		stmt.Where = p.expectPeekExpression()
	}
	stmt.OrderBy = p.parseOrderBy()
	stmt.Limit = p.parseLimit()
	stmt.Limited = stmt.OrderBy != nil || stmt.Limit != nil
	return stmt
}
