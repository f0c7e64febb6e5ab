package parser

import (
	"strings"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// -----------------------------------------------------------------------------
// Column definitions
// -----------------------------------------------------------------------------

func isColumnConstraintStart(t token.Type) bool {
	switch t {
	case token.CONSTRAINT, token.PRIMARY, token.NOT, token.NULL, token.UNIQUE,
		token.CHECK, token.DEFAULT, token.COLLATE, token.REFERENCES:
		return true
	}
	return false
}

// parseColumnDef parses a column name followed by type names and column
// constraints in any order.
func (p *Parser) parseColumnDef() *ast.ColumnDef {
	defer p.enter("column_def")()

	cd := &ast.ColumnDef{Name: p.parseName()}
	for {
		switch {
		case isColumnConstraintStart(p.peekToken.Type):
			p.nextToken()
			cd.Parts = append(cd.Parts, p.parseColumnConstraint())
		case isTypeWord(p.peekToken.Type):
			p.nextToken()
			cd.Parts = append(cd.Parts, p.parseTypeName())
		default:
			return cd
		}
	}
}

func (p *Parser) parseColumnConstraint() *ast.ColumnConstraint {
	cc := &ast.ColumnConstraint{Token: p.curToken}
	if p.curTokenIs(token.CONSTRAINT) {
		cc.Name = p.expectPeekName()
		p.nextToken()
	}

	switch p.curToken.Type {
	case token.PRIMARY:
		cc.Kind = ast.PrimaryKeyColumn
		p.expectPeek(token.KEY)
		cc.Direction = p.parseDirection()
		cc.Conflict = p.parseConflictClause()
		cc.Autoincrement = p.acceptPeek(token.AUTOINCREMENT)
	case token.NOT:
		cc.Kind = ast.NotNullColumn
		p.expectPeek(token.NULL)
		cc.Conflict = p.parseConflictClause()
	case token.NULL:
		cc.Kind = ast.NullColumn
		cc.Conflict = p.parseConflictClause()
	case token.UNIQUE:
		cc.Kind = ast.UniqueColumn
		cc.Conflict = p.parseConflictClause()
	case token.CHECK:
		cc.Kind = ast.CheckColumn
		p.expectPeek(token.LPAREN)
		cc.Check = p.expectPeekExpression()
		p.expectPeek(token.RPAREN)
	case token.DEFAULT:
		cc.Kind = ast.DefaultColumn
		p.nextToken()
		cc.Default = p.parseDefaultValue()
	case token.COLLATE:
		cc.Kind = ast.CollateColumn
		cc.Collation = p.expectPeekName()
	case token.REFERENCES:
		cc.Kind = ast.ReferencesColumn
		cc.ForeignKey = p.parseForeignKeyClause()
	default:
		p.fail("a column constraint")
	}
	return cc
}

// parseDefaultValue parses the value of a DEFAULT constraint: a signed
// number, a literal, a parenthesised expression or a bare identifier.
func (p *Parser) parseDefaultValue() ast.Expression {
	switch p.curToken.Type {
	case token.PLUS, token.MINUS, token.NUMBER:
		return p.parseSignedLiteral()
	case token.STRING, token.BLOB_LITERAL, token.NULL,
		token.CURRENT_TIME, token.CURRENT_DATE, token.CURRENT_TIMESTAMP:
		return p.parseLiteral()
	case token.LPAREN:
		tok := p.curToken
		exp := p.expectPeekExpression()
		p.expectPeek(token.RPAREN)
		return &ast.ParenExpression{Token: tok, Expr: exp}
	case token.IDENT:
		return &ast.ColumnRef{Token: p.curToken, Column: p.parseName()}
	}
	p.fail("a default value")
	return nil
}

// parseSignedLiteral parses a signed number as an expression: a number
// literal, or a unary sign applied to one.
func (p *Parser) parseSignedLiteral() ast.Expression {
	if p.curTokenIs(token.PLUS) || p.curTokenIs(token.MINUS) {
		ue := &ast.UnaryExpression{Token: p.curToken, Operator: p.curToken.Literal}
		p.expectPeek(token.NUMBER)
		ue.Right = p.parseLiteral()
		return ue
	}
	p.expectCur(token.NUMBER)
	return p.parseLiteral()
}

// parseConflictClause parses an optional ON CONFLICT resolution.
func (p *Parser) parseConflictClause() *ast.ConflictClause {
	if !p.peekTokenIs(token.ON) || !p.peekAtIs(2, token.CONFLICT) {
		return nil
	}
	p.nextToken()
	cc := &ast.ConflictClause{Token: p.curToken}
	p.nextToken()
	p.nextToken()
	switch p.curToken.Type {
	case token.ROLLBACK, token.ABORT, token.FAIL, token.IGNORE, token.REPLACE:
		cc.Resolution = strings.ToUpper(p.curToken.Literal)
	default:
		p.fail("ROLLBACK, ABORT, FAIL, IGNORE or REPLACE")
	}
	return cc
}

// -----------------------------------------------------------------------------
// Foreign keys
// -----------------------------------------------------------------------------

// parseForeignKeyClause parses REFERENCES table [(columns)] followed by
// any number of ON DELETE/ON UPDATE/MATCH items and an optional
// deferrable clause.
func (p *Parser) parseForeignKeyClause() *ast.ForeignKeyClause {
	fk := &ast.ForeignKeyClause{Token: p.curToken}
	fk.Table = p.expectPeekQualifiedName()
	if p.acceptPeek(token.LPAREN) {
		fk.Columns = p.parseNameList()
	}

	for {
		switch {
		case p.peekTokenIs(token.ON) && (p.peekAtIs(2, token.DELETE) || p.peekAtIs(2, token.UPDATE)):
			p.nextToken()
			fa := &ast.ForeignKeyAction{Token: p.curToken}
			p.nextToken()
			fa.On = strings.ToUpper(p.curToken.Literal)
			fa.Action = p.parseForeignKeyAction()
			fk.Actions = append(fk.Actions, fa)
		case p.acceptPeek(token.MATCH):
			fa := &ast.ForeignKeyAction{Token: p.curToken}
			fa.Match = p.expectPeekName()
			fk.Actions = append(fk.Actions, fa)
		default:
			fk.Deferrable = p.parseDeferrable()
			return fk
		}
	}
}

func (p *Parser) parseForeignKeyAction() string {
	p.nextToken()
	switch p.curToken.Type {
	case token.SET:
		p.nextToken()
		switch p.curToken.Type {
		case token.NULL:
			return "SET NULL"
		case token.DEFAULT:
			return "SET DEFAULT"
		}
		p.fail("NULL or DEFAULT")
	case token.CASCADE:
		return "CASCADE"
	case token.RESTRICT:
		return "RESTRICT"
	case token.NO:
		p.expectPeek(token.ACTION)
		return "NO ACTION"
	}
	p.fail("SET NULL, SET DEFAULT, CASCADE, RESTRICT or NO ACTION")
	return ""
}

func (p *Parser) parseDeferrable() *ast.Deferrable {
	if !p.peekTokenIs(token.DEFERRABLE) && !(p.peekTokenIs(token.NOT) && p.peekAtIs(2, token.DEFERRABLE)) {
		return nil
	}
	d := &ast.Deferrable{Token: p.peekToken}
	d.Not = p.acceptPeek(token.NOT)
	p.expectPeek(token.DEFERRABLE)
	if p.acceptPeek(token.INITIALLY) {
		p.nextToken()
		switch p.curToken.Type {
		case token.DEFERRED, token.IMMEDIATE:
			d.Initially = strings.ToUpper(p.curToken.Literal)
		default:
			p.fail("DEFERRED or IMMEDIATE")
		}
	}
	d.Enable = p.acceptPeek(token.ENABLE)
	return d
}

// -----------------------------------------------------------------------------
// Indexed columns and table constraints
// -----------------------------------------------------------------------------

// parseIndexedColumns parses ( indexed_column, ... ) starting on the
// opening parenthesis.
func (p *Parser) parseIndexedColumns() []*ast.IndexedColumn {
	p.expectCur(token.LPAREN)
	var cols []*ast.IndexedColumn
	for {
		p.nextToken()
		ic := &ast.IndexedColumn{}
		ic.Expr, ic.Collation = unwrapCollate(p.parseExpression(LOWEST))
		ic.Direction = p.parseDirection()
		cols = append(cols, ic)
		if !p.acceptPeek(token.COMMA) {
			break
		}
	}
	p.expectPeek(token.RPAREN)
	return cols
}

func isTableConstraintStart(t token.Type) bool {
	switch t {
	case token.CONSTRAINT, token.PRIMARY, token.UNIQUE, token.KEY, token.CHECK, token.FOREIGN:
		return true
	}
	return false
}

func (p *Parser) parseTableConstraint() ast.TableConstraint {
	defer p.enter("table_constraint")()

	tok := p.curToken
	var name *ast.Name
	if p.curTokenIs(token.CONSTRAINT) {
		name = p.expectPeekName()
		p.nextToken()
	}

	switch p.curToken.Type {
	case token.PRIMARY:
		c := &ast.PrimaryKeyConstraint{Token: tok, Name: name}
		p.expectPeek(token.KEY)
		p.expectPeek(token.LPAREN)
		c.Columns = p.parseIndexedColumns()
		c.Conflict = p.parseConflictClause()
		return c
	case token.UNIQUE:
		c := &ast.UniqueConstraint{Token: tok, Name: name}
		p.acceptPeek(token.KEY)
		c.IndexName, c.Columns, c.Conflict = p.parseKeyBody()
		return c
	case token.KEY:
		c := &ast.KeyConstraint{Token: tok, Name: name}
		c.IndexName, c.Columns, c.Conflict = p.parseKeyBody()
		return c
	case token.CHECK:
		c := &ast.CheckConstraint{Token: tok, Name: name}
		p.expectPeek(token.LPAREN)
		c.Expr = p.expectPeekExpression()
		p.expectPeek(token.RPAREN)
		return c
	case token.FOREIGN:
		c := &ast.ForeignKeyConstraint{Token: tok, Name: name}
		p.expectPeek(token.KEY)
		p.expectPeek(token.LPAREN)
		c.Columns = p.parseNameList()
		p.expectPeek(token.REFERENCES)
		c.Clause = p.parseForeignKeyClause()
		return c
	}
	p.fail("PRIMARY KEY, UNIQUE, KEY, CHECK or FOREIGN KEY")
	return nil
}

// parseKeyBody parses [index_name] (indexed columns) [conflict] after
// UNIQUE [KEY] or KEY.
func (p *Parser) parseKeyBody() (*ast.Name, []*ast.IndexedColumn, *ast.ConflictClause) {
	var index *ast.Name
	if !p.peekTokenIs(token.LPAREN) {
		index = p.expectPeekName()
	}
	p.expectPeek(token.LPAREN)
	cols := p.parseIndexedColumns()
	return index, cols, p.parseConflictClause()
}
