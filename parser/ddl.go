package parser

import (
	"strings"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// parseTemp consumes an optional TEMP or TEMPORARY after the current token.
func (p *Parser) parseTemp() string {
	if p.acceptPeek(token.TEMP) || p.acceptPeek(token.TEMPORARY) {
		return strings.ToUpper(p.curToken.Literal)
	}
	return ""
}

// -----------------------------------------------------------------------------
// CREATE TABLE
// -----------------------------------------------------------------------------

func (p *Parser) parseCreateTableStatement() *ast.CreateTableStatement {
	defer p.enter("create_table_stmt")()

	stmt := &ast.CreateTableStatement{Token: p.curToken}
	stmt.Temp = p.parseTemp()
	p.expectPeek(token.TABLE)
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.Table = p.expectPeekQualifiedName()

	if p.acceptPeek(token.AS) {
		if !isSelectStart(p.peekToken.Type) {
			p.failAt(p.peekToken, "SELECT")
		}
		p.nextToken()
		stmt.AsSelect = p.parseSelectStatement()
		return stmt
	}

	p.expectPeek(token.LPAREN)
	for {
		p.nextToken()
		switch {
		case len(stmt.Constraints) > 0:
			stmt.Constraints = append(stmt.Constraints, p.parseTableConstraint())
		case p.curTokenIs(token.KEY):
			// KEY may name a column or start a key constraint. A column
			// definition is preferred when both readings parse.
			var col *ast.ColumnDef
			if p.speculate(func() {
				col = p.parseColumnDef()
				if !p.peekTokenIs(token.COMMA) && !p.peekTokenIs(token.RPAREN) {
					p.failAt(p.peekToken, ", or )")
				}
			}) {
				stmt.Columns = append(stmt.Columns, col)
			} else {
				stmt.Constraints = append(stmt.Constraints, p.parseTableConstraint())
			}
		case isTableConstraintStart(p.curToken.Type):
			if len(stmt.Columns) == 0 {
				p.fail("a column definition")
			}
			stmt.Constraints = append(stmt.Constraints, p.parseTableConstraint())
		default:
			stmt.Columns = append(stmt.Columns, p.parseColumnDef())
		}
		if !p.acceptPeek(token.COMMA) {
			break
		}
	}
	p.expectPeek(token.RPAREN)

	if p.acceptPeek(token.WITHOUT) {
		p.expectPeek(token.IDENT)
		if !strings.EqualFold(p.curToken.Literal, "ROWID") {
			p.fail("ROWID")
		}
		stmt.WithoutRowid = true
	}
	return stmt
}

// -----------------------------------------------------------------------------
// CREATE INDEX, VIEW, VIRTUAL TABLE
// -----------------------------------------------------------------------------

func (p *Parser) parseCreateIndexStatement() *ast.CreateIndexStatement {
	defer p.enter("create_index_stmt")()

	stmt := &ast.CreateIndexStatement{Token: p.curToken}
	stmt.Unique = p.acceptPeek(token.UNIQUE)
	p.expectPeek(token.INDEX)
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.Index = p.expectPeekQualifiedName()
	p.expectPeek(token.ON)
	stmt.Table = p.expectPeekName()
	p.expectPeek(token.LPAREN)
	stmt.Columns = p.parseIndexedColumns()
	if p.acceptPeek(token.WHERE) {
		stmt.Where = p.expectPeekExpression()
	}
	return stmt
}

func (p *Parser) parseCreateViewStatement() *ast.CreateViewStatement {
	defer p.enter("create_view_stmt")()

	stmt := &ast.CreateViewStatement{Token: p.curToken}
	stmt.Temp = p.parseTemp()
	p.expectPeek(token.VIEW)
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.View = p.expectPeekQualifiedName()
	p.expectPeek(token.AS)
	if !isSelectStart(p.peekToken.Type) {
		p.failAt(p.peekToken, "SELECT")
	}
	p.nextToken()
	stmt.Select = p.parseSelectStatement()
	return stmt
}

func (p *Parser) parseCreateVirtualTableStatement() *ast.CreateVirtualTableStatement {
	defer p.enter("create_virtual_table_stmt")()

	stmt := &ast.CreateVirtualTableStatement{Token: p.curToken}
	p.expectPeek(token.VIRTUAL)
	p.expectPeek(token.TABLE)
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.Table = p.expectPeekQualifiedName()
	p.expectPeek(token.USING)
	stmt.Module = p.expectPeekName()
	if p.acceptPeek(token.LPAREN) {
		stmt.Args = p.parseModuleArgs()
	}
	return stmt
}

// parseModuleArgs splits the module argument list on top-level commas.
// Each argument is kept as raw tokens; nested parentheses must balance.
func (p *Parser) parseModuleArgs() []ast.Span {
	var args []ast.Span
	var cur []token.Token
	depth := 0
	for {
		p.nextToken()
		switch p.curToken.Type {
		case token.EOF:
			p.fail(")")
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth == 0 {
				if len(cur) > 0 || len(args) > 0 {
					args = append(args, ast.Span{Tokens: cur})
				}
				return args
			}
			depth--
		case token.COMMA:
			if depth == 0 {
				args = append(args, ast.Span{Tokens: cur})
				cur = nil
				continue
			}
		}
		cur = append(cur, p.curToken)
	}
}

// -----------------------------------------------------------------------------
// CREATE TRIGGER
// -----------------------------------------------------------------------------

// parseCreateTriggerStatement parses both trigger forms. A FOR table
// directly after the trigger name selects the procedural form.
func (p *Parser) parseCreateTriggerStatement() *ast.CreateTriggerStatement {
	defer p.enter("create_trigger_stmt")()

	stmt := &ast.CreateTriggerStatement{Token: p.curToken}
	p.body = bodyExpected
	stmt.Temp = p.parseTemp()
	p.expectPeek(token.TRIGGER)
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.Trigger = p.expectPeekQualifiedName()

	if p.acceptPeek(token.FOR) {
		stmt.ForTable = true
		stmt.Table = p.expectPeekQualifiedName()
		stmt.State = p.parseTriggerState()
		if !p.acceptPeek(token.BEFORE) && !p.acceptPeek(token.AFTER) {
			p.failAt(p.peekToken, "BEFORE or AFTER")
		}
		stmt.Timing = strings.ToUpper(p.curToken.Literal)
		stmt.Events = p.parseTriggerEvents()
		stmt.Position = p.parseTriggerPosition()
		p.expectPeek(token.AS)
		stmt.Block = p.parseDeclareBlock()
		return stmt
	}

	stmt.State = p.parseTriggerState()
	switch {
	case p.acceptPeek(token.BEFORE), p.acceptPeek(token.AFTER):
		stmt.Timing = strings.ToUpper(p.curToken.Literal)
	case p.acceptPeek(token.INSTEAD):
		p.expectPeek(token.OF)
		stmt.Timing = "INSTEAD OF"
	}
	stmt.Events = p.parseTriggerEvents()
	stmt.Position = p.parseTriggerPosition()
	p.expectPeek(token.ON)
	stmt.Table = p.expectPeekQualifiedName()
	if p.acceptPeek(token.FOR) {
		p.expectPeek(token.EACH)
		p.expectPeek(token.ROW)
		stmt.ForEachRow = true
	}
	if p.acceptPeek(token.WHEN) {
		stmt.When = p.expectPeekExpression()
	}

	switch {
	case p.acceptPeek(token.BEGIN):
		p.body = bodyOpen
		stmt.Body = p.parseTriggerBody()
		p.body = bodyNone
	case p.acceptPeek(token.AS):
		stmt.Block = p.parseDeclareBlock()
	default:
		p.failAt(p.peekToken, "BEGIN or AS")
	}
	return stmt
}

func (p *Parser) parseTriggerState() string {
	if p.acceptPeek(token.ACTIVE) || p.acceptPeek(token.INACTIVE) {
		return strings.ToUpper(p.curToken.Literal)
	}
	return ""
}

func (p *Parser) parseTriggerPosition() string {
	if !p.acceptPeek(token.POSITION) {
		return ""
	}
	p.expectPeek(token.NUMBER)
	return p.curToken.Literal
}

// parseTriggerEvents parses event [OR event ...].
func (p *Parser) parseTriggerEvents() []*ast.TriggerEvent {
	var events []*ast.TriggerEvent
	for {
		p.nextToken()
		ev := &ast.TriggerEvent{Token: p.curToken}
		switch p.curToken.Type {
		case token.DELETE, token.INSERT:
			ev.Kind = strings.ToUpper(p.curToken.Literal)
		case token.UPDATE:
			ev.Kind = "UPDATE"
			if p.acceptPeek(token.OF) {
				ev.Columns = []*ast.Name{p.expectPeekName()}
				for p.acceptPeek(token.COMMA) {
					ev.Columns = append(ev.Columns, p.expectPeekName())
				}
			}
		default:
			p.fail("DELETE, INSERT or UPDATE")
		}
		events = append(events, ev)
		if !p.acceptPeek(token.OR) {
			return events
		}
	}
}

func isTriggerBodyStart(t token.Type) bool {
	switch t {
	case token.UPDATE, token.INSERT, token.REPLACE, token.DELETE,
		token.SELECT, token.WITH, token.VALUES:
		return true
	}
	return false
}

// parseTriggerBody parses one or more ;-terminated statements up to END.
func (p *Parser) parseTriggerBody() []ast.Statement {
	var body []ast.Statement
	for {
		p.nextToken()
		if !isTriggerBodyStart(p.curToken.Type) {
			p.fail("UPDATE, INSERT, DELETE or SELECT")
		}
		body = append(body, p.parseStatement())
		p.expectPeek(token.SEMICOLON)
		if p.acceptPeek(token.END) {
			return body
		}
	}
}

// -----------------------------------------------------------------------------
// ALTER TABLE, DROP
// -----------------------------------------------------------------------------

func (p *Parser) parseAlterTableStatement() *ast.AlterTableStatement {
	defer p.enter("alter_table_stmt")()

	stmt := &ast.AlterTableStatement{Token: p.curToken}
	p.expectPeek(token.TABLE)
	stmt.Table = p.expectPeekQualifiedName()

	p.nextToken()
	switch p.curToken.Type {
	case token.RENAME:
		if p.acceptPeek(token.TO) {
			stmt.Action = ast.RenameTable
			stmt.NewName = p.expectPeekName()
			return stmt
		}
		stmt.Action = ast.RenameColumn
		stmt.ColumnKeyword = p.acceptPeek(token.COLUMN)
		stmt.Column = p.expectPeekName()
		p.expectPeek(token.TO)
		stmt.NewName = p.expectPeekName()
	case token.ADD:
		stmt.Action = ast.AddColumn
		stmt.ColumnKeyword = p.acceptPeek(token.COLUMN)
		p.nextToken()
		stmt.Definition = p.parseColumnDef()
	case token.DROP:
		stmt.Action = ast.DropColumn
		stmt.ColumnKeyword = p.acceptPeek(token.COLUMN)
		stmt.Column = p.expectPeekName()
	default:
		p.fail("RENAME, ADD or DROP")
	}
	return stmt
}

func (p *Parser) parseDropStatement() *ast.DropStatement {
	stmt := &ast.DropStatement{Token: p.curToken}
	p.nextToken()
	switch p.curToken.Type {
	case token.TABLE, token.INDEX, token.TRIGGER, token.VIEW, token.PROCEDURE:
		stmt.Kind = strings.ToUpper(p.curToken.Literal)
	default:
		p.fail("TABLE, INDEX, TRIGGER, VIEW or PROCEDURE")
	}
	stmt.IfExists = p.parseIfExists()
	stmt.Name = p.expectPeekQualifiedName()
	return stmt
}
