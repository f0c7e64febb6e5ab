package parser

import (
	"strings"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

func isSelectStart(t token.Type) bool {
	return t == token.SELECT || t == token.VALUES || t == token.WITH
}

// -----------------------------------------------------------------------------
// SELECT
// -----------------------------------------------------------------------------

// parseSelectStatement parses a select starting on SELECT, VALUES or WITH.
func (p *Parser) parseSelectStatement() *ast.SelectStatement {
	var with *ast.WithClause
	if p.curTokenIs(token.WITH) {
		with = p.parseWithClause()
		p.nextToken()
	}
	return p.parseSelectBody(with)
}

// parseSelectBody parses the cores, ORDER BY and LIMIT of a select whose
// WITH clause, if any, has already been parsed.
func (p *Parser) parseSelectBody(with *ast.WithClause) *ast.SelectStatement {
	defer p.enter("select_stmt")()

	if !p.curTokenIs(token.SELECT) && !p.curTokenIs(token.VALUES) {
		p.fail("SELECT or VALUES")
	}
	stmt := &ast.SelectStatement{Token: p.curToken, With: with}
	if with != nil {
		stmt.Token = with.Token
	}

	stmt.Cores = append(stmt.Cores, p.parseSelectCore(""))
	for {
		op := p.parseCompoundOperator()
		if op == "" {
			break
		}
		p.nextToken()
		stmt.Cores = append(stmt.Cores, p.parseSelectCore(op))
	}

	stmt.OrderBy = p.parseOrderBy()
	stmt.Limit = p.parseLimit()

	switch {
	case len(stmt.Cores) > 1:
		stmt.Form = ast.CompoundSelect
	case with != nil:
		stmt.Form = ast.FactoredSelect
	default:
		stmt.Form = ast.SimpleSelect
	}
	return stmt
}

// parseCompoundOperator consumes UNION [ALL], INTERSECT or EXCEPT and
// returns its canonical spelling, or "" when none follows.
func (p *Parser) parseCompoundOperator() string {
	var op string
	switch p.peekToken.Type {
	case token.UNION:
		p.nextToken()
		op = "UNION"
		if p.acceptPeek(token.ALL) {
			op = "UNION ALL"
		}
	case token.INTERSECT:
		p.nextToken()
		op = "INTERSECT"
	case token.EXCEPT:
		p.nextToken()
		op = "EXCEPT"
	default:
		return ""
	}
	if !p.peekTokenIs(token.SELECT) && !p.peekTokenIs(token.VALUES) {
		p.failAt(p.peekToken, "SELECT or VALUES")
	}
	return op
}

func (p *Parser) parseSelectCore(compound string) *ast.SelectCore {
	core := &ast.SelectCore{Token: p.curToken, Compound: compound}

	if p.curTokenIs(token.VALUES) {
		core.Values = p.parseValuesTuples()
		return core
	}

	if p.acceptPeek(token.DISTINCT) {
		core.Distinct = true
	} else if p.acceptPeek(token.ALL) {
		core.All = true
	}

	p.nextToken()
	core.Columns = append(core.Columns, p.parseResultColumn())
	for p.acceptPeek(token.COMMA) {
		p.nextToken()
		core.Columns = append(core.Columns, p.parseResultColumn())
	}

	if p.acceptPeek(token.FROM) {
		core.From = p.parseFromClause()
	}
	if p.acceptPeek(token.WHERE) {
		core.Where = p.expectPeekExpression()
	}
	if p.acceptPeek(token.GROUP) {
		p.expectPeek(token.BY)
		core.GroupBy = append(core.GroupBy, p.expectPeekExpression())
		for p.acceptPeek(token.COMMA) {
			core.GroupBy = append(core.GroupBy, p.expectPeekExpression())
		}
		if p.acceptPeek(token.HAVING) {
			core.Having = p.expectPeekExpression()
		}
	}
	return core
}

// parseValuesTuples parses (expr, ...), ... after a VALUES keyword.
func (p *Parser) parseValuesTuples() [][]ast.Expression {
	var rows [][]ast.Expression
	for {
		p.expectPeek(token.LPAREN)
		rows = append(rows, p.parseExpressionList(false))
		if !p.acceptPeek(token.COMMA) {
			return rows
		}
	}
}

// parseResultColumn parses *, table.* or expr [[AS] alias].
func (p *Parser) parseResultColumn() *ast.ResultColumn {
	rc := &ast.ResultColumn{Token: p.curToken}

	if p.curTokenIs(token.STAR) {
		rc.Star = true
		return rc
	}
	if isNameToken(p.curToken.Type) && p.peekTokenIs(token.DOT) && p.peekAtIs(2, token.STAR) {
		rc.Table = p.parseName()
		p.nextToken()
		p.nextToken()
		rc.Star = true
		return rc
	}

	rc.Expr = p.parseExpression(LOWEST)
	rc.Alias = p.parseOptionalAlias()
	return rc
}

// -----------------------------------------------------------------------------
// FROM and joins
// -----------------------------------------------------------------------------

// parseFromClause parses the sources after FROM. A plain comma list is
// kept in Tables; anything with a join keyword or constraint is a Join.
func (p *Parser) parseFromClause() *ast.FromClause {
	from := &ast.FromClause{Token: p.curToken}
	p.nextToken()
	tables, join := splitJoin(p.parseJoinClause())
	from.Tables, from.Join = tables, join
	return from
}

// splitJoin returns the sources of jc when every join is a bare comma, or
// jc itself otherwise.
func splitJoin(jc *ast.JoinClause) ([]ast.TableOrSubquery, *ast.JoinClause) {
	tables := []ast.TableOrSubquery{jc.Left}
	for _, j := range jc.Joins {
		if !j.Operator.Comma || j.Constraint != nil {
			return nil, jc
		}
		tables = append(tables, j.Right)
	}
	return tables, nil
}

// parseJoinClause parses a source followed by any joined sources.
func (p *Parser) parseJoinClause() *ast.JoinClause {
	jc := &ast.JoinClause{Token: p.curToken, Left: p.parseTableOrSubquery()}
	for {
		op := p.parseJoinOperator()
		if op == nil {
			return jc
		}
		p.nextToken()
		join := &ast.Join{Operator: op, Right: p.parseTableOrSubquery()}
		join.Constraint = p.parseJoinConstraint()
		jc.Joins = append(jc.Joins, join)
	}
}

// parseJoinOperator consumes , or [NATURAL] [LEFT [OUTER]|INNER|CROSS] JOIN
// and returns nil when no join operator follows.
func (p *Parser) parseJoinOperator() *ast.JoinOperator {
	switch p.peekToken.Type {
	case token.COMMA:
		p.nextToken()
		return &ast.JoinOperator{Token: p.curToken, Comma: true}
	case token.NATURAL, token.LEFT, token.INNER, token.CROSS, token.JOIN:
	default:
		return nil
	}

	p.nextToken()
	op := &ast.JoinOperator{Token: p.curToken}
	if p.curTokenIs(token.NATURAL) {
		op.Natural = true
		p.nextToken()
	}
	switch p.curToken.Type {
	case token.LEFT:
		op.Kind = "LEFT"
		if p.acceptPeek(token.OUTER) {
			op.Kind = "LEFT OUTER"
		}
		p.expectPeek(token.JOIN)
	case token.INNER:
		op.Kind = "INNER"
		p.expectPeek(token.JOIN)
	case token.CROSS:
		op.Kind = "CROSS"
		p.expectPeek(token.JOIN)
	case token.JOIN:
	default:
		p.fail("JOIN")
	}
	return op
}

func (p *Parser) parseJoinConstraint() *ast.JoinConstraint {
	switch {
	case p.acceptPeek(token.ON):
		jc := &ast.JoinConstraint{Token: p.curToken}
		jc.On = p.expectPeekExpression()
		return jc
	case p.acceptPeek(token.USING):
		jc := &ast.JoinConstraint{Token: p.curToken}
		p.expectPeek(token.LPAREN)
		jc.Using = p.parseNameList()
		return jc
	}
	return nil
}

// parseTableOrSubquery parses a table name, a parenthesised subquery or a
// parenthesised join.
func (p *Parser) parseTableOrSubquery() ast.TableOrSubquery {
	defer p.enter("table_or_subquery")()

	if !p.curTokenIs(token.LPAREN) {
		return p.parseTableName(true)
	}

	tok := p.curToken
	p.nextToken()
	if isSelectStart(p.curToken.Type) {
		sub := &ast.SubquerySource{Token: tok, Select: p.parseSelectStatement()}
		p.expectPeek(token.RPAREN)
		sub.Alias = p.parseOptionalAlias()
		return sub
	}

	tables, join := splitJoin(p.parseJoinClause())
	p.expectPeek(token.RPAREN)
	return &ast.ParenSource{Token: tok, Tables: tables, Join: join}
}

// parseTableName parses [schema.]table [[AS] alias] [INDEXED BY name | NOT
// INDEXED]. With implicitAlias unset an alias must be introduced by AS.
func (p *Parser) parseTableName(implicitAlias bool) *ast.TableName {
	tn := &ast.TableName{Token: p.curToken}
	qn := p.parseQualifiedName()
	tn.Schema, tn.Name = qn.Schema, qn.Name

	if implicitAlias {
		tn.Alias = p.parseOptionalAlias()
	} else if p.acceptPeek(token.AS) {
		tn.Alias = p.expectPeekName()
	}

	switch {
	case p.acceptPeek(token.INDEXED):
		p.expectPeek(token.BY)
		tn.IndexedBy = p.expectPeekName()
	case p.peekTokenIs(token.NOT) && p.peekAtIs(2, token.INDEXED):
		p.nextToken()
		p.nextToken()
		tn.NotIndexed = true
	}
	return tn
}

// -----------------------------------------------------------------------------
// ORDER BY, LIMIT, WITH
// -----------------------------------------------------------------------------

// parseOrderBy parses an optional ORDER BY list following the current token.
func (p *Parser) parseOrderBy() []*ast.OrderingTerm {
	if !p.acceptPeek(token.ORDER) {
		return nil
	}
	p.expectPeek(token.BY)
	terms := []*ast.OrderingTerm{p.parseOrderingTerm()}
	for p.acceptPeek(token.COMMA) {
		terms = append(terms, p.parseOrderingTerm())
	}
	return terms
}

func (p *Parser) parseOrderingTerm() *ast.OrderingTerm {
	p.nextToken()
	term := &ast.OrderingTerm{Token: p.curToken}
	term.Expr, term.Collation = unwrapCollate(p.parseExpression(LOWEST))
	term.Direction = p.parseDirection()
	return term
}

// unwrapCollate splits a top-level COLLATE off an expression.
func unwrapCollate(expr ast.Expression) (ast.Expression, *ast.Name) {
	if ce, ok := expr.(*ast.CollateExpression); ok {
		return ce.Expr, ce.Collation
	}
	return expr, nil
}

// parseDirection consumes an optional ASC or DESC.
func (p *Parser) parseDirection() string {
	if p.acceptPeek(token.ASC) || p.acceptPeek(token.DESC) {
		return strings.ToUpper(p.curToken.Literal)
	}
	return ""
}

// parseLimit parses an optional LIMIT clause following the current token.
// In the LIMIT a, b form the first expression is the offset.
func (p *Parser) parseLimit() *ast.LimitClause {
	if !p.acceptPeek(token.LIMIT) {
		return nil
	}
	lc := &ast.LimitClause{Token: p.curToken}
	first := p.expectPeekExpression()
	switch {
	case p.acceptPeek(token.OFFSET):
		lc.Limit = first
		lc.Offset = p.expectPeekExpression()
	case p.acceptPeek(token.COMMA):
		lc.Comma = true
		lc.Offset = first
		lc.Limit = p.expectPeekExpression()
	default:
		lc.Limit = first
	}
	return lc
}

// parseWithClause parses WITH [RECURSIVE] cte, ... starting on WITH and
// ending on the closing parenthesis of the last table expression.
func (p *Parser) parseWithClause() *ast.WithClause {
	defer p.enter("with_clause")()

	wc := &ast.WithClause{Token: p.curToken}
	wc.Recursive = p.acceptPeek(token.RECURSIVE)
	for {
		cte := &ast.CommonTableExpression{Token: p.peekToken}
		cte.Name = p.expectPeekName()
		if p.acceptPeek(token.LPAREN) {
			cte.Columns = p.parseNameList()
		}
		p.expectPeek(token.AS)
		p.expectPeek(token.LPAREN)
		if !isSelectStart(p.peekToken.Type) {
			p.failAt(p.peekToken, "SELECT")
		}
		p.nextToken()
		cte.Select = p.parseSelectStatement()
		p.expectPeek(token.RPAREN)
		wc.CTEs = append(wc.CTEs, cte)
		if !p.acceptPeek(token.COMMA) {
			return wc
		}
	}
}
