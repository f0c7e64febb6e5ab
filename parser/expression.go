package parser

import (
	"strings"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// Operator precedences, loosest first.
const (
	_ int = iota
	LOWEST
	OR_PREC     // OR
	AND_PREC    // AND
	EQUALITY    // = == != <> IS IN LIKE GLOB MATCH REGEXP BETWEEN ISNULL NOTNULL
	COMPARE     // < <= > >=
	BITWISE     // << >> & |
	SUM         // + -
	PRODUCT     // * / %
	CONCAT_PREC // ||
	PREFIX      // NOT x -x +x ~x
	COLLATE_PREC
)

var precedences = map[token.Type]int{
	token.OR:       OR_PREC,
	token.AND:      AND_PREC,
	token.EQ:       EQUALITY,
	token.DOUBLEEQ: EQUALITY,
	token.NEQ:      EQUALITY,
	token.IS:       EQUALITY,
	token.IN:       EQUALITY,
	token.LIKE:     EQUALITY,
	token.GLOB:     EQUALITY,
	token.MATCH:    EQUALITY,
	token.REGEXP:   EQUALITY,
	token.BETWEEN:  EQUALITY,
	token.ISNULL:   EQUALITY,
	token.NOTNULL:  EQUALITY,
	token.LT:       COMPARE,
	token.LTE:      COMPARE,
	token.GT:       COMPARE,
	token.GTE:      COMPARE,
	token.LSHIFT:   BITWISE,
	token.RSHIFT:   BITWISE,
	token.AMP:      BITWISE,
	token.PIPE:     BITWISE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.CONCAT:   CONCAT_PREC,
	token.COLLATE:  COLLATE_PREC,
}

// levels maps binary precedences to the ast.Level constants.
var levels = map[int]int{
	OR_PREC:     ast.LevelOr,
	AND_PREC:    ast.LevelAnd,
	EQUALITY:    ast.LevelEquality,
	COMPARE:     ast.LevelComparison,
	BITWISE:     ast.LevelBitwise,
	SUM:         ast.LevelAdd,
	PRODUCT:     ast.LevelMultiply,
	CONCAT_PREC: ast.LevelConcat,
}

// negatable lists the operators an infix NOT may precede.
var negatable = map[token.Type]bool{
	token.IN:      true,
	token.LIKE:    true,
	token.GLOB:    true,
	token.MATCH:   true,
	token.REGEXP:  true,
	token.BETWEEN: true,
	token.NULL:    true,
}

func (p *Parser) registerExpressionFns() {
	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.infixParseFns = make(map[token.Type]infixParseFn)

	// Keywords that are not operators or literals may name a column or a
	// function. Specific registrations below override this.
	for _, kw := range token.Keywords() {
		p.registerPrefix(token.LookupIdent(kw), p.parseNamePrefix)
	}
	p.registerPrefix(token.IDENT, p.parseNamePrefix)

	p.registerPrefix(token.NUMBER, p.parseLiteral)
	p.registerPrefix(token.STRING, p.parseLiteral)
	p.registerPrefix(token.BLOB_LITERAL, p.parseLiteral)
	p.registerPrefix(token.NULL, p.parseLiteral)
	p.registerPrefix(token.CURRENT_TIME, p.parseLiteral)
	p.registerPrefix(token.CURRENT_DATE, p.parseLiteral)
	p.registerPrefix(token.CURRENT_TIMESTAMP, p.parseLiteral)
	p.registerPrefix(token.BIND, p.parseBindParameter)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.TILDE, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parseNotPrefix)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.CASE, p.parseCaseExpression)
	p.registerPrefix(token.CAST, p.parseCastExpression)
	p.registerPrefix(token.EXISTS, p.parseExistsExpression)
	p.registerPrefix(token.RAISE, p.parseRaiseExpression)

	for _, t := range []token.Type{
		token.OR, token.AND,
		token.EQ, token.DOUBLEEQ, token.NEQ,
		token.LT, token.LTE, token.GT, token.GTE,
		token.LSHIFT, token.RSHIFT, token.AMP, token.PIPE,
		token.PLUS, token.MINUS,
		token.STAR, token.SLASH, token.PERCENT,
		token.CONCAT,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.IS, p.parseIsExpression)
	p.registerInfix(token.IN, p.parseInExpression)
	p.registerInfix(token.LIKE, p.parseLikeExpression)
	p.registerInfix(token.GLOB, p.parseLikeExpression)
	p.registerInfix(token.MATCH, p.parseLikeExpression)
	p.registerInfix(token.REGEXP, p.parseLikeExpression)
	p.registerInfix(token.BETWEEN, p.parseBetweenExpression)
	p.registerInfix(token.ISNULL, p.parsePostfixNull)
	p.registerInfix(token.NOTNULL, p.parsePostfixNull)
	p.registerInfix(token.NOT, p.parseNotInfix)
	p.registerInfix(token.COLLATE, p.parseCollateExpression)
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) peekPrecedence() int {
	if p.peekToken.Type == token.NOT {
		// NOT binds as an infix operator only before IN, LIKE, BETWEEN,
		// NULL and friends.
		if negatable[p.peekAt(2).Type] {
			return EQUALITY
		}
		return LOWEST
	}
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// -----------------------------------------------------------------------------
// Expression Parsing
// -----------------------------------------------------------------------------

// parseExpression parses an expression whose operators all bind tighter
// than precedence. It starts on the first token and ends on the last.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	defer p.enter("expr")()

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.fail("an expression")
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

// expectPeekExpression advances and parses a full expression.
func (p *Parser) expectPeekExpression() ast.Expression {
	p.nextToken()
	return p.parseExpression(LOWEST)
}

// parseExpressionList parses expr, ... up to the closing parenthesis. It
// starts on the opening parenthesis and ends on the closing one. An empty
// list is allowed when allowEmpty is set.
func (p *Parser) parseExpressionList(allowEmpty bool) []ast.Expression {
	p.expectCur(token.LPAREN)
	list := []ast.Expression{}
	if allowEmpty && p.acceptPeek(token.RPAREN) {
		return list
	}
	list = append(list, p.expectPeekExpression())
	for p.acceptPeek(token.COMMA) {
		list = append(list, p.expectPeekExpression())
	}
	p.expectPeek(token.RPAREN)
	return list
}

// -----------------------------------------------------------------------------
// Prefix parsers
// -----------------------------------------------------------------------------

func (p *Parser) parseLiteral() ast.Expression {
	lit := &ast.Literal{Token: p.curToken, Value: p.curToken.Literal}
	switch p.curToken.Type {
	case token.NUMBER:
		lit.Kind = ast.NumberLiteral
	case token.STRING:
		lit.Kind = ast.StringLiteral
	case token.BLOB_LITERAL:
		lit.Kind = ast.BlobLiteral
	case token.NULL:
		lit.Kind = ast.NullLiteral
	case token.CURRENT_TIME:
		lit.Kind = ast.CurrentTimeLiteral
	case token.CURRENT_DATE:
		lit.Kind = ast.CurrentDateLiteral
	case token.CURRENT_TIMESTAMP:
		lit.Kind = ast.CurrentTimestampLiteral
	}
	return lit
}

func (p *Parser) parseBindParameter() ast.Expression {
	return &ast.BindParameter{Token: p.curToken, Name: p.curToken.Literal}
}

// parseNamePrefix parses a column reference or a function call.
func (p *Parser) parseNamePrefix() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		return p.parseFunctionCall()
	}
	if tok.Type.IsKeyword() && reservedName(tok.Type) {
		p.fail("an expression")
	}

	ref := &ast.ColumnRef{Token: tok, Column: p.parseName()}
	if p.peekTokenIs(token.DOT) {
		p.nextToken()
		ref.Table, ref.Column = ref.Column, p.expectPeekName()
		if p.peekTokenIs(token.DOT) {
			p.nextToken()
			ref.Schema, ref.Table, ref.Column = ref.Table, ref.Column, p.expectPeekName()
		}
	}
	return ref
}

func (p *Parser) parseFunctionCall() ast.Expression {
	fc := &ast.FunctionCall{Token: p.curToken, Name: p.parseName()}
	p.expectPeek(token.LPAREN)

	switch {
	case p.acceptPeek(token.RPAREN):
		fc.Args = []ast.Expression{}
		return fc
	case p.acceptPeek(token.STAR):
		fc.Star = true
		p.expectPeek(token.RPAREN)
		return fc
	}

	if p.acceptPeek(token.DISTINCT) {
		fc.Distinct = true
	}
	fc.Args = []ast.Expression{p.expectPeekExpression()}
	for p.acceptPeek(token.COMMA) {
		fc.Args = append(fc.Args, p.expectPeekExpression())
	}
	p.expectPeek(token.RPAREN)
	return fc
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.UnaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	return expression
}

// parseNotPrefix parses NOT expr and NOT EXISTS (select). NOT binds as
// tightly as the other prefix operators, so NOT a IS NULL tests (NOT a).
func (p *Parser) parseNotPrefix() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.EXISTS) {
		p.nextToken()
		exists := p.parseExistsExpression().(*ast.ExistsExpression)
		exists.Token = tok
		exists.Not = true
		return exists
	}
	p.nextToken()
	return &ast.UnaryExpression{
		Token:    tok,
		Operator: "NOT",
		Right:    p.parseExpression(PREFIX),
	}
}

// parseGroupedExpression parses ( expr ) or a scalar subquery.
func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.curToken
	if isSelectStart(p.peekToken.Type) {
		p.nextToken()
		sel := p.parseSelectStatement()
		p.expectPeek(token.RPAREN)
		return &ast.SubqueryExpression{Token: tok, Select: sel}
	}
	exp := p.expectPeekExpression()
	p.expectPeek(token.RPAREN)
	return &ast.ParenExpression{Token: tok, Expr: exp}
}

func (p *Parser) parseCaseExpression() ast.Expression {
	defer p.enter("case_expr")()
	ce := &ast.CaseExpression{Token: p.curToken}

	if !p.peekTokenIs(token.WHEN) {
		ce.Operand = p.expectPeekExpression()
	}
	if !p.peekTokenIs(token.WHEN) {
		p.failAt(p.peekToken, "WHEN")
	}
	for p.acceptPeek(token.WHEN) {
		wc := &ast.WhenClause{Token: p.curToken}
		wc.Condition = p.expectPeekExpression()
		p.expectPeek(token.THEN)
		wc.Result = p.expectPeekExpression()
		ce.Whens = append(ce.Whens, wc)
	}
	if p.acceptPeek(token.ELSE) {
		ce.Else = p.expectPeekExpression()
	}
	p.expectPeek(token.END)
	return ce
}

func (p *Parser) parseCastExpression() ast.Expression {
	ce := &ast.CastExpression{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	ce.Expr = p.expectPeekExpression()
	p.expectPeek(token.AS)
	p.nextToken()
	ce.Type = p.parseTypeName()
	p.expectPeek(token.RPAREN)
	return ce
}

func (p *Parser) parseExistsExpression() ast.Expression {
	ee := &ast.ExistsExpression{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	if !isSelectStart(p.peekToken.Type) {
		p.failAt(p.peekToken, "SELECT")
	}
	p.nextToken()
	ee.Select = p.parseSelectStatement()
	p.expectPeek(token.RPAREN)
	return ee
}

// parseRaiseExpression parses RAISE(IGNORE) and RAISE(mode, message).
func (p *Parser) parseRaiseExpression() ast.Expression {
	re := &ast.RaiseExpression{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.nextToken()
	switch p.curToken.Type {
	case token.IGNORE:
		re.Mode = "IGNORE"
	case token.ROLLBACK, token.ABORT, token.FAIL:
		re.Mode = strings.ToUpper(p.curToken.Literal)
		p.expectPeek(token.COMMA)
		p.expectPeek(token.STRING)
		re.Message = p.parseLiteral().(*ast.Literal)
	default:
		p.fail("IGNORE, ROLLBACK, ABORT or FAIL")
	}
	p.expectPeek(token.RPAREN)
	return re
}

// -----------------------------------------------------------------------------
// Infix parsers
// -----------------------------------------------------------------------------

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	precedence := p.curPrecedence()
	expression := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: strings.ToUpper(p.curToken.Literal),
		Left:     left,
		Level:    levels[precedence],
	}
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	return expression
}

// parseIsExpression parses IS [NOT] NULL and IS [NOT] expr.
func (p *Parser) parseIsExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	not := p.acceptPeek(token.NOT)
	if p.acceptPeek(token.NULL) {
		return &ast.IsNullExpression{Token: tok, Expr: left, Not: not, Form: ast.IsNullKeywords}
	}
	op := "IS"
	if not {
		op = "IS NOT"
	}
	p.nextToken()
	return &ast.BinaryExpression{
		Token:    tok,
		Left:     left,
		Operator: op,
		Right:    p.parseExpression(EQUALITY),
		Level:    ast.LevelEquality,
	}
}

// parseNotInfix handles NOT IN, NOT LIKE, NOT BETWEEN and NOT NULL.
func (p *Parser) parseNotInfix(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	var result ast.Expression
	switch p.curToken.Type {
	case token.NULL:
		return &ast.IsNullExpression{Token: tok, Expr: left, Not: true, Form: ast.NotNullKeywords}
	case token.IN:
		result = p.parseInExpression(left)
		result.(*ast.InExpression).Not = true
	case token.BETWEEN:
		result = p.parseBetweenExpression(left)
		result.(*ast.BetweenExpression).Not = true
	case token.LIKE, token.GLOB, token.MATCH, token.REGEXP:
		result = p.parseLikeExpression(left)
		result.(*ast.LikeExpression).Not = true
	default:
		p.fail("IN, LIKE, GLOB, MATCH, REGEXP, BETWEEN or NULL")
	}
	return result
}

// parseInExpression parses IN (select), IN (list) and IN table.
func (p *Parser) parseInExpression(left ast.Expression) ast.Expression {
	ie := &ast.InExpression{Token: p.curToken, Expr: left}
	if !p.peekTokenIs(token.LPAREN) {
		ie.Table = p.expectPeekQualifiedName()
		return ie
	}
	p.nextToken()
	if isSelectStart(p.peekToken.Type) {
		p.nextToken()
		ie.Subquery = p.parseSelectStatement()
		p.expectPeek(token.RPAREN)
		return ie
	}
	ie.Values = p.parseExpressionList(true)
	return ie
}

func (p *Parser) parseLikeExpression(left ast.Expression) ast.Expression {
	le := &ast.LikeExpression{
		Token:    p.curToken,
		Expr:     left,
		Operator: strings.ToUpper(p.curToken.Literal),
	}
	p.nextToken()
	le.Pattern = p.parseExpression(EQUALITY)
	if p.acceptPeek(token.ESCAPE) {
		p.nextToken()
		le.Escape = p.parseExpression(EQUALITY)
	}
	return le
}

// parseBetweenExpression parses BETWEEN low AND high. The low bound stops
// before AND so the AND is taken by BETWEEN rather than as a conjunction.
func (p *Parser) parseBetweenExpression(left ast.Expression) ast.Expression {
	be := &ast.BetweenExpression{Token: p.curToken, Expr: left}
	p.nextToken()
	be.Low = p.parseExpression(AND_PREC)
	p.expectPeek(token.AND)
	p.nextToken()
	be.High = p.parseExpression(EQUALITY)
	return be
}

func (p *Parser) parsePostfixNull(left ast.Expression) ast.Expression {
	if p.curTokenIs(token.ISNULL) {
		return &ast.IsNullExpression{Token: p.curToken, Expr: left, Form: ast.IsNullPostfix}
	}
	return &ast.IsNullExpression{Token: p.curToken, Expr: left, Not: true, Form: ast.NotNullPostfix}
}

func (p *Parser) parseCollateExpression(left ast.Expression) ast.Expression {
	return &ast.CollateExpression{
		Token:     p.curToken,
		Expr:      left,
		Collation: p.expectPeekName(),
	}
}
