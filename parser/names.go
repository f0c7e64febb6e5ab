package parser

import (
	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// -----------------------------------------------------------------------------
// Names
// -----------------------------------------------------------------------------

// isNameToken reports whether t can start an any_name: an identifier, a
// string or any keyword.
func isNameToken(t token.Type) bool {
	return t == token.IDENT || t == token.STRING || t == token.LPAREN || t.IsKeyword()
}

// parseName parses any_name. It starts on the name and ends on its last
// token. A parenthesised name is unwrapped.
func (p *Parser) parseName() *ast.Name {
	tok := p.curToken
	switch {
	case tok.Type == token.LPAREN:
		p.nextToken()
		inner := p.parseName()
		p.expectPeek(token.RPAREN)
		return inner
	case tok.Type == token.IDENT, tok.Type == token.STRING, tok.Type.IsKeyword():
		return &ast.Name{Token: tok, Value: tok.Literal, Raw: tok.Raw}
	}
	p.fail("a name")
	return nil
}

// expectPeekName advances onto the next token and parses it as a name.
func (p *Parser) expectPeekName() *ast.Name {
	if !isNameToken(p.peekToken.Type) {
		p.failAt(p.peekToken, "a name")
	}
	p.nextToken()
	return p.parseName()
}

// parseQualifiedName parses [schema.]name starting on the first name.
func (p *Parser) parseQualifiedName() *ast.QualifiedName {
	first := p.parseName()
	if p.peekTokenIs(token.DOT) {
		p.nextToken()
		return &ast.QualifiedName{Schema: first, Name: p.expectPeekName()}
	}
	return &ast.QualifiedName{Name: first}
}

// expectPeekQualifiedName advances and parses [schema.]name.
func (p *Parser) expectPeekQualifiedName() *ast.QualifiedName {
	if !isNameToken(p.peekToken.Type) {
		p.failAt(p.peekToken, "a name")
	}
	p.nextToken()
	return p.parseQualifiedName()
}

// parseNameList parses ( name, ... ) starting on the opening parenthesis
// and ending on the closing one.
func (p *Parser) parseNameList() []*ast.Name {
	p.expectCur(token.LPAREN)
	names := []*ast.Name{p.expectPeekName()}
	for p.acceptPeek(token.COMMA) {
		names = append(names, p.expectPeekName())
	}
	p.expectPeek(token.RPAREN)
	return names
}

// parseIfNotExists consumes IF NOT EXISTS when it follows the current token.
func (p *Parser) parseIfNotExists() bool {
	if p.peekTokenIs(token.IF) && p.peekAtIs(2, token.NOT) && p.peekAtIs(3, token.EXISTS) {
		p.nextToken()
		p.nextToken()
		p.nextToken()
		return true
	}
	return false
}

// parseIfExists consumes IF EXISTS when it follows the current token.
func (p *Parser) parseIfExists() bool {
	if p.peekTokenIs(token.IF) && p.peekAtIs(2, token.EXISTS) {
		p.nextToken()
		p.nextToken()
		return true
	}
	return false
}

// parseSignedNumber parses [+|-] NUMBER starting on the sign or number.
func (p *Parser) parseSignedNumber() *ast.SignedNumber {
	sn := &ast.SignedNumber{Token: p.curToken}
	if p.curTokenIs(token.PLUS) || p.curTokenIs(token.MINUS) {
		sn.Sign = p.curToken.Literal
		p.nextToken()
	}
	p.expectCur(token.NUMBER)
	sn.Value = p.curToken.Literal
	return sn
}

// -----------------------------------------------------------------------------
// Aliases and clause keywords
// -----------------------------------------------------------------------------

// clauseKeywords end an expression or a table source. They are never taken
// as an implicit alias, and outside a function call they never start a
// column reference.
var clauseKeywords = map[token.Type]bool{
	token.AND:       true,
	token.AS:        true,
	token.ASC:       true,
	token.BEGIN:     true,
	token.BETWEEN:   true,
	token.COLLATE:   true,
	token.CROSS:     true,
	token.DEFAULT:   true,
	token.DESC:      true,
	token.ELSE:      true,
	token.END:       true,
	token.ESCAPE:    true,
	token.EXCEPT:    true,
	token.FROM:      true,
	token.GLOB:      true,
	token.GROUP:     true,
	token.HAVING:    true,
	token.IN:        true,
	token.INDEXED:   true,
	token.INNER:     true,
	token.INTERSECT: true,
	token.INTO:      true,
	token.IS:        true,
	token.ISNULL:    true,
	token.JOIN:      true,
	token.LEFT:      true,
	token.LIKE:      true,
	token.LIMIT:     true,
	token.MATCH:     true,
	token.NATURAL:   true,
	token.NOT:       true,
	token.NOTNULL:   true,
	token.OFFSET:    true,
	token.ON:        true,
	token.OR:        true,
	token.ORDER:     true,
	token.OUTER:     true,
	token.REGEXP:    true,
	token.RETURNS:   true,
	token.SET:       true,
	token.THEN:      true,
	token.UNION:     true,
	token.USING:     true,
	token.VALUES:    true,
	token.WHEN:      true,
	token.WHERE:     true,
}

// reservedName reports whether a keyword may not stand alone as a name in
// expression or alias position.
func reservedName(t token.Type) bool {
	return clauseKeywords[t] || isStatementStart(t)
}

// peekAlias reports whether the next token can be an implicit alias.
func (p *Parser) peekAlias() bool {
	t := p.peekToken.Type
	switch {
	case t == token.IDENT, t == token.STRING:
		return true
	case t.IsKeyword():
		return !reservedName(t)
	}
	return false
}

// parseOptionalAlias parses [AS] alias after the current token.
func (p *Parser) parseOptionalAlias() *ast.Name {
	if p.acceptPeek(token.AS) {
		return p.expectPeekName()
	}
	if p.peekAlias() {
		p.nextToken()
		return p.parseName()
	}
	return nil
}
