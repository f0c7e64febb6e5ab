package parser

import (
	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// -----------------------------------------------------------------------------
// Procedures and EXECUTE BLOCK
// -----------------------------------------------------------------------------

// parseProcedureStatement parses {CREATE|ALTER|RECREATE|CREATE OR ALTER}
// PROCEDURE name followed by a declare block.
func (p *Parser) parseProcedureStatement() *ast.CreateProcedureStatement {
	defer p.enter("procedure_stmt")()

	stmt := &ast.CreateProcedureStatement{Token: p.curToken}
	p.body = bodyExpected
	switch p.curToken.Type {
	case token.CREATE:
		stmt.Mode = ast.CreateProcedure
		if p.acceptPeek(token.OR) {
			p.expectPeek(token.ALTER)
			stmt.Mode = ast.CreateOrAlterProcedure
		}
	case token.ALTER:
		stmt.Mode = ast.AlterProcedure
	case token.RECREATE:
		stmt.Mode = ast.RecreateProcedure
	}
	p.expectPeek(token.PROCEDURE)
	stmt.Name = p.expectPeekName()
	p.nextToken()
	stmt.Block = p.parseDeclareBlock()
	return stmt
}

func (p *Parser) parseExecuteBlockStatement() *ast.ExecuteBlockStatement {
	defer p.enter("execute_block_stmt")()

	stmt := &ast.ExecuteBlockStatement{Token: p.curToken}
	p.body = bodyExpected
	p.expectPeek(token.BLOCK)
	p.nextToken()
	stmt.Block = p.parseDeclareBlock()
	return stmt
}

// -----------------------------------------------------------------------------
// Declare blocks
// -----------------------------------------------------------------------------

// parseDeclareBlock parses [(inputs)] [RETURNS (outputs)] AS {DECLARE ...;}
// BEGIN body END. It starts on the opening parenthesis, RETURNS or AS and
// ends on the closing END.
func (p *Parser) parseDeclareBlock() *ast.DeclareBlock {
	defer p.enter("declare_block")()

	block := &ast.DeclareBlock{Token: p.curToken}
	if p.curTokenIs(token.LPAREN) {
		block.Inputs = p.parseParameterList()
		p.nextToken()
	}
	if p.curTokenIs(token.RETURNS) {
		p.expectPeek(token.LPAREN)
		block.Outputs = p.parseParameterList()
		p.nextToken()
	}
	p.expectCur(token.AS)
	p.body = bodyLocals

	for p.acceptPeek(token.DECLARE) {
		block.Locals = append(block.Locals, p.parseLocalDecl())
		p.expectPeek(token.SEMICOLON)
	}

	p.expectPeek(token.BEGIN)
	p.body = bodyNone
	block.Body = p.parseBody()
	return block
}

// parseParameterList parses ( param, ... ) starting on the opening
// parenthesis. An empty list is allowed.
func (p *Parser) parseParameterList() []*ast.ParameterDecl {
	params := []*ast.ParameterDecl{}
	if p.acceptPeek(token.RPAREN) {
		return params
	}
	for {
		p.nextToken()
		params = append(params, p.parseParameterDecl())
		if !p.acceptPeek(token.COMMA) {
			break
		}
	}
	p.expectPeek(token.RPAREN)
	return params
}

// parseParameterDecl parses name datatype [NOT NULL] [COLLATE name]
// [{= | DEFAULT} expr].
func (p *Parser) parseParameterDecl() *ast.ParameterDecl {
	pd := &ast.ParameterDecl{Name: p.parseName()}
	if !isDatatypeStart(p.peekToken.Type) {
		p.failAt(p.peekToken, "a datatype")
	}
	p.nextToken()
	pd.Type = p.parseDatatype()

	if p.peekTokenIs(token.NOT) && p.peekAtIs(2, token.NULL) {
		p.nextToken()
		p.nextToken()
		pd.NotNull = true
	}
	if p.acceptPeek(token.COLLATE) {
		pd.Collation = p.expectPeekName()
	}
	switch {
	case p.acceptPeek(token.EQ):
		pd.DefaultOp = "="
		pd.Default = p.expectPeekExpression()
	case p.acceptPeek(token.DEFAULT):
		pd.DefaultOp = "DEFAULT"
		pd.Default = p.expectPeekExpression()
	}
	return pd
}

// parseLocalDecl parses DECLARE [VARIABLE] name datatype ... starting on
// DECLARE. VARIABLE is the keyword unless it is itself the variable name,
// which shows as a datatype directly after it.
func (p *Parser) parseLocalDecl() *ast.LocalDecl {
	ld := &ast.LocalDecl{Token: p.curToken}
	if p.peekTokenIs(token.VARIABLE) &&
		(isDatatypeStart(p.peekAt(3).Type) || !isDatatypeStart(p.peekAt(2).Type)) {
		p.nextToken()
		ld.Variable = true
	}
	p.nextToken()
	ld.Decl = p.parseParameterDecl()
	return ld
}

// -----------------------------------------------------------------------------
// Bodies
// -----------------------------------------------------------------------------

// parseBody parses a BEGIN ... END block whose content is kept as tokens.
// It starts on BEGIN and ends on the matching END.
func (p *Parser) parseBody() *ast.Body {
	defer p.enter("body")()

	body := &ast.Body{Token: p.curToken}
	p.parseBodyContent(body)
	body.End = p.curToken
	return body
}

// parseBodyContent collects tokens into b up to the END that closes it.
// CASE ... END pairs are kept inside the span. Each nested BEGIN fills the
// Nested slot of the current segment; content after its END starts a new
// segment linked through Suffix.
func (p *Parser) parseBodyContent(b *ast.Body) {
	seg := b
	cases := 0
	for {
		p.nextToken()
		switch p.curToken.Type {
		case token.EOF:
			p.fail("END")
		case token.CASE:
			cases++
		case token.END:
			if cases == 0 {
				return
			}
			cases--
		case token.BEGIN:
			if seg.Nested != nil {
				seg = nextSegment(seg)
			}
			seg.Nested = p.parseBody()
			continue
		}
		if seg.Nested != nil {
			seg = nextSegment(seg)
		}
		seg.Prefix.Tokens = append(seg.Prefix.Tokens, p.curToken)
	}
}

func nextSegment(seg *ast.Body) *ast.Body {
	seg.Suffix = &ast.Body{}
	return seg.Suffix
}
