package parser

import (
	"strconv"
	"strings"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/token"
)

// -----------------------------------------------------------------------------
// SQLite type names
// -----------------------------------------------------------------------------

// typeNameStops are keywords that end a type name in a column definition.
var typeNameStops = map[token.Type]bool{
	token.AS:         true,
	token.CHECK:      true,
	token.COLLATE:    true,
	token.CONSTRAINT: true,
	token.DEFAULT:    true,
	token.NOT:        true,
	token.NULL:       true,
	token.PRIMARY:    true,
	token.REFERENCES: true,
	token.UNIQUE:     true,
}

func isTypeWord(t token.Type) bool {
	if t == token.IDENT || t == token.STRING {
		return true
	}
	return t.IsKeyword() && !typeNameStops[t]
}

// parseTypeName parses type_name: name words, an optional argument list of
// one or two signed numbers, then modifier words.
func (p *Parser) parseTypeName() *ast.TypeName {
	if !isTypeWord(p.curToken.Type) {
		p.fail("a type name")
	}
	tn := &ast.TypeName{Token: p.curToken}
	tn.Names = append(tn.Names, p.parseName())
	for isTypeWord(p.peekToken.Type) {
		p.nextToken()
		tn.Names = append(tn.Names, p.parseName())
	}

	if !p.acceptPeek(token.LPAREN) {
		return tn
	}
	p.nextToken()
	tn.Args = append(tn.Args, p.parseSignedNumber())
	if p.acceptPeek(token.COMMA) {
		p.nextToken()
		tn.Args = append(tn.Args, p.parseSignedNumber())
	}
	p.expectPeek(token.RPAREN)

	for isTypeWord(p.peekToken.Type) {
		p.nextToken()
		tn.Modifiers = append(tn.Modifiers, p.parseName())
	}
	return tn
}

// -----------------------------------------------------------------------------
// Procedural datatypes
// -----------------------------------------------------------------------------

func isDatatypeStart(t token.Type) bool {
	switch t {
	case token.SMALLINT, token.INTEGER, token.INT, token.BIGINT,
		token.FLOAT, token.DOUBLE,
		token.DATE, token.TIME, token.TIMESTAMP,
		token.DECIMAL, token.NUMERIC,
		token.CHAR, token.CHARACTER, token.VARCHAR,
		token.NATIONAL, token.NCHAR,
		token.BLOB:
		return true
	}
	return false
}

// parseDatatype parses a parameter or variable type, including optional
// array bounds. It starts on the first keyword and ends on the last token.
func (p *Parser) parseDatatype() *ast.Datatype {
	defer p.enter("datatype")()

	dt := &ast.Datatype{Token: p.curToken, Name: strings.ToUpper(p.curToken.Literal)}
	switch p.curToken.Type {
	case token.SMALLINT, token.INTEGER, token.INT, token.BIGINT:
		dt.Family = ast.IntegerFamily
	case token.FLOAT:
		dt.Family = ast.FloatFamily
	case token.DOUBLE:
		dt.Family = ast.FloatFamily
		p.expectPeek(token.PRECISION)
		dt.Name = "DOUBLE PRECISION"
	case token.DATE, token.TIME, token.TIMESTAMP:
		dt.Family = ast.DateTimeFamily
	case token.DECIMAL, token.NUMERIC:
		dt.Family = ast.DecimalFamily
		dt.Args = p.parseDatatypeArgs(2)
	case token.CHAR, token.CHARACTER:
		dt.Family = ast.CharFamily
		if p.curTokenIs(token.CHARACTER) && p.acceptPeek(token.VARYING) {
			dt.Name = "CHARACTER VARYING"
		}
		dt.Args = p.parseDatatypeArgs(1)
		dt.CharSet = p.parseCharacterSet()
	case token.VARCHAR:
		dt.Family = ast.VarcharFamily
		dt.Args = p.parseDatatypeArgs(1)
		dt.CharSet = p.parseCharacterSet()
	case token.NATIONAL:
		dt.Family = ast.NationalFamily
		if !p.peekTokenIs(token.CHAR) && !p.peekTokenIs(token.CHARACTER) {
			p.failAt(p.peekToken, "CHAR or CHARACTER")
		}
		p.nextToken()
		dt.Name = "NATIONAL " + strings.ToUpper(p.curToken.Literal)
		if p.acceptPeek(token.VARYING) {
			dt.Name += " VARYING"
		}
		dt.Args = p.parseDatatypeArgs(1)
	case token.NCHAR:
		dt.Family = ast.NationalFamily
		if p.acceptPeek(token.VARYING) {
			dt.Name = "NCHAR VARYING"
		}
		dt.Args = p.parseDatatypeArgs(1)
	case token.BLOB:
		dt.Family = ast.BlobFamily
		p.parseBlobOptions(dt)
	default:
		p.fail("a datatype")
	}

	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		dt.Dims = p.parseArrayDims()
	}
	return dt
}

// parseDatatypeArgs parses an optional ( n [, m] ) list of at most limit
// unsigned integers.
func (p *Parser) parseDatatypeArgs(limit int) []string {
	if !p.acceptPeek(token.LPAREN) {
		return nil
	}
	p.expectPeek(token.NUMBER)
	args := []string{p.curToken.Literal}
	for len(args) < limit && p.acceptPeek(token.COMMA) {
		p.expectPeek(token.NUMBER)
		args = append(args, p.curToken.Literal)
	}
	p.expectPeek(token.RPAREN)
	return args
}

// parseCharacterSet parses an optional CHARACTER SET name.
func (p *Parser) parseCharacterSet() *ast.Name {
	if !p.peekTokenIs(token.CHARACTER) || !p.peekAtIs(2, token.SET) {
		return nil
	}
	p.nextToken()
	p.nextToken()
	return p.expectPeekName()
}

// parseBlobOptions parses either BLOB(segment[, subtype]) or any of
// SUB_TYPE, SEGMENT SIZE and CHARACTER SET in any order.
func (p *Parser) parseBlobOptions(dt *ast.Datatype) {
	if p.peekTokenIs(token.LPAREN) {
		dt.Args = p.parseDatatypeArgs(2)
		return
	}
	for {
		switch {
		case p.acceptPeek(token.SUB_TYPE):
			p.nextToken()
			if p.curTokenIs(token.NUMBER) {
				dt.SubType = &ast.Name{Token: p.curToken, Value: p.curToken.Literal, Raw: p.curToken.Raw}
			} else {
				dt.SubType = p.parseName()
			}
		case p.peekTokenIs(token.SEGMENT):
			p.nextToken()
			p.expectPeek(token.SIZE)
			p.expectPeek(token.NUMBER)
			dt.SegmentSize = p.curToken.Literal
		case p.peekTokenIs(token.CHARACTER) && p.peekAtIs(2, token.SET):
			dt.CharSet = p.parseCharacterSet()
		default:
			return
		}
	}
}

// parseArrayDims parses [ [low:]high, ... ] starting on the opening bracket.
func (p *Parser) parseArrayDims() []*ast.ArrayDim {
	defer p.enter("array_dims")()

	var dims []*ast.ArrayDim
	for {
		p.nextToken()
		dim := &ast.ArrayDim{Token: p.curToken}
		first := p.parseArrayBound()
		if p.acceptPeek(token.COLON) {
			p.nextToken()
			dim.Low = &first
			dim.High = p.parseArrayBound()
		} else {
			dim.High = first
		}
		dims = append(dims, dim)
		if !p.acceptPeek(token.COMMA) {
			break
		}
	}
	p.expectPeek(token.RBRACKET)
	return dims
}

// parseArrayBound parses an optionally negative integer bound.
func (p *Parser) parseArrayBound() int {
	neg := false
	if p.curTokenIs(token.MINUS) {
		neg = true
		p.nextToken()
	}
	p.expectCur(token.NUMBER)
	lit := p.curToken.Literal
	if strings.IndexFunc(lit, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		p.failf(p.curToken, "array bound %s is not an integer", lit)
	}
	n, err := strconv.Atoi(lit)
	if err != nil {
		p.failf(p.curToken, "array bound %s out of range", lit)
	}
	if neg {
		n = -n
	}
	return n
}
