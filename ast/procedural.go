package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

// DeclareBlock is the parameter lists, local declarations and body shared
// by procedures, procedural triggers and EXECUTE BLOCK.
type DeclareBlock struct {
	Token   token.Token
	Inputs  []*ParameterDecl
	Outputs []*ParameterDecl
	Locals  []*LocalDecl
	Body    *Body
}

func (db *DeclareBlock) TokenLiteral() string { return db.Token.Literal }
func (db *DeclareBlock) String() string {
	var out strings.Builder
	if len(db.Inputs) > 0 {
		out.WriteString("(")
		out.WriteString(joinNodes(db.Inputs, ", "))
		out.WriteString(") ")
	}
	if len(db.Outputs) > 0 {
		out.WriteString("RETURNS (")
		out.WriteString(joinNodes(db.Outputs, ", "))
		out.WriteString(") ")
	}
	out.WriteString("AS ")
	for _, l := range db.Locals {
		out.WriteString(l.String())
		out.WriteString("; ")
	}
	out.WriteString("BEGIN")
	if s := db.Body.String(); s != "" {
		out.WriteString(" ")
		out.WriteString(s)
	}
	out.WriteString(" END")
	return out.String()
}

// ParameterDecl is name datatype [NOT NULL] [COLLATE c] [(= | DEFAULT) expr].
// DefaultOp records which of = or DEFAULT introduced the default.
type ParameterDecl struct {
	Name      *Name
	Type      *Datatype
	NotNull   bool
	Collation *Name
	DefaultOp string
	Default   Expression
}

func (pd *ParameterDecl) TokenLiteral() string { return pd.Name.TokenLiteral() }
func (pd *ParameterDecl) String() string {
	var out strings.Builder
	out.WriteString(pd.Name.String())
	out.WriteString(" ")
	out.WriteString(pd.Type.String())
	if pd.NotNull {
		out.WriteString(" NOT NULL")
	}
	if pd.Collation != nil {
		out.WriteString(" COLLATE ")
		out.WriteString(pd.Collation.String())
	}
	if pd.Default != nil {
		out.WriteString(" ")
		out.WriteString(pd.DefaultOp)
		out.WriteString(" ")
		out.WriteString(pd.Default.String())
	}
	return out.String()
}

// LocalDecl is DECLARE [VARIABLE] followed by a parameter-shaped
// declaration.
type LocalDecl struct {
	Token    token.Token
	Variable bool
	Decl     *ParameterDecl
}

func (ld *LocalDecl) TokenLiteral() string { return ld.Token.Literal }
func (ld *LocalDecl) String() string {
	if ld.Variable {
		return "DECLARE VARIABLE " + ld.Decl.String()
	}
	return "DECLARE " + ld.Decl.String()
}

// Body is the content between a BEGIN and its matching END.
//
// A body is a chain of segments linked through Suffix. Each segment holds
// the tokens up to a nested BEGIN in Prefix and that block in Nested; the
// next segment starts after the nested END. Sibling blocks therefore
// lengthen the chain while only real nesting deepens it. Statements inside
// a body are not parsed; a CASE ... END expression stays inside the span
// it appears in.
//
// Token is the BEGIN keyword and End the END keyword of a block body. A
// suffix segment has neither.
type Body struct {
	Token  token.Token
	Prefix Span
	Nested *Body
	Suffix *Body
	End    token.Token
}

func (b *Body) TokenLiteral() string { return b.Token.Literal }
func (b *Body) String() string {
	var parts []string
	for seg := b; seg != nil; seg = seg.Suffix {
		if seg.Prefix.Len() > 0 {
			parts = append(parts, seg.Prefix.String())
		}
		if seg.Nested != nil {
			inner := seg.Nested.String()
			if inner == "" {
				parts = append(parts, "BEGIN END")
			} else {
				parts = append(parts, "BEGIN "+inner+" END")
			}
		}
	}
	return strings.Join(parts, " ")
}

// Segments returns the number of segments in the Suffix chain.
func (b *Body) Segments() int {
	n := 0
	for seg := b; seg != nil; seg = seg.Suffix {
		n++
	}
	return n
}

// Depth returns the BEGIN/END nesting depth below this body.
func (b *Body) Depth() int {
	d := 0
	for seg := b; seg != nil; seg = seg.Suffix {
		if seg.Nested != nil {
			if n := 1 + seg.Nested.Depth(); n > d {
				d = n
			}
		}
	}
	return d
}

// Tokens returns every token of the body in source order, including the
// BEGIN and END keywords of nested blocks.
func (b *Body) Tokens() []token.Token {
	var out []token.Token
	b.collect(&out)
	return out
}

func (b *Body) collect(out *[]token.Token) {
	for seg := b; seg != nil; seg = seg.Suffix {
		*out = append(*out, seg.Prefix.Tokens...)
		if seg.Nested != nil {
			*out = append(*out, seg.Nested.Token)
			seg.Nested.collect(out)
			*out = append(*out, seg.Nested.End)
		}
	}
}
