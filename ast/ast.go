// Package ast defines the parse tree nodes produced by the litebird parser.
//
// Every node keeps the token that introduced it. String renders a node back
// to SQL; the output is canonical rather than a copy of the source, but for
// statements SQLite understands it is accepted by SQLite.
package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

// Node represents a node in the AST.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents a statement node.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST.
type Program struct {
	Statements []Statement
	// Explains records EXPLAIN [QUERY PLAN] prefixes. They are advisory and
	// never change the shape of the statement they precede.
	Explains []*Explain
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out strings.Builder
	for i, s := range p.Statements {
		if e := p.ExplainFor(i); e != nil {
			out.WriteString(e.String())
			out.WriteString(" ")
		}
		out.WriteString(s.String())
		out.WriteString(";\n")
	}
	return out.String()
}

// ExplainFor returns the EXPLAIN marker of statement i, or nil.
func (p *Program) ExplainFor(i int) *Explain {
	for _, e := range p.Explains {
		if e.Index == i {
			return e
		}
	}
	return nil
}

// Explain marks Program.Statements[Index] as prefixed with EXPLAIN.
type Explain struct {
	Token     token.Token
	Index     int
	QueryPlan bool
}

func (e *Explain) String() string {
	if e.QueryPlan {
		return "EXPLAIN QUERY PLAN"
	}
	return "EXPLAIN"
}

// -----------------------------------------------------------------------------
// Names
// -----------------------------------------------------------------------------

// Name is the result of any_name: a bare identifier, a quoted identifier, a
// keyword or a string literal used as a name. Value is the canonical name,
// Raw the lexeme as written.
type Name struct {
	Token token.Token
	Value string
	Raw   string
}

func (n *Name) TokenLiteral() string { return n.Token.Literal }
func (n *Name) String() string {
	if n == nil {
		return ""
	}
	if n.Raw != "" {
		return n.Raw
	}
	return n.Value
}

// EqualFold reports whether the name matches s, ignoring case.
func (n *Name) EqualFold(s string) bool {
	return n != nil && strings.EqualFold(n.Value, s)
}

// QualifiedName is an optionally schema-qualified object name.
type QualifiedName struct {
	Schema *Name
	Name   *Name
}

func (q *QualifiedName) TokenLiteral() string {
	if q.Schema != nil {
		return q.Schema.TokenLiteral()
	}
	return q.Name.TokenLiteral()
}

func (q *QualifiedName) String() string {
	if q.Schema != nil {
		return q.Schema.String() + "." + q.Name.String()
	}
	return q.Name.String()
}

// -----------------------------------------------------------------------------
// Opaque spans
// -----------------------------------------------------------------------------

// Span is a contiguous run of tokens kept without further structure.
type Span struct {
	Tokens []token.Token
}

// Len returns the number of tokens in the span.
func (s Span) Len() int { return len(s.Tokens) }

// Pos returns the position of the first token, or the zero Position.
func (s Span) Pos() token.Position {
	if len(s.Tokens) == 0 {
		return token.Position{}
	}
	return s.Tokens[0].Pos()
}

func (s Span) String() string {
	var out strings.Builder
	for i, t := range s.Tokens {
		if i > 0 && needsSpace(s.Tokens[i-1], t) {
			out.WriteString(" ")
		}
		out.WriteString(t.Raw)
	}
	return out.String()
}

// needsSpace keeps tokens that were glued in the source glued in the output.
func needsSpace(prev, cur token.Token) bool {
	if prev.Offset+len(prev.Raw) == cur.Offset {
		return false
	}
	return true
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func joinExprs(exprs []Expression) string {
	return joinNodes(exprs, ", ")
}
