package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

// InsertStatement is INSERT [OR action] | REPLACE INTO table [(columns)]
// followed by VALUES tuples, a select, or DEFAULT VALUES.
type InsertStatement struct {
	Token         token.Token
	With          *WithClause
	Replace       bool   // statement starts with REPLACE
	OrAction      string // INSERT OR {REPLACE|ROLLBACK|ABORT|FAIL|IGNORE}
	Table         *QualifiedName
	Alias         *Name
	Columns       []*Name
	Values        [][]Expression
	Select        *SelectStatement
	DefaultValues bool
}

func (s *InsertStatement) statementNode()       {}
func (s *InsertStatement) TokenLiteral() string { return s.Token.Literal }
func (s *InsertStatement) String() string {
	var out strings.Builder
	if s.With != nil {
		out.WriteString(s.With.String())
		out.WriteString(" ")
	}
	switch {
	case s.Replace:
		out.WriteString("REPLACE")
	case s.OrAction != "":
		out.WriteString("INSERT OR ")
		out.WriteString(s.OrAction)
	default:
		out.WriteString("INSERT")
	}
	out.WriteString(" INTO ")
	out.WriteString(s.Table.String())
	if s.Alias != nil {
		out.WriteString(" AS ")
		out.WriteString(s.Alias.String())
	}
	if len(s.Columns) > 0 {
		out.WriteString(" (")
		out.WriteString(joinNodes(s.Columns, ", "))
		out.WriteString(")")
	}
	switch {
	case s.DefaultValues:
		out.WriteString(" DEFAULT VALUES")
	case s.Select != nil:
		out.WriteString(" ")
		out.WriteString(s.Select.String())
	default:
		out.WriteString(" VALUES ")
		out.WriteString(formatTuples(s.Values))
	}
	return out.String()
}

// SetClause is column = expr in an UPDATE.
type SetClause struct {
	Column *Name
	Value  Expression
}

func (sc *SetClause) TokenLiteral() string { return sc.Column.TokenLiteral() }
func (sc *SetClause) String() string       { return sc.Column.String() + " = " + sc.Value.String() }

// UpdateStatement is UPDATE [OR action] qualified_table_name SET ... with
// an optional WHERE. Limited is set when ORDER BY or LIMIT is present.
type UpdateStatement struct {
	Token    token.Token
	With     *WithClause
	OrAction string
	Table    *TableName
	Set      []*SetClause
	Where    Expression
	OrderBy  []*OrderingTerm
	Limit    *LimitClause
	Limited  bool
}

func (s *UpdateStatement) statementNode()       {}
func (s *UpdateStatement) TokenLiteral() string { return s.Token.Literal }
func (s *UpdateStatement) String() string {
	var out strings.Builder
	if s.With != nil {
		out.WriteString(s.With.String())
		out.WriteString(" ")
	}
	out.WriteString("UPDATE ")
	if s.OrAction != "" {
		out.WriteString("OR ")
		out.WriteString(s.OrAction)
		out.WriteString(" ")
	}
	out.WriteString(s.Table.String())
	out.WriteString(" SET ")
	out.WriteString(joinNodes(s.Set, ", "))
	if s.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(s.Where.String())
	}
	writeOrderLimit(&out, s.OrderBy, s.Limit)
	return out.String()
}

// DeleteStatement is DELETE FROM qualified_table_name [WHERE expr].
// Limited is set when ORDER BY or LIMIT is present.
type DeleteStatement struct {
	Token   token.Token
	With    *WithClause
	Table   *TableName
	Where   Expression
	OrderBy []*OrderingTerm
	Limit   *LimitClause
	Limited bool
}

func (s *DeleteStatement) statementNode()       {}
func (s *DeleteStatement) TokenLiteral() string { return s.Token.Literal }
func (s *DeleteStatement) String() string {
	var out strings.Builder
	if s.With != nil {
		out.WriteString(s.With.String())
		out.WriteString(" ")
	}
	out.WriteString("DELETE FROM ")
	out.WriteString(s.Table.String())
	if s.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(s.Where.String())
	}
	writeOrderLimit(&out, s.OrderBy, s.Limit)
	return out.String()
}
