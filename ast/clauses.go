package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

// -----------------------------------------------------------------------------
// SELECT
// -----------------------------------------------------------------------------

// SelectForm classifies a select statement.
type SelectForm int

const (
	SimpleSelect   SelectForm = iota // a single select core
	CompoundSelect                   // cores joined by UNION/INTERSECT/EXCEPT
	FactoredSelect                   // introduced by a WITH clause
)

func (f SelectForm) String() string {
	switch f {
	case CompoundSelect:
		return "compound"
	case FactoredSelect:
		return "factored"
	}
	return "simple"
}

// SelectStatement is a full select: an optional WITH clause, one or more
// cores, and an ORDER BY and LIMIT that apply to the whole result.
type SelectStatement struct {
	Token   token.Token
	Form    SelectForm
	With    *WithClause
	Cores   []*SelectCore
	OrderBy []*OrderingTerm
	Limit   *LimitClause
}

func (ss *SelectStatement) statementNode()       {}
func (ss *SelectStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SelectStatement) String() string {
	var out strings.Builder
	if ss.With != nil {
		out.WriteString(ss.With.String())
		out.WriteString(" ")
	}
	for i, c := range ss.Cores {
		if i > 0 {
			out.WriteString(" ")
			out.WriteString(c.Compound)
			out.WriteString(" ")
		}
		out.WriteString(c.String())
	}
	writeOrderLimit(&out, ss.OrderBy, ss.Limit)
	return out.String()
}

func writeOrderLimit(out *strings.Builder, orderBy []*OrderingTerm, limit *LimitClause) {
	if len(orderBy) > 0 {
		out.WriteString(" ORDER BY ")
		out.WriteString(joinNodes(orderBy, ", "))
	}
	if limit != nil {
		out.WriteString(" ")
		out.WriteString(limit.String())
	}
}

// SelectCore is either a SELECT shape or a VALUES shape. Compound holds the
// operator that joins this core to the previous one ("UNION", "UNION ALL",
// "INTERSECT" or "EXCEPT"); it is empty for the first core.
type SelectCore struct {
	Token    token.Token
	Compound string

	Values [][]Expression

	Distinct bool
	All      bool
	Columns  []*ResultColumn
	From     *FromClause
	Where    Expression
	GroupBy  []Expression
	Having   Expression
}

// IsValues reports whether the core is a VALUES list.
func (sc *SelectCore) IsValues() bool { return sc.Token.Type == token.VALUES }

func (sc *SelectCore) TokenLiteral() string { return sc.Token.Literal }
func (sc *SelectCore) String() string {
	if sc.IsValues() {
		return "VALUES " + formatTuples(sc.Values)
	}
	var out strings.Builder
	out.WriteString("SELECT ")
	if sc.Distinct {
		out.WriteString("DISTINCT ")
	} else if sc.All {
		out.WriteString("ALL ")
	}
	out.WriteString(joinNodes(sc.Columns, ", "))
	if sc.From != nil {
		out.WriteString(" FROM ")
		out.WriteString(sc.From.String())
	}
	if sc.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(sc.Where.String())
	}
	if len(sc.GroupBy) > 0 {
		out.WriteString(" GROUP BY ")
		out.WriteString(joinExprs(sc.GroupBy))
		if sc.Having != nil {
			out.WriteString(" HAVING ")
			out.WriteString(sc.Having.String())
		}
	}
	return out.String()
}

func formatTuples(rows [][]Expression) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = "(" + joinExprs(row) + ")"
	}
	return strings.Join(parts, ", ")
}

// ResultColumn is *, table.* or expr [[AS] alias].
type ResultColumn struct {
	Token token.Token
	Star  bool
	Table *Name
	Expr  Expression
	Alias *Name
}

func (rc *ResultColumn) TokenLiteral() string { return rc.Token.Literal }
func (rc *ResultColumn) String() string {
	switch {
	case rc.Star && rc.Table != nil:
		return rc.Table.String() + ".*"
	case rc.Star:
		return "*"
	case rc.Alias != nil:
		return rc.Expr.String() + " AS " + rc.Alias.String()
	}
	return rc.Expr.String()
}

// FromClause holds either a comma separated source list or a join clause.
type FromClause struct {
	Token  token.Token
	Tables []TableOrSubquery
	Join   *JoinClause
}

func (fc *FromClause) TokenLiteral() string { return fc.Token.Literal }
func (fc *FromClause) String() string {
	if fc.Join != nil {
		return fc.Join.String()
	}
	return joinNodes(fc.Tables, ", ")
}

// -----------------------------------------------------------------------------
// Sources and joins
// -----------------------------------------------------------------------------

// TableOrSubquery is a row source in a FROM clause.
type TableOrSubquery interface {
	Node
	sourceNode()
}

// TableName is [schema.]table [[AS] alias] [INDEXED BY name | NOT INDEXED].
// It also serves as qualified_table_name in UPDATE and DELETE.
type TableName struct {
	Token      token.Token
	Schema     *Name
	Name       *Name
	Alias      *Name
	IndexedBy  *Name
	NotIndexed bool
}

func (tn *TableName) sourceNode()          {}
func (tn *TableName) TokenLiteral() string { return tn.Token.Literal }
func (tn *TableName) String() string {
	var out strings.Builder
	if tn.Schema != nil {
		out.WriteString(tn.Schema.String())
		out.WriteString(".")
	}
	out.WriteString(tn.Name.String())
	if tn.Alias != nil {
		out.WriteString(" AS ")
		out.WriteString(tn.Alias.String())
	}
	if tn.IndexedBy != nil {
		out.WriteString(" INDEXED BY ")
		out.WriteString(tn.IndexedBy.String())
	} else if tn.NotIndexed {
		out.WriteString(" NOT INDEXED")
	}
	return out.String()
}

// SubquerySource is ( select ) [[AS] alias].
type SubquerySource struct {
	Token  token.Token
	Select *SelectStatement
	Alias  *Name
}

func (ss *SubquerySource) sourceNode()          {}
func (ss *SubquerySource) TokenLiteral() string { return ss.Token.Literal }
func (ss *SubquerySource) String() string {
	if ss.Alias != nil {
		return "(" + ss.Select.String() + ") AS " + ss.Alias.String()
	}
	return "(" + ss.Select.String() + ")"
}

// ParenSource is a parenthesised source list or join clause.
type ParenSource struct {
	Token  token.Token
	Tables []TableOrSubquery
	Join   *JoinClause
}

func (ps *ParenSource) sourceNode()          {}
func (ps *ParenSource) TokenLiteral() string { return ps.Token.Literal }
func (ps *ParenSource) String() string {
	if ps.Join != nil {
		return "(" + ps.Join.String() + ")"
	}
	return "(" + joinNodes(ps.Tables, ", ") + ")"
}

// JoinClause is a source followed by zero or more joined sources.
type JoinClause struct {
	Token token.Token
	Left  TableOrSubquery
	Joins []*Join
}

func (jc *JoinClause) TokenLiteral() string { return jc.Token.Literal }
func (jc *JoinClause) String() string {
	var out strings.Builder
	out.WriteString(jc.Left.String())
	for _, j := range jc.Joins {
		if j.Operator.Comma {
			out.WriteString(", ")
		} else {
			out.WriteString(" ")
			out.WriteString(j.Operator.String())
			out.WriteString(" ")
		}
		out.WriteString(j.Right.String())
		if j.Constraint != nil {
			out.WriteString(" ")
			out.WriteString(j.Constraint.String())
		}
	}
	return out.String()
}

// Join is one (join_operator, table_or_subquery, join_constraint) triple.
type Join struct {
	Operator   *JoinOperator
	Right      TableOrSubquery
	Constraint *JoinConstraint
}

// JoinOperator is "," or [NATURAL] [LEFT [OUTER] | INNER | CROSS] JOIN.
// Kind is "", "LEFT", "LEFT OUTER", "INNER" or "CROSS".
type JoinOperator struct {
	Token   token.Token
	Comma   bool
	Natural bool
	Kind    string
}

func (jo *JoinOperator) TokenLiteral() string { return jo.Token.Literal }
func (jo *JoinOperator) String() string {
	if jo.Comma {
		return ","
	}
	var out strings.Builder
	if jo.Natural {
		out.WriteString("NATURAL ")
	}
	if jo.Kind != "" {
		out.WriteString(jo.Kind)
		out.WriteString(" ")
	}
	out.WriteString("JOIN")
	return out.String()
}

// JoinConstraint is ON expr or USING (columns).
type JoinConstraint struct {
	Token token.Token
	On    Expression
	Using []*Name
}

func (jc *JoinConstraint) TokenLiteral() string { return jc.Token.Literal }
func (jc *JoinConstraint) String() string {
	if jc.On != nil {
		return "ON " + jc.On.String()
	}
	return "USING (" + joinNodes(jc.Using, ", ") + ")"
}

// -----------------------------------------------------------------------------
// ORDER BY, LIMIT, WITH
// -----------------------------------------------------------------------------

// OrderingTerm is expr [COLLATE name] [ASC|DESC].
type OrderingTerm struct {
	Token     token.Token
	Expr      Expression
	Collation *Name
	Direction string
}

func (ot *OrderingTerm) TokenLiteral() string { return ot.Token.Literal }
func (ot *OrderingTerm) String() string {
	s := ot.Expr.String()
	if ot.Collation != nil {
		s += " COLLATE " + ot.Collation.String()
	}
	if ot.Direction != "" {
		s += " " + ot.Direction
	}
	return s
}

// LimitClause is LIMIT n [OFFSET m] or LIMIT m, n. Offset always holds the
// offset expression; Comma records that the short form was written.
type LimitClause struct {
	Token  token.Token
	Limit  Expression
	Offset Expression
	Comma  bool
}

func (lc *LimitClause) TokenLiteral() string { return lc.Token.Literal }
func (lc *LimitClause) String() string {
	switch {
	case lc.Offset == nil:
		return "LIMIT " + lc.Limit.String()
	case lc.Comma:
		return "LIMIT " + lc.Offset.String() + ", " + lc.Limit.String()
	}
	return "LIMIT " + lc.Limit.String() + " OFFSET " + lc.Offset.String()
}

// WithClause is WITH [RECURSIVE] cte, ...
type WithClause struct {
	Token     token.Token
	Recursive bool
	CTEs      []*CommonTableExpression
}

func (wc *WithClause) TokenLiteral() string { return wc.Token.Literal }
func (wc *WithClause) String() string {
	head := "WITH "
	if wc.Recursive {
		head = "WITH RECURSIVE "
	}
	return head + joinNodes(wc.CTEs, ", ")
}

// CommonTableExpression is name [(columns)] AS (select).
type CommonTableExpression struct {
	Token   token.Token
	Name    *Name
	Columns []*Name
	Select  *SelectStatement
}

func (cte *CommonTableExpression) TokenLiteral() string { return cte.Token.Literal }
func (cte *CommonTableExpression) String() string {
	var out strings.Builder
	out.WriteString(cte.Name.String())
	if len(cte.Columns) > 0 {
		out.WriteString("(")
		out.WriteString(joinNodes(cte.Columns, ", "))
		out.WriteString(")")
	}
	out.WriteString(" AS (")
	out.WriteString(cte.Select.String())
	out.WriteString(")")
	return out.String()
}
