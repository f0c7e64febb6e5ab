package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// LiteralKind classifies a Literal.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BlobLiteral
	NullLiteral
	CurrentTimeLiteral
	CurrentDateLiteral
	CurrentTimestampLiteral
)

// Literal represents literal_value. Value holds the canonical text (a string
// without quotes, a blob as hex digits).
type Literal struct {
	Token token.Token
	Kind  LiteralKind
	Value string
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) String() string {
	switch l.Kind {
	case StringLiteral:
		return QuoteString(l.Value)
	case BlobLiteral:
		return "X'" + l.Value + "'"
	case NullLiteral:
		return "NULL"
	case CurrentTimeLiteral:
		return "CURRENT_TIME"
	case CurrentDateLiteral:
		return "CURRENT_DATE"
	case CurrentTimestampLiteral:
		return "CURRENT_TIMESTAMP"
	}
	return l.Value
}

// QuoteString renders s as a single-quoted SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SignedNumber is a number with an optional leading + or -.
type SignedNumber struct {
	Token token.Token
	Sign  string
	Value string
}

func (sn *SignedNumber) TokenLiteral() string { return sn.Token.Literal }
func (sn *SignedNumber) String() string       { return sn.Sign + sn.Value }

// BindParameter is a ?, ?NNN, :name, @name or $name placeholder.
type BindParameter struct {
	Token token.Token
	Name  string
}

func (bp *BindParameter) expressionNode()      {}
func (bp *BindParameter) TokenLiteral() string { return bp.Token.Literal }
func (bp *BindParameter) String() string       { return bp.Name }

// ColumnRef is [[schema.]table.]column.
type ColumnRef struct {
	Token  token.Token
	Schema *Name
	Table  *Name
	Column *Name
}

func (c *ColumnRef) expressionNode()      {}
func (c *ColumnRef) TokenLiteral() string { return c.Token.Literal }
func (c *ColumnRef) String() string {
	var out strings.Builder
	if c.Schema != nil {
		out.WriteString(c.Schema.String())
		out.WriteString(".")
	}
	if c.Table != nil {
		out.WriteString(c.Table.String())
		out.WriteString(".")
	}
	out.WriteString(c.Column.String())
	return out.String()
}

// -----------------------------------------------------------------------------
// Operators
// -----------------------------------------------------------------------------

// UnaryExpression is a prefix -, +, ~ or NOT.
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) String() string {
	return "(" + ue.Operator + " " + ue.Right.String() + ")"
}

// Binary operator levels, from tightest to loosest binding.
const (
	LevelConcat     = 2 // ||
	LevelMultiply   = 3 // * / %
	LevelAdd        = 4 // + -
	LevelBitwise    = 5 // << >> & |
	LevelComparison = 6 // < <= > >=
	LevelEquality   = 7 // = == != <> IS [NOT] IN LIKE GLOB MATCH REGEXP
	LevelAnd        = 8
	LevelOr         = 9
)

// BinaryExpression is a two-operand operator application. Level records the
// operator's binding level as one of the Level constants.
type BinaryExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
	Level    int
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// CollateExpression is expr COLLATE name.
type CollateExpression struct {
	Token     token.Token
	Expr      Expression
	Collation *Name
}

func (ce *CollateExpression) expressionNode()      {}
func (ce *CollateExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CollateExpression) String() string {
	return ce.Expr.String() + " COLLATE " + ce.Collation.String()
}

// BetweenExpression is expr [NOT] BETWEEN low AND high.
type BetweenExpression struct {
	Token token.Token
	Expr  Expression
	Not   bool
	Low   Expression
	High  Expression
}

func (be *BetweenExpression) expressionNode()      {}
func (be *BetweenExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BetweenExpression) String() string {
	not := ""
	if be.Not {
		not = "NOT "
	}
	return "(" + be.Expr.String() + " " + not + "BETWEEN " + be.Low.String() + " AND " + be.High.String() + ")"
}

// InExpression is expr [NOT] IN followed by a subquery, a parenthesised
// (possibly empty) expression list, or a table name. Exactly one of
// Subquery, Table or the list form is used.
type InExpression struct {
	Token    token.Token
	Expr     Expression
	Not      bool
	Values   []Expression
	Subquery *SelectStatement
	Table    *QualifiedName
}

func (ie *InExpression) expressionNode()      {}
func (ie *InExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InExpression) String() string {
	not := ""
	if ie.Not {
		not = "NOT "
	}
	head := "(" + ie.Expr.String() + " " + not + "IN "
	switch {
	case ie.Subquery != nil:
		return head + "(" + ie.Subquery.String() + "))"
	case ie.Table != nil:
		return head + ie.Table.String() + ")"
	}
	return head + "(" + joinExprs(ie.Values) + "))"
}

// LikeExpression covers LIKE, GLOB, MATCH and REGEXP.
type LikeExpression struct {
	Token    token.Token
	Expr     Expression
	Operator string
	Not      bool
	Pattern  Expression
	Escape   Expression
}

func (le *LikeExpression) expressionNode()      {}
func (le *LikeExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LikeExpression) String() string {
	not := ""
	if le.Not {
		not = "NOT "
	}
	result := "(" + le.Expr.String() + " " + not + le.Operator + " " + le.Pattern.String()
	if le.Escape != nil {
		result += " ESCAPE " + le.Escape.String()
	}
	return result + ")"
}

// IsNullForm records which spelling produced an IsNullExpression.
type IsNullForm int

const (
	IsNullKeywords IsNullForm = iota // IS NULL, IS NOT NULL
	IsNullPostfix                    // ISNULL
	NotNullPostfix                   // NOTNULL
	NotNullKeywords                  // NOT NULL
)

// IsNullExpression is the null-test family. Not is true for the forms that
// test for a non-null value.
type IsNullExpression struct {
	Token token.Token
	Expr  Expression
	Not   bool
	Form  IsNullForm
}

func (in *IsNullExpression) expressionNode()      {}
func (in *IsNullExpression) TokenLiteral() string { return in.Token.Literal }
func (in *IsNullExpression) String() string {
	var op string
	switch in.Form {
	case IsNullPostfix:
		op = "ISNULL"
	case NotNullPostfix:
		op = "NOTNULL"
	case NotNullKeywords:
		op = "NOT NULL"
	default:
		op = "IS NULL"
		if in.Not {
			op = "IS NOT NULL"
		}
	}
	return "(" + in.Expr.String() + " " + op + ")"
}

// -----------------------------------------------------------------------------
// Primaries
// -----------------------------------------------------------------------------

// ParenExpression is a parenthesised expression.
type ParenExpression struct {
	Token token.Token
	Expr  Expression
}

func (pe *ParenExpression) expressionNode()      {}
func (pe *ParenExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *ParenExpression) String() string       { return "(" + pe.Expr.String() + ")" }

// FunctionCall is name([DISTINCT] args) or name(*).
type FunctionCall struct {
	Token    token.Token
	Name     *Name
	Distinct bool
	Star     bool
	Args     []Expression
}

func (fc *FunctionCall) expressionNode()      {}
func (fc *FunctionCall) TokenLiteral() string { return fc.Token.Literal }
func (fc *FunctionCall) String() string {
	if fc.Star {
		return fc.Name.String() + "(*)"
	}
	distinct := ""
	if fc.Distinct {
		distinct = "DISTINCT "
	}
	return fc.Name.String() + "(" + distinct + joinExprs(fc.Args) + ")"
}

// CastExpression is CAST(expr AS type_name).
type CastExpression struct {
	Token token.Token
	Expr  Expression
	Type  *TypeName
}

func (ce *CastExpression) expressionNode()      {}
func (ce *CastExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CastExpression) String() string {
	return "CAST(" + ce.Expr.String() + " AS " + ce.Type.String() + ")"
}

// ExistsExpression is [NOT] EXISTS (select).
type ExistsExpression struct {
	Token  token.Token
	Not    bool
	Select *SelectStatement
}

func (ee *ExistsExpression) expressionNode()      {}
func (ee *ExistsExpression) TokenLiteral() string { return ee.Token.Literal }
func (ee *ExistsExpression) String() string {
	if ee.Not {
		return "NOT EXISTS (" + ee.Select.String() + ")"
	}
	return "EXISTS (" + ee.Select.String() + ")"
}

// SubqueryExpression is a parenthesised select used as a scalar value.
type SubqueryExpression struct {
	Token  token.Token
	Select *SelectStatement
}

func (se *SubqueryExpression) expressionNode()      {}
func (se *SubqueryExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SubqueryExpression) String() string       { return "(" + se.Select.String() + ")" }

// CaseExpression is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
type CaseExpression struct {
	Token   token.Token
	Operand Expression
	Whens   []*WhenClause
	Else    Expression
}

// WhenClause is one WHEN condition THEN result pair.
type WhenClause struct {
	Token     token.Token
	Condition Expression
	Result    Expression
}

func (wc *WhenClause) TokenLiteral() string { return wc.Token.Literal }
func (wc *WhenClause) String() string {
	return "WHEN " + wc.Condition.String() + " THEN " + wc.Result.String()
}

func (ce *CaseExpression) expressionNode()      {}
func (ce *CaseExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CaseExpression) String() string {
	var out strings.Builder
	out.WriteString("CASE")
	if ce.Operand != nil {
		out.WriteString(" ")
		out.WriteString(ce.Operand.String())
	}
	for _, w := range ce.Whens {
		out.WriteString(" ")
		out.WriteString(w.String())
	}
	if ce.Else != nil {
		out.WriteString(" ELSE ")
		out.WriteString(ce.Else.String())
	}
	out.WriteString(" END")
	return out.String()
}

// RaiseExpression is RAISE(IGNORE) or RAISE(ROLLBACK|ABORT|FAIL, message).
type RaiseExpression struct {
	Token   token.Token
	Mode    string
	Message *Literal
}

func (re *RaiseExpression) expressionNode()      {}
func (re *RaiseExpression) TokenLiteral() string { return re.Token.Literal }
func (re *RaiseExpression) String() string {
	if re.Message == nil {
		return "RAISE(" + re.Mode + ")"
	}
	return "RAISE(" + re.Mode + ", " + re.Message.String() + ")"
}
