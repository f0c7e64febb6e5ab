package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

// ColumnDef is a column name followed by type-name and constraint
// fragments in source order. The grammar lets them interleave and repeat,
// so Parts is kept as written.
type ColumnDef struct {
	Name  *Name
	Parts []ColumnPart
}

// ColumnPart is a *TypeName or a *ColumnConstraint.
type ColumnPart interface {
	Node
	columnPart()
}

func (cd *ColumnDef) TokenLiteral() string { return cd.Name.TokenLiteral() }
func (cd *ColumnDef) String() string {
	var out strings.Builder
	out.WriteString(cd.Name.String())
	for _, p := range cd.Parts {
		out.WriteString(" ")
		out.WriteString(p.String())
	}
	return out.String()
}

// Type returns the first type name of the column, or nil.
func (cd *ColumnDef) Type() *TypeName {
	for _, p := range cd.Parts {
		if tn, ok := p.(*TypeName); ok {
			return tn
		}
	}
	return nil
}

// Constraints returns the column constraints in source order.
func (cd *ColumnDef) Constraints() []*ColumnConstraint {
	var out []*ColumnConstraint
	for _, p := range cd.Parts {
		if cc, ok := p.(*ColumnConstraint); ok {
			out = append(out, cc)
		}
	}
	return out
}

// ColumnConstraintKind identifies a column constraint.
type ColumnConstraintKind int

const (
	PrimaryKeyColumn ColumnConstraintKind = iota
	NotNullColumn
	NullColumn
	UniqueColumn
	CheckColumn
	DefaultColumn
	CollateColumn
	ReferencesColumn
)

// ColumnConstraint is [CONSTRAINT name] followed by one constraint body.
// Default holds a signed number, literal or parenthesised expression.
type ColumnConstraint struct {
	Token         token.Token
	Name          *Name
	Kind          ColumnConstraintKind
	Direction     string
	Conflict      *ConflictClause
	Autoincrement bool
	Check         Expression
	Default       Expression
	Collation     *Name
	ForeignKey    *ForeignKeyClause
}

func (cc *ColumnConstraint) columnPart()          {}
func (cc *ColumnConstraint) TokenLiteral() string { return cc.Token.Literal }
func (cc *ColumnConstraint) String() string {
	var out strings.Builder
	if cc.Name != nil {
		out.WriteString("CONSTRAINT ")
		out.WriteString(cc.Name.String())
		out.WriteString(" ")
	}
	switch cc.Kind {
	case PrimaryKeyColumn:
		out.WriteString("PRIMARY KEY")
		if cc.Direction != "" {
			out.WriteString(" ")
			out.WriteString(cc.Direction)
		}
		writeConflict(&out, cc.Conflict)
		if cc.Autoincrement {
			out.WriteString(" AUTOINCREMENT")
		}
	case NotNullColumn:
		out.WriteString("NOT NULL")
		writeConflict(&out, cc.Conflict)
	case NullColumn:
		out.WriteString("NULL")
		writeConflict(&out, cc.Conflict)
	case UniqueColumn:
		out.WriteString("UNIQUE")
		writeConflict(&out, cc.Conflict)
	case CheckColumn:
		out.WriteString("CHECK (")
		out.WriteString(cc.Check.String())
		out.WriteString(")")
	case DefaultColumn:
		out.WriteString("DEFAULT ")
		out.WriteString(cc.Default.String())
	case CollateColumn:
		out.WriteString("COLLATE ")
		out.WriteString(cc.Collation.String())
	case ReferencesColumn:
		out.WriteString(cc.ForeignKey.String())
	}
	return out.String()
}

func writeConflict(out *strings.Builder, cc *ConflictClause) {
	if cc != nil {
		out.WriteString(" ")
		out.WriteString(cc.String())
	}
}

// ConflictClause is ON CONFLICT {ROLLBACK|ABORT|FAIL|IGNORE|REPLACE}.
type ConflictClause struct {
	Token      token.Token
	Resolution string
}

func (cc *ConflictClause) TokenLiteral() string { return cc.Token.Literal }
func (cc *ConflictClause) String() string       { return "ON CONFLICT " + cc.Resolution }

// ForeignKeyClause is REFERENCES table [(columns)] {actions} [deferrable].
type ForeignKeyClause struct {
	Token      token.Token
	Table      *QualifiedName
	Columns    []*Name
	Actions    []*ForeignKeyAction
	Deferrable *Deferrable
}

func (fk *ForeignKeyClause) TokenLiteral() string { return fk.Token.Literal }
func (fk *ForeignKeyClause) String() string {
	var out strings.Builder
	out.WriteString("REFERENCES ")
	out.WriteString(fk.Table.String())
	if len(fk.Columns) > 0 {
		out.WriteString(" (")
		out.WriteString(joinNodes(fk.Columns, ", "))
		out.WriteString(")")
	}
	for _, a := range fk.Actions {
		out.WriteString(" ")
		out.WriteString(a.String())
	}
	if fk.Deferrable != nil {
		out.WriteString(" ")
		out.WriteString(fk.Deferrable.String())
	}
	return out.String()
}

// ForeignKeyAction is ON {DELETE|UPDATE} action, or MATCH name when Match
// is set.
type ForeignKeyAction struct {
	Token  token.Token
	On     string
	Action string
	Match  *Name
}

func (fa *ForeignKeyAction) TokenLiteral() string { return fa.Token.Literal }
func (fa *ForeignKeyAction) String() string {
	if fa.Match != nil {
		return "MATCH " + fa.Match.String()
	}
	return "ON " + fa.On + " " + fa.Action
}

// Deferrable is [NOT] DEFERRABLE [INITIALLY {DEFERRED|IMMEDIATE}] [ENABLE].
type Deferrable struct {
	Token     token.Token
	Not       bool
	Initially string
	Enable    bool
}

func (d *Deferrable) TokenLiteral() string { return d.Token.Literal }
func (d *Deferrable) String() string {
	s := "DEFERRABLE"
	if d.Not {
		s = "NOT DEFERRABLE"
	}
	if d.Initially != "" {
		s += " INITIALLY " + d.Initially
	}
	if d.Enable {
		s += " ENABLE"
	}
	return s
}

// IndexedColumn is an indexed column or expression with optional
// collation and sort order.
type IndexedColumn struct {
	Expr      Expression
	Collation *Name
	Direction string
}

func (ic *IndexedColumn) TokenLiteral() string { return ic.Expr.TokenLiteral() }
func (ic *IndexedColumn) String() string {
	s := ic.Expr.String()
	if ic.Collation != nil {
		s += " COLLATE " + ic.Collation.String()
	}
	if ic.Direction != "" {
		s += " " + ic.Direction
	}
	return s
}

// -----------------------------------------------------------------------------
// Table constraints
// -----------------------------------------------------------------------------

// TableConstraint is one of the table-level constraint variants.
type TableConstraint interface {
	Node
	tableConstraint()
	ConstraintName() *Name
}

func constraintPrefix(name *Name) string {
	if name == nil {
		return ""
	}
	return "CONSTRAINT " + name.String() + " "
}

// PrimaryKeyConstraint is PRIMARY KEY (columns) [conflict].
type PrimaryKeyConstraint struct {
	Token    token.Token
	Name     *Name
	Columns  []*IndexedColumn
	Conflict *ConflictClause
}

func (c *PrimaryKeyConstraint) tableConstraint()      {}
func (c *PrimaryKeyConstraint) ConstraintName() *Name { return c.Name }
func (c *PrimaryKeyConstraint) TokenLiteral() string  { return c.Token.Literal }
func (c *PrimaryKeyConstraint) String() string {
	var out strings.Builder
	out.WriteString(constraintPrefix(c.Name))
	out.WriteString("PRIMARY KEY (")
	out.WriteString(joinNodes(c.Columns, ", "))
	out.WriteString(")")
	writeConflict(&out, c.Conflict)
	return out.String()
}

// UniqueConstraint is UNIQUE [KEY] [index_name] (columns) [conflict].
type UniqueConstraint struct {
	Token     token.Token
	Name      *Name
	IndexName *Name
	Columns   []*IndexedColumn
	Conflict  *ConflictClause
}

func (c *UniqueConstraint) tableConstraint()      {}
func (c *UniqueConstraint) ConstraintName() *Name { return c.Name }
func (c *UniqueConstraint) TokenLiteral() string  { return c.Token.Literal }
func (c *UniqueConstraint) String() string {
	var out strings.Builder
	out.WriteString(constraintPrefix(c.Name))
	out.WriteString("UNIQUE ")
	if c.IndexName != nil {
		out.WriteString(c.IndexName.String())
		out.WriteString(" ")
	}
	out.WriteString("(")
	out.WriteString(joinNodes(c.Columns, ", "))
	out.WriteString(")")
	writeConflict(&out, c.Conflict)
	return out.String()
}

// KeyConstraint is KEY [index_name] (columns) [conflict].
type KeyConstraint struct {
	Token     token.Token
	Name      *Name
	IndexName *Name
	Columns   []*IndexedColumn
	Conflict  *ConflictClause
}

func (c *KeyConstraint) tableConstraint()      {}
func (c *KeyConstraint) ConstraintName() *Name { return c.Name }
func (c *KeyConstraint) TokenLiteral() string  { return c.Token.Literal }
func (c *KeyConstraint) String() string {
	var out strings.Builder
	out.WriteString(constraintPrefix(c.Name))
	out.WriteString("KEY ")
	if c.IndexName != nil {
		out.WriteString(c.IndexName.String())
		out.WriteString(" ")
	}
	out.WriteString("(")
	out.WriteString(joinNodes(c.Columns, ", "))
	out.WriteString(")")
	writeConflict(&out, c.Conflict)
	return out.String()
}

// CheckConstraint is CHECK (expr).
type CheckConstraint struct {
	Token token.Token
	Name  *Name
	Expr  Expression
}

func (c *CheckConstraint) tableConstraint()      {}
func (c *CheckConstraint) ConstraintName() *Name { return c.Name }
func (c *CheckConstraint) TokenLiteral() string  { return c.Token.Literal }
func (c *CheckConstraint) String() string {
	return constraintPrefix(c.Name) + "CHECK (" + c.Expr.String() + ")"
}

// ForeignKeyConstraint is FOREIGN KEY (columns) foreign_key_clause.
type ForeignKeyConstraint struct {
	Token   token.Token
	Name    *Name
	Columns []*Name
	Clause  *ForeignKeyClause
}

func (c *ForeignKeyConstraint) tableConstraint()      {}
func (c *ForeignKeyConstraint) ConstraintName() *Name { return c.Name }
func (c *ForeignKeyConstraint) TokenLiteral() string  { return c.Token.Literal }
func (c *ForeignKeyConstraint) String() string {
	return constraintPrefix(c.Name) + "FOREIGN KEY (" + joinNodes(c.Columns, ", ") + ") " + c.Clause.String()
}
