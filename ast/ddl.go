package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

func writeTemp(out *strings.Builder, temp string) {
	if temp != "" {
		out.WriteString(temp)
		out.WriteString(" ")
	}
}

func writeIfNotExists(out *strings.Builder, ifNotExists bool) {
	if ifNotExists {
		out.WriteString("IF NOT EXISTS ")
	}
}

// CreateTableStatement is CREATE [TEMP] TABLE with either a column list or
// AS select.
type CreateTableStatement struct {
	Token        token.Token
	Temp         string
	IfNotExists  bool
	Table        *QualifiedName
	Columns      []*ColumnDef
	Constraints  []TableConstraint
	WithoutRowid bool
	AsSelect     *SelectStatement
}

func (s *CreateTableStatement) statementNode()       {}
func (s *CreateTableStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CreateTableStatement) String() string {
	var out strings.Builder
	out.WriteString("CREATE ")
	writeTemp(&out, s.Temp)
	out.WriteString("TABLE ")
	writeIfNotExists(&out, s.IfNotExists)
	out.WriteString(s.Table.String())
	if s.AsSelect != nil {
		out.WriteString(" AS ")
		out.WriteString(s.AsSelect.String())
		return out.String()
	}
	out.WriteString(" (")
	out.WriteString(joinNodes(s.Columns, ", "))
	for _, c := range s.Constraints {
		out.WriteString(", ")
		out.WriteString(c.String())
	}
	out.WriteString(")")
	if s.WithoutRowid {
		out.WriteString(" WITHOUT ROWID")
	}
	return out.String()
}

// CreateIndexStatement is CREATE [UNIQUE] INDEX ... ON table (columns).
type CreateIndexStatement struct {
	Token       token.Token
	Unique      bool
	IfNotExists bool
	Index       *QualifiedName
	Table       *Name
	Columns     []*IndexedColumn
	Where       Expression
}

func (s *CreateIndexStatement) statementNode()       {}
func (s *CreateIndexStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CreateIndexStatement) String() string {
	var out strings.Builder
	out.WriteString("CREATE ")
	if s.Unique {
		out.WriteString("UNIQUE ")
	}
	out.WriteString("INDEX ")
	writeIfNotExists(&out, s.IfNotExists)
	out.WriteString(s.Index.String())
	out.WriteString(" ON ")
	out.WriteString(s.Table.String())
	out.WriteString(" (")
	out.WriteString(joinNodes(s.Columns, ", "))
	out.WriteString(")")
	if s.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(s.Where.String())
	}
	return out.String()
}

// CreateViewStatement is CREATE [TEMP] VIEW name AS select.
type CreateViewStatement struct {
	Token       token.Token
	Temp        string
	IfNotExists bool
	View        *QualifiedName
	Select      *SelectStatement
}

func (s *CreateViewStatement) statementNode()       {}
func (s *CreateViewStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CreateViewStatement) String() string {
	var out strings.Builder
	out.WriteString("CREATE ")
	writeTemp(&out, s.Temp)
	out.WriteString("VIEW ")
	writeIfNotExists(&out, s.IfNotExists)
	out.WriteString(s.View.String())
	out.WriteString(" AS ")
	out.WriteString(s.Select.String())
	return out.String()
}

// TriggerEvent is DELETE, INSERT or UPDATE [OF columns].
type TriggerEvent struct {
	Token   token.Token
	Kind    string
	Columns []*Name
}

func (te *TriggerEvent) TokenLiteral() string { return te.Token.Literal }
func (te *TriggerEvent) String() string {
	if len(te.Columns) > 0 {
		return te.Kind + " OF " + joinNodes(te.Columns, ", ")
	}
	return te.Kind
}

// CreateTriggerStatement covers both trigger forms.
//
// The SQLite form names the table with ON, has a single event and a body of
// ;-terminated statements in Body. The procedural form names the table with
// FOR (ForTable is set), may combine events with OR, and carries a declare
// block in Block instead of Body.
type CreateTriggerStatement struct {
	Token       token.Token
	Temp        string
	IfNotExists bool
	Trigger     *QualifiedName
	ForTable    bool
	Table       *QualifiedName
	State       string // ACTIVE or INACTIVE
	Timing      string // BEFORE, AFTER or INSTEAD OF
	Events      []*TriggerEvent
	Position    string
	ForEachRow  bool
	When        Expression
	Body        []Statement
	Block       *DeclareBlock
}

func (s *CreateTriggerStatement) statementNode()       {}
func (s *CreateTriggerStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CreateTriggerStatement) String() string {
	var out strings.Builder
	out.WriteString("CREATE ")
	writeTemp(&out, s.Temp)
	out.WriteString("TRIGGER ")
	writeIfNotExists(&out, s.IfNotExists)
	out.WriteString(s.Trigger.String())
	if s.ForTable {
		out.WriteString(" FOR ")
		out.WriteString(s.Table.String())
	}
	if s.State != "" {
		out.WriteString(" ")
		out.WriteString(s.State)
	}
	if s.Timing != "" {
		out.WriteString(" ")
		out.WriteString(s.Timing)
	}
	out.WriteString(" ")
	out.WriteString(joinNodes(s.Events, " OR "))
	if s.Position != "" {
		out.WriteString(" POSITION ")
		out.WriteString(s.Position)
	}
	if !s.ForTable {
		out.WriteString(" ON ")
		out.WriteString(s.Table.String())
	}
	if s.ForEachRow {
		out.WriteString(" FOR EACH ROW")
	}
	if s.When != nil {
		out.WriteString(" WHEN ")
		out.WriteString(s.When.String())
	}
	if s.Block != nil {
		out.WriteString(" ")
		out.WriteString(s.Block.String())
		return out.String()
	}
	out.WriteString(" BEGIN ")
	for _, st := range s.Body {
		out.WriteString(st.String())
		out.WriteString("; ")
	}
	out.WriteString("END")
	return out.String()
}

// CreateVirtualTableStatement is CREATE VIRTUAL TABLE name USING
// module[(args)]. Module arguments are kept as opaque spans.
type CreateVirtualTableStatement struct {
	Token       token.Token
	IfNotExists bool
	Table       *QualifiedName
	Module      *Name
	Args        []Span
}

func (s *CreateVirtualTableStatement) statementNode()       {}
func (s *CreateVirtualTableStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CreateVirtualTableStatement) String() string {
	var out strings.Builder
	out.WriteString("CREATE VIRTUAL TABLE ")
	writeIfNotExists(&out, s.IfNotExists)
	out.WriteString(s.Table.String())
	out.WriteString(" USING ")
	out.WriteString(s.Module.String())
	if len(s.Args) > 0 {
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.String()
		}
		out.WriteString("(")
		out.WriteString(strings.Join(args, ", "))
		out.WriteString(")")
	}
	return out.String()
}

// AlterAction identifies what an ALTER TABLE statement does.
type AlterAction int

const (
	RenameTable AlterAction = iota
	RenameColumn
	AddColumn
	DropColumn
)

// AlterTableStatement is ALTER TABLE name followed by one action.
type AlterTableStatement struct {
	Token         token.Token
	Table         *QualifiedName
	Action        AlterAction
	ColumnKeyword bool
	NewName       *Name      // RenameTable, RenameColumn
	Column        *Name      // RenameColumn, DropColumn
	Definition    *ColumnDef // AddColumn
}

func (s *AlterTableStatement) statementNode()       {}
func (s *AlterTableStatement) TokenLiteral() string { return s.Token.Literal }
func (s *AlterTableStatement) String() string {
	column := ""
	if s.ColumnKeyword {
		column = "COLUMN "
	}
	head := "ALTER TABLE " + s.Table.String() + " "
	switch s.Action {
	case RenameColumn:
		return head + "RENAME " + column + s.Column.String() + " TO " + s.NewName.String()
	case AddColumn:
		return head + "ADD " + column + s.Definition.String()
	case DropColumn:
		return head + "DROP " + column + s.Column.String()
	}
	return head + "RENAME TO " + s.NewName.String()
}

// DropStatement is DROP {TABLE|INDEX|TRIGGER|VIEW} [IF EXISTS] name.
type DropStatement struct {
	Token    token.Token
	Kind     string
	IfExists bool
	Name     *QualifiedName
}

func (s *DropStatement) statementNode()       {}
func (s *DropStatement) TokenLiteral() string { return s.Token.Literal }
func (s *DropStatement) String() string {
	ifExists := ""
	if s.IfExists {
		ifExists = "IF EXISTS "
	}
	return "DROP " + s.Kind + " " + ifExists + s.Name.String()
}

// ProcedureMode is the leading verb of a procedure definition.
type ProcedureMode int

const (
	CreateProcedure ProcedureMode = iota
	AlterProcedure
	RecreateProcedure
	CreateOrAlterProcedure
)

func (m ProcedureMode) String() string {
	switch m {
	case AlterProcedure:
		return "ALTER"
	case RecreateProcedure:
		return "RECREATE"
	case CreateOrAlterProcedure:
		return "CREATE OR ALTER"
	}
	return "CREATE"
}

// CreateProcedureStatement is {CREATE|ALTER|RECREATE|CREATE OR ALTER}
// PROCEDURE name declare_block.
type CreateProcedureStatement struct {
	Token token.Token
	Mode  ProcedureMode
	Name  *Name
	Block *DeclareBlock
}

func (s *CreateProcedureStatement) statementNode()       {}
func (s *CreateProcedureStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CreateProcedureStatement) String() string {
	return s.Mode.String() + " PROCEDURE " + s.Name.String() + " " + s.Block.String()
}

// ExecuteBlockStatement is EXECUTE BLOCK declare_block.
type ExecuteBlockStatement struct {
	Token token.Token
	Block *DeclareBlock
}

func (s *ExecuteBlockStatement) statementNode()       {}
func (s *ExecuteBlockStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExecuteBlockStatement) String() string       { return "EXECUTE BLOCK " + s.Block.String() }
