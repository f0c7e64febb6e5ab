// Package litebird provides a parser for SQLite SQL extended with Firebird
// style procedures, triggers and EXECUTE BLOCK.
//
// The parser turns a script into an Abstract Syntax Tree (AST). Plain
// SQLite statements are parsed in full; procedural bodies are kept as
// balanced token spans.
//
// Example usage:
//
//	program, errors := litebird.Parse(sqlText)
//	if len(errors) > 0 {
//	    // handle errors
//	}
//	// work with program.Statements
package litebird

import (
	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/lexer"
	"github.com/ha1tch/litebird/parser"
	"github.com/ha1tch/litebird/token"
)

// Parse parses SQL text and returns the AST and any errors.
func Parse(input string) (*ast.Program, []string) {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.Errors()
}

// ParseWithOptions parses SQL text with the given options. The returned
// error combines every syntax error; the program holds the statements that
// parsed.
func ParseWithOptions(input string, opts parser.Options) (*ast.Program, error) {
	p := parser.NewWithOptions(lexer.New(input), opts)
	program := p.ParseProgram()
	return program, p.Err()
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []token.Token {
	return lexer.Tokenize(input)
}

// Re-export types for convenience
type (
	Program    = ast.Program
	Statement  = ast.Statement
	Expression = ast.Expression
	Token      = token.Token
	ParseError = parser.ParseError
	Options    = parser.Options
)

// Statement types
type (
	SelectStatement             = ast.SelectStatement
	InsertStatement             = ast.InsertStatement
	UpdateStatement             = ast.UpdateStatement
	DeleteStatement             = ast.DeleteStatement
	CreateTableStatement        = ast.CreateTableStatement
	CreateIndexStatement        = ast.CreateIndexStatement
	CreateViewStatement         = ast.CreateViewStatement
	CreateTriggerStatement      = ast.CreateTriggerStatement
	CreateVirtualTableStatement = ast.CreateVirtualTableStatement
	AlterTableStatement         = ast.AlterTableStatement
	DropStatement               = ast.DropStatement
	BeginStatement              = ast.BeginStatement
	CommitStatement             = ast.CommitStatement
	RollbackStatement           = ast.RollbackStatement
	SavepointStatement          = ast.SavepointStatement
	ReleaseStatement            = ast.ReleaseStatement
	PragmaStatement             = ast.PragmaStatement
	AnalyzeStatement            = ast.AnalyzeStatement
	AttachStatement             = ast.AttachStatement
	DetachStatement             = ast.DetachStatement
	ReindexStatement            = ast.ReindexStatement
	VacuumStatement             = ast.VacuumStatement
	ErrorStatement              = ast.ErrorStatement
	// Procedural extensions
	CreateProcedureStatement = ast.CreateProcedureStatement
	ExecuteBlockStatement    = ast.ExecuteBlockStatement
)

// Expression types
type (
	Literal            = ast.Literal
	BindParameter      = ast.BindParameter
	ColumnRef          = ast.ColumnRef
	UnaryExpression    = ast.UnaryExpression
	BinaryExpression   = ast.BinaryExpression
	CollateExpression  = ast.CollateExpression
	BetweenExpression  = ast.BetweenExpression
	InExpression       = ast.InExpression
	LikeExpression     = ast.LikeExpression
	IsNullExpression   = ast.IsNullExpression
	ParenExpression    = ast.ParenExpression
	FunctionCall       = ast.FunctionCall
	CastExpression     = ast.CastExpression
	ExistsExpression   = ast.ExistsExpression
	SubqueryExpression = ast.SubqueryExpression
	CaseExpression     = ast.CaseExpression
	RaiseExpression    = ast.RaiseExpression
)

// Helper types
type (
	Name                  = ast.Name
	QualifiedName         = ast.QualifiedName
	Span                  = ast.Span
	SelectCore            = ast.SelectCore
	ResultColumn          = ast.ResultColumn
	FromClause            = ast.FromClause
	TableName             = ast.TableName
	SubquerySource        = ast.SubquerySource
	ParenSource           = ast.ParenSource
	JoinClause            = ast.JoinClause
	OrderingTerm          = ast.OrderingTerm
	LimitClause           = ast.LimitClause
	WithClause            = ast.WithClause
	CommonTableExpression = ast.CommonTableExpression
	SetClause             = ast.SetClause
	WhenClause            = ast.WhenClause
	TypeName              = ast.TypeName
	ColumnDef             = ast.ColumnDef
	ColumnConstraint      = ast.ColumnConstraint
	TableConstraint       = ast.TableConstraint
	ForeignKeyClause      = ast.ForeignKeyClause
	IndexedColumn         = ast.IndexedColumn
	// Procedural
	DeclareBlock  = ast.DeclareBlock
	ParameterDecl = ast.ParameterDecl
	LocalDecl     = ast.LocalDecl
	Body          = ast.Body
	Datatype      = ast.Datatype
	ArrayDim      = ast.ArrayDim
)

// Visitor defines an interface for AST visitors.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

type inspector func(ast.Node) bool

func (f inspector) Visit(node ast.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// Children are skipped when f returns false.
func Inspect(node ast.Node, f func(ast.Node) bool) {
	Walk(inspector(f), node)
}

func walkList[T ast.Node](v Visitor, nodes []T) {
	for _, n := range nodes {
		Walk(v, n)
	}
}

func walkOrderLimit(v Visitor, orderBy []*ast.OrderingTerm, limit *ast.LimitClause) {
	walkList(v, orderBy)
	if limit != nil {
		Walk(v, limit)
	}
}

// Walk traverses an AST in depth-first order. Opaque procedure bodies are
// visited as *ast.Body nodes but their tokens are not descended into.
func Walk(v Visitor, node ast.Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *ast.Program:
		walkList(v, n.Statements)

	// Queries
	case *ast.SelectStatement:
		if n.With != nil {
			Walk(v, n.With)
		}
		walkList(v, n.Cores)
		walkOrderLimit(v, n.OrderBy, n.Limit)
	case *ast.WithClause:
		walkList(v, n.CTEs)
	case *ast.CommonTableExpression:
		Walk(v, n.Select)
	case *ast.SelectCore:
		for _, row := range n.Values {
			walkList(v, row)
		}
		walkList(v, n.Columns)
		if n.From != nil {
			Walk(v, n.From)
		}
		if n.Where != nil {
			Walk(v, n.Where)
		}
		walkList(v, n.GroupBy)
		if n.Having != nil {
			Walk(v, n.Having)
		}
	case *ast.ResultColumn:
		if n.Expr != nil {
			Walk(v, n.Expr)
		}
	case *ast.FromClause:
		walkList(v, n.Tables)
		if n.Join != nil {
			Walk(v, n.Join)
		}
	case *ast.ParenSource:
		walkList(v, n.Tables)
		if n.Join != nil {
			Walk(v, n.Join)
		}
	case *ast.SubquerySource:
		Walk(v, n.Select)
	case *ast.JoinClause:
		Walk(v, n.Left)
		for _, j := range n.Joins {
			Walk(v, j.Right)
			if j.Constraint != nil && j.Constraint.On != nil {
				Walk(v, j.Constraint.On)
			}
		}
	case *ast.OrderingTerm:
		Walk(v, n.Expr)
	case *ast.LimitClause:
		Walk(v, n.Limit)
		if n.Offset != nil {
			Walk(v, n.Offset)
		}

	// Data modification
	case *ast.InsertStatement:
		if n.With != nil {
			Walk(v, n.With)
		}
		for _, row := range n.Values {
			walkList(v, row)
		}
		if n.Select != nil {
			Walk(v, n.Select)
		}
	case *ast.UpdateStatement:
		if n.With != nil {
			Walk(v, n.With)
		}
		Walk(v, n.Table)
		for _, sc := range n.Set {
			Walk(v, sc.Value)
		}
		if n.Where != nil {
			Walk(v, n.Where)
		}
		walkOrderLimit(v, n.OrderBy, n.Limit)
	case *ast.DeleteStatement:
		if n.With != nil {
			Walk(v, n.With)
		}
		Walk(v, n.Table)
		if n.Where != nil {
			Walk(v, n.Where)
		}
		walkOrderLimit(v, n.OrderBy, n.Limit)

	// Schema
	case *ast.CreateTableStatement:
		walkList(v, n.Columns)
		walkList(v, n.Constraints)
		if n.AsSelect != nil {
			Walk(v, n.AsSelect)
		}
	case *ast.ColumnDef:
		for _, part := range n.Parts {
			if cc, ok := part.(*ast.ColumnConstraint); ok {
				Walk(v, cc)
			}
		}
	case *ast.ColumnConstraint:
		if n.Check != nil {
			Walk(v, n.Check)
		}
		if n.Default != nil {
			Walk(v, n.Default)
		}
	case *ast.PrimaryKeyConstraint:
		walkList(v, n.Columns)
	case *ast.UniqueConstraint:
		walkList(v, n.Columns)
	case *ast.KeyConstraint:
		walkList(v, n.Columns)
	case *ast.CheckConstraint:
		Walk(v, n.Expr)
	case *ast.IndexedColumn:
		Walk(v, n.Expr)
	case *ast.CreateIndexStatement:
		walkList(v, n.Columns)
		if n.Where != nil {
			Walk(v, n.Where)
		}
	case *ast.CreateViewStatement:
		Walk(v, n.Select)
	case *ast.CreateTriggerStatement:
		if n.When != nil {
			Walk(v, n.When)
		}
		walkList(v, n.Body)
		if n.Block != nil {
			Walk(v, n.Block)
		}
	case *ast.AlterTableStatement:
		if n.Definition != nil {
			Walk(v, n.Definition)
		}

	// Procedural
	case *ast.CreateProcedureStatement:
		Walk(v, n.Block)
	case *ast.ExecuteBlockStatement:
		Walk(v, n.Block)
	case *ast.DeclareBlock:
		walkList(v, n.Inputs)
		walkList(v, n.Outputs)
		walkList(v, n.Locals)
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *ast.LocalDecl:
		Walk(v, n.Decl)
	case *ast.ParameterDecl:
		if n.Default != nil {
			Walk(v, n.Default)
		}

	// Utility
	case *ast.PragmaStatement:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *ast.AttachStatement:
		Walk(v, n.Expr)
	case *ast.VacuumStatement:
		if n.Into != nil {
			Walk(v, n.Into)
		}

	// Expressions
	case *ast.UnaryExpression:
		Walk(v, n.Right)
	case *ast.BinaryExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *ast.CollateExpression:
		Walk(v, n.Expr)
	case *ast.BetweenExpression:
		Walk(v, n.Expr)
		Walk(v, n.Low)
		Walk(v, n.High)
	case *ast.InExpression:
		Walk(v, n.Expr)
		walkList(v, n.Values)
		if n.Subquery != nil {
			Walk(v, n.Subquery)
		}
	case *ast.LikeExpression:
		Walk(v, n.Expr)
		Walk(v, n.Pattern)
		if n.Escape != nil {
			Walk(v, n.Escape)
		}
	case *ast.IsNullExpression:
		Walk(v, n.Expr)
	case *ast.ParenExpression:
		Walk(v, n.Expr)
	case *ast.FunctionCall:
		walkList(v, n.Args)
	case *ast.CastExpression:
		Walk(v, n.Expr)
	case *ast.ExistsExpression:
		Walk(v, n.Select)
	case *ast.SubqueryExpression:
		Walk(v, n.Select)
	case *ast.CaseExpression:
		if n.Operand != nil {
			Walk(v, n.Operand)
		}
		for _, wc := range n.Whens {
			Walk(v, wc.Condition)
			Walk(v, wc.Result)
		}
		if n.Else != nil {
			Walk(v, n.Else)
		}
	}
}

// Inspector provides a convenient way to inspect AST nodes.
type Inspector struct {
	nodes []ast.Node
}

// NewInspector creates a new Inspector for the given program.
func NewInspector(program *ast.Program) *Inspector {
	insp := &Inspector{}
	Inspect(program, func(n ast.Node) bool {
		insp.nodes = append(insp.nodes, n)
		return true
	})
	return insp
}

func find[T ast.Node](nodes []ast.Node) []T {
	var out []T
	for _, node := range nodes {
		if n, ok := node.(T); ok {
			out = append(out, n)
		}
	}
	return out
}

// FindColumnRefs returns all column references in the AST.
func (insp *Inspector) FindColumnRefs() []*ast.ColumnRef {
	return find[*ast.ColumnRef](insp.nodes)
}

// FindBindParameters returns all bind parameters in the AST.
func (insp *Inspector) FindBindParameters() []*ast.BindParameter {
	return find[*ast.BindParameter](insp.nodes)
}

// FindFunctionCalls returns all function calls in the AST.
func (insp *Inspector) FindFunctionCalls() []*ast.FunctionCall {
	return find[*ast.FunctionCall](insp.nodes)
}

// FindSelectStatements returns all SELECT statements in the AST, including
// subqueries.
func (insp *Inspector) FindSelectStatements() []*ast.SelectStatement {
	return find[*ast.SelectStatement](insp.nodes)
}

// FindTableNames returns all table references in FROM clauses and in the
// targets of UPDATE and DELETE.
func (insp *Inspector) FindTableNames() []*ast.TableName {
	return find[*ast.TableName](insp.nodes)
}

// FindBodies returns the opaque procedural bodies in the AST.
func (insp *Inspector) FindBodies() []*ast.Body {
	return find[*ast.Body](insp.nodes)
}
