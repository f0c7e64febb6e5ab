package ast

import (
	"strings"

	"github.com/ha1tch/litebird/token"
)

// -----------------------------------------------------------------------------
// Transaction control
// -----------------------------------------------------------------------------

// BeginStatement is BEGIN [DEFERRED|IMMEDIATE|EXCLUSIVE] [TRANSACTION [name]].
type BeginStatement struct {
	Token       token.Token
	Mode        string
	Transaction bool
	Name        *Name
}

func (s *BeginStatement) statementNode()       {}
func (s *BeginStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BeginStatement) String() string {
	var out strings.Builder
	out.WriteString("BEGIN")
	if s.Mode != "" {
		out.WriteString(" ")
		out.WriteString(s.Mode)
	}
	writeTransaction(&out, s.Transaction, s.Name)
	return out.String()
}

func writeTransaction(out *strings.Builder, kw bool, name *Name) {
	if kw {
		out.WriteString(" TRANSACTION")
		if name != nil {
			out.WriteString(" ")
			out.WriteString(name.String())
		}
	}
}

// CommitStatement is {COMMIT|END} [TRANSACTION [name]].
type CommitStatement struct {
	Token       token.Token
	Transaction bool
	Name        *Name
}

func (s *CommitStatement) statementNode()       {}
func (s *CommitStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CommitStatement) String() string {
	var out strings.Builder
	out.WriteString(strings.ToUpper(s.Token.Literal))
	writeTransaction(&out, s.Transaction, s.Name)
	return out.String()
}

// RollbackStatement is ROLLBACK [TRANSACTION [name]] [TO [SAVEPOINT] name].
type RollbackStatement struct {
	Token            token.Token
	Transaction      bool
	Name             *Name
	SavepointKeyword bool
	Savepoint        *Name
}

func (s *RollbackStatement) statementNode()       {}
func (s *RollbackStatement) TokenLiteral() string { return s.Token.Literal }
func (s *RollbackStatement) String() string {
	var out strings.Builder
	out.WriteString("ROLLBACK")
	writeTransaction(&out, s.Transaction, s.Name)
	if s.Savepoint != nil {
		out.WriteString(" TO ")
		if s.SavepointKeyword {
			out.WriteString("SAVEPOINT ")
		}
		out.WriteString(s.Savepoint.String())
	}
	return out.String()
}

// SavepointStatement is SAVEPOINT name.
type SavepointStatement struct {
	Token token.Token
	Name  *Name
}

func (s *SavepointStatement) statementNode()       {}
func (s *SavepointStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SavepointStatement) String() string       { return "SAVEPOINT " + s.Name.String() }

// ReleaseStatement is RELEASE [SAVEPOINT] name.
type ReleaseStatement struct {
	Token            token.Token
	SavepointKeyword bool
	Name             *Name
}

func (s *ReleaseStatement) statementNode()       {}
func (s *ReleaseStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReleaseStatement) String() string {
	if s.SavepointKeyword {
		return "RELEASE SAVEPOINT " + s.Name.String()
	}
	return "RELEASE " + s.Name.String()
}

// -----------------------------------------------------------------------------
// Utility statements
// -----------------------------------------------------------------------------

// PragmaStatement is PRAGMA name [= value | (value)].
type PragmaStatement struct {
	Token  token.Token
	Name   *QualifiedName
	Value  Expression
	Called bool // value given as name(value)
}

func (s *PragmaStatement) statementNode()       {}
func (s *PragmaStatement) TokenLiteral() string { return s.Token.Literal }
func (s *PragmaStatement) String() string {
	switch {
	case s.Value == nil:
		return "PRAGMA " + s.Name.String()
	case s.Called:
		return "PRAGMA " + s.Name.String() + "(" + s.Value.String() + ")"
	}
	return "PRAGMA " + s.Name.String() + " = " + s.Value.String()
}

// AnalyzeStatement is ANALYZE [schema | table | schema.table].
type AnalyzeStatement struct {
	Token  token.Token
	Target *QualifiedName
}

func (s *AnalyzeStatement) statementNode()       {}
func (s *AnalyzeStatement) TokenLiteral() string { return s.Token.Literal }
func (s *AnalyzeStatement) String() string {
	if s.Target == nil {
		return "ANALYZE"
	}
	return "ANALYZE " + s.Target.String()
}

// AttachStatement is ATTACH [DATABASE] expr AS schema.
type AttachStatement struct {
	Token    token.Token
	Database bool
	Expr     Expression
	Schema   *Name
}

func (s *AttachStatement) statementNode()       {}
func (s *AttachStatement) TokenLiteral() string { return s.Token.Literal }
func (s *AttachStatement) String() string {
	db := ""
	if s.Database {
		db = "DATABASE "
	}
	return "ATTACH " + db + s.Expr.String() + " AS " + s.Schema.String()
}

// DetachStatement is DETACH [DATABASE] schema.
type DetachStatement struct {
	Token    token.Token
	Database bool
	Schema   *Name
}

func (s *DetachStatement) statementNode()       {}
func (s *DetachStatement) TokenLiteral() string { return s.Token.Literal }
func (s *DetachStatement) String() string {
	if s.Database {
		return "DETACH DATABASE " + s.Schema.String()
	}
	return "DETACH " + s.Schema.String()
}

// ReindexStatement is REINDEX [collation | [schema.]table_or_index].
type ReindexStatement struct {
	Token  token.Token
	Target *QualifiedName
}

func (s *ReindexStatement) statementNode()       {}
func (s *ReindexStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReindexStatement) String() string {
	if s.Target == nil {
		return "REINDEX"
	}
	return "REINDEX " + s.Target.String()
}

// VacuumStatement is VACUUM [schema] [INTO file].
type VacuumStatement struct {
	Token  token.Token
	Schema *Name
	Into   Expression
}

func (s *VacuumStatement) statementNode()       {}
func (s *VacuumStatement) TokenLiteral() string { return s.Token.Literal }
func (s *VacuumStatement) String() string {
	var out strings.Builder
	out.WriteString("VACUUM")
	if s.Schema != nil {
		out.WriteString(" ")
		out.WriteString(s.Schema.String())
	}
	if s.Into != nil {
		out.WriteString(" INTO ")
		out.WriteString(s.Into.String())
	}
	return out.String()
}

// ErrorStatement stands for input the scanner could not tokenize. Parsing
// stops after it.
type ErrorStatement struct {
	Token  token.Token
	Lexeme string
}

func (s *ErrorStatement) statementNode()       {}
func (s *ErrorStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ErrorStatement) String() string       { return "-- unexpected input: " + s.Lexeme }
