// Package sqlitecheck replays parsed statements against an in-memory SQLite
// database to confirm that their printed form is accepted by SQLite.
package sqlitecheck

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"

	"github.com/ha1tch/litebird/ast"
)

// StatementError reports a statement SQLite rejected.
type StatementError struct {
	Index int
	SQL   string
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d: %v: %s", e.Index+1, e.Err, e.SQL)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Checker owns a private in-memory database.
type Checker struct {
	db     *sql.DB
	logger hclog.Logger
}

// Open creates a Checker. A nil logger discards output.
func Open(logger hclog.Logger) (*Checker, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// each connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	return &Checker{db: db, logger: logger}, nil
}

// Close releases the database.
func (c *Checker) Close() error {
	return c.db.Close()
}

// Supported reports whether stmt is something SQLite can execute. Procedure
// definitions, EXECUTE BLOCK and triggers with a declare block are
// extensions SQLite does not know.
func Supported(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.CreateProcedureStatement, *ast.ExecuteBlockStatement, *ast.ErrorStatement:
		return false
	case *ast.CreateTriggerStatement:
		return s.Block == nil
	}
	return true
}

// Exec runs the printed form of stmt.
func (c *Checker) Exec(ctx context.Context, stmt ast.Statement) error {
	_, err := c.db.ExecContext(ctx, stmt.String())
	return err
}

// CheckProgram executes every supported statement of program in order and
// returns the combined failures. Statements after a failure still run.
func (c *Checker) CheckProgram(ctx context.Context, program *ast.Program) error {
	var errs error
	for i, stmt := range program.Statements {
		if !Supported(stmt) {
			c.logger.Debug("skipping statement", "index", i, "type", fmt.Sprintf("%T", stmt))
			continue
		}
		text := stmt.String()
		if e := program.ExplainFor(i); e != nil {
			text = e.String() + " " + text
		}
		if _, err := c.db.ExecContext(ctx, text); err != nil {
			c.logger.Debug("sqlite rejected statement", "index", i, "error", err)
			errs = multierr.Append(errs, &StatementError{Index: i, SQL: text, Err: err})
			continue
		}
		c.logger.Trace("sqlite accepted statement", "index", i)
	}
	return errs
}

// Check is a convenience wrapper that opens a fresh database, checks
// program against it and closes it.
func Check(ctx context.Context, program *ast.Program, logger hclog.Logger) error {
	c, err := Open(logger)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.CheckProgram(ctx, program)
}
