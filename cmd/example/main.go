// Example: Parsing and analyzing stored procedures and triggers
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ha1tch/litebird"
	"github.com/ha1tch/litebird/ast"
)

const script = `
CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    customer_id INTEGER NOT NULL,
    total NUMERIC(10, 2),
    ordered_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE OR ALTER PROCEDURE customer_orders (customer_id INTEGER NOT NULL, since DATE = NULL)
RETURNS (order_id BIGINT, total DECIMAL(18, 2))
AS
DECLARE VARIABLE n INTEGER = 0;
BEGIN
    -- Walk the orders of one customer
    FOR SELECT id, total FROM orders WHERE customer_id = :customer_id
    INTO :order_id, :total
    DO
    BEGIN
        n = n + 1;
        SUSPEND;
    END
END;

CREATE TRIGGER set_order_id FOR orders ACTIVE BEFORE INSERT POSITION 0 AS
BEGIN
    IF (NEW.id IS NULL) THEN NEW.id = GEN_ID(order_seq, 1);
END;

CREATE TRIGGER order_audit AFTER UPDATE OF total ON orders
FOR EACH ROW WHEN NEW.total <> OLD.total
BEGIN
    INSERT INTO audit (order_id, old_total, new_total) VALUES (OLD.id, OLD.total, NEW.total);
END;
`

const query = `
SELECT o.id,
       c.name || ' (' || c.email || ')' AS contact,
       CASE WHEN o.total > 1000 THEN 'high' ELSE 'standard' END AS category
FROM orders o
LEFT JOIN customers c ON o.customer_id = c.id
WHERE o.ordered_at > :since AND o.total BETWEEN ?1 AND ?2
ORDER BY o.ordered_at DESC
LIMIT 10
`

func main() {
	demo(os.Stdout)
}

func demo(w io.Writer) {
	fmt.Fprintln(w, "=== litebird Demo ===")
	fmt.Fprintln(w)

	program, errors := litebird.Parse(script)
	if len(errors) > 0 {
		fmt.Fprintln(w, "Parse errors:")
		for _, err := range errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Parsed %d statements\n\n", len(program.Statements))

	for i, stmt := range program.Statements {
		fmt.Fprintf(w, "Statement %d: %T\n", i+1, stmt)

		switch s := stmt.(type) {
		case *ast.CreateTableStatement:
			fmt.Fprintf(w, "  Table: %s (%d columns)\n", s.Table, len(s.Columns))
		case *ast.CreateProcedureStatement:
			analyzeProcedure(w, s)
		case *ast.CreateTriggerStatement:
			analyzeTrigger(w, s)
		}
	}

	fmt.Fprintln(w, "\n=== Using Inspector ===")
	inspector := litebird.NewInspector(program)

	bodies := inspector.FindBodies()
	fmt.Fprintf(w, "\nFound %d procedural bodies\n", len(bodies))

	funcs := inspector.FindFunctionCalls()
	fmt.Fprintf(w, "Found %d function calls\n", len(funcs))

	fmt.Fprintln(w, "\n=== Simple SELECT Demo ===")
	prog, errs := litebird.Parse(query)
	if len(errs) > 0 {
		fmt.Fprintln(w, "Errors:", errs)
	}
	if len(prog.Statements) == 0 {
		return
	}
	sel, ok := prog.Statements[0].(*ast.SelectStatement)
	if !ok {
		return
	}

	core := sel.Cores[0]
	fmt.Fprintf(w, "Columns: %d\n", len(core.Columns))
	for i, col := range core.Columns {
		alias := ""
		if col.Alias != nil {
			alias = " AS " + col.Alias.Value
		}
		fmt.Fprintf(w, "  %d: %s%s\n", i+1, col.Expr.String(), alias)
	}
	if core.Where != nil {
		fmt.Fprintf(w, "Where clause present: %s\n", core.Where.String())
	}
	fmt.Fprintf(w, "Order by: %d items\n", len(sel.OrderBy))

	var binds []string
	for _, b := range litebird.NewInspector(prog).FindBindParameters() {
		binds = append(binds, b.Name)
	}
	fmt.Fprintf(w, "Bind parameters: %s\n", strings.Join(binds, ", "))
}

func analyzeProcedure(w io.Writer, proc *ast.CreateProcedureStatement) {
	block := proc.Block
	fmt.Fprintf(w, "  Procedure: %s (%s)\n", proc.Name, proc.Mode)
	fmt.Fprintf(w, "  Inputs: %d, outputs: %d\n", len(block.Inputs), len(block.Outputs))

	for _, param := range block.Inputs {
		fmt.Fprintf(w, "    - %s\n", param)
	}
	for _, local := range block.Locals {
		fmt.Fprintf(w, "    %s\n", local)
	}
	fmt.Fprintf(w, "  Body nesting depth: %d\n", block.Body.Depth())
}

func analyzeTrigger(w io.Writer, trg *ast.CreateTriggerStatement) {
	var events []string
	for _, ev := range trg.Events {
		events = append(events, ev.Kind)
	}
	fmt.Fprintf(w, "  Trigger: %s %s %s on %s\n", trg.Trigger, trg.Timing, strings.Join(events, " OR "), trg.Table)
	if trg.Block != nil {
		fmt.Fprintf(w, "  Procedural body: %s\n", trg.Block.Body)
		return
	}
	fmt.Fprintf(w, "  Body statements: %d\n", len(trg.Body))
}
