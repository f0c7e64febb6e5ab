package parser

import (
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func parseSingle(t *testing.T, input string) ast.Statement {
	t.Helper()
	program := parseProgram(t, input)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	return program.Statements[0]
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %s", msg)
	}
	t.FailNow()
}

func TestSelectStatement(t *testing.T) {
	tests := []struct {
		input    string
		expected int // number of columns
	}{
		{"SELECT 1", 1},
		{"SELECT a, b, c FROM t", 3},
		{"SELECT * FROM Users", 1},
		{"SELECT DISTINCT Name FROM Products", 1},
		{"SELECT t.*, u.id AS uid, u.name n FROM t, u", 3},
		{"SELECT key, action FROM \"order\"", 2},
	}

	for _, tt := range tests {
		stmt, ok := parseSingle(t, tt.input).(*ast.SelectStatement)
		if !ok {
			t.Fatalf("expected SelectStatement for %q", tt.input)
		}
		if len(stmt.Cores[0].Columns) != tt.expected {
			t.Errorf("%q: expected %d columns, got %d", tt.input, tt.expected, len(stmt.Cores[0].Columns))
		}
	}
}

func TestSelectForms(t *testing.T) {
	tests := []struct {
		input string
		form  ast.SelectForm
		cores int
	}{
		{"SELECT 1", ast.SimpleSelect, 1},
		{"VALUES (1, 2), (3, 4)", ast.SimpleSelect, 1},
		{"SELECT 1 UNION ALL SELECT 2 EXCEPT VALUES (3)", ast.CompoundSelect, 3},
		{"WITH x AS (SELECT 1) SELECT * FROM x", ast.FactoredSelect, 1},
		{"WITH RECURSIVE n(i) AS (SELECT 1 UNION ALL SELECT i + 1 FROM n WHERE i < 5) SELECT i FROM n", ast.FactoredSelect, 1},
		{"WITH x AS (SELECT 1) SELECT 1 INTERSECT SELECT 1", ast.CompoundSelect, 2},
	}

	for _, tt := range tests {
		stmt, ok := parseSingle(t, tt.input).(*ast.SelectStatement)
		if !ok {
			t.Fatalf("expected SelectStatement for %q", tt.input)
		}
		if stmt.Form != tt.form {
			t.Errorf("%q: expected form %d, got %d", tt.input, tt.form, stmt.Form)
		}
		if len(stmt.Cores) != tt.cores {
			t.Errorf("%q: expected %d cores, got %d", tt.input, tt.cores, len(stmt.Cores))
		}
	}

	stmt := parseSingle(t, "SELECT 1 UNION ALL SELECT 2 EXCEPT VALUES (3)").(*ast.SelectStatement)
	var ops []string
	for _, c := range stmt.Cores {
		ops = append(ops, c.Compound)
	}
	if diff := deep.Equal(ops, []string{"", "UNION ALL", "EXCEPT"}); diff != nil {
		t.Error(diff)
	}
	if !stmt.Cores[2].IsValues() {
		t.Errorf("expected third core to be VALUES")
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a * b + c", "((a * b) + c)"},
		{"a || b * c", "((a || b) * c)"},
		{"-a * b", "((- a) * b)"},
		{"x - -1", "(x - (- 1))"},
		{"~a & b", "((~ a) & b)"},
		{"NOT a = b", "((NOT a) = b)"},
		{"NOT a IS NOT NULL", "((NOT a) IS NOT NULL)"},
		{"NOT (a = b)", "(NOT ((a = b)))"},
		{"NOT a AND b", "((NOT a) AND b)"},
		{"a OR b AND c", "(a OR (b AND c))"},
		{"a < b = c", "((a < b) = c)"},
		{"a & b + c", "(a & (b + c))"},
		{"a <> b == c", "((a <> b) == c)"},
		{"a = 1 AND b BETWEEN 2 AND 3 OR c", "(((a = 1) AND (b BETWEEN 2 AND 3)) OR c)"},
		{"a BETWEEN 1 AND 2 AND b", "((a BETWEEN 1 AND 2) AND b)"},
		{"a NOT BETWEEN b + 1 AND c", "(a NOT BETWEEN (b + 1) AND c)"},
		{"a IN (1, 2)", "(a IN (1, 2))"},
		{"a NOT IN (SELECT b FROM t)", "(a NOT IN (SELECT b FROM t))"},
		{"a IN t", "(a IN t)"},
		{"a IN main.t", "(a IN main.t)"},
		{"a IN ()", "(a IN ())"},
		{"a LIKE 'x%' ESCAPE '!'", "(a LIKE 'x%' ESCAPE '!')"},
		{"a NOT GLOB 'x*'", "(a NOT GLOB 'x*')"},
		{"a IS b", "(a IS b)"},
		{"a IS NOT b", "(a IS NOT b)"},
		{"a COLLATE nocase = b", "(a COLLATE nocase = b)"},
		{"s.t.c + 1", "(s.t.c + 1)"},
		{"(a + b) * c", "(((a + b)) * c)"},
		{"CAST(a AS VARCHAR(10))", "CAST(a AS VARCHAR(10))"},
		{"CAST(a AS unsigned big int)", "CAST(a AS unsigned big int)"},
		{"CASE WHEN a THEN 1 ELSE 2 END", "CASE WHEN a THEN 1 ELSE 2 END"},
		{"CASE a WHEN 1 THEN 'one' END", "CASE a WHEN 1 THEN 'one' END"},
		{"EXISTS (SELECT 1)", "EXISTS (SELECT 1)"},
		{"NOT EXISTS (SELECT 1)", "NOT EXISTS (SELECT 1)"},
		{"count(DISTINCT a)", "count(DISTINCT a)"},
		{"count(*)", "count(*)"},
		{"random()", "random()"},
		{"replace(a, 'x', 'y')", "replace(a, 'x', 'y')"},
		{"date('now')", "date('now')"},
		{"(SELECT max(a) FROM t)", "(SELECT max(a) FROM t)"},
		{"X'CAFE' || 'it''s'", "(X'CAFE' || 'it''s')"},
		{"CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
		{"?1 + :n + @m + $p", "(((?1 + :n) + @m) + $p)"},
	}

	for _, tt := range tests {
		stmt, ok := parseSingle(t, "SELECT "+tt.input).(*ast.SelectStatement)
		if !ok {
			t.Fatalf("expected SelectStatement for %q", tt.input)
		}
		actual := stmt.Cores[0].Columns[0].Expr.String()
		if actual != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, actual)
		}
	}
}

func TestBinaryLevels(t *testing.T) {
	tests := []struct {
		input string
		level int
	}{
		{"a || b", ast.LevelConcat},
		{"a % b", ast.LevelMultiply},
		{"a - b", ast.LevelAdd},
		{"a << b", ast.LevelBitwise},
		{"a >= b", ast.LevelComparison},
		{"a != b", ast.LevelEquality},
		{"a IS NOT b", ast.LevelEquality},
		{"a AND b", ast.LevelAnd},
		{"a OR b", ast.LevelOr},
	}

	for _, tt := range tests {
		stmt := parseSingle(t, "SELECT "+tt.input).(*ast.SelectStatement)
		be, ok := stmt.Cores[0].Columns[0].Expr.(*ast.BinaryExpression)
		if !ok {
			t.Fatalf("%q: expected BinaryExpression, got %T", tt.input, stmt.Cores[0].Columns[0].Expr)
		}
		if be.Level != tt.level {
			t.Errorf("%q: expected level %d, got %d", tt.input, tt.level, be.Level)
		}
	}
}

func TestBetweenTakesItsOwnAnd(t *testing.T) {
	stmt := parseSingle(t, "SELECT * FROM t WHERE a BETWEEN 1 AND 2 AND b = 3").(*ast.SelectStatement)
	and, ok := stmt.Cores[0].Where.(*ast.BinaryExpression)
	if !ok || and.Operator != "AND" {
		t.Fatalf("expected AND at the top, got %s", stmt.Cores[0].Where)
	}
	between, ok := and.Left.(*ast.BetweenExpression)
	if !ok {
		t.Fatalf("expected BetweenExpression, got %T", and.Left)
	}
	if between.Low.String() != "1" || between.High.String() != "2" {
		t.Errorf("unexpected bounds %s and %s", between.Low, between.High)
	}
}

func TestIsNullFamily(t *testing.T) {
	tests := []struct {
		input    string
		form     ast.IsNullForm
		not      bool
		expected string
	}{
		{"a IS NULL", ast.IsNullKeywords, false, "(a IS NULL)"},
		{"a IS NOT NULL", ast.IsNullKeywords, true, "(a IS NOT NULL)"},
		{"a ISNULL", ast.IsNullPostfix, false, "(a ISNULL)"},
		{"a NOTNULL", ast.NotNullPostfix, true, "(a NOTNULL)"},
		{"a NOT NULL", ast.NotNullKeywords, true, "(a NOT NULL)"},
		{"NOT a IS NOT NULL", ast.IsNullKeywords, true, "((NOT a) IS NOT NULL)"},
	}

	for _, tt := range tests {
		stmt := parseSingle(t, "SELECT "+tt.input).(*ast.SelectStatement)
		expr := stmt.Cores[0].Columns[0].Expr
		in, ok := expr.(*ast.IsNullExpression)
		if !ok {
			t.Fatalf("%q: expected IsNullExpression, got %T", tt.input, expr)
		}
		if in.Form != tt.form || in.Not != tt.not {
			t.Errorf("%q: expected form %d not=%v, got form %d not=%v", tt.input, tt.form, tt.not, in.Form, in.Not)
		}
		if in.String() != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, in.String())
		}
	}

	stmt := parseSingle(t, "SELECT NOT a IS NOT NULL").(*ast.SelectStatement)
	in, ok := stmt.Cores[0].Columns[0].Expr.(*ast.IsNullExpression)
	if !ok {
		t.Fatalf("expected an IsNullExpression root, got %T", stmt.Cores[0].Columns[0].Expr)
	}
	if ue, ok := in.Expr.(*ast.UnaryExpression); !ok || ue.Operator != "NOT" {
		t.Errorf("expected NOT a as the tested operand, got %T %s", in.Expr, in.Expr)
	}
}

func TestFromClause(t *testing.T) {
	stmt := parseSingle(t, "SELECT * FROM a, b AS x, main.c").(*ast.SelectStatement)
	from := stmt.Cores[0].From
	if from.Join != nil {
		t.Fatalf("expected a plain source list, got join %s", from.Join)
	}
	if len(from.Tables) != 3 {
		t.Fatalf("expected 3 tables, got %d", len(from.Tables))
	}
	c, ok := from.Tables[2].(*ast.TableName)
	if !ok {
		t.Fatalf("expected TableName, got %T", from.Tables[2])
	}
	if c.Schema.Value != "main" || c.Name.Value != "c" {
		t.Errorf("unexpected table %s", c)
	}

	input := "SELECT * FROM a JOIN b ON a.id = b.id NATURAL LEFT OUTER JOIN c, d CROSS JOIN (SELECT 1) s USING (id)"
	stmt = parseSingle(t, input).(*ast.SelectStatement)
	join := stmt.Cores[0].From.Join
	if join == nil {
		t.Fatalf("expected a join clause")
	}
	var ops []string
	for _, j := range join.Joins {
		ops = append(ops, j.Operator.String())
	}
	if diff := deep.Equal(ops, []string{"JOIN", "NATURAL LEFT OUTER JOIN", ",", "CROSS JOIN"}); diff != nil {
		t.Error(diff)
	}
	if join.Joins[0].Constraint.On.String() != "(a.id = b.id)" {
		t.Errorf("unexpected ON %s", join.Joins[0].Constraint.On)
	}
	if _, ok := join.Joins[3].Right.(*ast.SubquerySource); !ok {
		t.Errorf("expected SubquerySource, got %T", join.Joins[3].Right)
	}
	if got := join.Joins[3].Constraint.Using[0].Value; got != "id" {
		t.Errorf("expected USING (id), got %s", got)
	}
	expected := "SELECT * FROM a JOIN b ON (a.id = b.id) NATURAL LEFT OUTER JOIN c, d CROSS JOIN (SELECT 1) AS s USING (id)"
	if stmt.String() != expected {
		t.Errorf("expected %q, got %q", expected, stmt.String())
	}
}

func TestParenthesisedSources(t *testing.T) {
	stmt := parseSingle(t, "SELECT * FROM (a JOIN b USING (id)), (c, d)").(*ast.SelectStatement)
	tables := stmt.Cores[0].From.Tables
	if len(tables) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(tables))
	}
	first, ok := tables[0].(*ast.ParenSource)
	if !ok || first.Join == nil {
		t.Fatalf("expected a parenthesised join, got %s", tables[0])
	}
	second, ok := tables[1].(*ast.ParenSource)
	if !ok || len(second.Tables) != 2 {
		t.Fatalf("expected a parenthesised list, got %s", tables[1])
	}
}

func TestTableNameHints(t *testing.T) {
	stmt := parseSingle(t, "SELECT * FROM t INDEXED BY t_a, u NOT INDEXED").(*ast.SelectStatement)
	tables := stmt.Cores[0].From.Tables
	if tn := tables[0].(*ast.TableName); tn.IndexedBy == nil || tn.IndexedBy.Value != "t_a" {
		t.Errorf("expected INDEXED BY t_a, got %s", tn)
	}
	if tn := tables[1].(*ast.TableName); !tn.NotIndexed {
		t.Errorf("expected NOT INDEXED, got %s", tn)
	}
}

func TestOrderByAndLimit(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		comma    bool
	}{
		{"SELECT a FROM t ORDER BY a COLLATE nocase DESC, b LIMIT 10", "SELECT a FROM t ORDER BY a COLLATE nocase DESC, b LIMIT 10", false},
		{"SELECT a FROM t LIMIT 10 OFFSET 5", "SELECT a FROM t LIMIT 10 OFFSET 5", false},
		{"SELECT a FROM t LIMIT 5, 10", "SELECT a FROM t LIMIT 5, 10", true},
	}

	for _, tt := range tests {
		stmt := parseSingle(t, tt.input).(*ast.SelectStatement)
		if stmt.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, stmt.String())
		}
		if stmt.Limit.Comma != tt.comma {
			t.Errorf("%q: expected comma=%v", tt.input, tt.comma)
		}
	}

	// In the comma form the first expression is the offset.
	stmt := parseSingle(t, "SELECT a FROM t LIMIT 5, 10").(*ast.SelectStatement)
	if stmt.Limit.Offset.String() != "5" || stmt.Limit.Limit.String() != "10" {
		t.Errorf("expected offset 5 and limit 10, got %s and %s", stmt.Limit.Offset, stmt.Limit.Limit)
	}

	stmt = parseSingle(t, "SELECT a FROM t ORDER BY a COLLATE nocase DESC").(*ast.SelectStatement)
	term := stmt.OrderBy[0]
	if term.Collation == nil || term.Collation.Value != "nocase" || term.Direction != "DESC" {
		t.Errorf("unexpected ordering term %s", term)
	}
	if _, ok := term.Expr.(*ast.ColumnRef); !ok {
		t.Errorf("expected the collation to be split off, got %T", term.Expr)
	}
}

func TestGroupByHaving(t *testing.T) {
	stmt := parseSingle(t, "SELECT a, count(*) FROM t GROUP BY a, b HAVING count(*) > 1").(*ast.SelectStatement)
	core := stmt.Cores[0]
	if len(core.GroupBy) != 2 {
		t.Fatalf("expected 2 group terms, got %d", len(core.GroupBy))
	}
	if core.Having.String() != "(count(*) > 1)" {
		t.Errorf("unexpected HAVING %s", core.Having)
	}
}

func TestInsertStatement(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"INSERT INTO t (a, b) VALUES (1, 2), (3, 4)", "INSERT INTO t (a, b) VALUES (1, 2), (3, 4)"},
		{"insert or replace into main.t default values", "INSERT OR REPLACE INTO main.t DEFAULT VALUES"},
		{"REPLACE INTO t SELECT * FROM u", "REPLACE INTO t SELECT * FROM u"},
		{"INSERT INTO t AS x VALUES (:a)", "INSERT INTO t AS x VALUES (:a)"},
		{"WITH x AS (SELECT 1) INSERT INTO t SELECT * FROM x", "WITH x AS (SELECT 1) INSERT INTO t SELECT * FROM x"},
	}

	for _, tt := range tests {
		stmt, ok := parseSingle(t, tt.input).(*ast.InsertStatement)
		if !ok {
			t.Fatalf("expected InsertStatement for %q", tt.input)
		}
		if stmt.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, stmt.String())
		}
	}

	stmt := parseSingle(t, "INSERT INTO t (a, b) VALUES (1, 2), (3, 4)").(*ast.InsertStatement)
	if len(stmt.Values) != 2 || len(stmt.Values[1]) != 2 {
		t.Fatalf("expected 2 tuples of 2, got %v", stmt.Values)
	}
	if stmt.Values[1][0].String() != "3" {
		t.Errorf("expected 3, got %s", stmt.Values[1][0])
	}
}

func TestUpdateAndDelete(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		limited  bool
	}{
		{"UPDATE t SET a = 1, b = b + 1 WHERE id = ?", "UPDATE t SET a = 1, b = (b + 1) WHERE (id = ?)", false},
		{"UPDATE OR IGNORE t AS x SET a = 1 ORDER BY a LIMIT 1", "UPDATE OR IGNORE t AS x SET a = 1 ORDER BY a LIMIT 1", true},
		{"DELETE FROM t WHERE a IS NULL", "DELETE FROM t WHERE (a IS NULL)", false},
		{"DELETE FROM main.t LIMIT 10", "DELETE FROM main.t LIMIT 10", true},
	}

	for _, tt := range tests {
		stmt := parseSingle(t, tt.input)
		if stmt.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, stmt.String())
		}
		var limited bool
		switch s := stmt.(type) {
		case *ast.UpdateStatement:
			limited = s.Limited
		case *ast.DeleteStatement:
			limited = s.Limited
		default:
			t.Fatalf("unexpected statement %T", stmt)
		}
		if limited != tt.limited {
			t.Errorf("%q: expected limited=%v", tt.input, tt.limited)
		}
	}
}

func TestCreateTable(t *testing.T) {
	input := `CREATE TEMP TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
		total NUMERIC(10, 2) DEFAULT -1 CHECK (total <> 0),
		note TEXT COLLATE nocase,
		CONSTRAINT one_per_day UNIQUE (customer_id, note) ON CONFLICT REPLACE
	) WITHOUT ROWID`

	stmt, ok := parseSingle(t, input).(*ast.CreateTableStatement)
	if !ok {
		t.Fatalf("expected CreateTableStatement")
	}
	if stmt.Temp != "TEMP" || !stmt.IfNotExists || !stmt.WithoutRowid {
		t.Errorf("unexpected header: temp=%q ifNotExists=%v withoutRowid=%v", stmt.Temp, stmt.IfNotExists, stmt.WithoutRowid)
	}
	if len(stmt.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(stmt.Columns))
	}
	if len(stmt.Constraints) != 1 {
		t.Fatalf("expected 1 table constraint, got %d", len(stmt.Constraints))
	}

	var names []string
	for _, c := range stmt.Columns {
		names = append(names, c.Name.Value)
	}
	if diff := deep.Equal(names, []string{"id", "customer_id", "total", "note"}); diff != nil {
		t.Error(diff)
	}

	total := stmt.Columns[2]
	if total.Type().String() != "NUMERIC(10, 2)" {
		t.Errorf("unexpected type %s", total.Type())
	}
	def := total.Constraints()[0]
	if def.Kind != ast.DefaultColumn {
		t.Fatalf("expected DEFAULT first, got %s", def)
	}
	if _, ok := def.Default.(*ast.UnaryExpression); !ok {
		t.Errorf("expected a signed default, got %T", def.Default)
	}

	uc, ok := stmt.Constraints[0].(*ast.UniqueConstraint)
	if !ok {
		t.Fatalf("expected UniqueConstraint, got %T", stmt.Constraints[0])
	}
	if uc.Name.Value != "one_per_day" || uc.Conflict.Resolution != "REPLACE" {
		t.Errorf("unexpected constraint %s", uc)
	}

	expected := "CREATE TEMP TABLE IF NOT EXISTS orders (" +
		"id INTEGER PRIMARY KEY AUTOINCREMENT, " +
		"customer_id INTEGER NOT NULL REFERENCES customers (id) ON DELETE CASCADE, " +
		"total NUMERIC(10, 2) DEFAULT (- 1) CHECK ((total <> 0)), " +
		"note TEXT COLLATE nocase, " +
		"CONSTRAINT one_per_day UNIQUE (customer_id, note) ON CONFLICT REPLACE) WITHOUT ROWID"
	if stmt.String() != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, stmt.String())
	}
}

func TestCreateTableKeywordNames(t *testing.T) {
	stmt := parseSingle(t, "CREATE TABLE key (order INT, action TEXT)").(*ast.CreateTableStatement)
	if stmt.Table.Name.Value != "key" {
		t.Errorf("expected table key, got %s", stmt.Table)
	}
	if stmt.Columns[0].Name.Value != "order" || stmt.Columns[1].Name.Value != "action" {
		t.Errorf("unexpected columns %s", stmt)
	}
}

func TestCreateTableKeyAmbiguity(t *testing.T) {
	stmt := parseSingle(t, "CREATE TABLE t (key INT, KEY k (key))").(*ast.CreateTableStatement)
	if len(stmt.Columns) != 1 || stmt.Columns[0].Name.Value != "key" {
		t.Fatalf("expected a single column named key, got %s", stmt)
	}
	kc, ok := stmt.Constraints[0].(*ast.KeyConstraint)
	if !ok {
		t.Fatalf("expected KeyConstraint, got %T", stmt.Constraints[0])
	}
	if kc.IndexName.Value != "k" || kc.Columns[0].Expr.String() != "key" {
		t.Errorf("unexpected key constraint %s", kc)
	}

	stmt = parseSingle(t, "CREATE TABLE t (a INT, key)").(*ast.CreateTableStatement)
	if len(stmt.Columns) != 2 || len(stmt.Constraints) != 0 {
		t.Errorf("expected key to be a column, got %s", stmt)
	}
}

func TestCreateTableErrors(t *testing.T) {
	tests := []struct {
		input    string
		contains string
	}{
		{"CREATE TABLE t (PRIMARY KEY (a))", "a column definition"},
		{"CREATE TABLE t (a INT, PRIMARY KEY (a), b INT)", "PRIMARY KEY, UNIQUE, KEY, CHECK or FOREIGN KEY"},
		{"CREATE TABLE t (a INT) WITHOUT oid", "ROWID"},
		{"CREATE TABLE t AS DELETE FROM u", "SELECT"},
		{"CREATE TABLE t (a INT", ")"},
	}

	for _, tt := range tests {
		p := New(lexer.New(tt.input))
		program := p.ParseProgram()
		if len(p.Errors()) == 0 {
			t.Errorf("%q: expected an error", tt.input)
			continue
		}
		if !strings.Contains(p.Errors()[0], tt.contains) {
			t.Errorf("%q: expected error containing %q, got %q", tt.input, tt.contains, p.Errors()[0])
		}
		if len(program.Statements) != 0 {
			t.Errorf("%q: expected the statement to be dropped", tt.input)
		}
	}
}

func TestCreateTableAsSelect(t *testing.T) {
	stmt := parseSingle(t, "CREATE TABLE t2 AS SELECT * FROM t").(*ast.CreateTableStatement)
	if stmt.AsSelect == nil {
		t.Fatalf("expected AS SELECT")
	}
	if stmt.String() != "CREATE TABLE t2 AS SELECT * FROM t" {
		t.Errorf("unexpected %s", stmt)
	}
}

func TestSchemaStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"CREATE UNIQUE INDEX IF NOT EXISTS main.i ON t (a COLLATE nocase DESC, b) WHERE a > 0",
			"CREATE UNIQUE INDEX IF NOT EXISTS main.i ON t (a COLLATE nocase DESC, b) WHERE (a > 0)"},
		{"CREATE TEMPORARY VIEW v AS SELECT a FROM t", "CREATE TEMPORARY VIEW v AS SELECT a FROM t"},
		{"CREATE VIRTUAL TABLE f USING fts5(title, body, tokenize = 'porter unicode61')",
			"CREATE VIRTUAL TABLE f USING fts5(title, body, tokenize = 'porter unicode61')"},
		{"CREATE VIRTUAL TABLE IF NOT EXISTS r USING rtree", "CREATE VIRTUAL TABLE IF NOT EXISTS r USING rtree"},
		{"ALTER TABLE t RENAME TO u", "ALTER TABLE t RENAME TO u"},
		{"ALTER TABLE t RENAME COLUMN a TO b", "ALTER TABLE t RENAME COLUMN a TO b"},
		{"ALTER TABLE t ADD c TEXT NOT NULL DEFAULT ''", "ALTER TABLE t ADD c TEXT NOT NULL DEFAULT ''"},
		{"ALTER TABLE t DROP COLUMN c", "ALTER TABLE t DROP COLUMN c"},
		{"DROP TABLE IF EXISTS main.t", "DROP TABLE IF EXISTS main.t"},
		{"drop view v", "DROP VIEW v"},
		{"DROP PROCEDURE p", "DROP PROCEDURE p"},
	}

	for _, tt := range tests {
		stmt := parseSingle(t, tt.input)
		if stmt.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, stmt.String())
		}
	}

	vt := parseSingle(t, "CREATE VIRTUAL TABLE f USING fts5(a, (b, c), d)").(*ast.CreateVirtualTableStatement)
	if len(vt.Args) != 3 {
		t.Fatalf("expected 3 module arguments, got %d", len(vt.Args))
	}
	if vt.Args[1].String() != "(b, c)" {
		t.Errorf("expected nested argument to stay whole, got %q", vt.Args[1].String())
	}
}

func TestTransactionStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BEGIN", "BEGIN"},
		{"BEGIN IMMEDIATE TRANSACTION t1", "BEGIN IMMEDIATE TRANSACTION t1"},
		{"commit", "COMMIT"},
		{"end transaction", "END TRANSACTION"},
		{"ROLLBACK TO SAVEPOINT s1", "ROLLBACK TO SAVEPOINT s1"},
		{"ROLLBACK TRANSACTION TO s1", "ROLLBACK TRANSACTION TO s1"},
		{"SAVEPOINT s1", "SAVEPOINT s1"},
		{"RELEASE s1", "RELEASE s1"},
		{"RELEASE SAVEPOINT s1", "RELEASE SAVEPOINT s1"},
		{"PRAGMA user_version", "PRAGMA user_version"},
		{"PRAGMA main.cache_size = -2000", "PRAGMA main.cache_size = (- 2000)"},
		{"PRAGMA table_info(t)", "PRAGMA table_info(t)"},
		{"ANALYZE", "ANALYZE"},
		{"ANALYZE main.t", "ANALYZE main.t"},
		{"ATTACH DATABASE 'x.db' AS aux", "ATTACH DATABASE 'x.db' AS aux"},
		{"DETACH aux", "DETACH aux"},
		{"REINDEX nocase", "REINDEX nocase"},
		{"VACUUM", "VACUUM"},
		{"VACUUM main INTO 'backup.db'", "VACUUM main INTO 'backup.db'"},
	}

	for _, tt := range tests {
		stmt := parseSingle(t, tt.input)
		if stmt.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, stmt.String())
		}
	}
}

func TestSqliteTrigger(t *testing.T) {
	input := `CREATE TRIGGER IF NOT EXISTS audit AFTER UPDATE OF qty, price ON items
FOR EACH ROW WHEN NEW.qty < 0
BEGIN
  INSERT INTO log VALUES (OLD.id, NEW.qty);
  SELECT RAISE(ABORT, 'negative');
END`

	stmt, ok := parseSingle(t, input).(*ast.CreateTriggerStatement)
	if !ok {
		t.Fatalf("expected CreateTriggerStatement")
	}
	if stmt.ForTable || stmt.Block != nil {
		t.Fatalf("expected the SQLite form")
	}
	if stmt.Timing != "AFTER" || !stmt.ForEachRow {
		t.Errorf("unexpected timing %q foreachrow=%v", stmt.Timing, stmt.ForEachRow)
	}
	if len(stmt.Events) != 1 || len(stmt.Events[0].Columns) != 2 {
		t.Fatalf("expected UPDATE OF two columns, got %v", stmt.Events)
	}
	if len(stmt.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(stmt.Body))
	}
	expected := "CREATE TRIGGER IF NOT EXISTS audit AFTER UPDATE OF qty, price ON items FOR EACH ROW " +
		"WHEN (NEW.qty < 0) BEGIN INSERT INTO log VALUES (OLD.id, NEW.qty); SELECT RAISE(ABORT, 'negative'); END"
	if stmt.String() != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, stmt.String())
	}

	stmt = parseSingle(t, "CREATE TEMP TRIGGER v_ins INSTEAD OF INSERT ON v BEGIN DELETE FROM t; END").(*ast.CreateTriggerStatement)
	if stmt.Temp != "TEMP" || stmt.Timing != "INSTEAD OF" {
		t.Errorf("unexpected trigger %s", stmt)
	}
}

func TestProceduralTrigger(t *testing.T) {
	input := `CREATE TRIGGER set_id FOR customers ACTIVE BEFORE INSERT OR UPDATE POSITION 5 AS
DECLARE VARIABLE n INTEGER;
BEGIN
  IF (NEW.id IS NULL) THEN NEW.id = GEN_ID(g, 1);
END`

	stmt, ok := parseSingle(t, input).(*ast.CreateTriggerStatement)
	if !ok {
		t.Fatalf("expected CreateTriggerStatement")
	}
	if !stmt.ForTable || stmt.Block == nil {
		t.Fatalf("expected the procedural form")
	}
	if stmt.State != "ACTIVE" || stmt.Timing != "BEFORE" || stmt.Position != "5" {
		t.Errorf("unexpected header: %q %q %q", stmt.State, stmt.Timing, stmt.Position)
	}
	var kinds []string
	for _, ev := range stmt.Events {
		kinds = append(kinds, ev.Kind)
	}
	if diff := deep.Equal(kinds, []string{"INSERT", "UPDATE"}); diff != nil {
		t.Error(diff)
	}
	if len(stmt.Block.Locals) != 1 || !stmt.Block.Locals[0].Variable {
		t.Errorf("expected one DECLARE VARIABLE, got %v", stmt.Block.Locals)
	}
	if got := stmt.Block.Body.Prefix.String(); got != "IF (NEW.id IS NULL) THEN NEW.id = GEN_ID(g, 1);" {
		t.Errorf("unexpected body %q", got)
	}

	// A SQLite-form header may still carry a declare block.
	stmt = parseSingle(t, "CREATE TRIGGER t1 AFTER DELETE ON t AS BEGIN END").(*ast.CreateTriggerStatement)
	if stmt.ForTable || stmt.Block == nil {
		t.Errorf("expected ON table with a declare block, got %s", stmt)
	}
}

func TestProcedureStatement(t *testing.T) {
	input := `CREATE OR ALTER PROCEDURE totals (
  a INTEGER NOT NULL = 1,
  b VARCHAR(10) CHARACTER SET UTF8 DEFAULT 'x',
  c DECIMAL(18, 2) COLLATE unicode_ci
) RETURNS (r DOUBLE PRECISION, s NATIONAL CHARACTER VARYING(5))
AS
DECLARE VARIABLE v NUMERIC(18, 2);
DECLARE variable INTEGER;
DECLARE VARIABLE variable BLOB SUB_TYPE TEXT SEGMENT SIZE 80;
BEGIN
  r = a;
END`

	stmt, ok := parseSingle(t, input).(*ast.CreateProcedureStatement)
	if !ok {
		t.Fatalf("expected CreateProcedureStatement")
	}
	if stmt.Mode != ast.CreateOrAlterProcedure || stmt.Name.Value != "totals" {
		t.Errorf("unexpected header %s %s", stmt.Mode, stmt.Name)
	}

	block := stmt.Block
	var inputs []string
	for _, in := range block.Inputs {
		inputs = append(inputs, in.String())
	}
	if diff := deep.Equal(inputs, []string{
		"a INTEGER NOT NULL = 1",
		"b VARCHAR(10) CHARACTER SET UTF8 DEFAULT 'x'",
		"c DECIMAL(18, 2) COLLATE unicode_ci",
	}); diff != nil {
		t.Error(diff)
	}

	if len(block.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(block.Outputs))
	}
	if block.Outputs[0].Type.Name != "DOUBLE PRECISION" || block.Outputs[0].Type.Family != ast.FloatFamily {
		t.Errorf("unexpected output type %s", block.Outputs[0].Type)
	}
	if block.Outputs[1].Type.Name != "NATIONAL CHARACTER VARYING" || block.Outputs[1].Type.Family != ast.NationalFamily {
		t.Errorf("unexpected output type %s", block.Outputs[1].Type)
	}

	if len(block.Locals) != 3 {
		t.Fatalf("expected 3 locals, got %d", len(block.Locals))
	}
	tests := []struct {
		variable bool
		name     string
		typ      string
	}{
		{true, "v", "NUMERIC(18, 2)"},
		{false, "variable", "INTEGER"},
		{true, "variable", "BLOB SUB_TYPE TEXT SEGMENT SIZE 80"},
	}
	for i, tt := range tests {
		ld := block.Locals[i]
		if ld.Variable != tt.variable || ld.Decl.Name.Value != tt.name || ld.Decl.Type.String() != tt.typ {
			t.Errorf("local %d: expected %v %s %s, got %s", i, tt.variable, tt.name, tt.typ, ld)
		}
	}

	for _, mode := range []struct {
		input string
		mode  ast.ProcedureMode
	}{
		{"CREATE PROCEDURE p AS BEGIN END", ast.CreateProcedure},
		{"ALTER PROCEDURE p AS BEGIN END", ast.AlterProcedure},
		{"RECREATE PROCEDURE p AS BEGIN END", ast.RecreateProcedure},
	} {
		stmt := parseSingle(t, mode.input).(*ast.CreateProcedureStatement)
		if stmt.Mode != mode.mode {
			t.Errorf("%q: expected mode %s, got %s", mode.input, mode.mode, stmt.Mode)
		}
		if stmt.String() != mode.input {
			t.Errorf("expected %q, got %q", mode.input, stmt.String())
		}
	}
}

func TestArrayDimensions(t *testing.T) {
	stmt := parseSingle(t, "EXECUTE BLOCK (a INTEGER[3], b VARCHAR(10)[0:5, -2:2]) AS BEGIN END").(*ast.ExecuteBlockStatement)
	inputs := stmt.Block.Inputs
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	if got := inputs[0].Type.String(); got != "INTEGER[3]" {
		t.Errorf("expected INTEGER[3], got %s", got)
	}
	if got := inputs[1].Type.String(); got != "VARCHAR(10)[0:5, -2:2]" {
		t.Errorf("expected VARCHAR(10)[0:5, -2:2], got %s", got)
	}

	var bounds [][2]int
	for _, d := range inputs[1].Type.Dims {
		bounds = append(bounds, [2]int{d.LowerBound(), d.High})
	}
	if diff := deep.Equal(bounds, [][2]int{{0, 5}, {-2, 2}}); diff != nil {
		t.Error(diff)
	}
	if inputs[0].Type.Dims[0].LowerBound() != 1 {
		t.Errorf("expected implicit lower bound 1")
	}

	mixed := []struct {
		input    string
		printed  string
		explicit []bool
		bounds   [][2]int
	}{
		{"INTEGER[1:10,5]", "INTEGER[1:10, 5]", []bool{true, false}, [][2]int{{1, 10}, {1, 5}}},
		{"INTEGER[1:2, 3, -1:4]", "INTEGER[1:2, 3, -1:4]", []bool{true, false, true}, [][2]int{{1, 2}, {1, 3}, {-1, 4}}},
		{"INTEGER[2, 0:3]", "INTEGER[2, 0:3]", []bool{false, true}, [][2]int{{1, 2}, {0, 3}}},
	}
	for _, tt := range mixed {
		stmt := parseSingle(t, "EXECUTE BLOCK (a "+tt.input+") AS BEGIN END").(*ast.ExecuteBlockStatement)
		dt := stmt.Block.Inputs[0].Type
		if got := dt.String(); got != tt.printed {
			t.Errorf("%s: expected %s, got %s", tt.input, tt.printed, got)
		}
		if len(dt.Dims) != len(tt.explicit) {
			t.Fatalf("%s: expected %d dimensions, got %d", tt.input, len(tt.explicit), len(dt.Dims))
		}
		var explicit []bool
		var bounds [][2]int
		for _, d := range dt.Dims {
			explicit = append(explicit, d.Low != nil)
			bounds = append(bounds, [2]int{d.LowerBound(), d.High})
		}
		if diff := deep.Equal(explicit, tt.explicit); diff != nil {
			t.Errorf("%s: %v", tt.input, diff)
		}
		if diff := deep.Equal(bounds, tt.bounds); diff != nil {
			t.Errorf("%s: %v", tt.input, diff)
		}
	}

	for _, bad := range []string{
		"EXECUTE BLOCK (a INTEGER[1.5]) AS BEGIN END",
		"EXECUTE BLOCK (a INTEGER[99999999999999999999]) AS BEGIN END",
		"EXECUTE BLOCK (a INTEGER[]) AS BEGIN END",
	} {
		p := New(lexer.New(bad))
		p.ParseProgram()
		if len(p.Errors()) == 0 {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestNestedBodies(t *testing.T) {
	input := `EXECUTE BLOCK AS
BEGIN
  x = 1;
  BEGIN
    y = CASE WHEN a THEN 1 END;
  END
  z = 2;
  BEGIN END
END`

	stmt := parseSingle(t, input).(*ast.ExecuteBlockStatement)
	body := stmt.Block.Body
	if body.Prefix.String() != "x = 1;" {
		t.Errorf("unexpected prefix %q", body.Prefix.String())
	}
	if body.Nested == nil || body.Nested.Prefix.String() != "y = CASE WHEN a THEN 1 END;" {
		t.Fatalf("unexpected nested body %v", body.Nested)
	}
	if body.Suffix == nil || body.Suffix.Prefix.String() != "z = 2;" {
		t.Fatalf("unexpected suffix %v", body.Suffix)
	}
	if body.Suffix.Nested == nil || body.Suffix.Nested.Prefix.Len() != 0 {
		t.Errorf("expected an empty nested block in the suffix")
	}
	if body.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", body.Depth())
	}
	expected := "x = 1; BEGIN y = CASE WHEN a THEN 1 END; END z = 2; BEGIN END"
	if body.String() != expected {
		t.Errorf("expected %q, got %q", expected, body.String())
	}

	stmt = parseSingle(t, "EXECUTE BLOCK AS BEGIN BEGIN BEGIN x = 1; END END END").(*ast.ExecuteBlockStatement)
	if stmt.Block.Body.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", stmt.Block.Body.Depth())
	}
}

// Sibling blocks lengthen the segment chain without counting as nesting,
// so a long run of them parses under a small depth limit.
func TestManySiblingBlocks(t *testing.T) {
	const siblings = 5000
	input := "EXECUTE BLOCK AS BEGIN " + strings.Repeat("BEGIN x = 1; END ", siblings) + "END"

	p := NewWithOptions(lexer.New(input), Options{MaxDepth: 8})
	program := p.ParseProgram()
	checkParserErrors(t, p)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}

	body := program.Statements[0].(*ast.ExecuteBlockStatement).Block.Body
	if body.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", body.Depth())
	}
	if body.Segments() != siblings {
		t.Errorf("expected %d segments, got %d", siblings, body.Segments())
	}
	if got := len(body.Tokens()); got != siblings*6 {
		t.Errorf("expected %d tokens, got %d", siblings*6, got)
	}
	expected := strings.TrimSuffix(strings.Repeat("BEGIN x = 1; END ", siblings), " ")
	if body.String() != expected {
		t.Errorf("printed body differs, got prefix %q", body.String()[:40])
	}
}

func TestUnterminatedBody(t *testing.T) {
	p := New(lexer.New("EXECUTE BLOCK AS BEGIN x = 1;"))
	program := p.ParseProgram()
	if len(program.Statements) != 0 {
		t.Fatalf("expected no statements, got %d", len(program.Statements))
	}
	errs := p.ParseErrors()
	if len(errs) != 1 || errs[0].Expected != "END" || errs[0].Rule != "body" {
		t.Fatalf("unexpected errors %v", p.Errors())
	}
}

func TestExplain(t *testing.T) {
	program := parseProgram(t, "EXPLAIN QUERY PLAN SELECT 1; EXPLAIN SELECT 2; SELECT 3")
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	if len(program.Explains) != 2 {
		t.Fatalf("expected 2 explains, got %d", len(program.Explains))
	}
	if program.Explains[0].Index != 0 || !program.Explains[0].QueryPlan {
		t.Errorf("unexpected first explain %+v", program.Explains[0])
	}
	if program.Explains[1].Index != 1 || program.Explains[1].QueryPlan {
		t.Errorf("unexpected second explain %+v", program.Explains[1])
	}
	expected := "EXPLAIN QUERY PLAN SELECT 1;\nEXPLAIN SELECT 2;\nSELECT 3;\n"
	if program.String() != expected {
		t.Errorf("expected %q, got %q", expected, program.String())
	}
}

func TestErrorRecovery(t *testing.T) {
	input := "SELECT 1;\nSELECT FROM t;\nSELECT 2;"
	p := New(lexer.New(input))
	program := p.ParseProgram()

	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	errs := p.ParseErrors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", p.Errors())
	}
	e := errs[0]
	if e.Line != 2 || e.Column != 8 {
		t.Errorf("expected error at 2:8, got %d:%d", e.Line, e.Column)
	}
	if e.Rule != "expr" || e.Expected != "an expression" {
		t.Errorf("unexpected rule %q expected %q", e.Rule, e.Expected)
	}
	if e.Error() != "line 2, col 8: expr: expected an expression, found FROM" {
		t.Errorf("unexpected message %q", e.Error())
	}
	if p.Err() == nil {
		t.Errorf("expected Err to report the error")
	}
}

func TestRecoveryAtLineStart(t *testing.T) {
	// The broken statement has no semicolon; recovery resumes at the
	// statement keyword that starts the next line.
	input := "SELECT (1\nUPDATE t SET a = 1;\nDELETE FROM t"
	p := New(lexer.New(input))
	program := p.ParseProgram()
	if len(p.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %v", p.Errors())
	}
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ast.UpdateStatement); !ok {
		t.Errorf("expected UpdateStatement, got %T", program.Statements[0])
	}
}

// A statement that fails before or inside its block is skipped up to the
// END that closes the block, so nothing of the body is read as statements.
func TestBlockRecovery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"procedure header",
			"CREATE PROCEDURE p (a FOO) AS\nBEGIN\n  x = 1;\nEND;\nSELECT 1;",
			"SELECT 1;\n",
		},
		{
			"execute block locals",
			"EXECUTE BLOCK RETURNS (n INTEGER) AS\nDECLARE VARIABLE i INTEGER = ;\nDECLARE j INTEGER;\n" +
				"BEGIN\n  i = CASE WHEN n > 0 THEN 1 END;\n  BEGIN SUSPEND; END\nEND;\nSELECT 2;",
			"SELECT 2;\n",
		},
		{
			"procedural trigger",
			"CREATE TRIGGER tr FOR t ACTIVE BEFORE FOO AS\nBEGIN\n  new.a = 1;\nEND;\nSELECT 3;",
			"SELECT 3;\n",
		},
		{
			"sqlite trigger body",
			"CREATE TRIGGER tr AFTER INSERT ON t BEGIN\n  UPDATE u SET = 1;\n  DELETE FROM v;\nEND;\nSELECT 4;",
			"SELECT 4;\n",
		},
		{
			"header without body",
			"CREATE PROCEDURE p (a FOO)\nCREATE TABLE t (a);",
			"CREATE TABLE t (a);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			program := p.ParseProgram()
			if len(p.Errors()) != 1 {
				t.Fatalf("expected 1 error, got %v", p.Errors())
			}
			for _, stmt := range program.Statements {
				if _, ok := stmt.(*ast.CommitStatement); ok {
					t.Errorf("block END was parsed as a statement")
				}
			}
			if program.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, program.String())
			}
		})
	}
}

func TestMissingSemicolon(t *testing.T) {
	p := New(lexer.New("SELECT 1\nSELECT 2"))
	program := p.ParseProgram()
	if len(program.Statements) != 2 {
		t.Fatalf("expected both statements to be kept, got %d", len(program.Statements))
	}
	if len(p.Errors()) != 1 || !strings.Contains(p.Errors()[0], "; between statements") {
		t.Errorf("unexpected errors %v", p.Errors())
	}

	p = New(lexer.New("SELECT 1 2"))
	program = p.ParseProgram()
	if len(program.Statements) != 0 || len(p.Errors()) != 1 {
		t.Errorf("expected the statement to be dropped, got %d statements and %v", len(program.Statements), p.Errors())
	}
}

func TestStopOnError(t *testing.T) {
	input := "SELECT FROM;\nSELECT 1;\nSELECT (;"
	p := NewWithOptions(lexer.New(input), Options{StopOnError: true})
	program := p.ParseProgram()
	if len(program.Statements) != 0 {
		t.Errorf("expected no statements, got %d", len(program.Statements))
	}
	if len(p.Errors()) != 1 {
		t.Errorf("expected 1 error, got %v", p.Errors())
	}

	p = New(lexer.New(input))
	program = p.ParseProgram()
	if len(program.Statements) != 1 || len(p.Errors()) != 2 {
		t.Errorf("expected 1 statement and 2 errors, got %d and %v", len(program.Statements), p.Errors())
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	p := New(lexer.New("SELECT 1; # SELECT 2; SELECT 3"))
	program := p.ParseProgram()
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	es, ok := program.Statements[1].(*ast.ErrorStatement)
	if !ok {
		t.Fatalf("expected ErrorStatement, got %T", program.Statements[1])
	}
	if es.Lexeme != "#" {
		t.Errorf("expected lexeme #, got %q", es.Lexeme)
	}
	errs := p.ParseErrors()
	if len(errs) != 1 || !errs[0].Fatal {
		t.Fatalf("expected one fatal error, got %v", p.Errors())
	}

	// Inside a statement it is an ordinary syntax error.
	p = New(lexer.New("SELECT # FROM t; SELECT 2"))
	program = p.ParseProgram()
	if len(program.Statements) != 1 || len(p.Errors()) != 1 || p.ParseErrors()[0].Fatal {
		t.Errorf("expected a recoverable error, got %d statements and %v", len(program.Statements), p.Errors())
	}
}

func TestMaxDepth(t *testing.T) {
	nested := "SELECT " + strings.Repeat("(", 30) + "1" + strings.Repeat(")", 30)

	p := New(lexer.New(nested))
	p.ParseProgram()
	checkParserErrors(t, p)

	p = NewWithOptions(lexer.New(nested), Options{MaxDepth: 20})
	program := p.ParseProgram()
	if len(program.Statements) != 0 {
		t.Errorf("expected the statement to be dropped")
	}
	if len(p.Errors()) != 1 || !strings.Contains(p.Errors()[0], "maximum depth of 20") {
		t.Errorf("unexpected errors %v", p.Errors())
	}

	deepInput := "SELECT " + strings.Repeat("(", 10000) + "1" + strings.Repeat(")", 10000) + "; SELECT 2"
	p = New(lexer.New(deepInput))
	program = p.ParseProgram()
	if len(p.Errors()) != 1 {
		t.Errorf("expected 1 error, got %d", len(p.Errors()))
	}
	if len(program.Statements) != 1 {
		t.Errorf("expected the following statement to survive, got %d", len(program.Statements))
	}
}

func TestStatementDispatchErrors(t *testing.T) {
	tests := []struct {
		input    string
		contains string
	}{
		{"CREATE SEQUENCE s", "TABLE, INDEX, VIEW, TRIGGER, VIRTUAL TABLE or PROCEDURE"},
		{"CREATE OR REPLACE VIEW v AS SELECT 1", "ALTER"},
		{"CREATE UNIQUE TABLE t (a)", "INDEX"},
		{"ALTER INDEX i", "TABLE or PROCEDURE"},
		{"RECREATE TABLE t (a)", "PROCEDURE"},
		{"GRANT ALL", "a statement"},
		{"WITH x AS (SELECT 1) DROP TABLE t", "SELECT, INSERT, UPDATE or DELETE"},
		{"UPDATE t SET a = 1 WHERE", "an expression"},
		{"INSERT INTO t", "VALUES, SELECT or DEFAULT VALUES"},
		{"SELECT a FROM t UNION", "SELECT or VALUES"},
	}

	for _, tt := range tests {
		p := New(lexer.New(tt.input))
		p.ParseProgram()
		if len(p.Errors()) == 0 {
			t.Errorf("%q: expected an error", tt.input)
			continue
		}
		if !strings.Contains(p.Errors()[0], tt.contains) {
			t.Errorf("%q: expected error containing %q, got %q", tt.input, tt.contains, p.Errors()[0])
		}
	}
}

func TestProgramRoundTrip(t *testing.T) {
	input := `
-- schema
CREATE TABLE t (a INTEGER PRIMARY KEY, b TEXT);
INSERT INTO t (b) VALUES ('x');
/* query */
SELECT a, b FROM t WHERE b LIKE 'x%' ORDER BY a DESC LIMIT 1;
DELETE FROM t WHERE a = 1;
`
	program := parseProgram(t, input)
	var got []string
	for _, s := range program.Statements {
		got = append(got, s.String())
	}
	expected := []string{
		"CREATE TABLE t (a INTEGER PRIMARY KEY, b TEXT)",
		"INSERT INTO t (b) VALUES ('x')",
		"SELECT a, b FROM t WHERE (b LIKE 'x%') ORDER BY a DESC LIMIT 1",
		"DELETE FROM t WHERE (a = 1)",
	}
	if diff := deep.Equal(got, expected); diff != nil {
		t.Error(diff)
	}

}
