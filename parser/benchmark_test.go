package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/ha1tch/litebird/lexer"
	"github.com/ha1tch/litebird/token"
)

// =============================================================================
// PART 1: Library Micro-Benchmarks
// =============================================================================

// --- Lexer Benchmarks ---

func benchmarkLexer(b *testing.B, input string) {
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := lexer.New(input)
		for {
			tok := l.NextToken()
			if tok.Type == token.EOF {
				break
			}
		}
	}
}

func BenchmarkLexerSimple(b *testing.B) {
	benchmarkLexer(b, `SELECT id, first_name, last_name FROM customers WHERE status = 'active'`)
}

func BenchmarkLexerComplex(b *testing.B) {
	benchmarkLexer(b, `
		WITH regional AS (
			SELECT region, sum(amount) AS total
			FROM orders
			WHERE ordered_at >= '2023-01-01'
			GROUP BY region
		)
		SELECT r.region, r.total, c.name, o.id
		FROM regional r
		JOIN customers c ON c.region = r.region
		LEFT JOIN orders o ON o.customer_id = c.id
		WHERE r.total > X'00FF' AND c.note LIKE '%vip%' ESCAPE '\'
		ORDER BY r.total DESC, o.ordered_at
		LIMIT 10 OFFSET :page
	`)
}

func BenchmarkLexerManyTokens(b *testing.B) {
	cols := make([]string, 100)
	for i := range cols {
		cols[i] = fmt.Sprintf("column%d", i)
	}
	benchmarkLexer(b, "SELECT "+strings.Join(cols, ", ")+" FROM large_table")
}

// --- Parser: Statements ---

func benchmarkParse(b *testing.B, input string) {
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := New(lexer.New(input))
		p.ParseProgram()
		if len(p.ParseErrors()) > 0 {
			b.Fatalf("unexpected errors: %v", p.Errors())
		}
	}
}

func BenchmarkParseSimpleSelect(b *testing.B) {
	benchmarkParse(b, `SELECT * FROM customers`)
}

func BenchmarkParseSelectWithWhere(b *testing.B) {
	benchmarkParse(b, `SELECT id, name FROM customers WHERE status = 'active' AND created_at > '2024-01-01'`)
}

func BenchmarkParseInsert(b *testing.B) {
	benchmarkParse(b, `INSERT OR REPLACE INTO customers (id, name, email) VALUES (?1, ?2, ?3)`)
}

func BenchmarkParseUpdate(b *testing.B) {
	benchmarkParse(b, `UPDATE customers SET status = 'inactive', updated_at = CURRENT_TIMESTAMP WHERE last_seen < date('now', '-1 year')`)
}

func BenchmarkParseDelete(b *testing.B) {
	benchmarkParse(b, `DELETE FROM orders WHERE status = 'cancelled' AND created_at < '2023-01-01'`)
}

func BenchmarkParseJoins(b *testing.B) {
	benchmarkParse(b, `
		SELECT c.name, o.id, p.name
		FROM customers c
		JOIN orders o ON c.id = o.customer_id
		LEFT OUTER JOIN order_items oi ON o.id = oi.order_id
		NATURAL JOIN products p
		CROSS JOIN settings s
		WHERE c.status = 'active'
	`)
}

func BenchmarkParseCTE(b *testing.B) {
	benchmarkParse(b, `
		WITH RECURSIVE tree(id, parent_id, depth) AS (
			SELECT id, parent_id, 0 FROM nodes WHERE parent_id IS NULL
			UNION ALL
			SELECT n.id, n.parent_id, t.depth + 1
			FROM nodes n JOIN tree t ON n.parent_id = t.id
		)
		SELECT * FROM tree ORDER BY depth
	`)
}

func BenchmarkParseSubqueries(b *testing.B) {
	benchmarkParse(b, `
		SELECT name,
			(SELECT count(*) FROM orders WHERE customer_id = c.id) AS order_count
		FROM customers c
		WHERE EXISTS (SELECT 1 FROM orders WHERE customer_id = c.id)
		AND id IN (SELECT customer_id FROM vip)
		AND id NOT IN banned
	`)
}

func BenchmarkParseCreateTable(b *testing.B) {
	benchmarkParse(b, `
		CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(100) NOT NULL COLLATE nocase,
			email TEXT UNIQUE ON CONFLICT IGNORE,
			balance NUMERIC(10, 2) DEFAULT 0 CHECK (balance >= 0),
			parent_id INTEGER REFERENCES customers (id) ON DELETE SET NULL DEFERRABLE INITIALLY DEFERRED,
			CONSTRAINT email_domain CHECK (email LIKE '%@%'),
			FOREIGN KEY (parent_id) REFERENCES customers (id)
		) WITHOUT ROWID
	`)
}

func BenchmarkParseCreateProcedure(b *testing.B) {
	benchmarkParse(b, `
		CREATE OR ALTER PROCEDURE get_orders (customer_id INTEGER NOT NULL, since DATE = NULL)
		RETURNS (order_id BIGINT, total DECIMAL(18, 2))
		AS
		DECLARE VARIABLE n INTEGER = 0;
		DECLARE VARIABLE buf VARCHAR(100) CHARACTER SET UTF8;
		BEGIN
			FOR SELECT id, total FROM orders WHERE customer_id = :customer_id
			INTO :order_id, :total
			DO
			BEGIN
				n = n + 1;
				IF (total > 1000) THEN
				BEGIN
					buf = CASE WHEN n > 10 THEN 'many' ELSE 'few' END;
				END
				SUSPEND;
			END
		END
	`)
}

func BenchmarkParseDeepExpression(b *testing.B) {
	benchmarkParse(b, "SELECT "+strings.Repeat("(", 50)+"1"+strings.Repeat(" + 1)", 50))
}

func BenchmarkParseManyColumns(b *testing.B) {
	cols := make([]string, 200)
	for i := range cols {
		cols[i] = fmt.Sprintf("t.column%d AS c%d", i, i)
	}
	benchmarkParse(b, "SELECT "+strings.Join(cols, ", ")+" FROM large_table t")
}

func BenchmarkParseCaseExpression(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("SELECT CASE status")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, " WHEN %d THEN 'status%d'", i, i)
	}
	sb.WriteString(" ELSE 'unknown' END AS label FROM items")
	benchmarkParse(b, sb.String())
}

func BenchmarkParseMultiStatement(b *testing.B) {
	benchmarkParse(b, `
		BEGIN IMMEDIATE;
		CREATE TEMP TABLE scratch (id INTEGER, value TEXT);
		INSERT INTO scratch SELECT id, name FROM customers;
		UPDATE scratch SET value = upper(value);
		SAVEPOINT s1;
		DELETE FROM scratch WHERE id > 100;
		ROLLBACK TO s1;
		RELEASE s1;
		DROP TABLE scratch;
		COMMIT;
	`)
}

// =============================================================================
// PART 2: Corpus Benchmarks
// =============================================================================

const corpusPath = "../testdata"

func loadCorpus(b *testing.B) ([]string, int) {
	files, err := filepath.Glob(filepath.Join(corpusPath, "*.sql"))
	if err != nil || len(files) == 0 {
		b.Skip("corpus not available")
	}
	sort.Strings(files)

	contents := make([]string, len(files))
	totalBytes := 0
	for i, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			b.Fatalf("failed to read %s: %v", f, err)
		}
		contents[i] = string(data)
		totalBytes += len(data)
	}
	return contents, totalBytes
}

// BenchmarkCorpusAll parses all sample files in sequence
func BenchmarkCorpusAll(b *testing.B) {
	contents, totalBytes := loadCorpus(b)

	b.ResetTimer()
	b.SetBytes(int64(totalBytes))

	for i := 0; i < b.N; i++ {
		for _, content := range contents {
			p := New(lexer.New(content))
			p.ParseProgram()
		}
	}
}

// BenchmarkCorpusParallel parses the corpus from several goroutines, each
// with its own parser.
func BenchmarkCorpusParallel(b *testing.B) {
	contents, _ := loadCorpus(b)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		idx := 0
		for pb.Next() {
			p := New(lexer.New(contents[idx%len(contents)]))
			p.ParseProgram()
			idx++
		}
	})
}

// =============================================================================
// PART 3: Memory Allocation Benchmarks
// =============================================================================

func BenchmarkAllocSimpleSelect(b *testing.B) {
	input := `SELECT * FROM customers WHERE id = 1`
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := New(lexer.New(input))
		p.ParseProgram()
	}
}

func BenchmarkAllocLargeStatement(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO t (a, b, c, d, e) VALUES ")
	for i := 0; i < 100; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "(%d, 'value%d', %d.5, datetime('now'), NULL)", i, i, i)
	}
	input := sb.String()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := New(lexer.New(input))
		p.ParseProgram()
	}
}

func BenchmarkAllocNestedBody(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("EXECUTE BLOCK AS BEGIN ")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "x = %d; BEGIN y = x * 2; END ", i)
	}
	sb.WriteString("END")
	input := sb.String()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := New(lexer.New(input))
		p.ParseProgram()
	}
}
