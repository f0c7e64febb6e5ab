// Package token defines constants representing the lexical tokens of the
// SQLite/Firebird dialect understood by litebird.
package token

import (
	"fmt"
	"strings"
)

// Type represents the type of a lexical token.
type Type int

const (
	// Special tokens
	ILLEGAL Type = iota
	EOF
	COMMENT
	UNEXPECTED_CHAR // input the scanner could not classify

	// Identifiers and literals
	IDENT        // name, "name", [name], `name`
	NUMBER       // 42, 3.14, 1e10, 0x1F
	STRING       // 'string literal'
	BLOB_LITERAL // X'CAFE'
	BIND         // ?, ?1, :name, @name, $name

	// Operators
	CONCAT   // ||
	STAR     // *
	SLASH    // /
	PERCENT  // %
	PLUS     // +
	MINUS    // -
	TILDE    // ~
	LSHIFT   // <<
	RSHIFT   // >>
	AMP      // &
	PIPE     // |
	LT       // <
	LTE      // <=
	GT       // >
	GTE      // >=
	EQ       // =
	DOUBLEEQ // ==
	NEQ      // != or <>

	// Delimiters
	SEMICOLON // ;
	COLON     // :
	COMMA     // ,
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [ (array bounds only)
	RBRACKET  // ]

	keyword_beg
	ABORT
	ACTION
	ADD
	AFTER
	ALL
	ALTER
	ANALYZE
	AND
	AS
	ASC
	ATTACH
	AUTOINCREMENT
	BEFORE
	BEGIN
	BETWEEN
	BY
	CASCADE
	CASE
	CAST
	CHECK
	COLLATE
	COLUMN
	COMMIT
	CONFLICT
	CONSTRAINT
	CREATE
	CROSS
	CURRENT_DATE
	CURRENT_TIME
	CURRENT_TIMESTAMP
	DATABASE
	DEFAULT
	DEFERRABLE
	DEFERRED
	DELETE
	DESC
	DETACH
	DISTINCT
	DROP
	EACH
	ELSE
	ENABLE
	END
	ESCAPE
	EXCEPT
	EXCLUSIVE
	EXISTS
	EXPLAIN
	FAIL
	FOR
	FOREIGN
	FROM
	FULL
	GLOB
	GROUP
	HAVING
	IF
	IGNORE
	IMMEDIATE
	IN
	INDEX
	INDEXED
	INITIALLY
	INNER
	INSERT
	INSTEAD
	INTERSECT
	INTO
	IS
	ISNULL
	JOIN
	KEY
	LEFT
	LIKE
	LIMIT
	MATCH
	NATURAL
	NO
	NOT
	NOTNULL
	NULL
	OF
	OFFSET
	ON
	OR
	ORDER
	OUTER
	PLAN
	PRAGMA
	PRIMARY
	QUERY
	RAISE
	RECURSIVE
	REFERENCES
	REGEXP
	REINDEX
	RELEASE
	RENAME
	REPLACE
	RESTRICT
	RIGHT
	ROLLBACK
	ROW
	SAVEPOINT
	SELECT
	SET
	TABLE
	TEMP
	TEMPORARY
	THEN
	TO
	TRANSACTION
	TRIGGER
	UNION
	UNIQUE
	UPDATE
	USING
	VACUUM
	VALUES
	VIEW
	VIRTUAL
	WHEN
	WHERE
	WITH
	WITHOUT

	// Firebird procedural extensions
	ACTIVE
	BLOCK
	DECLARE
	EXECUTE
	INACTIVE
	POSITION
	PROCEDURE
	RECREATE
	RETURNS
	VARIABLE

	// Firebird data types
	BIGINT
	BLOB
	CHAR
	CHARACTER
	DATE
	DECIMAL
	DOUBLE
	FLOAT
	INT
	INTEGER
	NATIONAL
	NCHAR
	NUMERIC
	PRECISION
	SEGMENT
	SIZE
	SMALLINT
	SUB_TYPE
	TIME
	TIMESTAMP
	VARCHAR
	VARYING
	keyword_end
)

var tokenNames = map[Type]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "EOF",
	COMMENT:         "COMMENT",
	UNEXPECTED_CHAR: "UNEXPECTED_CHAR",
	IDENT:           "IDENT",
	NUMBER:          "NUMBER",
	STRING:          "STRING",
	BLOB_LITERAL:    "BLOB_LITERAL",
	BIND:            "BIND",
	CONCAT:          "||",
	STAR:            "*",
	SLASH:           "/",
	PERCENT:         "%",
	PLUS:            "+",
	MINUS:           "-",
	TILDE:           "~",
	LSHIFT:          "<<",
	RSHIFT:          ">>",
	AMP:             "&",
	PIPE:            "|",
	LT:              "<",
	LTE:             "<=",
	GT:              ">",
	GTE:             ">=",
	EQ:              "=",
	DOUBLEEQ:        "==",
	NEQ:             "!=",
	SEMICOLON:       ";",
	COLON:           ":",
	COMMA:           ",",
	DOT:             ".",
	LPAREN:          "(",
	RPAREN:          ")",
	LBRACKET:        "[",
	RBRACKET:        "]",
}

var keywords = map[string]Type{
	"ABORT":             ABORT,
	"ACTION":            ACTION,
	"ADD":               ADD,
	"AFTER":             AFTER,
	"ALL":               ALL,
	"ALTER":             ALTER,
	"ANALYZE":           ANALYZE,
	"AND":               AND,
	"AS":                AS,
	"ASC":               ASC,
	"ATTACH":            ATTACH,
	"AUTOINCREMENT":     AUTOINCREMENT,
	"BEFORE":            BEFORE,
	"BEGIN":             BEGIN,
	"BETWEEN":           BETWEEN,
	"BY":                BY,
	"CASCADE":           CASCADE,
	"CASE":              CASE,
	"CAST":              CAST,
	"CHECK":             CHECK,
	"COLLATE":           COLLATE,
	"COLUMN":            COLUMN,
	"COMMIT":            COMMIT,
	"CONFLICT":          CONFLICT,
	"CONSTRAINT":        CONSTRAINT,
	"CREATE":            CREATE,
	"CROSS":             CROSS,
	"CURRENT_DATE":      CURRENT_DATE,
	"CURRENT_TIME":      CURRENT_TIME,
	"CURRENT_TIMESTAMP": CURRENT_TIMESTAMP,
	"DATABASE":          DATABASE,
	"DEFAULT":           DEFAULT,
	"DEFERRABLE":        DEFERRABLE,
	"DEFERRED":          DEFERRED,
	"DELETE":            DELETE,
	"DESC":              DESC,
	"DETACH":            DETACH,
	"DISTINCT":          DISTINCT,
	"DROP":              DROP,
	"EACH":              EACH,
	"ELSE":              ELSE,
	"ENABLE":            ENABLE,
	"END":               END,
	"ESCAPE":            ESCAPE,
	"EXCEPT":            EXCEPT,
	"EXCLUSIVE":         EXCLUSIVE,
	"EXISTS":            EXISTS,
	"EXPLAIN":           EXPLAIN,
	"FAIL":              FAIL,
	"FOR":               FOR,
	"FOREIGN":           FOREIGN,
	"FROM":              FROM,
	"FULL":              FULL,
	"GLOB":              GLOB,
	"GROUP":             GROUP,
	"HAVING":            HAVING,
	"IF":                IF,
	"IGNORE":            IGNORE,
	"IMMEDIATE":         IMMEDIATE,
	"IN":                IN,
	"INDEX":             INDEX,
	"INDEXED":           INDEXED,
	"INITIALLY":         INITIALLY,
	"INNER":             INNER,
	"INSERT":            INSERT,
	"INSTEAD":           INSTEAD,
	"INTERSECT":         INTERSECT,
	"INTO":              INTO,
	"IS":                IS,
	"ISNULL":            ISNULL,
	"JOIN":              JOIN,
	"KEY":               KEY,
	"LEFT":              LEFT,
	"LIKE":              LIKE,
	"LIMIT":             LIMIT,
	"MATCH":             MATCH,
	"NATURAL":           NATURAL,
	"NO":                NO,
	"NOT":               NOT,
	"NOTNULL":           NOTNULL,
	"NULL":              NULL,
	"OF":                OF,
	"OFFSET":            OFFSET,
	"ON":                ON,
	"OR":                OR,
	"ORDER":             ORDER,
	"OUTER":             OUTER,
	"PLAN":              PLAN,
	"PRAGMA":            PRAGMA,
	"PRIMARY":           PRIMARY,
	"QUERY":             QUERY,
	"RAISE":             RAISE,
	"RECURSIVE":         RECURSIVE,
	"REFERENCES":        REFERENCES,
	"REGEXP":            REGEXP,
	"REINDEX":           REINDEX,
	"RELEASE":           RELEASE,
	"RENAME":            RENAME,
	"REPLACE":           REPLACE,
	"RESTRICT":          RESTRICT,
	"RIGHT":             RIGHT,
	"ROLLBACK":          ROLLBACK,
	"ROW":               ROW,
	"SAVEPOINT":         SAVEPOINT,
	"SELECT":            SELECT,
	"SET":               SET,
	"TABLE":             TABLE,
	"TEMP":              TEMP,
	"TEMPORARY":         TEMPORARY,
	"THEN":              THEN,
	"TO":                TO,
	"TRANSACTION":       TRANSACTION,
	"TRIGGER":           TRIGGER,
	"UNION":             UNION,
	"UNIQUE":            UNIQUE,
	"UPDATE":            UPDATE,
	"USING":             USING,
	"VACUUM":            VACUUM,
	"VALUES":            VALUES,
	"VIEW":              VIEW,
	"VIRTUAL":           VIRTUAL,
	"WHEN":              WHEN,
	"WHERE":             WHERE,
	"WITH":              WITH,
	"WITHOUT":           WITHOUT,
	"ACTIVE":            ACTIVE,
	"BLOCK":             BLOCK,
	"DECLARE":           DECLARE,
	"EXECUTE":           EXECUTE,
	"INACTIVE":          INACTIVE,
	"POSITION":          POSITION,
	"PROCEDURE":         PROCEDURE,
	"RECREATE":          RECREATE,
	"RETURNS":           RETURNS,
	"VARIABLE":          VARIABLE,
	"BIGINT":            BIGINT,
	"BLOB":              BLOB,
	"CHAR":              CHAR,
	"CHARACTER":         CHARACTER,
	"DATE":              DATE,
	"DECIMAL":           DECIMAL,
	"DOUBLE":            DOUBLE,
	"FLOAT":             FLOAT,
	"INT":               INT,
	"INTEGER":           INTEGER,
	"NATIONAL":          NATIONAL,
	"NCHAR":             NCHAR,
	"NUMERIC":           NUMERIC,
	"PRECISION":         PRECISION,
	"SEGMENT":           SEGMENT,
	"SIZE":              SIZE,
	"SMALLINT":          SMALLINT,
	"SUB_TYPE":          SUB_TYPE,
	"TIME":              TIME,
	"TIMESTAMP":         TIMESTAMP,
	"VARCHAR":           VARCHAR,
	"VARYING":           VARYING,
}

func init() {
	for kw, typ := range keywords {
		tokenNames[typ] = kw
	}
}

// String returns a string representation of the token type.
func (t Type) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// LookupIdent checks if an identifier is a keyword. The lookup is
// case-insensitive.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func (t Type) IsKeyword() bool {
	return t > keyword_beg && t < keyword_end
}

// Keywords returns the upper-case spelling of every keyword.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for kw := range keywords {
		out = append(out, kw)
	}
	return out
}

// Token represents a lexical token with position information.
//
// Literal is the canonical value: quotes are stripped from quoted
// identifiers and strings and doubled quote characters are collapsed.
// Raw is the exact source lexeme.
type Token struct {
	Type    Type
	Literal string
	Raw     string
	Line    int
	Column  int
	Offset  int
}

// Pos returns the token's source position.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column, Offset: t.Offset}
}

// Position represents a position in source code.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
