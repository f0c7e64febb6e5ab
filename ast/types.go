package ast

import (
	"strconv"
	"strings"

	"github.com/ha1tch/litebird/token"
)

// TypeName is the SQLite type_name used by column definitions and CAST:
// one or more name words, up to two signed-number arguments, and trailing
// modifier words such as UNSIGNED or ZEROFILL.
type TypeName struct {
	Token     token.Token
	Names     []*Name
	Args      []*SignedNumber
	Modifiers []*Name
}

func (tn *TypeName) TokenLiteral() string { return tn.Token.Literal }
func (tn *TypeName) String() string {
	var out strings.Builder
	out.WriteString(joinNodes(tn.Names, " "))
	if len(tn.Args) > 0 {
		out.WriteString("(")
		out.WriteString(joinNodes(tn.Args, ", "))
		out.WriteString(")")
	}
	for _, m := range tn.Modifiers {
		out.WriteString(" ")
		out.WriteString(m.String())
	}
	return out.String()
}

func (tn *TypeName) columnPart() {}

// DatatypeFamily groups the alternatives of the procedural datatype grammar.
type DatatypeFamily int

const (
	IntegerFamily  DatatypeFamily = iota // SMALLINT, INTEGER, INT, BIGINT
	FloatFamily                          // FLOAT, DOUBLE PRECISION
	DateTimeFamily                       // DATE, TIME, TIMESTAMP
	DecimalFamily                        // DECIMAL, NUMERIC
	CharFamily                           // CHAR, CHARACTER, CHARACTER VARYING
	VarcharFamily                        // VARCHAR
	NationalFamily                       // NATIONAL CHARACTER [VARYING], NCHAR [VARYING]
	BlobFamily                           // BLOB
)

var familyNames = [...]string{
	IntegerFamily:  "integer",
	FloatFamily:    "float",
	DateTimeFamily: "datetime",
	DecimalFamily:  "decimal",
	CharFamily:     "char",
	VarcharFamily:  "varchar",
	NationalFamily: "national",
	BlobFamily:     "blob",
}

func (f DatatypeFamily) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "DatatypeFamily(" + strconv.Itoa(int(f)) + ")"
}

// Datatype is a parameter or local variable type in a declare block.
//
// Name is the keyword spelling normalised to upper case with single spaces
// ("DOUBLE PRECISION", "NCHAR VARYING"). Args holds a parenthesised
// argument list: precision and scale, a length, or BLOB segment size and
// subtype.
type Datatype struct {
	Token       token.Token
	Family      DatatypeFamily
	Name        string
	Args        []string
	CharSet     *Name
	SubType     *Name
	SegmentSize string
	Dims        []*ArrayDim
}

func (dt *Datatype) TokenLiteral() string { return dt.Token.Literal }
func (dt *Datatype) String() string {
	var out strings.Builder
	out.WriteString(dt.Name)
	if len(dt.Args) > 0 {
		out.WriteString("(")
		out.WriteString(strings.Join(dt.Args, ", "))
		out.WriteString(")")
	}
	if dt.SubType != nil {
		out.WriteString(" SUB_TYPE ")
		out.WriteString(dt.SubType.String())
	}
	if dt.SegmentSize != "" {
		out.WriteString(" SEGMENT SIZE ")
		out.WriteString(dt.SegmentSize)
	}
	if dt.CharSet != nil {
		out.WriteString(" CHARACTER SET ")
		out.WriteString(dt.CharSet.String())
	}
	if len(dt.Dims) > 0 {
		out.WriteString("[")
		out.WriteString(joinNodes(dt.Dims, ", "))
		out.WriteString("]")
	}
	return out.String()
}

// IsArray reports whether the datatype carries array bounds.
func (dt *Datatype) IsArray() bool { return len(dt.Dims) > 0 }

// ArrayDim is one dimension of an array bound list. Low is nil when the
// lower bound is implicit.
type ArrayDim struct {
	Token token.Token
	Low   *int
	High  int
}

func (ad *ArrayDim) TokenLiteral() string { return ad.Token.Literal }
func (ad *ArrayDim) String() string {
	if ad.Low != nil {
		return strconv.Itoa(*ad.Low) + ":" + strconv.Itoa(ad.High)
	}
	return strconv.Itoa(ad.High)
}

// LowerBound returns the effective lower bound, which defaults to 1.
func (ad *ArrayDim) LowerBound() int {
	if ad.Low != nil {
		return *ad.Low
	}
	return 1
}
