// Package token defines the token kinds and token value produced by the
// Acacia tokenizer (spec.md §3.2).
package token

import "github.com/CBerJun/acacia/pkg/source"

// Kind identifies the lexical category of a Token.
type Kind int

// Token kinds.  Grouped as: structural, brackets, operators, keywords,
// literals (including the multi-token string/command sub-sequences), and
// identifiers, matching spec.md §3.2.
const (
	// Structural.
	INDENT Kind = iota
	DEDENT
	NEWLINE
	END_MARKER

	// Brackets.
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE

	// Punctuation.
	COMMA
	COLON
	DOT
	ARROW // "->"

	// Operators.
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	LT
	GT
	LE
	GE
	EQ
	NE
	ASSIGN     // "="
	WALRUS     // ":="
	REF_ASSIGN // "&name := expr" uses REF then WALRUS
	REF        // "&"
	AUG_PLUS   // "+="
	AUG_MINUS  // "-="
	AUG_STAR   // "*="
	AUG_SLASH  // "/="
	AUG_PCT    // "%="

	// Keywords.
	KW_AND
	KW_OR
	KW_NOT
	KW_TRUE
	KW_FALSE
	KW_NONE
	KW_SELF
	KW_IF
	KW_ELIF
	KW_ELSE
	KW_WHILE
	KW_FOR
	KW_IN
	KW_PASS
	KW_DEF
	KW_INLINE
	KW_CONST
	KW_INTERFACE
	KW_ENTITY
	KW_STRUCT
	KW_IMPORT
	KW_FROM
	KW_AS
	KW_RESULT
	KW_NEW
	KW_VIRTUAL
	KW_OVERRIDE
	KW_STATIC

	// Literals.
	INTEGER
	FLOAT
	IDENTIFIER

	// String sub-token sequence: STRING_BEGIN TEXT_BODY* (DOLLAR_LBRACE
	// <expr tokens>)* ... STRING_END; the lexer consumes each closing `}`
	// without emitting a token for it.
	STRING_BEGIN
	TEXT_BODY
	DOLLAR_LBRACE
	STRING_END

	// Command sub-token sequence, same shape as strings.
	COMMAND_BEGIN
	COMMAND_END

	// interface path, e.g. `interface foo/bar-baz:`
	INTERFACE_PATH
)

var names = map[Kind]string{
	INDENT: "INDENT", DEDENT: "DEDENT", NEWLINE: "NEWLINE", END_MARKER: "END_MARKER",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", LBRACE: "{", RBRACE: "}",
	COMMA: ",", COLON: ":", DOT: ".", ARROW: "->",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	LT: "<", GT: ">", LE: "<=", GE: ">=", EQ: "==", NE: "!=",
	ASSIGN: "=", WALRUS: ":=", REF: "&",
	AUG_PLUS: "+=", AUG_MINUS: "-=", AUG_STAR: "*=", AUG_SLASH: "/=", AUG_PCT: "%=",
	KW_AND: "and", KW_OR: "or", KW_NOT: "not", KW_TRUE: "True", KW_FALSE: "False",
	KW_NONE: "None", KW_SELF: "self", KW_IF: "if", KW_ELIF: "elif", KW_ELSE: "else",
	KW_WHILE: "while", KW_FOR: "for", KW_IN: "in", KW_PASS: "pass", KW_DEF: "def",
	KW_INLINE: "inline", KW_CONST: "const", KW_INTERFACE: "interface", KW_ENTITY: "entity",
	KW_STRUCT: "struct", KW_IMPORT: "import", KW_FROM: "from", KW_AS: "as", KW_RESULT: "result",
	KW_NEW: "new", KW_VIRTUAL: "virtual", KW_OVERRIDE: "override", KW_STATIC: "static",
	INTEGER: "INTEGER", FLOAT: "FLOAT", IDENTIFIER: "IDENTIFIER",
	STRING_BEGIN: "STRING_BEGIN", TEXT_BODY: "TEXT_BODY", DOLLAR_LBRACE: "${", STRING_END: "STRING_END",
	COMMAND_BEGIN: "COMMAND_BEGIN", COMMAND_END: "COMMAND_END",
	INTERFACE_PATH: "INTERFACE_PATH",
}

// String renders this kind's name for debugging and diagnostics.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Keywords maps each reserved word to its keyword Kind; used by the
// tokenizer to classify an identifier-shaped run of characters.
var Keywords = map[string]Kind{
	"and": KW_AND, "or": KW_OR, "not": KW_NOT,
	"True": KW_TRUE, "False": KW_FALSE, "None": KW_NONE, "self": KW_SELF,
	"if": KW_IF, "elif": KW_ELIF, "else": KW_ELSE, "while": KW_WHILE,
	"for": KW_FOR, "in": KW_IN, "pass": KW_PASS, "def": KW_DEF,
	"inline": KW_INLINE, "const": KW_CONST, "interface": KW_INTERFACE,
	"entity": KW_ENTITY, "struct": KW_STRUCT, "import": KW_IMPORT,
	"from": KW_FROM, "as": KW_AS, "result": KW_RESULT, "new": KW_NEW,
	"virtual": KW_VIRTUAL, "override": KW_OVERRIDE, "static": KW_STATIC,
}

// Token is a single lexical unit: a kind, the source range it covers, and an
// optional value (string text, parsed int/float, etc).
type Token struct {
	Kind  Kind
	Range source.Range
	// Value holds kind-specific payload: string for IDENTIFIER/TEXT_BODY/
	// INTERFACE_PATH, int64 for INTEGER, float64 for FLOAT. nil otherwise.
	Value any
}

// Text returns the literal source text this token covers.
func (t Token) Text() string {
	return t.Range.Text()
}
