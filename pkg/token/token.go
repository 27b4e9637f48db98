package token

type Type int

const (
	EOF Type = iota
	Ident
	Number
	String
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Dot
	Minus
	Plus
	Semi
	Slash
	Star
	Not
	Neq
	Eq
	EqEq
	Lt
	Lte
	Gt
	Gte
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

// KeywordMap maps the 16 reserved words to their token types. It is built
// once and never mutated, so concurrent lexers can share it without locking.
var KeywordMap = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

var typeNames = map[Type]string{
	EOF:    "EOF",
	Ident:  "IDENT",
	Number: "NUMBER",
	String: "STRING",
	LParen: "LPAREN",
	RParen: "RPAREN",
	LBrace: "LBRACE",
	RBrace: "RBRACE",
	Comma:  "COMMA",
	Dot:    "DOT",
	Minus:  "MINUS",
	Plus:   "PLUS",
	Semi:   "SEMI",
	Slash:  "SLASH",
	Star:   "STAR",
	Not:    "NOT",
	Neq:    "NEQ",
	Eq:     "EQ",
	EqEq:   "EQEQ",
	Lt:     "LT",
	Lte:    "LTE",
	Gt:     "GT",
	Gte:    "GTE",
	And:    "AND",
	Class:  "CLASS",
	Else:   "ELSE",
	False:  "FALSE",
	For:    "FOR",
	Fun:    "FUN",
	If:     "IF",
	Nil:    "NIL",
	Or:     "OR",
	Print:  "PRINT",
	Return: "RETURN",
	Super:  "SUPER",
	This:   "THIS",
	True:   "TRUE",
	Var:    "VAR",
	While:  "WHILE",
}

// TypeStrings is the reverse of KeywordMap: token type back to its spelling.
var TypeStrings = make(map[Type]string)

func init() {
	for str, typ := range KeywordMap {
		TypeStrings[typ] = str
	}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is one classified lexeme. Lexeme is the exact source substring the
// scanner consumed; Literal is the decoded value and is set only for Number
// (float64) and String (the text between the quotes) tokens. Line is the
// line the lexeme began on; Column and Len locate it for caret diagnostics.
type Token struct {
	Type      Type
	Lexeme    string
	Literal   any
	FileIndex int
	Line      int
	Column    int
	Len       int
}
