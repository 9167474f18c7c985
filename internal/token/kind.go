package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the token stream.
	EOF

	Ident      // foo
	Integer    // 123
	StringDQ   // "text"
	StringSQ   // 'text'
	Comment    // /* */ or //
	Newline    // '\n' or ';'
	BlockBegin // indent or '{'
	BlockEnd   // dedent or '}'

	KwAs     // as
	KwDel    // del
	KwElse   // else
	KwFor    // for
	KwFunc   // func
	KwIf     // if
	KwIn     // in
	KwNew    // new
	KwProc   // proc
	KwReturn // return
	KwSpawn  // spawn
	KwType   // type
	KwVar    // var
	KwVerb   // verb

	DotDot      // ..
	AndAnd      // &&
	OrOr        // ||
	MinusMinus  // --
	PlusPlus    // ++
	Shl         // <<
	EqEq        // ==
	BangEq      // !=
	LtEq        // <=
	GtEq        // >=
	PlusAssign  // +=
	MinusAssign // -=
	Arrow       // ->
	Assign      // =
	Bang        // !
	Minus       // -
	Plus        // +
	Slash       // /
	Star        // *
	Lt          // <
	Gt          // >
	Pipe        // |
	Comma       // ,
	Dot         // .
	Colon       // :
	At          // @
	LParen      // (
	RParen      // )
	LBracket    // [
	RBracket    // ]
)

var kindNames = [...]string{
	Invalid:     "INVALID",
	EOF:         "EOF",
	Ident:       "IDENT",
	Integer:     "INTEGER",
	StringDQ:    "STRING_DQ",
	StringSQ:    "STRING_SQ",
	Comment:     "COMMENT",
	Newline:     "NEWLINE",
	BlockBegin:  "BLOCK_BEGIN",
	BlockEnd:    "BLOCK_END",
	KwAs:        "KEYWORD_AS",
	KwDel:       "KEYWORD_DEL",
	KwElse:      "KEYWORD_ELSE",
	KwFor:       "KEYWORD_FOR",
	KwFunc:      "KEYWORD_FUNC",
	KwIf:        "KEYWORD_IF",
	KwIn:        "KEYWORD_IN",
	KwNew:       "KEYWORD_NEW",
	KwProc:      "KEYWORD_PROC",
	KwReturn:    "KEYWORD_RETURN",
	KwSpawn:     "KEYWORD_SPAWN",
	KwType:      "KEYWORD_TYPE",
	KwVar:       "KEYWORD_VAR",
	KwVerb:      "KEYWORD_VERB",
	DotDot:      "SYMBOL_DOT_DOT",
	AndAnd:      "SYMBOL_AND_AND",
	OrOr:        "SYMBOL_OR_OR",
	MinusMinus:  "SYMBOL_MINUS_MINUS",
	PlusPlus:    "SYMBOL_PLUS_PLUS",
	Shl:         "SYMBOL_SHL",
	EqEq:        "SYMBOL_EQ_EQ",
	BangEq:      "SYMBOL_BANG_EQ",
	LtEq:        "SYMBOL_LT_EQ",
	GtEq:        "SYMBOL_GT_EQ",
	PlusAssign:  "SYMBOL_PLUS_ASSIGN",
	MinusAssign: "SYMBOL_MINUS_ASSIGN",
	Arrow:       "SYMBOL_ARROW",
	Assign:      "SYMBOL_ASSIGN",
	Bang:        "SYMBOL_BANG",
	Minus:       "SYMBOL_MINUS",
	Plus:        "SYMBOL_PLUS",
	Slash:       "SYMBOL_SLASH",
	Star:        "SYMBOL_STAR",
	Lt:          "SYMBOL_LT",
	Gt:          "SYMBOL_GT",
	Pipe:        "SYMBOL_PIPE",
	Comma:       "SYMBOL_COMMA",
	Dot:         "SYMBOL_DOT",
	Colon:       "SYMBOL_COLON",
	At:          "SYMBOL_AT",
	LParen:      "SYMBOL_LPAREN",
	RParen:      "SYMBOL_RPAREN",
	LBracket:    "SYMBOL_LBRACKET",
	RBracket:    "SYMBOL_RBRACKET",
}

// String returns the serialized name of the kind (IDENT, BLOCK_BEGIN, ...).
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "INVALID"
}

// KindByName is the inverse of Kind.String.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true //nolint:gosec // table is far below 256 entries
		}
	}
	return Invalid, false
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwAs && k <= KwVerb
}

// IsOperator reports whether k is punctuation or an operator.
func (k Kind) IsOperator() bool {
	return k >= DotDot && k <= RBracket
}

// IsStructural reports whether k is a statement separator or block delimiter.
func (k Kind) IsStructural() bool {
	switch k {
	case Newline, BlockBegin, BlockEnd, EOF:
		return true
	default:
		return false
	}
}
