package token

var keywords = map[string]Kind{
	"as":     KwAs,
	"del":    KwDel,
	"else":   KwElse,
	"for":    KwFor,
	"func":   KwFunc,
	"if":     KwIf,
	"in":     KwIn,
	"new":    KwNew,
	"proc":   KwProc,
	"return": KwReturn,
	"spawn":  KwSpawn,
	"type":   KwType,
	"var":    KwVar,
	"verb":   KwVerb,
}

// LookupKeyword returns the keyword kind for ident. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Operators lists multi-character operators first so greedy matching picks
// the longest spelling.
var Operators = []struct {
	Text string
	Kind Kind
}{
	{"..", DotDot},
	{"&&", AndAnd},
	{"||", OrOr},
	{"--", MinusMinus},
	{"++", PlusPlus},
	{"<<", Shl},
	{"==", EqEq},
	{"!=", BangEq},
	{"<=", LtEq},
	{">=", GtEq},
	{"+=", PlusAssign},
	{"-=", MinusAssign},
	{"->", Arrow},
	{"{", BlockBegin},
	{"}", BlockEnd},
	{";", Newline},
	{"=", Assign},
	{"!", Bang},
	{"-", Minus},
	{"+", Plus},
	{"/", Slash},
	{"*", Star},
	{"<", Lt},
	{">", Gt},
	{"|", Pipe},
	{",", Comma},
	{".", Dot},
	{":", Colon},
	{"@", At},
	{"(", LParen},
	{")", RParen},
	{"[", LBracket},
	{"]", RBracket},
}

// Describe renders k for "Expected ..." messages.
func Describe(k Kind) string {
	switch k {
	case Ident:
		return "identifier"
	case Integer:
		return "integer"
	case StringDQ, StringSQ:
		return "string"
	case Newline:
		return "newline"
	case BlockBegin:
		return "indented block"
	case BlockEnd:
		return "end of block"
	case EOF:
		return "end of input"
	}
	for kw, kind := range keywords {
		if kind == k {
			return "'" + kw + "'"
		}
	}
	for _, op := range Operators {
		if op.Kind == k {
			return "'" + op.Text + "'"
		}
	}
	return k.String()
}
