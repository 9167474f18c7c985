package parser

import (
	"strings"

	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/lexer"
	"dmc/internal/source"
	"dmc/internal/token"
)

// Dialect selects the top-level grammar of a unit.
type Dialect uint8

const (
	DialectScript Dialect = iota
	// DialectObjectTree is the path/class declaration grammar of .dm units.
	DialectObjectTree
)

func (d Dialect) String() string {
	if d == DialectObjectTree {
		return "objtree"
	}
	return "script"
}

// ParseDialect maps a config value to a Dialect.
func ParseDialect(s string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "script":
		return DialectScript, true
	case "objtree", "object-tree", "dm":
		return DialectObjectTree, true
	}
	return DialectScript, false
}

// DialectFor picks the dialect implied by a unit name.
func DialectFor(unit string, fallback Dialect) Dialect {
	if strings.HasSuffix(unit, ".dm") || strings.HasSuffix(unit, ".dme") {
		return DialectObjectTree
	}
	return fallback
}

type Options struct {
	Reporter diag.Reporter // может быть nil
	Dialect  Dialect
}

// Parser хранит состояние парсера на один юнит. The token list is never mutated;
// backtracking only moves pos.
type Parser struct {
	toks     []token.Token
	pos      int
	unit     string
	arenas   *ast.Builder
	opts     Options
	lastGood source.Span // span of the last consumed token that had one
}

// New prepares a parser over toks. Comments are dropped here.
func New(unit string, toks []token.Token, arenas *ast.Builder, opts Options) *Parser {
	filtered := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == token.Comment || tok.Kind == token.EOF {
			continue
		}
		filtered = append(filtered, tok)
	}
	return &Parser{
		toks:   filtered,
		unit:   unit,
		arenas: arenas,
		opts:   opts,
	}
}

// ParseFile tokenizes and parses one unit, including the final check.
func ParseFile(file *source.File, arenas *ast.Builder, lexOpts lexer.Options, opts Options) (ast.UnitID, error) {
	if lexOpts.Reporter == nil {
		lexOpts.Reporter = opts.Reporter
	}
	toks, err := lexer.Tokenize(file, lexOpts)
	if err != nil {
		return ast.NoUnitID, err
	}
	p := New(file.Name, toks, arenas, opts)
	unit, err := p.ParseUnit()
	if err != nil {
		return ast.NoUnitID, err
	}
	if err := p.FinalCheck(); err != nil {
		return ast.NoUnitID, err
	}
	return unit, nil
}

// ParseUnit parses a whole unit. It stops at the first token that cannot
// start a statement; FinalCheck reports whatever is left.
func (p *Parser) ParseUnit() (ast.UnitID, error) {
	var (
		stmts []ast.StmtID
		span  source.Span
	)
	parseTop := p.parseStatement
	if p.opts.Dialect == DialectObjectTree {
		parseTop = p.parseObjectDecl
	}
	for {
		p.skipNewlines()
		if p.eof() {
			break
		}
		stmt, err := parseTop()
		if err != nil {
			return ast.NoUnitID, err
		}
		if !stmt.IsValid() {
			break
		}
		stmts = append(stmts, stmt)
		span = span.Cover(p.arenas.Stmts.Get(stmt).Span)
		if !p.at(token.Newline) {
			break
		}
	}
	body := p.arenas.Blocks.New(span, stmts)
	return p.arenas.Units.New(p.unit, span, body), nil
}

// FinalCheck fails if ParseUnit left tokens behind.
func (p *Parser) FinalCheck() error {
	p.skipNewlines()
	if p.eof() {
		return nil
	}
	return p.fail(diag.SynUnparsedTokens, p.errSpan(), "Unparsed tokens remaining")
}
