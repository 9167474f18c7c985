package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/lexer"
	"dmc/internal/parser"
	"dmc/internal/source"
)

type parsed struct {
	b    *ast.Builder
	unit ast.UnitID
	bag  *diag.Bag
	err  error
}

func parseSource(t *testing.T, name, src string, lexOpts lexer.Options, opts parser.Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, src))
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{}, nil)
	unit, err := parser.ParseFile(file, b, lexOpts, opts)
	return parsed{b: b, unit: unit, bag: bag, err: err}
}

func mustParse(t *testing.T, src string) parsed {
	t.Helper()
	res := parseSource(t, "test.dms", src, lexer.Options{}, parser.Options{})
	if res.err != nil {
		t.Fatalf("unexpected error: %v\n%s", res.err, diag.FormatGolden(res.bag.Items(), false))
	}
	return res
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// sexpr renders the unit body as nested s-expressions, one statement per line.
func (r parsed) sexpr() string {
	unit := r.b.Units.Get(r.unit)
	var sb strings.Builder
	for _, st := range r.b.Blocks.Get(unit.Body).Stmts {
		sb.WriteString(r.stmt(st))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r parsed) block(id ast.BlockID) string {
	if !id.IsValid() {
		return "_"
	}
	parts := []string{"block"}
	for _, st := range r.b.Blocks.Get(id).Stmts {
		parts = append(parts, r.stmt(st))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (r parsed) stmt(id ast.StmtID) string {
	st := r.b.Stmts.Get(id)
	s := r.b.Stmts
	switch st.Kind {
	case ast.StmtAssign, ast.StmtPlusAssign, ast.StmtMinusAssign:
		d, _ := s.Assign(id)
		op := map[ast.StmtKind]string{ast.StmtAssign: "=", ast.StmtPlusAssign: "+=", ast.StmtMinusAssign: "-="}[st.Kind]
		return fmt.Sprintf("(%s %s %s)", op, r.expr(d.Target), r.expr(d.Value))
	case ast.StmtExpr:
		d, _ := s.Expr(id)
		return r.expr(d.Expr)
	case ast.StmtDel:
		d, _ := s.Expr(id)
		return "(del " + r.expr(d.Expr) + ")"
	case ast.StmtVar:
		d, _ := s.Var(id)
		return fmt.Sprintf("(var %s %s)", r.expr(d.Name), r.expr(d.Value))
	case ast.StmtIf:
		d, _ := s.If(id)
		return fmt.Sprintf("(if %s %s %s)", r.expr(d.Cond), r.block(d.Then), r.block(d.Else))
	case ast.StmtReturn:
		d, _ := s.Return(id)
		return "(return " + r.expr(d.Value) + ")"
	case ast.StmtForList:
		d, _ := s.ForList(id)
		loopVar := r.expr(d.VarIdent)
		if d.VarDecl.IsValid() {
			loopVar = r.stmt(d.VarDecl)
		}
		return fmt.Sprintf("(for %s %s %s)", loopVar, r.expr(d.Iterable), r.block(d.Body))
	case ast.StmtSpawn:
		d, _ := s.Spawn(id)
		return fmt.Sprintf("(spawn %s %s)", r.expr(d.Delay), r.block(d.Body))
	case ast.StmtFunc:
		d, _ := s.Func(id)
		return fmt.Sprintf("(func %s %s %s %s)", r.expr(d.Name), r.typ(d.Input), r.typ(d.Output), r.block(d.Body))
	case ast.StmtTypeDecl:
		d, _ := s.TypeDecl(id)
		return fmt.Sprintf("(type %s %s)", r.typ(d.Name), r.typ(d.Def))
	case ast.StmtClass:
		d, _ := s.Class(id)
		return fmt.Sprintf("(class %s vars=%d procs=%d verbs=%d props=%d classes=%d)",
			r.b.PathString(d.Path), len(d.Vars), len(d.Procs), len(d.Verbs), len(d.Properties), len(d.Classes))
	case ast.StmtProc:
		d, _ := s.Proc(id)
		return fmt.Sprintf("(proc %s params=%d %s)", r.expr(d.Name), len(d.Params), r.block(d.Body))
	}
	return "?"
}

func (r parsed) typ(id ast.TypeID) string {
	te := r.b.Types.Get(id)
	if te == nil {
		return "_"
	}
	switch te.Kind {
	case ast.TypeExprName:
		return r.b.TypeName(id)
	case ast.TypeExprPointer:
		d, _ := r.b.Types.Pointer(id)
		return "*" + r.typ(d.Elem)
	case ast.TypeExprTuple:
		d, _ := r.b.Types.Tuple(id)
		parts := make([]string, 0, len(d.Items))
		for _, it := range d.Items {
			if it.Name.IsValid() {
				parts = append(parts, r.b.Name(it.Name)+":"+r.typ(it.Type))
			} else {
				parts = append(parts, r.typ(it.Type))
			}
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return "?"
}

func (r parsed) args(a ast.ArgList) string {
	parts := make([]string, 0, len(a.Positional)+len(a.Named))
	for _, e := range a.Positional {
		parts = append(parts, r.expr(e))
	}
	for _, na := range a.Named {
		parts = append(parts, r.b.Name(na.Name)+"="+r.expr(na.Value))
	}
	return strings.Join(parts, " ")
}

func (r parsed) expr(id ast.ExprID) string {
	e := r.b.Exprs.Get(id)
	if e == nil {
		return "_"
	}
	x := r.b.Exprs
	switch e.Kind {
	case ast.ExprIdent, ast.ExprPath:
		return r.b.PathString(id)
	case ast.ExprLitInt:
		d, _ := x.LitInt(id)
		return fmt.Sprint(d.Value)
	case ast.ExprLitString:
		d, _ := x.LitString(id)
		return fmt.Sprintf("%q", r.b.Strings.MustLookup(d.Value))
	case ast.ExprBinary:
		d, _ := x.Binary(id)
		return fmt.Sprintf("(%s %s %s)", d.Op, r.expr(d.Left), r.expr(d.Right))
	case ast.ExprUnary:
		d, _ := x.Unary(id)
		return fmt.Sprintf("(%s %s)", d.Op, r.expr(d.Operand))
	case ast.ExprCall:
		d, _ := x.Call(id)
		return fmt.Sprintf("(call %s [%s])", r.expr(d.Callee), r.args(d.Args))
	case ast.ExprIndex:
		d, _ := x.Index(id)
		return fmt.Sprintf("(index %s %s)", r.expr(d.Base), r.expr(d.Index))
	case ast.ExprMember:
		d, _ := x.Member(id)
		return fmt.Sprintf("(. %s %s)", r.expr(d.Base), r.expr(d.Member))
	case ast.ExprNew:
		d, _ := x.NewData(id)
		return fmt.Sprintf("(new %s [%s])", r.expr(d.Class), r.args(d.Args))
	case ast.ExprSlice:
		d, _ := x.Slice(id)
		return fmt.Sprintf("(.. %s %s)", r.expr(d.Lo), r.expr(d.Hi))
	case ast.ExprCast:
		d, _ := x.Cast(id)
		return fmt.Sprintf("(as %s %s)", r.expr(d.Value), r.typ(d.Type))
	case ast.ExprReturnValue:
		return "<retval>"
	case ast.ExprSuperMethod:
		return "<super>"
	case ast.ExprRootNamespace:
		return "/"
	}
	return "?"
}
