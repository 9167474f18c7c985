package sema_test

import (
	"testing"

	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/lexer"
	"dmc/internal/parser"
	"dmc/internal/sema"
	"dmc/internal/source"
	"dmc/internal/types"
)

func check(t *testing.T, src string) (sema.Result, *ast.Builder, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("unit.dms", src))
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{}, nil)
	unit, err := parser.ParseFile(file, b, lexer.Options{}, parser.Options{Reporter: reporter})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := sema.Check(b, unit, sema.Options{Reporter: reporter})
	return res, b, bag, err
}

func TestCheckAccepts(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"comparison of ranges", "var a = 1\nvar b = 300\nif a == b\n\ta"},
		{"logical operators", "if true && !false || false\n\tnull"},
		{"relational", "var n = 3\nif n < 10\n\tn++"},
		{"function with return", "func id (v: Size) -> (Size):\n\treturn v"},
		{"void return", "func f () -> ():\n\treturn"},
		{"recursion", "func f (n: Size) -> (Size):\n\treturn f(n)"},
		{"named arguments", "func f (a: Size, b: Bool) -> ()\nf(1, b = true)"},
		{"call result", "func f () -> (r: Size)\nvar x = f() + 1"},
		{"forward declaration", "type T\ntype T\ntype T = (a: Size)\nfunc f (t: T) -> (Size):\n\treturn t.a"},
		{"pointer from null", "func f (p: *U8) -> ()\nf(null)"},
		{"string length", "var s = \"abc\"\nvar n = s.length"},
		{"whole slice and loop", "var s = \"abc\"\nfor (var ch in s[])\n\tch"},
		{"loop over existing", "var s = \"abc\"\nvar ch = 0\nfor (ch in s)\n\tch"},
		{"cast", "var b = 1 as Size"},
		{"spawn", "spawn (10)\n\tnull"},
		{"shadowing in child scope", "var x = 1\nif true\n\tvar x = 2\n\tx += 1"},
		{"parameter shadows global", "var n = 1\nfunc f (n: Size) -> ():\n\treturn"},
		{"named integer against literal", "func f (x: U8) -> ():\n\tif x == 5\n\t\treturn"},
		{"named integer against wider literal", "func f (x: U8) -> ():\n\tif x != 300\n\t\treturn"},
		{"else branch scope", "if false\n\tvar y = 1\nelse\n\tvar y = 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag, err := check(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v\n%s", err, diag.FormatGolden(bag.Items(), false))
			}
		})
	}
}

func TestCheckRejects(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		code    diag.Code
		message string
		at      string
	}{
		{"redefinition", "var x = \"a\"\nvar x = \"b\"", diag.SemaRedefinition, "Redefinition of identifier x", "unit.dms:2:5"},
		{"function shares namespace", "var f = 1\nfunc f () -> ()", diag.SemaRedefinition, "Redefinition of identifier f", "unit.dms:2:6"},
		{"if needs bool", "if (1)\n\tnull", diag.SemaTypeMismatch, "Condition must be of type Bool, got Integer(1, 1)", "unit.dms:1:5"},
		{"unknown name", "var y = x", diag.SemaUnknownIdent, "Unknown name 'x'", "unit.dms:1:9"},
		{"unknown type", "type A = *Missing", diag.SemaUnknownType, "Unknown type name 'Missing'", "unit.dms:1:11"},
		{"type redefinition", "type A = (Size)\ntype A = (Bool)", diag.SemaTypeRedefinition, "Redefinition of type A", "unit.dms:2:6"},
		{"type redefined in child scope", "type A = U8\nif true\n\ttype A = Size", diag.SemaTypeRedefinition, "Redefinition of type A", "unit.dms:3:7"},
		{"type in another scope", "type A\nif true\n\ttype A = (Size)", diag.SemaTypeScopeMismatch, "Definition of type A declared in another scope", "unit.dms:3:7"},
		{"return outside function", "return 1", diag.SemaNotInFunction, "Not in a function", "unit.dms:1:1"},
		{"return wrong type", "func f () -> (Bool):\n\treturn 1", diag.SemaTypeMismatch, "Cannot return Integer(1, 1) from function f returning (Bool)", "unit.dms:2:9"},
		{"and needs bool", "var z = 1 && true", diag.SemaTypeMismatch, "Operator && requires Bool operands, got Integer(1, 1) and Bool", "unit.dms:1:9"},
		{"no common type", "var z = true == 1", diag.SemaNoCommonType, "No common type for Bool and Integer(1, 1)", "unit.dms:1:9"},
		{"unknown member", "var s = \"x\"\nvar n = s.size", diag.SemaUnknownMember, "Unknown member 'size' of String", "unit.dms:2:11"},
		{"index not implemented", "var s = \"x\"\nvar c = s[0]", diag.SemaNotImplemented, "Indexing with an index is not implemented", "unit.dms:2:9"},
		{"bad cast", "var c = true as Size", diag.SemaTypeMismatch, "Cannot convert Bool to Integer(0, 2147483647)", "unit.dms:1:9"},
		{"not fully defined", "type T\nfunc f (t: T) -> (Size):\n\treturn t.a", diag.SemaNotFullyDefined, "Type T has not been fully defined", "unit.dms:3:9"},
		{"argument mismatch", "func f (a: Bool) -> ()\nf(1)", diag.SemaTypeMismatch, "Cannot pass Integer(1, 1) as Bool to function f", "unit.dms:2:3"},
		{"missing argument", "func f (a: Bool) -> ()\nf()", diag.SemaArgumentMismatch, "Missing argument 1 of function f", "unit.dms:2:1"},
		{"shift not implemented", "var q = 1 << 2", diag.SemaNotImplemented, "Operator << is not implemented", "unit.dms:1:9"},
		{"calling a variable", "var v = 1\nv()", diag.SemaNotCallable, "v is not a function", "unit.dms:2:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag, err := check(t, tt.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			fatal, ok := diag.AsFatal(err)
			if !ok {
				t.Fatalf("expected *diag.Fatal, got %T", err)
			}
			if fatal.Diag.Code != tt.code {
				t.Errorf("code = %s, want %s", fatal.Diag.Code.ID(), tt.code.ID())
			}
			if fatal.Diag.Message != tt.message {
				t.Errorf("message = %q, want %q", fatal.Diag.Message, tt.message)
			}
			if got := fatal.Diag.Primary.Start.String(); got != tt.at {
				t.Errorf("position = %s, want %s", got, tt.at)
			}
			if bag.Len() != 1 {
				t.Errorf("expected the error to be reported once, got %d", bag.Len())
			}
		})
	}
}

func TestCheckRecordsExpressionTypes(t *testing.T) {
	res, b, _, err := check(t, "var a = 2 + 3 - 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := b.Blocks.Get(b.Units.Get(1).Body)
	v, _ := b.Stmts.Var(body.Stmts[0])
	if got := types.Label(res.Types, res.ExprTypes[v.Value]); got != "Integer(4, 4)" {
		t.Errorf("type of a = %s", got)
	}
	if _, ok := res.Scopes.Get(res.Globals).Vars["a"]; !ok {
		t.Errorf("a not declared in the unit scope")
	}
}

func TestScopeChain(t *testing.T) {
	scopes := sema.NewScopes()
	root := scopes.Push(sema.NoScopeID, nil)
	fn := &sema.Function{Name: "f"}
	body := scopes.Push(root, fn)
	inner := scopes.Push(body, nil)

	scopes.Get(root).Vars["x"] = &sema.Variable{Name: "x"}
	if v, _ := scopes.FindValue(inner, "x"); v == nil {
		t.Fatalf("x should resolve through parents")
	}
	if got := scopes.InnermostFunction(inner); got != fn {
		t.Fatalf("innermost function = %v", got)
	}
	if scopes.InnermostFunction(root) != nil {
		t.Fatalf("root has no function")
	}
	if _, _, ok := scopes.FindType(inner, "T"); ok {
		t.Fatalf("unexpected type")
	}
}
