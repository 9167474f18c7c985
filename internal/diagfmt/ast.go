package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"dmc/internal/ast"
	"dmc/internal/source"
)

// ASTNodeOutput is one node of the AST dump shared by the JSON and tree
// renderers. Role names the slot the node fills in its parent.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Role     string          `json:"role,omitempty"`
	Span     string          `json:"span,omitempty"`
	Text     string          `json:"text,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

type astDumper struct {
	b *ast.Builder
}

func spanText(sp source.Span) string {
	if sp.IsZero() {
		return ""
	}
	return sp.String()
}

// BuildAST converts a parsed unit into dump nodes.
func BuildAST(b *ast.Builder, unitID ast.UnitID) (ASTNodeOutput, error) {
	unit := b.Units.Get(unitID)
	if unit == nil {
		return ASTNodeOutput{}, fmt.Errorf("unit %d not found", unitID)
	}
	d := astDumper{b: b}
	root := ASTNodeOutput{
		Type: "Unit",
		Text: unit.Name,
		Span: spanText(unit.Span),
	}
	root.Children = d.blockChildren(unit.Body)
	return root, nil
}

// FormatASTJSON пишет AST юнита в JSON.
func FormatASTJSON(w io.Writer, b *ast.Builder, unitID ast.UnitID) error {
	root, err := BuildAST(b, unitID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func (d astDumper) role(n ASTNodeOutput, role string) ASTNodeOutput {
	n.Role = role
	return n
}

func (d astDumper) blockChildren(id ast.BlockID) []ASTNodeOutput {
	block := d.b.Blocks.Get(id)
	if block == nil {
		return nil
	}
	out := make([]ASTNodeOutput, 0, len(block.Stmts))
	for _, s := range block.Stmts {
		out = append(out, d.stmt(s))
	}
	return out
}

func (d astDumper) block(id ast.BlockID, role string) ASTNodeOutput {
	block := d.b.Blocks.Get(id)
	n := ASTNodeOutput{Type: "Block", Role: role}
	if block != nil {
		n.Span = spanText(block.Span)
	}
	n.Children = d.blockChildren(id)
	return n
}

func (d astDumper) appendExpr(n *ASTNodeOutput, id ast.ExprID, role string) {
	if id.IsValid() {
		n.Children = append(n.Children, d.role(d.expr(id), role))
	}
}

func (d astDumper) appendType(n *ASTNodeOutput, id ast.TypeID, role string) {
	if id.IsValid() {
		n.Children = append(n.Children, d.role(d.typeExpr(id), role))
	}
}

func (d astDumper) appendBlock(n *ASTNodeOutput, id ast.BlockID, role string) {
	if id.IsValid() {
		n.Children = append(n.Children, d.block(id, role))
	}
}

func (d astDumper) appendArgs(n *ASTNodeOutput, args ast.ArgList) {
	for _, a := range args.Positional {
		d.appendExpr(n, a, "arg")
	}
	for _, a := range args.Named {
		named := ASTNodeOutput{Type: "NamedArgument", Role: "arg", Text: d.b.Name(a.Name), Span: spanText(a.Span)}
		d.appendExpr(&named, a.Value, "value")
		n.Children = append(n.Children, named)
	}
}

func (d astDumper) stmt(id ast.StmtID) ASTNodeOutput {
	st := d.b.Stmts.Get(id)
	if st == nil {
		return ASTNodeOutput{Type: "<nil>"}
	}
	n := ASTNodeOutput{Type: st.Kind.String(), Span: spanText(st.Span)}
	switch st.Kind {
	case ast.StmtAssign, ast.StmtPlusAssign, ast.StmtMinusAssign:
		data, _ := d.b.Stmts.Assign(id)
		d.appendExpr(&n, data.Target, "target")
		d.appendExpr(&n, data.Value, "value")
	case ast.StmtExpr, ast.StmtDel:
		data, _ := d.b.Stmts.Expr(id)
		d.appendExpr(&n, data.Expr, "expr")
	case ast.StmtForList:
		data, _ := d.b.Stmts.ForList(id)
		if data.VarDecl.IsValid() {
			n.Children = append(n.Children, d.role(d.stmt(data.VarDecl), "var"))
		}
		d.appendExpr(&n, data.VarIdent, "var")
		d.appendExpr(&n, data.Iterable, "iterable")
		d.appendBlock(&n, data.Body, "body")
	case ast.StmtIf:
		data, _ := d.b.Stmts.If(id)
		d.appendExpr(&n, data.Cond, "cond")
		d.appendBlock(&n, data.Then, "then")
		d.appendBlock(&n, data.Else, "else")
	case ast.StmtReturn:
		data, _ := d.b.Stmts.Return(id)
		d.appendExpr(&n, data.Value, "value")
	case ast.StmtSpawn:
		data, _ := d.b.Stmts.Spawn(id)
		d.appendExpr(&n, data.Delay, "delay")
		d.appendBlock(&n, data.Body, "body")
	case ast.StmtFunc:
		data, _ := d.b.Stmts.Func(id)
		n.Text = d.b.Name(data.Name)
		d.appendType(&n, data.Input, "input")
		d.appendType(&n, data.Output, "output")
		for _, attr := range data.Attrs {
			a := ASTNodeOutput{Type: "Attribute", Role: "attr", Text: d.b.Name(attr.Name), Span: spanText(attr.Span)}
			d.appendArgs(&a, attr.Args)
			n.Children = append(n.Children, a)
		}
		d.appendBlock(&n, data.Body, "body")
	case ast.StmtTypeDecl:
		data, _ := d.b.Stmts.TypeDecl(id)
		n.Text = d.b.TypeName(data.Name)
		d.appendType(&n, data.Def, "definition")
	case ast.StmtVar:
		data, _ := d.b.Stmts.Var(id)
		n.Text = d.b.Name(data.Name)
		if data.TypePath.IsValid() {
			n.Fields = map[string]any{"typePath": d.b.PathString(data.TypePath)}
		}
		d.appendExpr(&n, data.Value, "value")
	case ast.StmtClass:
		data, _ := d.b.Stmts.Class(id)
		n.Text = d.b.PathString(data.Path)
		for _, v := range data.Vars {
			n.Children = append(n.Children, d.role(d.stmt(v), "var"))
		}
		for _, p := range data.Properties {
			prop := ASTNodeOutput{Type: "Property", Role: "property", Text: d.b.Name(p.Name), Span: spanText(p.Span)}
			d.appendExpr(&prop, p.Value, "value")
			n.Children = append(n.Children, prop)
		}
		for _, p := range data.Procs {
			proc := d.role(d.stmt(p.Proc), "proc")
			if p.InProcBlock {
				proc.Fields = map[string]any{"inProcBlock": true}
			}
			n.Children = append(n.Children, proc)
		}
		for _, v := range data.Verbs {
			n.Children = append(n.Children, d.role(d.stmt(v), "verb"))
		}
		for _, c := range data.Classes {
			n.Children = append(n.Children, d.role(d.stmt(c), "class"))
		}
	case ast.StmtProc:
		data, _ := d.b.Stmts.Proc(id)
		n.Text = d.b.Name(data.Name)
		for _, p := range data.Params {
			param := ASTNodeOutput{Type: "Parameter", Role: "param", Text: d.b.Name(p.Name), Span: spanText(p.Span)}
			if p.TypePath.IsValid() {
				param.Fields = map[string]any{"typePath": d.b.PathString(p.TypePath)}
			}
			d.appendExpr(&param, p.Default, "default")
			n.Children = append(n.Children, param)
		}
		d.appendBlock(&n, data.Body, "body")
	}
	return n
}

func (d astDumper) expr(id ast.ExprID) ASTNodeOutput {
	e := d.b.Exprs.Get(id)
	if e == nil {
		return ASTNodeOutput{Type: "<nil>"}
	}
	n := ASTNodeOutput{Type: e.Kind.String(), Span: spanText(e.Span)}
	switch e.Kind {
	case ast.ExprIdent:
		n.Text = d.b.Name(id)
	case ast.ExprLitInt:
		data, _ := d.b.Exprs.LitInt(id)
		n.Text = strconv.FormatInt(data.Value, 10)
	case ast.ExprLitString:
		data, _ := d.b.Exprs.LitString(id)
		n.Text = d.b.Strings.MustLookup(data.Value)
		if data.SingleQuoted {
			n.Fields = map[string]any{"singleQuoted": true}
		}
	case ast.ExprPath:
		n.Text = d.b.PathString(id)
	case ast.ExprBinary:
		data, _ := d.b.Exprs.Binary(id)
		n.Text = data.Op.String()
		d.appendExpr(&n, data.Left, "left")
		d.appendExpr(&n, data.Right, "right")
	case ast.ExprUnary:
		data, _ := d.b.Exprs.Unary(id)
		n.Text = data.Op.String()
		d.appendExpr(&n, data.Operand, "operand")
	case ast.ExprCall:
		data, _ := d.b.Exprs.Call(id)
		d.appendExpr(&n, data.Callee, "callee")
		d.appendArgs(&n, data.Args)
	case ast.ExprIndex:
		data, _ := d.b.Exprs.Index(id)
		d.appendExpr(&n, data.Base, "base")
		d.appendExpr(&n, data.Index, "index")
	case ast.ExprMember:
		data, _ := d.b.Exprs.Member(id)
		n.Text = d.b.Name(data.Member)
		d.appendExpr(&n, data.Base, "base")
	case ast.ExprNew:
		data, _ := d.b.Exprs.NewData(id)
		n.Text = d.b.PathString(data.Class)
		d.appendArgs(&n, data.Args)
	case ast.ExprSlice:
		data, _ := d.b.Exprs.Slice(id)
		d.appendExpr(&n, data.Lo, "low")
		d.appendExpr(&n, data.Hi, "high")
	case ast.ExprCast:
		data, _ := d.b.Exprs.Cast(id)
		d.appendExpr(&n, data.Value, "value")
		d.appendType(&n, data.Type, "type")
	}
	return n
}

func (d astDumper) typeExpr(id ast.TypeID) ASTNodeOutput {
	t := d.b.Types.Get(id)
	if t == nil {
		return ASTNodeOutput{Type: "<nil>"}
	}
	n := ASTNodeOutput{Type: t.Kind.String(), Span: spanText(t.Span)}
	switch t.Kind {
	case ast.TypeExprName:
		n.Text = d.b.TypeName(id)
	case ast.TypeExprPointer:
		data, _ := d.b.Types.Pointer(id)
		d.appendType(&n, data.Elem, "elem")
	case ast.TypeExprTuple:
		data, _ := d.b.Types.Tuple(id)
		for _, item := range data.Items {
			slot := ASTNodeOutput{Type: "TupleItem", Role: "item", Span: spanText(item.Span)}
			if item.Name.IsValid() {
				slot.Text = d.b.Name(item.Name)
			}
			d.appendType(&slot, item.Type, "type")
			n.Children = append(n.Children, slot)
		}
	}
	return n
}
