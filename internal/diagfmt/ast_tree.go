package diagfmt

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"dmc/internal/ast"
)

// FormatASTTree prints the unit as an indented tree:
//
//	Unit main (span: main:1:1-2:5)
//	├─ VarStatement x (span: ...)
//	│  └─ value: LiteralInteger 1 (span: ...)
//	└─ ...
func FormatASTTree(w io.Writer, b *ast.Builder, unitID ast.UnitID) error {
	root, err := BuildAST(b, unitID)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString(nodeLabel(root))
	sb.WriteByte('\n')
	writeTreeChildren(&sb, root.Children, "")
	_, err = io.WriteString(w, sb.String())
	return err
}

func nodeLabel(n ASTNodeOutput) string {
	var sb strings.Builder
	if n.Role != "" {
		sb.WriteString(n.Role)
		sb.WriteString(": ")
	}
	sb.WriteString(n.Type)
	if n.Text != "" {
		sb.WriteByte(' ')
		sb.WriteString(n.Text)
	}
	if len(n.Fields) > 0 {
		keys := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, n.Fields[k]))
		}
		sb.WriteString(" [")
		sb.WriteString(strings.Join(parts, " "))
		sb.WriteByte(']')
	}
	if n.Span != "" {
		fmt.Fprintf(&sb, " (span: %s)", n.Span)
	}
	return sb.String()
}

func writeTreeChildren(sb *strings.Builder, children []ASTNodeOutput, prefix string) {
	for i, child := range children {
		last := i == len(children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(nodeLabel(child))
		sb.WriteByte('\n')
		writeTreeChildren(sb, child.Children, prefix+next)
	}
}
