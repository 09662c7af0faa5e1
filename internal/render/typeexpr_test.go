package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/typeexpr"
	"github.com/dgallion1/apidoc/internal/xref"
)

func newTestBuilder(pkg *ir.Package) *Builder {
	if pkg == nil {
		pkg = &ir.Package{Name: "pkg", Modules: map[string]*ir.Module{}}
	}
	return NewBuilder(pkg, typeexpr.NewResolver(), xref.New())
}

func nodesText(nodes []*doctree.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Text)
	}
	return sb.String()
}

func countText(nodes []*doctree.Node, text string) int {
	count := 0
	for _, n := range nodes {
		if n.Text == text {
			count++
		}
	}
	return count
}

func TestTypeNodes_LinkedGeneric(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{
		Display:    "Wrapper[int]",
		LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.Wrapper"},
		Children:   []ir.TypeExpr{{Display: "int"}},
	}

	nodes := b.TypeNodes(expr)
	if nodesText(nodes) != "Wrapper[int]" {
		t.Errorf("unexpected rendering: %q", nodesText(nodes))
	}
	if nodes[0].Kind != doctree.KindReference || nodes[0].Text != "Wrapper" {
		t.Fatalf("expected base link first, got %+v", nodes[0])
	}
	if nodes[0].Target != "pkg.Wrapper" || nodes[0].Ref != doctree.RefClass {
		t.Errorf("unexpected link: %+v", nodes[0])
	}
}

func TestTypeNodes_LinkedLeaf(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{
		Display:    "Point",
		LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.Point"},
	}

	nodes := b.TypeNodes(expr)
	if len(nodes) != 1 {
		t.Fatalf("expected a single node, got %d", len(nodes))
	}
	if nodes[0].Kind != doctree.KindReference || nodes[0].Text != "Point" || nodes[0].Target != "pkg.Point" {
		t.Errorf("unexpected node: %+v", nodes[0])
	}
}

func TestTypeNodes_Union(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{
		Display: "int | None",
		Children: []ir.TypeExpr{
			{Display: "int"},
			{Display: "None"},
		},
	}

	nodes := b.TypeNodes(expr)
	if nodesText(nodes) != "int | None" {
		t.Errorf("unexpected rendering: %q", nodesText(nodes))
	}
	if countText(nodes, "[") != 0 || countText(nodes, "]") != 0 {
		t.Error("union rendering must not add brackets")
	}
	if countText(nodes, " | ") != 1 {
		t.Errorf("expected one union separator, got %d", countText(nodes, " | "))
	}
}

func TestTypeNodes_UnlinkedGeneric(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{
		Display: "Sequence[int]",
		Children: []ir.TypeExpr{
			{Display: "int"},
		},
	}

	nodes := b.TypeNodes(expr)
	if nodesText(nodes) != "Sequence[int]" {
		t.Errorf("unexpected rendering: %q", nodesText(nodes))
	}
	// The base has no direct link, so it resolves through classification.
	if nodes[0].Kind != doctree.KindReference || nodes[0].Target != "collections.abc.Sequence" {
		t.Errorf("expected scanned base to link externally, got %+v", nodes[0])
	}
}

func TestTypeNodes_UnionNestedInGeneric(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{
		Display: "dict[str, int | None]",
		Children: []ir.TypeExpr{
			{Display: "str"},
			{
				Display: "int | None",
				Children: []ir.TypeExpr{
					{Display: "int"},
					{Display: "None"},
				},
			},
		},
	}

	nodes := b.TypeNodes(expr)
	// The separator inside the brackets must not trigger union layout at
	// the top level.
	if nodesText(nodes) != "dict[str, int | None]" {
		t.Errorf("unexpected rendering: %q", nodesText(nodes))
	}
	if countText(nodes, "[") != 1 || countText(nodes, "]") != 1 {
		t.Error("expected exactly one bracket pair")
	}
}

func TestTypeNodes_BracketBalance(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{
		Display: "tuple[int, str, float]",
		Children: []ir.TypeExpr{
			{Display: "int"},
			{Display: "str"},
			{Display: "float"},
		},
	}

	nodes := b.TypeNodes(expr)
	if countText(nodes, "[") != 1 || countText(nodes, "]") != 1 {
		t.Error("expected exactly one bracket pair")
	}
	if got := countText(nodes, ", "); got != len(expr.Children)-1 {
		t.Errorf("expected %d argument separators, got %d", len(expr.Children)-1, got)
	}
}

func TestTypeNodes_PlainLeaf(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{Display: "dict[str, numpy.ndarray]"}

	nodes := b.TypeNodes(expr)
	if nodesText(nodes) != "dict[str, numpy.ndarray]" {
		t.Errorf("unexpected rendering: %q", nodesText(nodes))
	}
	linked := 0
	for _, n := range nodes {
		if n.Kind == doctree.KindReference {
			linked++
			if n.Target != "numpy.ndarray" {
				t.Errorf("unexpected link target: %+v", n)
			}
		}
	}
	if linked != 1 {
		t.Errorf("expected one linked identifier, got %d", linked)
	}
}

func TestTypeNodes_Deterministic(t *testing.T) {
	b := newTestBuilder(nil)
	expr := &ir.TypeExpr{
		Display: "Mapping[str, list[int] | None]",
		Children: []ir.TypeExpr{
			{Display: "str"},
			{
				Display: "list[int] | None",
				Children: []ir.TypeExpr{
					{Display: "list[int]", Children: []ir.TypeExpr{{Display: "int"}}},
					{Display: "None"},
				},
			},
		},
	}

	first := b.TypeNodes(expr)
	for i := 0; i < 5; i++ {
		if !reflect.DeepEqual(first, b.TypeNodes(expr)) {
			t.Fatal("repeated rendering produced a different fragment sequence")
		}
	}
}

func TestTypeNodes_Nil(t *testing.T) {
	b := newTestBuilder(nil)
	if nodes := b.TypeNodes(nil); nodes != nil {
		t.Errorf("expected no nodes for nil type, got %d", len(nodes))
	}
}
