package render

import (
	"testing"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/ir"
)

func TestDefaultNodes_Simple(t *testing.T) {
	b := newTestBuilder(nil)
	nodes := b.DefaultNodes(&ir.Default{Simple: "42"})
	if len(nodes) != 1 || nodes[0].Kind != doctree.KindText || nodes[0].Text != "42" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
}

func TestDefaultNodes_ExpressionWithLeadingRef(t *testing.T) {
	b := newTestBuilder(nil)
	d := &ir.Default{Expr: &ir.DefaultExpr{
		Display: "C.C1(5)",
		TypeRefs: []ir.TypeRef{
			{Offset: 0, Text: "C.C1", LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.C", Attribute: true}},
		},
	}}

	nodes := b.DefaultNodes(d)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 fragments, got %d: %+v", len(nodes), nodes)
	}
	if nodes[0].Kind != doctree.KindReference || nodes[0].Text != "C.C1" || nodes[0].Target != "pkg.C" {
		t.Errorf("unexpected linked fragment: %+v", nodes[0])
	}
	if nodes[0].Ref != doctree.RefClass {
		t.Errorf("expected class reference, got %s", nodes[0].Ref)
	}
	if nodes[1].Kind != doctree.KindText || nodes[1].Text != "(5)" {
		t.Errorf("unexpected trailing literal: %+v", nodes[1])
	}
}

func TestDefaultNodes_MultipleRefsRoundTrip(t *testing.T) {
	b := newTestBuilder(nil)
	d := &ir.Default{Expr: &ir.DefaultExpr{
		Display: "(A.X, B.Y)",
		TypeRefs: []ir.TypeRef{
			{Offset: 1, Text: "A.X", LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.A"}},
			{Offset: 6, Text: "B.Y", LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.B"}},
		},
	}}

	nodes := b.DefaultNodes(d)
	if got := nodesText(nodes); got != "(A.X, B.Y)" {
		t.Errorf("round trip failed: %q", got)
	}

	want := []struct {
		kind doctree.NodeKind
		text string
	}{
		{doctree.KindText, "("},
		{doctree.KindReference, "A.X"},
		{doctree.KindText, ", "},
		{doctree.KindReference, "B.Y"},
		{doctree.KindText, ")"},
	}
	if len(nodes) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %+v", len(want), len(nodes), nodes)
	}
	for i, w := range want {
		if nodes[i].Kind != w.kind || nodes[i].Text != w.text {
			t.Errorf("frag[%d]: expected %s %q, got %s %q", i, w.kind, w.text, nodes[i].Kind, nodes[i].Text)
		}
	}
}

func TestDefaultNodes_OutOfRangeRefDropped(t *testing.T) {
	b := newTestBuilder(nil)
	d := &ir.Default{Expr: &ir.DefaultExpr{
		Display: "f(x)",
		TypeRefs: []ir.TypeRef{
			{Offset: 10, Text: "x", LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.X"}},
		},
	}}

	nodes := b.DefaultNodes(d)
	if got := nodesText(nodes); got != "f(x)" {
		t.Errorf("round trip failed: %q", got)
	}
	for _, n := range nodes {
		if n.Kind == doctree.KindReference {
			t.Errorf("out-of-range ref should have been dropped, got %+v", n)
		}
	}
}

func TestDefaultNodes_OverlongRefClipped(t *testing.T) {
	b := newTestBuilder(nil)
	d := &ir.Default{Expr: &ir.DefaultExpr{
		Display: "f(x)",
		TypeRefs: []ir.TypeRef{
			{Offset: 2, Text: "xyz", LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.X"}},
		},
	}}

	nodes := b.DefaultNodes(d)
	if got := nodesText(nodes); got != "f(x)" {
		t.Errorf("round trip failed: %q", got)
	}
	if len(nodes) != 2 || nodes[1].Kind != doctree.KindReference || nodes[1].Text != "x)" {
		t.Errorf("expected clipped reference, got %+v", nodes)
	}
}

func TestDefaultNodes_OverlappingRefDropped(t *testing.T) {
	b := newTestBuilder(nil)
	d := &ir.Default{Expr: &ir.DefaultExpr{
		Display: "f(x)",
		TypeRefs: []ir.TypeRef{
			{Offset: 0, Text: "f(x", LinkTarget: &ir.LinkTarget{Kind: ir.KindFunction, Fqn: "pkg.f"}},
			{Offset: 2, Text: "x", LinkTarget: &ir.LinkTarget{Kind: ir.KindClass, Fqn: "pkg.X"}},
		},
	}}

	nodes := b.DefaultNodes(d)
	if got := nodesText(nodes); got != "f(x)" {
		t.Errorf("round trip failed: %q", got)
	}
	// The later ref is placed first (descending offsets); the earlier one
	// collides with it and is dropped.
	refs := 0
	for _, n := range nodes {
		if n.Kind == doctree.KindReference {
			refs++
			if n.Target != "pkg.X" {
				t.Errorf("expected the non-overlapping ref to survive, got %+v", n)
			}
		}
	}
	if refs != 1 {
		t.Errorf("expected 1 surviving ref, got %d", refs)
	}
}

func TestDefaultNodes_UnlinkedRefStaysPlain(t *testing.T) {
	b := newTestBuilder(nil)
	d := &ir.Default{Expr: &ir.DefaultExpr{
		Display:  "size // 2",
		TypeRefs: []ir.TypeRef{{Offset: 0, Text: "size"}},
	}}

	nodes := b.DefaultNodes(d)
	if got := nodesText(nodes); got != "size // 2" {
		t.Errorf("round trip failed: %q", got)
	}
	for _, n := range nodes {
		if n.Kind != doctree.KindText {
			t.Errorf("expected only text fragments, got %+v", n)
		}
	}
}

func TestDefaultNodes_NoRefs(t *testing.T) {
	b := newTestBuilder(nil)
	d := &ir.Default{Expr: &ir.DefaultExpr{Display: "[]"}}

	nodes := b.DefaultNodes(d)
	if len(nodes) != 1 || nodes[0].Text != "[]" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
}

func TestDefaultNodes_Nil(t *testing.T) {
	b := newTestBuilder(nil)
	if nodes := b.DefaultNodes(nil); nodes != nil {
		t.Errorf("expected no nodes, got %+v", nodes)
	}
}
