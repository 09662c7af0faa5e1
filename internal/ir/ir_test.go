package ir

import (
	"encoding/json"
	"testing"
)

func TestModuleUnmarshal_AllKinds(t *testing.T) {
	raw := `{
		"name": "pkg.core",
		"doc": "Core module.",
		"items": [
			{"kind": "Function", "name": "run", "signatures": [{"parameters": [], "return_type": {"display": "None"}}]},
			{"kind": "Class", "name": "Widget", "methods": [{"name": "show", "signatures": []}], "attributes": [{"name": "size"}]},
			{"kind": "TypeAlias", "name": "Vec", "definition": {"display": "list[float]"}},
			{"kind": "Variable", "name": "VERSION", "type": {"display": "str"}},
			{"kind": "Module", "name": "sub", "fqn": "pkg.core.sub"}
		]
	}`
	var mod Module
	if err := json.Unmarshal([]byte(raw), &mod); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.Name != "pkg.core" {
		t.Errorf("expected name %q, got %q", "pkg.core", mod.Name)
	}
	if len(mod.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(mod.Items))
	}

	wantKinds := []Kind{KindFunction, KindClass, KindTypeAlias, KindVariable, KindModule}
	wantNames := []string{"run", "Widget", "Vec", "VERSION", "sub"}
	for i, item := range mod.Items {
		if item.ItemKind() != wantKinds[i] {
			t.Errorf("item[%d]: expected kind %q, got %q", i, wantKinds[i], item.ItemKind())
		}
		if item.ItemName() != wantNames[i] {
			t.Errorf("item[%d]: expected name %q, got %q", i, wantNames[i], item.ItemName())
		}
	}

	cls, ok := mod.Items[1].(*Class)
	if !ok {
		t.Fatalf("expected *Class, got %T", mod.Items[1])
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "show" {
		t.Errorf("expected method %q, got %+v", "show", cls.Methods)
	}
	if len(cls.Attributes) != 1 || cls.Attributes[0].Name != "size" {
		t.Errorf("expected attribute %q, got %+v", "size", cls.Attributes)
	}
}

func TestModuleUnmarshal_UnknownKindSkipped(t *testing.T) {
	raw := `{
		"name": "pkg",
		"items": [
			{"kind": "Hologram", "name": "x"},
			{"kind": "Variable", "name": "y"}
		]
	}`
	var mod Module
	if err := json.Unmarshal([]byte(raw), &mod); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mod.Items) != 1 {
		t.Fatalf("expected unknown kind to be skipped, got %d items", len(mod.Items))
	}
	if mod.Items[0].ItemName() != "y" {
		t.Errorf("expected surviving item %q, got %q", "y", mod.Items[0].ItemName())
	}
	if len(mod.Skipped) != 1 || mod.Skipped[0] != "Hologram" {
		t.Errorf("expected skipped kind %q recorded, got %v", "Hologram", mod.Skipped)
	}
}

func TestDefaultUnmarshal_SimpleString(t *testing.T) {
	var d Default
	if err := json.Unmarshal([]byte(`"42"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Simple != "42" {
		t.Errorf("expected simple %q, got %q", "42", d.Simple)
	}
	if d.Expr != nil {
		t.Errorf("expected nil expr, got %+v", d.Expr)
	}
}

func TestDefaultUnmarshal_Expression(t *testing.T) {
	raw := `{"display": "C.C1(5)", "type_refs": [{"offset": 0, "text": "C.C1", "link_target": {"kind": "Class", "fqn": "pkg.C", "attribute": true}}]}`
	var d Default
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Expr == nil {
		t.Fatal("expected expression form")
	}
	if d.Expr.Display != "C.C1(5)" {
		t.Errorf("expected display %q, got %q", "C.C1(5)", d.Expr.Display)
	}
	if len(d.Expr.TypeRefs) != 1 {
		t.Fatalf("expected 1 type ref, got %d", len(d.Expr.TypeRefs))
	}
	ref := d.Expr.TypeRefs[0]
	if ref.Offset != 0 || ref.Text != "C.C1" {
		t.Errorf("expected ref at 0 with text %q, got offset=%d text=%q", "C.C1", ref.Offset, ref.Text)
	}
	if ref.LinkTarget == nil || ref.LinkTarget.Fqn != "pkg.C" || !ref.LinkTarget.Attribute {
		t.Errorf("expected attribute link to pkg.C, got %+v", ref.LinkTarget)
	}
}

func TestHidden(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"pkg", false},
		{"pkg.core", false},
		{"pkg._internal", true},
		{"pkg._internal.util", true},
		{"_pkg", true},
		{"pkg.sub.deep", false},
	}
	for _, tc := range tests {
		if got := Hidden(tc.name); got != tc.want {
			t.Errorf("Hidden(%q): expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestPackageModuleNames_SortedAndVisible(t *testing.T) {
	pkg := &Package{Modules: map[string]*Module{
		"pkg.zeta":     {Name: "pkg.zeta"},
		"pkg.alpha":    {Name: "pkg.alpha"},
		"pkg._private": {Name: "pkg._private"},
		"pkg":          {Name: "pkg"},
	}}
	got := pkg.ModuleNames()
	want := []string{"pkg", "pkg.alpha", "pkg.zeta"}
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d (%v)", len(want), len(got), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("names[%d]: expected %q, got %q", i, name, got[i])
		}
	}
}
