package ir

import (
	"strings"
	"testing"
)

func TestLint_CleanPackage(t *testing.T) {
	pkg := &Package{
		Name: "pkg",
		Modules: map[string]*Module{
			"pkg": {Name: "pkg", Items: []Item{
				&Function{Name: "run", Signatures: []Signature{{}}},
				&Variable{Name: "VERSION"},
			}},
		},
	}
	issues := Lint(pkg)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestLint_DuplicateFqn(t *testing.T) {
	pkg := &Package{Modules: map[string]*Module{
		"pkg": {Name: "pkg", Items: []Item{
			&Variable{Name: "x"},
			&Function{Name: "x", Signatures: []Signature{{}}},
		}},
	}}
	issues := Lint(pkg)
	if Count(issues, SeverityError) != 1 {
		t.Fatalf("expected 1 error, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "duplicate fqn") {
		t.Errorf("expected duplicate fqn message, got %q", issues[0].Message)
	}
	if issues[0].Fqn != "pkg.x" {
		t.Errorf("expected fqn pkg.x, got %q", issues[0].Fqn)
	}
}

func TestLint_EmptyName(t *testing.T) {
	pkg := &Package{Modules: map[string]*Module{
		"pkg": {Name: "pkg", Items: []Item{&Variable{}}},
	}}
	issues := Lint(pkg)
	if Count(issues, SeverityError) != 1 {
		t.Fatalf("expected 1 error, got %v", issues)
	}
}

func TestLint_BadDefaultOffsets(t *testing.T) {
	def := &Default{Expr: &DefaultExpr{
		Display: "f(x)",
		TypeRefs: []TypeRef{
			{Offset: 10, Text: "x"},
			{Offset: 2, Text: "xyz"},
		},
	}}
	pkg := &Package{Modules: map[string]*Module{
		"pkg": {Name: "pkg", Items: []Item{
			&Function{Name: "g", Signatures: []Signature{{
				Parameters: []Parameter{{Name: "a", Default: def}},
			}}},
		}},
	}}
	issues := Lint(pkg)
	if Count(issues, SeverityWarning) != 2 {
		t.Fatalf("expected 2 warnings, got %v", issues)
	}
}

func TestLint_SkippedKindsReported(t *testing.T) {
	pkg := &Package{Modules: map[string]*Module{
		"pkg": {Name: "pkg", Skipped: []string{"Hologram"}},
	}}
	issues := Lint(pkg)
	if Count(issues, SeverityWarning) != 1 {
		t.Fatalf("expected 1 warning, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "Hologram") {
		t.Errorf("expected message to name the kind, got %q", issues[0].Message)
	}
}

func TestLint_ExportMapMissingModule(t *testing.T) {
	pkg := &Package{
		Modules:   map[string]*Module{"pkg": {Name: "pkg"}},
		ExportMap: map[string]string{"pkg.Thing": "pkg.gone"},
	}
	issues := Lint(pkg)
	if Count(issues, SeverityWarning) != 1 {
		t.Fatalf("expected 1 warning, got %v", issues)
	}
}
