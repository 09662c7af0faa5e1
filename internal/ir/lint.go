package ir

import (
	"fmt"
	"sort"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one problem found while linting an API reference.
type Issue struct {
	Severity string `json:"severity"`
	Module   string `json:"module,omitempty"`
	Fqn      string `json:"fqn,omitempty"`
	Message  string `json:"message"`
}

// Lint checks a package for structural defects before rendering: empty
// names, duplicate fqns, malformed default-value offsets, unknown item
// kinds, and export entries pointing at missing modules. Errors indicate
// the producer emitted a broken reference; warnings degrade output but do
// not block it.
func Lint(pkg *Package) []Issue {
	var issues []Issue
	seen := map[string]string{}

	note := func(severity, module, fqn, format string, args ...any) {
		issues = append(issues, Issue{
			Severity: severity,
			Module:   module,
			Fqn:      fqn,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	register := func(module, fqn string) {
		if prev, ok := seen[fqn]; ok {
			note(SeverityError, module, fqn, "duplicate fqn (already documented in %s)", prev)
			return
		}
		seen[fqn] = module
	}

	names := make([]string, 0, len(pkg.Modules))
	for name := range pkg.Modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mod := pkg.Modules[name]
		if mod.Name != "" && mod.Name != name {
			note(SeverityWarning, name, "", "module key %q does not match module name %q", name, mod.Name)
		}
		for _, kind := range mod.Skipped {
			note(SeverityWarning, name, "", "skipped item with unknown kind %q", kind)
		}
		for _, item := range mod.Items {
			if item.ItemName() == "" {
				note(SeverityError, name, "", "%s item with empty name", item.ItemKind())
				continue
			}
			fqn := name + "." + item.ItemName()
			switch it := item.(type) {
			case *Function:
				register(name, fqn)
				if len(it.Signatures) == 0 {
					note(SeverityWarning, name, fqn, "function has no signatures")
				}
				for _, sig := range it.Signatures {
					lintSignature(note, name, fqn, sig)
				}
			case *Class:
				register(name, fqn)
				for i := range it.Methods {
					m := &it.Methods[i]
					if m.Name == "" {
						note(SeverityError, name, fqn, "method with empty name")
						continue
					}
					register(name, fqn+"."+m.Name)
					for _, sig := range m.Signatures {
						lintSignature(note, name, fqn+"."+m.Name, sig)
					}
				}
				for _, attr := range it.Attributes {
					if attr.Name == "" {
						note(SeverityError, name, fqn, "attribute with empty name")
						continue
					}
					register(name, fqn+"."+attr.Name)
				}
			case *Submodule:
				// Submodule entries reference other modules; the referenced
				// module registers its own fqn.
			default:
				register(name, fqn)
			}
		}
	}

	exports := make([]string, 0, len(pkg.ExportMap))
	for fqn := range pkg.ExportMap {
		exports = append(exports, fqn)
	}
	sort.Strings(exports)
	for _, fqn := range exports {
		target := pkg.ExportMap[fqn]
		if _, ok := pkg.Modules[target]; !ok {
			note(SeverityWarning, target, fqn, "export map points at missing module %q", target)
		}
	}

	return issues
}

func lintSignature(note func(string, string, string, string, ...any), module, fqn string, sig Signature) {
	for _, p := range sig.Parameters {
		if p.Default == nil || p.Default.Expr == nil {
			continue
		}
		expr := p.Default.Expr
		end := len(expr.Display)
		refs := make([]TypeRef, len(expr.TypeRefs))
		copy(refs, expr.TypeRefs)
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].Offset > refs[j].Offset })
		for _, ref := range refs {
			if ref.Offset < 0 || ref.Offset >= len(expr.Display) {
				note(SeverityWarning, module, fqn, "default %q: ref %q offset %d out of range", expr.Display, ref.Text, ref.Offset)
				continue
			}
			if ref.Offset+len(ref.Text) > len(expr.Display) {
				note(SeverityWarning, module, fqn, "default %q: ref %q at offset %d extends past the display text", expr.Display, ref.Text, ref.Offset)
				continue
			}
			if ref.Offset+len(ref.Text) > end {
				note(SeverityWarning, module, fqn, "default %q: ref %q at offset %d overlaps a later ref", expr.Display, ref.Text, ref.Offset)
				continue
			}
			end = ref.Offset
		}
	}
}

// Count returns how many lint issues carry the given severity.
func Count(issues []Issue, severity string) int {
	n := 0
	for _, is := range issues {
		if is.Severity == severity {
			n++
		}
	}
	return n
}
