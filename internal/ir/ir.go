// Package ir models the machine-readable API reference consumed by the
// documentation builder.
package ir

import (
	"encoding/json"
	"sort"
	"strings"
)

// Kind discriminates documentation items and link targets.
type Kind string

const (
	KindFunction  Kind = "Function"
	KindClass     Kind = "Class"
	KindTypeAlias Kind = "TypeAlias"
	KindVariable  Kind = "Variable"
	KindModule    Kind = "Module"
)

// TypeExpr is a type expression: display text, an optional link for the
// base symbol, and nested children for generic arguments or union members.
type TypeExpr struct {
	Display    string      `json:"display"`
	LinkTarget *LinkTarget `json:"link_target,omitempty"`
	Children   []TypeExpr  `json:"children,omitempty"`
}

// LinkTarget points a rendered reference at the symbol it names.
type LinkTarget struct {
	Kind      Kind   `json:"kind"`
	Fqn       string `json:"fqn"`
	DocModule string `json:"doc_module,omitempty"`
	Attribute bool   `json:"attribute,omitempty"`
}

// TypeRef marks a linked span inside a default value's display string.
type TypeRef struct {
	Offset     int         `json:"offset"`
	Text       string      `json:"text"`
	LinkTarget *LinkTarget `json:"link_target,omitempty"`
}

// DefaultExpr is a default value carrying linked spans at recorded offsets.
type DefaultExpr struct {
	Display  string    `json:"display"`
	TypeRefs []TypeRef `json:"type_refs,omitempty"`
}

// Default is a parameter default value: either a plain literal (Simple) or
// an expression with embedded type references (Expr non-nil).
type Default struct {
	Simple string
	Expr   *DefaultExpr
}

// UnmarshalJSON accepts a bare string for the simple form and an object
// for the expression form.
func (d *Default) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		d.Simple = s
		d.Expr = nil
		return nil
	}
	var e DefaultExpr
	if err := json.Unmarshal(b, &e); err != nil {
		return err
	}
	d.Simple = ""
	d.Expr = &e
	return nil
}

// MarshalJSON writes the simple form as a bare string.
func (d Default) MarshalJSON() ([]byte, error) {
	if d.Expr != nil {
		return json.Marshal(d.Expr)
	}
	return json.Marshal(d.Simple)
}

// Parameter is one parameter of a signature.
type Parameter struct {
	Name    string    `json:"name"`
	Type    *TypeExpr `json:"type,omitempty"`
	Default *Default  `json:"default,omitempty"`
}

// Signature is one callable form of a function or method.
type Signature struct {
	Parameters []Parameter `json:"parameters"`
	ReturnType *TypeExpr   `json:"return_type,omitempty"`
}

// Deprecated marks an item as deprecated, optionally noting since when and
// what to use instead.
type Deprecated struct {
	Since string `json:"since,omitempty"`
	Note  string `json:"note,omitempty"`
}

// Item is one documented symbol within a module. The concrete types form a
// closed set discriminated by ItemKind.
type Item interface {
	ItemKind() Kind
	ItemName() string
}

// Function documents a module-level function or a class method.
type Function struct {
	Name       string      `json:"name"`
	Doc        string      `json:"doc,omitempty"`
	Signatures []Signature `json:"signatures"`
	IsAsync    bool        `json:"is_async,omitempty"`
	Deprecated *Deprecated `json:"deprecated,omitempty"`
}

func (f *Function) ItemKind() Kind   { return KindFunction }
func (f *Function) ItemName() string { return f.Name }

// Attribute is a class attribute or enum variant.
type Attribute struct {
	Name string    `json:"name"`
	Type *TypeExpr `json:"type,omitempty"`
	Doc  string    `json:"doc,omitempty"`
}

// Class documents a class, its bases, methods and attributes.
type Class struct {
	Name       string      `json:"name"`
	Doc        string      `json:"doc,omitempty"`
	Bases      []TypeExpr  `json:"bases,omitempty"`
	Methods    []Function  `json:"methods,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Deprecated *Deprecated `json:"deprecated,omitempty"`
}

func (c *Class) ItemKind() Kind   { return KindClass }
func (c *Class) ItemName() string { return c.Name }

// TypeAlias documents a named type alias and its definition.
type TypeAlias struct {
	Name       string    `json:"name"`
	Doc        string    `json:"doc,omitempty"`
	Definition *TypeExpr `json:"definition,omitempty"`
}

func (a *TypeAlias) ItemKind() Kind   { return KindTypeAlias }
func (a *TypeAlias) ItemName() string { return a.Name }

// Variable documents a module-level variable or constant.
type Variable struct {
	Name string    `json:"name"`
	Doc  string    `json:"doc,omitempty"`
	Type *TypeExpr `json:"type,omitempty"`
}

func (v *Variable) ItemKind() Kind   { return KindVariable }
func (v *Variable) ItemName() string { return v.Name }

// Submodule references a child module from its parent's item list.
type Submodule struct {
	Name string `json:"name"`
	Fqn  string `json:"fqn"`
	Doc  string `json:"doc,omitempty"`
}

func (s *Submodule) ItemKind() Kind   { return KindModule }
func (s *Submodule) ItemName() string { return s.Name }

// Module is one documented module: its docstring and ordered items.
type Module struct {
	Name  string
	Doc   string
	Items []Item

	// Skipped holds the kind strings of items dropped during decoding
	// because their kind was not recognized.
	Skipped []string
}

// UnmarshalJSON decodes items through the kind discriminator. Items with
// an unknown kind are skipped, keeping the reader forward compatible with
// newer producers.
func (m *Module) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name  string            `json:"name"`
		Doc   string            `json:"doc"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.Name = raw.Name
	m.Doc = raw.Doc
	m.Items = nil
	m.Skipped = nil
	for _, rm := range raw.Items {
		item, kind, err := decodeItem(rm)
		if err != nil {
			return err
		}
		if item == nil {
			m.Skipped = append(m.Skipped, string(kind))
			continue
		}
		m.Items = append(m.Items, item)
	}
	return nil
}

func decodeItem(b json.RawMessage) (Item, Kind, error) {
	var probe struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, "", err
	}
	switch probe.Kind {
	case KindFunction:
		var f Function
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, probe.Kind, err
		}
		return &f, probe.Kind, nil
	case KindClass:
		var c Class
		if err := json.Unmarshal(b, &c); err != nil {
			return nil, probe.Kind, err
		}
		return &c, probe.Kind, nil
	case KindTypeAlias:
		var a TypeAlias
		if err := json.Unmarshal(b, &a); err != nil {
			return nil, probe.Kind, err
		}
		return &a, probe.Kind, nil
	case KindVariable:
		var v Variable
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, probe.Kind, err
		}
		return &v, probe.Kind, nil
	case KindModule:
		var s Submodule
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, probe.Kind, err
		}
		return &s, probe.Kind, nil
	default:
		return nil, probe.Kind, nil
	}
}

// Package is the full API reference for one documented package.
type Package struct {
	Name      string             `json:"name"`
	Modules   map[string]*Module `json:"modules"`
	ExportMap map[string]string  `json:"export_map,omitempty"`
}

// ModuleNames returns the non-hidden module names in sorted order.
func (p *Package) ModuleNames() []string {
	names := make([]string, 0, len(p.Modules))
	for name := range p.Modules {
		if Hidden(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hidden reports whether a module name contains an underscore-prefixed
// path component. Hidden modules are loaded but never rendered.
func Hidden(name string) bool {
	for _, part := range strings.Split(name, ".") {
		if strings.HasPrefix(part, "_") {
			return true
		}
	}
	return false
}
