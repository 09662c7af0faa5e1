// Package render turns a loaded API reference into documentation trees
// consumed by the output backends.
package render

import (
	"strings"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/typeexpr"
	"github.com/dgallion1/apidoc/internal/xref"
)

// Builder renders modules from one package. Every symbol it documents is
// registered so later-rendered pages can link back to it.
type Builder struct {
	pkg *ir.Package
	res *typeexpr.Resolver
	reg *xref.Registry
}

func NewBuilder(pkg *ir.Package, res *typeexpr.Resolver, reg *xref.Registry) *Builder {
	return &Builder{pkg: pkg, res: res, reg: reg}
}

// refTypeForKind maps an item or link-target kind to its reference style.
func refTypeForKind(kind ir.Kind) doctree.RefType {
	switch kind {
	case ir.KindClass:
		return doctree.RefClass
	case ir.KindFunction:
		return doctree.RefFunc
	case ir.KindTypeAlias, ir.KindVariable:
		return doctree.RefData
	case ir.KindModule:
		return doctree.RefMod
	default:
		return doctree.RefObj
	}
}

// refTypeForLink maps a classifier verdict to its reference style.
func refTypeForLink(k typeexpr.LinkKind) doctree.RefType {
	if k == typeexpr.LinkClass {
		return doctree.RefClass
	}
	return doctree.RefData
}

// sectionID derives a stable page anchor from a fully qualified name.
func sectionID(fqn string) string {
	var sb strings.Builder
	dash := true
	for _, r := range strings.ToLower(fqn) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// firstLine returns the first non-blank line of a docstring, used for
// contents tables and search excerpts.
func firstLine(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}
