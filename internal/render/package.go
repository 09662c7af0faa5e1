package render

import (
	"strings"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/prose"
)

// SelectModules returns the visible modules matching a package prefix:
// the prefix itself plus everything nested under it, in sorted order. An
// empty prefix selects every visible module.
func (b *Builder) SelectModules(prefix string) []string {
	names := b.pkg.ModuleNames()
	if prefix == "" {
		return names
	}
	var out []string
	for _, n := range names {
		if n == prefix || strings.HasPrefix(n, prefix+".") {
			out = append(out, n)
		}
	}
	return out
}

// BuildPackage renders every module under the prefix, each as its own
// titled section.
func (b *Builder) BuildPackage(prefix string) []*doctree.Tree {
	names := b.SelectModules(prefix)
	trees := make([]*doctree.Tree, 0, len(names))
	for _, name := range names {
		trees = append(trees, b.BuildModuleTitled(name, ModuleTitle(name, prefix)))
	}
	return trees
}

// IndexPage composes the landing page: the title, an optional intro, and
// an optional two-column contents table linking every rendered module.
func (b *Builder) IndexPage(title, intro string, withContents bool, moduleNames []string) *doctree.Tree {
	tree := &doctree.Tree{Name: "index", Title: title}
	sec := doctree.Section(sectionID(title), title)
	sec.Children = append(sec.Children, prose.Convert(intro)...)

	if withContents && len(moduleNames) > 0 {
		rows := make([]*doctree.Node, 0, len(moduleNames))
		for _, name := range moduleNames {
			var summary string
			if mod, ok := b.pkg.Modules[name]; ok {
				summary = firstLine(mod.Doc)
			}
			rows = append(rows, doctree.Row(
				doctree.Cell(doctree.Reference(name, name, doctree.RefMod)),
				doctree.Cell(doctree.Text(summary)),
			))
		}
		sec.Children = append(sec.Children, doctree.Table(rows...))
	}

	tree.Nodes = []*doctree.Node{sec}
	return tree
}
