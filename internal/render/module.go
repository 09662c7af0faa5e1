package render

import (
	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/prose"
	"github.com/dgallion1/apidoc/internal/xref"
)

// Section titles, in the fixed order they appear on a module page.
const (
	titleSubmodules  = "Submodules"
	titleFunctions   = "Functions"
	titleClasses     = "Classes"
	titleTypeAliases = "Type Aliases"
	titleVariables   = "Variables"
)

// ModuleTitle returns the section title for a module rendered under a
// package prefix: the module matching the prefix itself is titled as the
// package, everything else as a module.
func ModuleTitle(name, prefix string) string {
	if name == prefix {
		return name + " Package"
	}
	return name + " Module"
}

// BuildModule renders one module's full API section. A module name absent
// from the package produces a page with a single inline error instead of
// failing the build.
func (b *Builder) BuildModule(name string) *doctree.Tree {
	return b.BuildModuleTitled(name, name+" Module")
}

// BuildModuleTitled renders one module's full API section under an
// explicit section title.
func (b *Builder) BuildModuleTitled(name, title string) *doctree.Tree {
	tree := &doctree.Tree{Name: name, Title: title}

	mod, ok := b.pkg.Modules[name]
	if !ok {
		tree.Nodes = []*doctree.Node{
			doctree.ErrorNode("module " + name + " not found in the API reference"),
		}
		return tree
	}

	anchor := "module-" + sectionID(name)
	b.reg.Register(xref.Entry{
		Fqn:    name,
		Ref:    doctree.RefMod,
		Page:   name,
		Anchor: anchor,
	})

	root := doctree.Section(anchor, title)
	root.Children = append(root.Children, prose.Convert(mod.Doc)...)

	var (
		subs    []*ir.Submodule
		funcs   []*ir.Function
		classes []*ir.Class
		aliases []*ir.TypeAlias
		vars    []*ir.Variable
	)
	for _, item := range mod.Items {
		switch v := item.(type) {
		case *ir.Submodule:
			subs = append(subs, v)
		case *ir.Function:
			funcs = append(funcs, v)
		case *ir.Class:
			classes = append(classes, v)
		case *ir.TypeAlias:
			aliases = append(aliases, v)
		case *ir.Variable:
			vars = append(vars, v)
		}
	}

	if len(subs) > 0 {
		root.Children = append(root.Children, b.submodulesSection(name, subs))
	}
	if len(funcs) > 0 {
		entries := make([]*doctree.Node, 0, len(funcs))
		for _, fn := range funcs {
			entries = append(entries, b.functionEntry(name, name+"."+fn.Name, fn))
		}
		root.Children = append(root.Children, kindSection(name, titleFunctions, entries))
	}
	if len(classes) > 0 {
		entries := make([]*doctree.Node, 0, len(classes))
		for _, c := range classes {
			entries = append(entries, b.classEntry(name, c))
		}
		root.Children = append(root.Children, kindSection(name, titleClasses, entries))
	}
	if len(aliases) > 0 {
		entries := make([]*doctree.Node, 0, len(aliases))
		for _, a := range aliases {
			entries = append(entries, b.aliasEntry(name, a))
		}
		root.Children = append(root.Children, kindSection(name, titleTypeAliases, entries))
	}
	if len(vars) > 0 {
		entries := make([]*doctree.Node, 0, len(vars))
		for _, v := range vars {
			entries = append(entries, b.variableEntry(name, v))
		}
		root.Children = append(root.Children, kindSection(name, titleVariables, entries))
	}

	tree.Nodes = []*doctree.Node{root}
	return tree
}

func kindSection(module, title string, entries []*doctree.Node) *doctree.Node {
	return doctree.Section(sectionID(module+" "+title), title, entries...)
}

// submodulesSection lists child modules as links into their own pages.
// The children register themselves when they render, so no registry
// entries are made here.
func (b *Builder) submodulesSection(module string, subs []*ir.Submodule) *doctree.Node {
	items := make([]*doctree.Node, 0, len(subs))
	for _, s := range subs {
		entry := []*doctree.Node{
			doctree.Paragraph(doctree.Strong("module "), doctree.Reference(s.Name, s.Fqn, doctree.RefMod)),
		}
		entry = append(entry, prose.Convert(s.Doc)...)
		items = append(items, doctree.ListItem(entry...))
	}
	return kindSection(module, titleSubmodules, []*doctree.Node{doctree.BulletList(items...)})
}

func (b *Builder) functionEntry(page, fqn string, fn *ir.Function) *doctree.Node {
	b.reg.Register(xref.Entry{
		Fqn:    fqn,
		Ref:    doctree.RefFunc,
		Page:   page,
		Anchor: sectionID(fqn),
	})

	entry := doctree.Section(sectionID(fqn), "")
	for i := range fn.Signatures {
		entry.Children = append(entry.Children, b.signatureNodes(fn.Name, fn.IsAsync, fn.Signatures[i]))
	}
	if fn.Deprecated != nil {
		entry.Children = append(entry.Children, doctree.Admonition(deprecatedText(fn.Deprecated)))
	}
	entry.Children = append(entry.Children, prose.Convert(fn.Doc)...)
	return entry
}

func (b *Builder) classEntry(page string, c *ir.Class) *doctree.Node {
	fqn := page + "." + c.Name
	b.reg.Register(xref.Entry{
		Fqn:    fqn,
		Ref:    doctree.RefClass,
		Page:   page,
		Anchor: sectionID(fqn),
	})

	head := []*doctree.Node{doctree.Text("class "), doctree.Strong(c.Name)}
	if len(c.Bases) > 0 {
		head = append(head, doctree.Text("("))
		for i := range c.Bases {
			if i > 0 {
				head = append(head, doctree.Text(", "))
			}
			head = append(head, b.TypeNodes(&c.Bases[i])...)
		}
		head = append(head, doctree.Text(")"))
	}

	entry := doctree.Section(sectionID(fqn), "", doctree.Signature(head...))
	if c.Deprecated != nil {
		entry.Children = append(entry.Children, doctree.Admonition(deprecatedText(c.Deprecated)))
	}
	entry.Children = append(entry.Children, prose.Convert(c.Doc)...)

	for i := range c.Attributes {
		entry.Children = append(entry.Children, b.attributeEntry(page, fqn, &c.Attributes[i]))
	}
	for i := range c.Methods {
		m := &c.Methods[i]
		entry.Children = append(entry.Children, b.functionEntry(page, fqn+"."+m.Name, m))
	}
	return entry
}

func (b *Builder) attributeEntry(page, classFqn string, a *ir.Attribute) *doctree.Node {
	fqn := classFqn + "." + a.Name
	b.reg.Register(xref.Entry{
		Fqn:    fqn,
		Ref:    doctree.RefData,
		Page:   page,
		Anchor: sectionID(fqn),
	})

	head := []*doctree.Node{doctree.Strong(a.Name)}
	if a.Type != nil {
		head = append(head, doctree.Text(": "))
		head = append(head, b.TypeNodes(a.Type)...)
	}
	entry := doctree.Section(sectionID(fqn), "", doctree.Signature(head...))
	entry.Children = append(entry.Children, prose.Convert(a.Doc)...)
	return entry
}

func (b *Builder) aliasEntry(page string, a *ir.TypeAlias) *doctree.Node {
	fqn := page + "." + a.Name
	b.reg.Register(xref.Entry{
		Fqn:    fqn,
		Ref:    doctree.RefData,
		Page:   page,
		Anchor: sectionID(fqn),
	})

	head := []*doctree.Node{doctree.Text("type "), doctree.Strong(a.Name)}
	if a.Definition != nil {
		head = append(head, doctree.Text(" = "))
		head = append(head, b.TypeNodes(a.Definition)...)
	}
	entry := doctree.Section(sectionID(fqn), "", doctree.Signature(head...))
	entry.Children = append(entry.Children, prose.Convert(a.Doc)...)
	return entry
}

func (b *Builder) variableEntry(page string, v *ir.Variable) *doctree.Node {
	fqn := page + "." + v.Name
	b.reg.Register(xref.Entry{
		Fqn:    fqn,
		Ref:    doctree.RefData,
		Page:   page,
		Anchor: sectionID(fqn),
	})

	head := []*doctree.Node{doctree.Strong(v.Name)}
	if v.Type != nil {
		head = append(head, doctree.Text(": "))
		head = append(head, b.TypeNodes(v.Type)...)
	}
	entry := doctree.Section(sectionID(fqn), "", doctree.Signature(head...))
	entry.Children = append(entry.Children, prose.Convert(v.Doc)...)
	return entry
}

// signatureNodes builds one callable form as a single declaration line.
func (b *Builder) signatureNodes(name string, isAsync bool, sig ir.Signature) *doctree.Node {
	var parts []*doctree.Node
	if isAsync {
		parts = append(parts, doctree.Text("async "))
	}
	parts = append(parts, doctree.Strong(name), doctree.Text("("))
	for i := range sig.Parameters {
		p := &sig.Parameters[i]
		if i > 0 {
			parts = append(parts, doctree.Text(", "))
		}
		parts = append(parts, doctree.Text(p.Name))
		if p.Type != nil {
			parts = append(parts, doctree.Text(": "))
			parts = append(parts, b.TypeNodes(p.Type)...)
		}
		if p.Default != nil {
			if p.Type != nil {
				parts = append(parts, doctree.Text(" = "))
			} else {
				parts = append(parts, doctree.Text("="))
			}
			parts = append(parts, b.DefaultNodes(p.Default)...)
		}
	}
	parts = append(parts, doctree.Text(")"))
	if sig.ReturnType != nil {
		parts = append(parts, doctree.Text(" -> "))
		parts = append(parts, b.TypeNodes(sig.ReturnType)...)
	}
	return doctree.Signature(parts...)
}

func deprecatedText(d *ir.Deprecated) string {
	msg := "Deprecated"
	if d.Since != "" {
		msg += " since " + d.Since
	}
	if d.Note != "" {
		msg += ": " + d.Note
	}
	return msg
}
