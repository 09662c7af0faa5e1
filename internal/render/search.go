package render

import (
	"strings"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/xref"
)

// SearchEntry is one row of the generated search index.
type SearchEntry struct {
	Fqn        string   `json:"fqn"`
	Kind       string   `json:"kind"`
	Page       string   `json:"page"`
	Anchor     string   `json:"anchor"`
	Breadcrumb []string `json:"breadcrumb"`
	Excerpt    string   `json:"excerpt,omitempty"`
}

// BuildSearchIndex walks the rendered module trees and emits one entry
// per registered symbol, carrying the section breadcrumb and a short
// excerpt of its prose.
func BuildSearchIndex(reg *xref.Registry, modules []*doctree.Tree) []SearchEntry {
	byAnchor := make(map[string]xref.Entry)
	for _, fqn := range reg.Fqns() {
		if e, ok := reg.Lookup(fqn); ok {
			byAnchor[e.Page+"#"+e.Anchor] = e
		}
	}

	var entries []SearchEntry
	for _, tree := range modules {
		for _, n := range tree.Nodes {
			walkSearch(n, tree.Name, nil, byAnchor, &entries)
		}
	}
	return entries
}

func walkSearch(n *doctree.Node, page string, breadcrumb []string, byAnchor map[string]xref.Entry, out *[]SearchEntry) {
	if n.Kind != doctree.KindSection {
		for _, c := range n.Children {
			walkSearch(c, page, breadcrumb, byAnchor, out)
		}
		return
	}

	label := n.Text
	if label == "" {
		label = entryLabel(n)
	}
	bc := breadcrumb
	if label != "" {
		bc = append(copyBreadcrumb(breadcrumb), label)
	}

	if e, ok := byAnchor[page+"#"+n.ID]; ok && n.ID != "" {
		*out = append(*out, SearchEntry{
			Fqn:        e.Fqn,
			Kind:       string(e.Ref),
			Page:       e.Page,
			Anchor:     e.Anchor,
			Breadcrumb: copyBreadcrumb(bc),
			Excerpt:    excerpt(n),
		})
	}

	for _, c := range n.Children {
		walkSearch(c, page, bc, byAnchor, out)
	}
}

// entryLabel recovers the symbol name of an untitled entry section from
// its declaration line.
func entryLabel(n *doctree.Node) string {
	for _, c := range n.Children {
		if c.Kind != doctree.KindSignature {
			continue
		}
		for _, part := range c.Children {
			if part.Kind == doctree.KindStrong {
				return part.Text
			}
		}
	}
	return ""
}

// excerpt returns the first paragraph of a section, capped at 40 words.
func excerpt(n *doctree.Node) string {
	for _, c := range n.Children {
		if c.Kind == doctree.KindParagraph {
			return limitWords(doctree.PlainText([]*doctree.Node{c}), 40)
		}
	}
	return ""
}

func limitWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ") + "..."
}

func copyBreadcrumb(bc []string) []string {
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
