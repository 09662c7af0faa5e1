package render

import (
	"html"
	"strings"

	"github.com/dgallion1/apidoc/internal/doctree"
)

// HTMLBackend writes standalone HTML pages. References resolve through
// the registry first, then the package export map, then the external
// inventories; anything unresolved degrades to a plain code span.
type HTMLBackend struct {
	opts BackendOptions
}

const pageStyle = `body{font-family:sans-serif;max-width:56rem;margin:0 auto;padding:1rem 2rem;color:#1a1a1a}
code,pre{font-family:monospace;background:#f5f5f5}
pre{padding:.75rem;overflow-x:auto}
.signature{background:#f5f5f5;padding:.5rem .75rem;margin:.75rem 0}
.signature code{background:none}
section section{margin-left:1rem;border-left:2px solid #eee;padding-left:1rem}
table{border-collapse:collapse}
td{border:1px solid #ddd;padding:.4rem .7rem;vertical-align:top}
.admonition{background:#fcf8e3;border-left:4px solid #8a6d3b;padding:.5rem .75rem;margin:.75rem 0}
.error{background:#f2dede;border-left:4px solid #a94442;padding:.5rem .75rem;margin:.75rem 0}
a.external{text-decoration-style:dotted}`

func (h *HTMLBackend) Render(index *doctree.Tree, modules []*doctree.Tree) (map[string][]byte, error) {
	out := make(map[string][]byte)

	if h.opts.Separate {
		if index != nil {
			out["index.html"] = h.page(index.Title, index.Nodes)
		}
		for _, m := range modules {
			out[m.Name+".html"] = h.page(m.Title, m.Nodes)
		}
		return out, nil
	}

	var title string
	var nodes []*doctree.Node
	if index != nil {
		title = index.Title
		nodes = append(nodes, index.Nodes...)
	}
	for _, m := range modules {
		if title == "" {
			title = m.Title
		}
		nodes = append(nodes, m.Nodes...)
	}
	out["index.html"] = h.page(title, nodes)
	return out, nil
}

func (h *HTMLBackend) page(title string, nodes []*doctree.Node) []byte {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>")
	sb.WriteString(html.EscapeString(title))
	sb.WriteString("</title>\n<style>")
	sb.WriteString(pageStyle)
	sb.WriteString("</style>\n</head>\n<body>\n")
	for _, n := range nodes {
		h.writeNode(&sb, n, 1)
	}
	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String())
}

func (h *HTMLBackend) writeNode(sb *strings.Builder, n *doctree.Node, depth int) {
	switch n.Kind {
	case doctree.KindSection:
		sb.WriteString(`<section id="`)
		sb.WriteString(html.EscapeString(n.ID))
		sb.WriteString(`">`)
		childDepth := depth
		if n.Text != "" {
			level := min(depth+1, 6)
			tag := "h" + string(rune('0'+level))
			sb.WriteString("<" + tag + ">")
			sb.WriteString(html.EscapeString(n.Text))
			sb.WriteString("</" + tag + ">\n")
			childDepth = depth + 1
		}
		for _, c := range n.Children {
			h.writeNode(sb, c, childDepth)
		}
		sb.WriteString("</section>\n")

	case doctree.KindParagraph:
		sb.WriteString("<p>")
		for _, c := range n.Children {
			h.writeNode(sb, c, depth)
		}
		sb.WriteString("</p>\n")

	case doctree.KindText:
		sb.WriteString(html.EscapeString(n.Text))

	case doctree.KindLiteral:
		sb.WriteString("<code>")
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</code>")

	case doctree.KindCodeBlock:
		sb.WriteString("<pre><code>")
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</code></pre>\n")

	case doctree.KindReference:
		h.writeReference(sb, n)

	case doctree.KindLink:
		sb.WriteString(`<a href="`)
		sb.WriteString(html.EscapeString(n.Target))
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</a>")

	case doctree.KindSignature:
		sb.WriteString(`<div class="signature"><code>`)
		for _, c := range n.Children {
			h.writeNode(sb, c, depth)
		}
		sb.WriteString("</code></div>\n")

	case doctree.KindBulletList:
		sb.WriteString("<ul>\n")
		for _, c := range n.Children {
			h.writeNode(sb, c, depth)
		}
		sb.WriteString("</ul>\n")

	case doctree.KindListItem:
		sb.WriteString("<li>")
		for _, c := range n.Children {
			h.writeNode(sb, c, depth)
		}
		sb.WriteString("</li>\n")

	case doctree.KindStrong:
		sb.WriteString("<strong>")
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</strong>")

	case doctree.KindEmphasis:
		sb.WriteString("<em>")
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</em>")

	case doctree.KindTable:
		sb.WriteString("<table>\n")
		for _, c := range n.Children {
			h.writeNode(sb, c, depth)
		}
		sb.WriteString("</table>\n")

	case doctree.KindRow:
		sb.WriteString("<tr>")
		for _, c := range n.Children {
			h.writeNode(sb, c, depth)
		}
		sb.WriteString("</tr>\n")

	case doctree.KindCell:
		sb.WriteString("<td>")
		for _, c := range n.Children {
			h.writeNode(sb, c, depth)
		}
		sb.WriteString("</td>")

	case doctree.KindAdmonition:
		sb.WriteString(`<div class="admonition">`)
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</div>\n")

	case doctree.KindError:
		sb.WriteString(`<div class="error">`)
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</div>\n")
	}
}

// writeReference resolves a cross-reference to the best available link.
func (h *HTMLBackend) writeReference(sb *strings.Builder, n *doctree.Node) {
	if entry, ok := h.opts.Registry.Lookup(n.Target); ok {
		h.writeAnchor(sb, n, h.pageHref(entry.Page)+"#"+entry.Anchor, false)
		return
	}
	if canonical, ok := h.opts.Exports[n.Target]; ok {
		if entry, ok := h.opts.Registry.Lookup(canonical); ok {
			h.writeAnchor(sb, n, h.pageHref(entry.Page)+"#"+entry.Anchor, false)
			return
		}
	}
	if h.opts.Inventory != nil {
		if url, ok := h.opts.Inventory.Resolve(n.Target); ok {
			h.writeAnchor(sb, n, url, true)
			return
		}
	}
	sb.WriteString("<code>")
	sb.WriteString(html.EscapeString(n.Text))
	sb.WriteString("</code>")
}

func (h *HTMLBackend) writeAnchor(sb *strings.Builder, n *doctree.Node, href string, external bool) {
	class := "ref ref-" + string(n.Ref)
	if external {
		class += " external"
	}
	sb.WriteString(`<a class="`)
	sb.WriteString(class)
	sb.WriteString(`" href="`)
	sb.WriteString(html.EscapeString(href))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(n.Text))
	sb.WriteString("</a>")
}

func (h *HTMLBackend) pageHref(page string) string {
	if !h.opts.Separate || page == "index" {
		return "index.html"
	}
	return page + ".html"
}
