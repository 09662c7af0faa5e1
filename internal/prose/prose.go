// Package prose converts docstring markdown into documentation tree nodes.
package prose

import (
	"bytes"
	"strings"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// maxDepth bounds the AST recursion; anything nested deeper is flattened
// to plain text instead of being walked further.
const maxDepth = 100

// Convert turns a docstring into tree nodes. It never fails: prose that
// cannot be converted comes back as a single raw paragraph, and an empty
// docstring produces no nodes.
func Convert(doc string) (nodes []*doctree.Node) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			nodes = []*doctree.Node{doctree.Paragraph(doctree.Text(doc))}
		}
	}()

	src := []byte(doc)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	nodes = blockNodes(root, src, 0)
	if len(nodes) == 0 {
		nodes = []*doctree.Node{doctree.Paragraph(doctree.Text(doc))}
	}
	return nodes
}

func blockNodes(parent ast.Node, src []byte, depth int) []*doctree.Node {
	if depth > maxDepth {
		if t := flatText(parent, src); t != "" {
			return []*doctree.Node{doctree.Paragraph(doctree.Text(t))}
		}
		return nil
	}

	var out []*doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			// Docstring headings become bold lead-ins; the page section
			// structure comes from the module assembler, not from prose.
			out = append(out, doctree.Paragraph(doctree.Strong(flatText(node, src))))

		case *ast.Paragraph, *ast.TextBlock:
			children := inlineNodes(n, src, depth+1)
			if len(children) > 0 {
				out = append(out, doctree.Paragraph(children...))
			}

		case *ast.FencedCodeBlock:
			out = append(out, doctree.CodeBlock(blockLines(node, src)))

		case *ast.CodeBlock:
			out = append(out, doctree.CodeBlock(blockLines(node, src)))

		case *ast.List:
			out = append(out, listNode(node, src, depth+1))

		case *ast.Blockquote:
			out = append(out, blockNodes(node, src, depth+1)...)

		case *ast.ThematicBreak:
			// nothing to render

		default:
			if t := flatText(n, src); t != "" {
				out = append(out, doctree.Paragraph(doctree.Text(t)))
			}
		}
	}
	return out
}

func inlineNodes(parent ast.Node, src []byte, depth int) []*doctree.Node {
	if depth > maxDepth {
		if t := flatText(parent, src); t != "" {
			return []*doctree.Node{doctree.Text(t)}
		}
		return nil
	}

	var out []*doctree.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			t := string(node.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				t += "\n"
			}
			out = append(out, doctree.Text(t))

		case *ast.String:
			out = append(out, doctree.Text(string(node.Value)))

		case *ast.CodeSpan:
			out = append(out, doctree.Literal(flatText(node, src)))

		case *ast.Emphasis:
			t := flatText(node, src)
			if node.Level >= 2 {
				out = append(out, doctree.Strong(t))
			} else {
				out = append(out, doctree.Emphasis(t))
			}

		case *ast.Link:
			out = append(out, doctree.Link(flatText(node, src), string(node.Destination)))

		case *ast.AutoLink:
			url := string(node.URL(src))
			out = append(out, doctree.Link(url, url))

		case *ast.Image:
			// keep the alt text, drop the image
			if t := flatText(node, src); t != "" {
				out = append(out, doctree.Text(t))
			}

		case *ast.RawHTML:
			// dropped; surrounding text survives as siblings

		default:
			if t := flatText(c, src); t != "" {
				out = append(out, doctree.Text(t))
			}
		}
	}
	return out
}

func listNode(list *ast.List, src []byte, depth int) *doctree.Node {
	var items []*doctree.Node
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		items = append(items, doctree.ListItem(blockNodes(li, src, depth)...))
	}
	return doctree.BulletList(items...)
}

// blockLines collects the raw source lines of a block node.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// flatText gets the plain text content of an AST node. Raw source lines
// are consulted only for blocks without inline children, so parsed
// paragraphs are not counted twice.
func flatText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(flatText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
