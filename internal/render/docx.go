package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXBackend writes the whole reference into a single Word document.
// Cross-references render as styled text rather than in-document links.
type DOCXBackend struct{}

func (d *DOCXBackend) Render(index *doctree.Tree, modules []*doctree.Tree) (map[string][]byte, error) {
	doc := docx.New().WithDefaultTheme()

	if index != nil {
		writeTreeDocx(doc, index)
	}
	for _, m := range modules {
		writeTreeDocx(doc, m)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return map[string][]byte{"api_reference.docx": buf.Bytes()}, nil
}

func writeTreeDocx(doc *docx.Docx, tree *doctree.Tree) {
	for _, n := range tree.Nodes {
		writeNodeDocx(doc, n, 0)
	}
}

func writeNodeDocx(doc *docx.Docx, n *doctree.Node, depth int) {
	switch n.Kind {
	case doctree.KindSection:
		childDepth := depth
		if n.Text != "" {
			doc.AddParagraph().AddText(n.Text).Size(headingSize(depth)).Bold()
			childDepth = depth + 1
		}
		for _, c := range n.Children {
			writeNodeDocx(doc, c, childDepth)
		}

	case doctree.KindParagraph:
		para := doc.AddParagraph()
		writeInlineDocx(para, n.Children)

	case doctree.KindSignature:
		para := doc.AddParagraph()
		for _, c := range n.Children {
			switch c.Kind {
			case doctree.KindStrong:
				para.AddText(c.Text).Font("Consolas", "", "", "").Bold()
			case doctree.KindReference:
				para.AddText(c.Text).Font("Consolas", "", "", "").Color("1F4E79")
			default:
				para.AddText(nodeText(c)).Font("Consolas", "", "", "")
			}
		}

	case doctree.KindCodeBlock:
		for _, line := range strings.Split(n.Text, "\n") {
			doc.AddParagraph().AddText(line).Font("Consolas", "", "", "").Color("444444")
		}

	case doctree.KindBulletList:
		for _, item := range n.Children {
			para := doc.AddParagraph()
			para.AddText("• ")
			writeInlineDocx(para, item.Children)
		}

	case doctree.KindTable:
		for _, row := range n.Children {
			cells := make([]string, 0, len(row.Children))
			for _, cell := range row.Children {
				cells = append(cells, doctree.PlainText(cell.Children))
			}
			doc.AddParagraph().AddText(strings.Join(cells, " | "))
		}

	case doctree.KindAdmonition:
		doc.AddParagraph().AddText(n.Text).Color("8A6D3B").Italic()

	case doctree.KindError:
		doc.AddParagraph().AddText(n.Text).Color("A94442").Bold()

	default:
		para := doc.AddParagraph()
		writeInlineDocx(para, []*doctree.Node{n})
	}
}

func writeInlineDocx(para *docx.Paragraph, nodes []*doctree.Node) {
	for _, n := range nodes {
		switch n.Kind {
		case doctree.KindText:
			para.AddText(n.Text)
		case doctree.KindLiteral:
			para.AddText(n.Text).Font("Consolas", "", "", "")
		case doctree.KindReference:
			para.AddText(n.Text).Color("1F4E79")
		case doctree.KindLink:
			para.AddLink(n.Text, n.Target)
		case doctree.KindStrong:
			para.AddText(n.Text).Bold()
		case doctree.KindEmphasis:
			para.AddText(n.Text).Italic()
		case doctree.KindBulletList, doctree.KindListItem, doctree.KindParagraph:
			writeInlineDocx(para, n.Children)
		default:
			if t := nodeText(n); t != "" {
				para.AddText(t)
			}
		}
	}
}

// nodeText flattens a node to plain text for contexts that cannot nest.
func nodeText(n *doctree.Node) string {
	return n.Text + doctree.PlainText(n.Children)
}

func headingSize(depth int) string {
	switch depth {
	case 0:
		return "36"
	case 1:
		return "32"
	case 2:
		return "28"
	default:
		return "26"
	}
}
