// Package doctree defines the abstract documentation tree built by the
// render stage and consumed by output backends.
package doctree

import "strings"

// NodeKind discriminates the node types a backend must handle.
type NodeKind string

const (
	KindSection    NodeKind = "section"
	KindParagraph  NodeKind = "paragraph"
	KindText       NodeKind = "text"
	KindLiteral    NodeKind = "literal"
	KindCodeBlock  NodeKind = "code_block"
	KindReference  NodeKind = "reference"
	KindLink       NodeKind = "link"
	KindSignature  NodeKind = "signature"
	KindBulletList NodeKind = "bullet_list"
	KindListItem   NodeKind = "list_item"
	KindStrong     NodeKind = "strong"
	KindEmphasis   NodeKind = "emphasis"
	KindTable      NodeKind = "table"
	KindRow        NodeKind = "row"
	KindCell       NodeKind = "cell"
	KindAdmonition NodeKind = "admonition"
	KindError      NodeKind = "error"
)

// RefType categorizes a cross-reference so backends can style and route it.
type RefType string

const (
	RefClass RefType = "class"
	RefFunc  RefType = "func"
	RefData  RefType = "data"
	RefMod   RefType = "mod"
	RefObj   RefType = "obj"
)

// Node is one node in the documentation tree. Which fields are meaningful
// depends on Kind: Text carries inline text (and the title for sections and
// admonitions), ID the anchor for sections, Target the fqn for references
// or the URL for links.
type Node struct {
	Kind     NodeKind
	Text     string
	ID       string
	Target   string
	Ref      RefType
	Children []*Node
}

// Tree is one renderable page: a named, titled sequence of top-level nodes.
type Tree struct {
	Name  string
	Title string
	Nodes []*Node
}

// Text returns a plain text run.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Literal returns an inline code span.
func Literal(s string) *Node {
	return &Node{Kind: KindLiteral, Text: s}
}

// CodeBlock returns a block of preformatted code.
func CodeBlock(s string) *Node {
	return &Node{Kind: KindCodeBlock, Text: s}
}

// Reference returns a cross-reference to the symbol named by target.
func Reference(text, target string, ref RefType) *Node {
	return &Node{Kind: KindReference, Text: text, Target: target, Ref: ref}
}

// Link returns a plain hyperlink to an external URL.
func Link(text, url string) *Node {
	return &Node{Kind: KindLink, Text: text, Target: url}
}

// Paragraph wraps inline nodes into a paragraph.
func Paragraph(children ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: children}
}

// Section returns an anchored section. An empty title marks an item entry
// (a signature block with content) rather than a headed section.
func Section(id, title string, children ...*Node) *Node {
	return &Node{Kind: KindSection, ID: id, Text: title, Children: children}
}

// Signature wraps inline nodes into a one-line declaration block.
func Signature(children ...*Node) *Node {
	return &Node{Kind: KindSignature, Children: children}
}

// BulletList wraps list items into an unordered list.
func BulletList(items ...*Node) *Node {
	return &Node{Kind: KindBulletList, Children: items}
}

// ListItem wraps inline or block nodes into a list entry.
func ListItem(children ...*Node) *Node {
	return &Node{Kind: KindListItem, Children: children}
}

// Strong returns emphasized (bold) text.
func Strong(s string) *Node {
	return &Node{Kind: KindStrong, Text: s}
}

// Emphasis returns emphasized (italic) text.
func Emphasis(s string) *Node {
	return &Node{Kind: KindEmphasis, Text: s}
}

// Table wraps rows into a table.
func Table(rows ...*Node) *Node {
	return &Node{Kind: KindTable, Children: rows}
}

// Row wraps cells into a table row.
func Row(cells ...*Node) *Node {
	return &Node{Kind: KindRow, Children: cells}
}

// Cell wraps nodes into a table cell.
func Cell(children ...*Node) *Node {
	return &Node{Kind: KindCell, Children: children}
}

// Admonition returns a callout box with the given message.
func Admonition(text string) *Node {
	return &Node{Kind: KindAdmonition, Text: text}
}

// ErrorNode returns an inline error marker rendered in place of content
// that could not be produced.
func ErrorNode(text string) *Node {
	return &Node{Kind: KindError, Text: text}
}

// PlainText concatenates all text carried by the nodes, depth first.
// References and links contribute their display text; section titles are
// skipped so callers can collect them separately.
func PlainText(nodes []*Node) string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind != KindSection {
			sb.WriteString(n.Text)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return sb.String()
}
