package render

import (
	"slices"
	"sort"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/ir"
)

// DefaultNodes renders a parameter default. The simple form is emitted
// verbatim; the expression form is rebuilt around its embedded type
// references so that concatenating the result reproduces the display
// text exactly.
func (b *Builder) DefaultNodes(d *ir.Default) []*doctree.Node {
	if d == nil {
		return nil
	}
	if d.Expr == nil {
		return []*doctree.Node{doctree.Text(d.Simple)}
	}
	return b.exprDefaultNodes(d.Expr)
}

// exprDefaultNodes walks the references in descending offset order and
// builds the fragment list back to front. References that run past the
// display text are clipped; references that overlap an already-placed one
// are dropped, leaving their span as literal text.
func (b *Builder) exprDefaultNodes(expr *ir.DefaultExpr) []*doctree.Node {
	display := expr.Display
	refs := make([]ir.TypeRef, len(expr.TypeRefs))
	copy(refs, expr.TypeRefs)
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Offset > refs[j].Offset })

	var rev []*doctree.Node
	cursor := len(display)

	for _, ref := range refs {
		if ref.Offset < 0 || ref.Offset >= cursor {
			continue
		}
		end := ref.Offset + len(ref.Text)
		if end > len(display) {
			end = len(display)
		}
		if end > cursor {
			continue
		}
		if end == ref.Offset {
			continue
		}

		if gap := display[end:cursor]; gap != "" {
			rev = append(rev, doctree.Text(gap))
		}
		text := display[ref.Offset:end]
		if ref.LinkTarget != nil {
			rev = append(rev, doctree.Reference(text, ref.LinkTarget.Fqn, refTypeForKind(ref.LinkTarget.Kind)))
		} else {
			rev = append(rev, doctree.Text(text))
		}
		cursor = ref.Offset
	}

	if cursor > 0 {
		rev = append(rev, doctree.Text(display[:cursor]))
	}
	slices.Reverse(rev)
	return rev
}
