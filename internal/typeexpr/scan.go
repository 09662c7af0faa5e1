package typeexpr

import (
	"sync"
	"unicode/utf8"
)

// Fragment is one rendering fragment of a scanned display string: either
// literal text (LinkNone) or a linked identifier span.
type Fragment struct {
	Text   string
	Kind   LinkKind
	Target string
}

// Resolver scans type display strings, memoizing results by input string.
// The cache is a pure optimization: cached and fresh scans are
// value-identical. Safe for concurrent use by parallel module renders.
type Resolver struct {
	mu    sync.RWMutex
	scans map[string][]Fragment
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{scans: make(map[string][]Fragment)}
}

// Scan tokenizes a flat type display string into literal and linked
// fragments. Whitespace and the separators []() ,| become single literal
// fragments; identifiers are matched longest-first and classified via
// Classify; anything else passes through one rune at a time.
func (r *Resolver) Scan(display string) []Fragment {
	r.mu.RLock()
	cached, ok := r.scans[display]
	r.mu.RUnlock()
	if ok {
		return cloneFragments(cached)
	}

	frags := scan(display)

	r.mu.Lock()
	r.scans[display] = frags
	r.mu.Unlock()
	return cloneFragments(frags)
}

func cloneFragments(frags []Fragment) []Fragment {
	out := make([]Fragment, len(frags))
	copy(out, frags)
	return out
}

func scan(display string) []Fragment {
	var frags []Fragment
	for i := 0; i < len(display); {
		c := display[i]
		switch {
		case isSpace(c) || isSeparator(c):
			frags = append(frags, Fragment{Text: display[i : i+1]})
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(display) && isIdentPart(display[j]) {
				j++
			}
			ident := display[i:j]
			cls := Classify(ident)
			frags = append(frags, Fragment{Text: ident, Kind: cls.Kind, Target: cls.Target})
			i = j
		default:
			// Pass unrecognized input through one rune at a time so
			// multi-byte characters survive intact.
			_, size := utf8.DecodeRuneInString(display[i:])
			frags = append(frags, Fragment{Text: display[i : i+size]})
			i += size
		}
	}
	return frags
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSeparator(c byte) bool {
	switch c {
	case '[', ']', '(', ')', ',', '|':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || (c >= '0' && c <= '9')
}
