// Package typeexpr resolves raw type display strings into sequences of
// literal and linked fragments.
package typeexpr

import "strings"

// LinkKind is the classification of one identifier.
type LinkKind int

const (
	// LinkNone renders as plain text.
	LinkNone LinkKind = iota
	// LinkData links as a data/constant-like symbol.
	LinkData
	// LinkClass links as a class-like symbol.
	LinkClass
)

// Classification pairs a link kind with the external target fqn. Target is
// empty for LinkNone.
type Classification struct {
	Kind   LinkKind
	Target string
}

// External modules whose symbols resolve to well-known documentation.
// "builtins" is the catch-all: anything qualified under it stays plain.
var externalModules = map[string]bool{
	"builtins":          true,
	"typing":            true,
	"typing_extensions": true,
	"collections":       true,
	"collections.abc":   true,
	"decimal":           true,
	"datetime":          true,
	"pathlib":           true,
	"numpy":             true,
	"numpy.typing":      true,
}

// Constants that always render as plain text, even when a bare-name table
// would otherwise match.
var specialConstants = map[string]bool{
	"None":  true,
	"True":  true,
	"False": true,
}

// Bare builtin type names render as plain text and are never linked.
var bareBuiltins = map[string]bool{
	"int": true, "str": true, "float": true, "bool": true,
	"bytes": true, "list": true, "dict": true, "tuple": true,
	"set": true, "frozenset": true, "type": true, "object": true,
	"complex": true,
}

// typing names documented as data objects rather than classes.
var typingData = map[string]bool{
	"Any": true, "Optional": true, "Literal": true,
	"LiteralString": true, "AnyStr": true, "NoReturn": true,
	"Never": true, "Self": true, "TypeAlias": true,
	"ClassVar": true, "Final": true,
}

// typing names documented as classes.
var typingClass = map[string]bool{
	"Union": true, "TypeVar": true, "Generic": true, "Protocol": true,
}

// Abstract collection names resolve under collections.abc.
var abcClasses = map[string]bool{
	"Sequence": true, "Mapping": true, "Callable": true,
	"Iterable": true, "Iterator": true, "Collection": true,
	"Container": true, "MutableSequence": true, "MutableMapping": true,
}

// Classify maps an identifier to its link category. The lookup is total
// and deterministic: every input, including the empty string, yields
// exactly one classification. Dotted names match the longest known
// external-module prefix; bare names fall through to the fixed tables;
// anything unrecognized stays plain text.
func Classify(name string) Classification {
	if specialConstants[name] {
		return Classification{Kind: LinkNone}
	}

	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")
		for k := len(parts) - 1; k >= 1; k-- {
			module := strings.Join(parts[:k], ".")
			if !externalModules[module] {
				continue
			}
			if module == "builtins" {
				return Classification{Kind: LinkNone}
			}
			suffix := strings.Join(parts[k:], ".")
			if module == "typing" && typingData[suffix] {
				return Classification{Kind: LinkData, Target: name}
			}
			return Classification{Kind: LinkClass, Target: name}
		}
		return Classification{Kind: LinkNone}
	}

	switch {
	case bareBuiltins[name]:
		return Classification{Kind: LinkNone}
	case typingData[name]:
		return Classification{Kind: LinkData, Target: "typing." + name}
	case typingClass[name]:
		return Classification{Kind: LinkClass, Target: "typing." + name}
	case abcClasses[name]:
		return Classification{Kind: LinkClass, Target: "collections.abc." + name}
	}
	return Classification{Kind: LinkNone}
}
