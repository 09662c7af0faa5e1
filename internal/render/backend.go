package render

import (
	"fmt"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/inventory"
	"github.com/dgallion1/apidoc/internal/xref"
)

// Backend writes documentation trees in one output format. Render returns
// the produced files keyed by path relative to the output directory.
type Backend interface {
	Render(index *doctree.Tree, modules []*doctree.Tree) (map[string][]byte, error)
}

// SupportedFormats lists the output formats this builder can produce.
var SupportedFormats = map[string]bool{
	"html": true,
	"docx": true,
}

// BackendOptions carries the shared lookup state backends use to resolve
// references into links.
type BackendOptions struct {
	Registry  *xref.Registry
	Inventory *inventory.Set
	Exports   map[string]string
	Separate  bool
}

// ForFormat returns the backend for an output format name.
func ForFormat(format string, opts BackendOptions) (Backend, error) {
	switch format {
	case "html":
		return &HTMLBackend{opts: opts}, nil
	case "docx":
		return &DOCXBackend{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
