package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/go-chi/chi/v5"
)

// handleListModules lists the modules of the last completed build with
// per-kind item counts.
func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	pkg, _ := s.orchestrator.Package()
	if pkg == nil {
		jsonError(w, "no build available yet", http.StatusServiceUnavailable)
		return
	}

	modules := make([]map[string]any, 0)
	for _, name := range pkg.ModuleNames() {
		mod := pkg.Modules[name]
		counts := map[string]int{}
		for _, item := range mod.Items {
			counts[string(item.ItemKind())]++
		}
		modules = append(modules, map[string]any{
			"name":  name,
			"doc":   firstDocLine(mod.Doc),
			"items": counts,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"package": pkg.Name,
		"modules": modules,
	})
}

// handleModuleDetail returns the item list of one module, with page anchors
// where the build registered them.
func (s *Server) handleModuleDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "module")
	pkg, reg := s.orchestrator.Package()
	if pkg == nil {
		jsonError(w, "no build available yet", http.StatusServiceUnavailable)
		return
	}
	mod, ok := pkg.Modules[name]
	if !ok {
		jsonError(w, "module not found", http.StatusNotFound)
		return
	}

	items := make([]map[string]any, 0, len(mod.Items))
	for _, item := range mod.Items {
		entry := map[string]any{
			"kind": item.ItemKind(),
			"name": item.ItemName(),
		}
		fqn := name + "." + item.ItemName()
		if sub, ok := item.(*ir.Submodule); ok {
			fqn = sub.Fqn
		}
		if reg != nil {
			if e, ok := reg.Lookup(fqn); ok {
				entry["page"] = e.Page
				entry["anchor"] = e.Anchor
			}
		}
		items = append(items, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":  name,
		"doc":   mod.Doc,
		"items": items,
	})
}

// handleSymbolLookup resolves a fully qualified name to its page anchor,
// following re-export aliases and falling back to external inventories.
func (s *Server) handleSymbolLookup(w http.ResponseWriter, r *http.Request) {
	fqn := r.URL.Query().Get("fqn")
	if fqn == "" {
		jsonError(w, "fqn query parameter is required", http.StatusBadRequest)
		return
	}
	pkg, reg := s.orchestrator.Package()
	if reg == nil {
		jsonError(w, "no build available yet", http.StatusServiceUnavailable)
		return
	}

	lookup := fqn
	if pkg != nil {
		if canonical, ok := pkg.ExportMap[fqn]; ok {
			lookup = canonical
		}
	}
	if e, ok := reg.Lookup(lookup); ok {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"fqn":    e.Fqn,
			"ref":    e.Ref,
			"page":   e.Page,
			"anchor": e.Anchor,
		})
		return
	}

	if url, ok := s.orchestrator.Inventory().Resolve(fqn); ok {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"fqn":      fqn,
			"external": true,
			"url":      url,
		})
		return
	}
	jsonError(w, "symbol not found", http.StatusNotFound)
}

func firstDocLine(doc string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	return strings.TrimSpace(line)
}
