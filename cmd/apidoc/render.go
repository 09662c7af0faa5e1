package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/apidoc/internal/config"
	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/inventory"
	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/render"
	"github.com/dgallion1/apidoc/internal/typeexpr"
	"github.com/dgallion1/apidoc/internal/xref"
)

func newRenderCmd() *cobra.Command {
	var (
		cfgPath       string
		source        string
		out           string
		formats       []string
		modules       []string
		prefix        string
		title         string
		intro         string
		singlePage    bool
		noInventories bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render documentation pages from an API reference file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if source != "" {
				cfg.SourceDir = source
			}
			if out != "" {
				cfg.OutputDir = out
			}
			if len(formats) > 0 {
				cfg.Formats = formats
			}
			if len(modules) > 0 {
				cfg.Modules = modules
			}
			if prefix != "" {
				cfg.Package = prefix
			}
			if title != "" {
				cfg.IndexTitle = title
			}
			if intro != "" {
				cfg.IntroMessage = intro
			}
			if singlePage {
				cfg.SeparatePages = false
			}
			return runRender(cmd.Context(), cfg, noInventories)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&source, "source", "s", "", "directory holding the API reference file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output formats (html, docx)")
	cmd.Flags().StringSliceVarP(&modules, "module", "m", nil, "render only these modules")
	cmd.Flags().StringVarP(&prefix, "package", "p", "", "render modules under this package prefix")
	cmd.Flags().StringVar(&title, "title", "", "index page title")
	cmd.Flags().StringVar(&intro, "intro", "", "index page introduction (markdown)")
	cmd.Flags().BoolVar(&singlePage, "single-page", false, "render everything into one page")
	cmd.Flags().BoolVar(&noInventories, "no-inventories", false, "skip fetching external inventories")

	return cmd
}

func runRender(ctx context.Context, cfg config.Config, noInventories bool) error {
	start := time.Now()

	pkg, err := ir.Load(cfg.SourceDir, cfg.IRName)
	if err != nil {
		return err
	}
	logger.Info("api reference loaded", "package", pkg.Name, "modules", len(pkg.Modules))

	inv := inventory.NewSet()
	if !noInventories && len(cfg.Inventories) > 0 {
		client := inventory.NewClient(cfg.InventoryTimeout)
		defer client.Close()
		names := make([]string, 0, len(cfg.Inventories))
		for name := range cfg.Inventories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			url := cfg.Inventories[name]
			fetched, err := client.Fetch(ctx, url)
			if err != nil {
				logger.Warn("inventory fetch failed, links degrade to text",
					"inventory", name, "error", err)
				continue
			}
			inv.Add(url, fetched)
			logger.Debug("inventory loaded", "inventory", name, "entries", len(fetched.Entries))
		}
	}

	res := typeexpr.NewResolver()
	reg := xref.New()
	builder := render.NewBuilder(pkg, res, reg)

	names := cfg.Modules
	if len(names) == 0 {
		names = builder.SelectModules(cfg.Package)
	}
	if len(names) == 0 {
		return fmt.Errorf("no modules match prefix %q", cfg.Package)
	}

	trees := make([]*doctree.Tree, len(names))
	for i, name := range names {
		trees[i] = builder.BuildModuleTitled(name, render.ModuleTitle(name, cfg.Package))
		logger.Debug("module assembled", "module", name)
	}

	title := cfg.IndexTitle
	if title == "" {
		title = pkg.Name + " API Reference"
	}
	index := builder.IndexPage(title, cfg.IntroMessage, cfg.ContentsTable, names)

	opts := render.BackendOptions{
		Registry:  reg,
		Inventory: inv,
		Exports:   pkg.ExportMap,
		Separate:  cfg.SeparatePages,
	}
	files := make(map[string][]byte)
	for _, format := range cfg.Formats {
		backend, err := render.ForFormat(format, opts)
		if err != nil {
			return err
		}
		out, err := backend.Render(index, trees)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		for name, data := range out {
			files[name] = data
		}
	}

	searchIdx, err := json.Marshal(render.BuildSearchIndex(reg, trees))
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	files["search_index.json"] = searchIdx

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	paths := make([]string, 0, len(files))
	for name := range files {
		paths = append(paths, name)
	}
	sort.Strings(paths)
	for _, name := range paths {
		if err := os.WriteFile(filepath.Join(cfg.OutputDir, name), files[name], 0o644); err != nil {
			return err
		}
	}

	logger.Info("documentation written",
		"dir", cfg.OutputDir,
		"pages", len(files),
		"symbols", reg.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
