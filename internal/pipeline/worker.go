package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/apidoc/internal/doctree"
	"github.com/dgallion1/apidoc/internal/inventory"
	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/render"
	"github.com/dgallion1/apidoc/internal/typeexpr"
	"github.com/dgallion1/apidoc/internal/xref"
)

// Worker processes a single render job.
type Worker struct {
	inv   *inventory.Set
	log   *slog.Logger
	stats *PageStats

	maxConcurrentRender int
	outputDir           string
	publish             func(*ir.Package, *xref.Registry)
}

func NewWorker(inv *inventory.Set, log *slog.Logger, stats *PageStats, maxRender int, outputDir string, publish func(*ir.Package, *xref.Registry)) *Worker {
	if maxRender <= 0 {
		maxRender = 1
	}
	return &Worker{
		inv:                 inv,
		log:                 log,
		stats:               stats,
		maxConcurrentRender: maxRender,
		outputDir:           outputDir,
		publish:             publish,
	}
}

// Process runs the full render pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Load IR
	job.SetStatus(StatusLoading, "loading")
	pkg, err := ir.Parse(job.IRData())
	if err != nil {
		log.Error("ir parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	job.SetPackageName(pkg.Name)

	res := typeexpr.NewResolver()
	reg := xref.New()
	builder := render.NewBuilder(pkg, res, reg)

	names := job.Modules
	if len(names) == 0 {
		names = builder.SelectModules(job.Package)
	}
	if len(names) == 0 {
		log.Warn("no modules to render", "prefix", job.Package)
		job.AddError(fmt.Sprintf("no modules match prefix %q", job.Package))
		job.SetStatus(StatusFailed, "assembling")
		return
	}
	job.SetTotalModules(len(names))

	// Phase 2: Assemble documentation trees with bounded concurrency.
	// Builder and registry are safe for parallel module builds; each
	// goroutine writes a disjoint slice slot.
	job.SetStatus(StatusAssembling, "assembling")
	trees := make([]*doctree.Tree, len(names))
	sem := make(chan struct{}, w.maxConcurrentRender)
	var wg sync.WaitGroup
	for i, name := range names {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()
			start := time.Now()
			trees[i] = builder.BuildModuleTitled(name, render.ModuleTitle(name, job.Package))
			w.stats.Record(time.Since(start).Milliseconds())
			job.IncrModulesRendered()
		}(i, name)
	}
	wg.Wait()
	log.Info("modules assembled", "modules", len(names), "symbols", reg.Len())

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	title := job.Title
	if title == "" {
		title = pkg.Name + " API Reference"
	}
	index := builder.IndexPage(title, job.Intro, job.ContentsTable, names)

	// Phase 3: Render each requested output format.
	job.SetStatus(StatusRendering, "rendering")
	opts := render.BackendOptions{
		Registry:  reg,
		Inventory: w.inv,
		Exports:   pkg.ExportMap,
		Separate:  job.SeparatePages,
	}
	files := make(map[string][]byte)
	hadErrors := false
	for _, format := range job.Formats {
		backend, err := render.ForFormat(format, opts)
		if err != nil {
			log.Error("backend unavailable", "format", format, "error", err)
			job.AddError(err.Error())
			hadErrors = true
			continue
		}
		out, err := backend.Render(index, trees)
		if err != nil {
			log.Error("render failed", "format", format, "error", err)
			job.AddError(fmt.Sprintf("render %s: %s", format, err))
			hadErrors = true
			continue
		}
		for name, data := range out {
			files[name] = data
		}
		log.Info("format rendered", "format", format, "files", len(out))
	}
	if len(files) == 0 {
		log.Error("all output formats failed")
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	// The search index accompanies every build.
	if idx, err := json.Marshal(render.BuildSearchIndex(reg, trees)); err == nil {
		files["search_index.json"] = idx
	} else {
		job.AddError(fmt.Sprintf("search index: %s", err))
		hadErrors = true
	}
	job.SetSymbolsRegistered(reg.Len())

	// Publish the build for the read-side API before touching disk, so
	// lookup endpoints work even if writing fails.
	if w.publish != nil {
		w.publish(pkg, reg)
	}

	// Phase 4: Write output files.
	job.SetStatus(StatusWriting, "writing")
	outDir := job.OutputDir
	if outDir == "" {
		outDir = w.outputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Error("output dir create failed", "dir", outDir, "error", err)
		job.AddError(fmt.Sprintf("mkdir %s: %s", outDir, err))
		job.SetStatus(StatusFailed, "writing")
		return
	}

	paths := make([]string, 0, len(files))
	for name := range files {
		paths = append(paths, name)
	}
	sort.Strings(paths)

	written := 0
	for _, name := range paths {
		dst := filepath.Join(outDir, name)
		if err := os.WriteFile(dst, files[name], 0o644); err != nil {
			log.Error("write failed", "path", dst, "error", err)
			job.AddError(fmt.Sprintf("write %s: %s", name, err))
			hadErrors = true
			continue
		}
		written++
	}
	job.AddPagesWritten(written)
	log.Info("output written", "dir", outDir, "files", written)

	if hadErrors && written == 0 {
		job.SetStatus(StatusFailed, "writing")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}
