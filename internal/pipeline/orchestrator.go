package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/apidoc/internal/config"
	"github.com/dgallion1/apidoc/internal/inventory"
	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/xref"
)

// Orchestrator manages the documentation render pipeline.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	inv    *inventory.Set
	client *inventory.Client
	log    *slog.Logger
	cfg    config.Config
	stats  *PageStats

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Last completed build, published for the read-side API.
	mu  sync.RWMutex
	pkg *ir.Package
	reg *xref.Registry
}

// NewOrchestrator creates the pipeline.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		inv:    inventory.NewSet(),
		client: inventory.NewClient(cfg.InventoryTimeout),
		log:    log,
		cfg:    cfg,
		stats:  NewPageStats(time.Hour),
	}
}

// Start fetches configured inventories and launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	// Inventories load in the background; jobs submitted before they
	// arrive render external references as plain text.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.fetchInventories(workerCtx)
	}()

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.inv, o.log, o.stats, o.cfg.MaxConcurrentRender, o.cfg.OutputDir, o.setLastBuild)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// fetchInventories loads each configured inventory, retrying transient
// failures. An inventory that keeps failing is skipped so its links
// degrade instead of blocking the pipeline.
func (o *Orchestrator) fetchInventories(ctx context.Context) {
	names := make([]string, 0, len(o.cfg.Inventories))
	for name := range o.cfg.Inventories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		url := o.cfg.Inventories[name]
		var (
			inv *inventory.Inventory
			err error
		)
		for attempt := 0; attempt <= MaxRetries; attempt++ {
			inv, err = o.client.Fetch(ctx, url)
			if err == nil || !IsRetryable(err) {
				break
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(Backoff(attempt)):
			}
		}
		if err != nil {
			o.log.Warn("inventory fetch failed, links will degrade to text",
				"inventory", name, "url", url, "error", err)
			continue
		}
		o.inv.Add(url, inv)
		o.log.Info("inventory loaded",
			"inventory", name, "project", inv.Project, "entries", len(inv.Entries))
	}
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
	o.client.Close()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns aggregate module render latency stats.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// Inventory returns the external symbol inventory set for direct use by
// API handlers.
func (o *Orchestrator) Inventory() *inventory.Set {
	return o.inv
}

// Package returns the IR package and symbol registry from the most
// recently completed build, or nil before the first build finishes.
func (o *Orchestrator) Package() (*ir.Package, *xref.Registry) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.pkg, o.reg
}

func (o *Orchestrator) setLastBuild(pkg *ir.Package, reg *xref.Registry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pkg = pkg
	o.reg = reg
}
