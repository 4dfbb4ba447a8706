// package tasks replicates local gallery edits to the remote API.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
	"golang.org/x/time/rate"
)

// HeroPersister stores hero images, which have no API endpoint.
type HeroPersister interface {
	List() ([]models.HeroImage, error)
	ListByPage(page string) ([]models.HeroImage, error)
	ReplacePage(page string, heroes []models.HeroImage) error
}

// SyncOpts configures a [SyncAdapter].
type SyncOpts struct {
	Store   *store.Store
	Remote  services.Gallery
	Heroes  HeroPersister
	Logger  *log.Logger
	Notices chan<- Notice

	// RateLimit caps outbound requests per second across all queues. Zero means unlimited.
	RateLimit float64
	Burst     int

	// Context bounds replication jobs. It is not tied to any view, so leaving a screen does not
	// cancel requests already queued.
	Context context.Context
}

// SyncAdapter applies edits to the local store first and replicates them asynchronously.
//
// Each sibling group has its own FIFO queue, so replication order within a group equals
// local commit order. A failed job produces an error [Notice] and a refetch of the groups it
// touched; local edits are never rolled back directly.
type SyncAdapter struct {
	store   *store.Store
	remote  services.Gallery
	heroes  HeroPersister
	logger  *log.Logger
	notices chan<- Notice
	limiter *rate.Limiter
	ctx     context.Context
	ids     *idMap
	queues  *queues

	// failures counts error notices, including ones dropped because the channel was full.
	failures atomic.Int64

	// mu orders local edits against id swaps so an edit never sees a half-rekeyed store.
	mu sync.RWMutex
}

// NewSyncAdapter creates a [SyncAdapter]. Store is required; a nil Remote keeps every edit local.
func NewSyncAdapter(opts SyncOpts) (*SyncAdapter, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	a := &SyncAdapter{
		store:   opts.Store,
		remote:  opts.Remote,
		heroes:  opts.Heroes,
		logger:  shared.WithLogger(opts.Logger, "component", "sync"),
		notices: opts.Notices,
		limiter: rate.NewLimiter(limit, opts.Burst),
		ctx:     opts.Context,
		ids:     newIDMap(),
	}
	a.queues = newQueues(a.runJob)
	return a, nil
}

// Store returns the local store edits are applied to.
func (a *SyncAdapter) Store() *store.Store {
	return a.store
}

// Online reports whether edits are replicated to a remote API.
func (a *SyncAdapter) Online() bool {
	return a.remote != nil
}

// Flush waits for every queued replication job to finish.
func (a *SyncAdapter) Flush(ctx context.Context) error {
	return a.queues.wait(ctx)
}

// Canonical returns the id an item is currently stored under, following server id swaps.
func (a *SyncAdapter) Canonical(id string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.canonical(id)
}

// canonical maps a local id that has already been swapped to its server id. Callers hold mu.
func (a *SyncAdapter) canonical(id string) string {
	if server, ok := a.ids.lookup(id); ok {
		return server
	}
	return id
}

// Failures returns how many replication or refetch failures the adapter has reported,
// whether or not their notices were delivered.
func (a *SyncAdapter) Failures() int {
	return int(a.failures.Load())
}

// sendNotice sends a notice without blocking
func (a *SyncAdapter) sendNotice(n Notice) {
	if n.Level == LevelError {
		a.failures.Add(1)
	}
	if a.notices == nil {
		return
	}
	select {
	case a.notices <- n:
	default:
		a.logger.Warn("notice dropped", "notice", n.String())
	}
}

// enqueue schedules j on the queue of g.
func (a *SyncAdapter) enqueue(g group, j job) {
	a.enqueueAcross(j, g)
}

// enqueueAcross schedules j on the queues of every group in gs, for edits that write to
// more than one sibling group. Without a remote, remote jobs are skipped; hero jobs always
// run because they only touch the local database.
func (a *SyncAdapter) enqueueAcross(j job, gs ...group) {
	if a.remote == nil && j.kind != models.KindHeroImage {
		a.sendNotice(successNotice(j.op, j.kind, j.id))
		return
	}
	if j.kind == models.KindHeroImage && a.heroes == nil {
		a.sendNotice(successNotice(j.op, j.kind, j.id))
		return
	}
	a.queues.enqueue(j, gs...)
}

func (a *SyncAdapter) runJob(j job) {
	logger := a.logger.With("op", j.op, "kind", j.kind, "id", j.id)

	err := j.run(a.ctx)
	if err == nil {
		logger.Debug("replicated")
		if !j.quiet {
			a.sendNotice(successNotice(j.op, j.kind, j.id))
		}
		return
	}

	logger.Warn("replication failed", "err", err)
	a.sendNotice(failureNotice(j.op, j.kind, j.id, err))

	for _, g := range j.refresh {
		if rerr := a.refetch(a.ctx, g); rerr != nil {
			logger.Error("refetch failed", "group", g.key(), "err", rerr)
			a.sendNotice(failureNotice(OpRefresh, g.kind, g.parent, rerr))
			continue
		}
		a.sendNotice(refreshedNotice(g.kind, g.parent))
	}
}

// wait blocks on the shared request limiter.
func (a *SyncAdapter) wait(ctx context.Context) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// call waits for the limiter and then runs fn.
func (a *SyncAdapter) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := a.wait(ctx); err != nil {
		return err
	}
	return fn(ctx)
}
