package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/vowfolio/internal/models"
)

// group names one sibling group: a kind plus its parent id (page, category or album).
type group struct {
	kind   models.Kind
	parent string
}

func (g group) key() string {
	return fmt.Sprintf("%d:%s", g.kind, g.parent)
}

// job is one replication step. run performs the remote calls; on failure every group in
// refresh is refetched before the next job of the same queue starts.
type job struct {
	op      Op
	kind    models.Kind
	id      string
	run     func(ctx context.Context) error
	refresh []group
	quiet   bool

	// barrier is set when the job sits on more than one queue.
	barrier *barrier
}

// barrier joins the copies of one job placed on several queues. The last queue to reach
// the job runs it; the others hold their queue until it has finished.
type barrier struct {
	mu      sync.Mutex
	pending int
	done    chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{pending: n, done: make(chan struct{})}
}

// arrive reports whether the caller is the last queue to reach the job.
func (b *barrier) arrive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending--
	return b.pending == 0
}

// queue runs jobs one at a time in enqueue order. Its worker goroutine exists only while
// jobs are waiting.
type queue struct {
	mu      sync.Mutex
	jobs    []job
	running bool
}

// queues holds one FIFO queue per sibling group.
type queues struct {
	mu     sync.Mutex
	byKey  map[string]*queue
	wg     sync.WaitGroup
	runner func(job)
}

func newQueues(runner func(job)) *queues {
	return &queues{byKey: map[string]*queue{}, runner: runner}
}

// get returns the queue of g, creating it if needed. Callers hold qs.mu.
func (qs *queues) get(g group) *queue {
	q, ok := qs.byKey[g.key()]
	if !ok {
		q = &queue{}
		qs.byKey[g.key()] = q
	}
	return q
}

// alias routes jobs for to onto the queue of from, so a group keeps a single FIFO after
// its parent is rekeyed.
func (qs *queues) alias(from, to group) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	q, ok := qs.byKey[from.key()]
	if !ok {
		return
	}
	if _, exists := qs.byKey[to.key()]; !exists {
		qs.byKey[to.key()] = q
	}
}

// enqueue appends j to the queue of every group in gs. A job on several queues runs once,
// after each of those queues has finished the jobs ahead of it. All queues are appended to
// under qs.mu, so jobs spanning the same queues keep one relative order everywhere.
func (qs *queues) enqueue(j job, gs ...group) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	var targets []*queue
	for _, g := range gs {
		q := qs.get(g)
		if !slices.Contains(targets, q) {
			targets = append(targets, q)
		}
	}
	if len(targets) > 1 {
		j.barrier = newBarrier(len(targets))
	}

	for _, q := range targets {
		qs.wg.Add(1)

		q.mu.Lock()
		q.jobs = append(q.jobs, j)
		start := !q.running
		q.running = true
		q.mu.Unlock()

		if start {
			go qs.drain(q)
		}
	}
}

func (qs *queues) drain(q *queue) {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		switch {
		case j.barrier == nil:
			qs.runner(j)
		case j.barrier.arrive():
			qs.runner(j)
			close(j.barrier.done)
		default:
			<-j.barrier.done
		}
		qs.wg.Done()
	}
}

// wait blocks until every enqueued job has run or ctx is done.
func (qs *queues) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		qs.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
