package tasks

import (
	"context"
	"fmt"
	"sync"
)

// idMap tracks locally assigned ids whose server id is not yet known.
//
// Jobs on other queues that reference a pending id block in resolve until the create job
// that owns it finishes.
type idMap struct {
	mu      sync.Mutex
	pending map[string]*pendingID
	settled map[string]outcome
}

type pendingID struct {
	done chan struct{}
	outcome
}

type outcome struct {
	id  string
	err error
}

func newIDMap() *idMap {
	return &idMap{pending: map[string]*pendingID{}, settled: map[string]outcome{}}
}

// reserve marks local as awaiting a server id.
func (m *idMap) reserve(local string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[local] = &pendingID{done: make(chan struct{})}
}

// settle records the outcome of the create job for local and wakes any waiters.
func (m *idMap) settle(local, server string, err error) {
	m.mu.Lock()
	p, ok := m.pending[local]
	delete(m.pending, local)
	m.settled[local] = outcome{id: server, err: err}
	m.mu.Unlock()

	if ok {
		p.outcome = outcome{id: server, err: err}
		close(p.done)
	}
}

// lookup returns the server id for id without waiting. Ids that were never reserved map to
// themselves; ok is false while a create is in flight or after it failed.
func (m *idMap) lookup(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[id]; ok {
		return id, false
	}
	if o, ok := m.settled[id]; ok {
		return o.id, o.err == nil
	}
	return id, true
}

// resolve returns the server id for id, waiting while its create job is in flight.
func (m *idMap) resolve(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	p, ok := m.pending[id]
	if !ok {
		o, done := m.settled[id]
		m.mu.Unlock()
		if !done {
			return id, nil
		}
		return o.result(id)
	}
	m.mu.Unlock()

	select {
	case <-p.done:
		return p.outcome.result(id)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (o outcome) result(local string) (string, error) {
	if o.err != nil {
		return "", fmt.Errorf("%s was never created: %w", local, o.err)
	}
	return o.id, nil
}
