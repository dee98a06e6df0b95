package debugcore

import (
	"context"
	"sync"
)

// Status is the lifecycle of one asynchronous read.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Query is one independently loading slot of a panel.
type Query[T any] struct {
	Status Status
	Value  T
	Err    error

	seq uint64
}

// panel carries what every network-bound panel shares: a context that is
// cancelled when the panel is torn down, a lock over its slots, and the
// change callback front-ends redraw on.
type panel struct {
	ctx      context.Context
	mu       sync.Mutex
	wg       sync.WaitGroup
	onChange func()
}

func (p *panel) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}

func (p *panel) alive() bool { return p.ctx.Err() == nil }

// Wait blocks until every load started so far has settled.
func (p *panel) Wait() { p.wg.Wait() }

// load marks slot pending and fills it from fn in the background. A result is
// dropped when the panel is gone or a newer load of the same slot started.
// then runs after a result was applied.
func load[T any](p *panel, slot *Query[T], fn func(context.Context) (T, error), then func()) {
	p.mu.Lock()
	slot.seq++
	seq := slot.seq
	slot.Status = StatusPending
	slot.Err = nil
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		v, err := fn(p.ctx)

		p.mu.Lock()
		if !p.alive() || slot.seq != seq {
			p.mu.Unlock()
			return
		}
		if err != nil {
			var zero T
			slot.Status, slot.Value, slot.Err = StatusError, zero, err
		} else {
			slot.Status, slot.Value, slot.Err = StatusSuccess, v, nil
		}
		p.mu.Unlock()

		p.changed()
		if then != nil {
			then()
		}
	}()
}

// reset returns slot to idle and invalidates any load in flight. Callers hold p.mu.
func reset[T any](slot *Query[T]) {
	var zero T
	slot.seq++
	slot.Status, slot.Value, slot.Err = StatusIdle, zero, nil
}
