// Package admin holds the admin console: a credential, four resource editors
// and the per-browser sessions that own them. Editors mirror the last snapshot
// fetched from the API and overwrite it on each successful mutation; there is
// no version check, so concurrent editors elsewhere are last-write-wins.
package admin

import (
	"context"
	"sync"

	"github.com/vbonduro/portfolio/internal/domain"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// resource is one REST collection an Editor performs CRUD against.
type resource[T domain.Record] interface {
	List(ctx context.Context, token string) ([]T, error)
	Create(ctx context.Context, token string, draft T) (T, error)
	Update(ctx context.Context, token string, rec T) (T, error)
	Delete(ctx context.Context, token string, id int64) error
}

// Editor is a list-and-form editor for one resource.
type Editor[T domain.Record] struct {
	mu    sync.Mutex
	res   resource[T]
	gen   uint64
	state State
	rows  []T
	draft T
	err   string
}

func NewEditor[T domain.Record](res resource[T]) *Editor[T] {
	return &Editor[T]{res: res, state: StateIdle}
}

// Load fetches the full collection. A load that is cancelled, or superseded by
// a later Load before it completes, is discarded.
func (e *Editor[T]) Load(ctx context.Context, token string) {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.state = StateLoading
	e.err = ""
	e.mu.Unlock()

	rows, err := e.res.List(ctx, token)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || ctx.Err() != nil {
		return
	}
	if err != nil {
		e.state = StateFailed
		e.err = err.Error()
		return
	}
	e.rows = rows
	e.state = StateLoaded
}

// Create posts draft and prepends the record returned by the API. On failure
// the draft is kept for the next attempt.
func (e *Editor[T]) Create(ctx context.Context, token string, draft T) error {
	e.mu.Lock()
	e.draft = draft
	e.mu.Unlock()

	created, err := e.res.Create(ctx, token, draft)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.err = err.Error()
		return err
	}
	e.rows = append([]T{created}, e.rows...)
	var zero T
	e.draft = zero
	e.err = ""
	return nil
}

// Save puts the full record and replaces it in place by id with the API's copy.
func (e *Editor[T]) Save(ctx context.Context, token string, rec T) error {
	updated, err := e.res.Update(ctx, token, rec)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.err = err.Error()
		return err
	}
	for i := range e.rows {
		if e.rows[i].RecordID() == rec.RecordID() {
			e.rows[i] = updated
		}
	}
	e.err = ""
	return nil
}

// Delete removes the record with id from the API and then from the list.
func (e *Editor[T]) Delete(ctx context.Context, token string, id int64) error {
	if err := e.res.Delete(ctx, token, id); err != nil {
		e.mu.Lock()
		e.err = err.Error()
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	kept := make([]T, 0, len(e.rows))
	for _, r := range e.rows {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	e.rows = kept
	e.err = ""
	return nil
}

// Rows returns a copy of the current snapshot.
func (e *Editor[T]) Rows() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]T(nil), e.rows...)
}

func (e *Editor[T]) Draft() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

func (e *Editor[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err is the last error message, or "" after a successful operation.
func (e *Editor[T]) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
