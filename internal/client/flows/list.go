package flows

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/client/services"
	"github.com/dmitrijs2005/plantdetector/internal/logging"
)

type ListState int

const (
	ListLoading ListState = iota
	ListLoaded
	ListFailed
)

func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListLoaded:
		return "loaded"
	case ListFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchFunc loads the whole list.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// ListView fetches a list once per mount. A failed fetch is logged and kept
// as a visible error state rather than an empty list. Results arriving after
// Unmount are dropped.
type ListView[T any] struct {
	name  string
	fetch FetchFunc[T]
	log   logging.Logger

	mu        sync.Mutex
	state     ListState
	items     []T
	err       error
	mounted   bool
	unmounted bool
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func NewListView[T any](name string, fetch FetchFunc[T], log logging.Logger) *ListView[T] {
	if log == nil {
		log = logging.Discard()
	}
	return &ListView[T]{
		name:  name,
		fetch: fetch,
		log:   log,
		done:  make(chan struct{}),
	}
}

func NewHistoryView(svc services.DiseaseService, log logging.Logger) *ListView[models.HistoryEntry] {
	return NewListView[models.HistoryEntry]("history", svc.History, log)
}

func NewDiseasesView(svc services.DiseaseService, log logging.Logger) *ListView[models.Disease] {
	return NewListView[models.Disease]("diseases", svc.Diseases, log)
}

// Mount starts the fetch in the background. Only the first call has an
// effect.
func (v *ListView[T]) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted || v.unmounted {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	ctx, v.cancel = context.WithCancel(ctx)
	v.mu.Unlock()

	go v.run(ctx)
}

func (v *ListView[T]) run(ctx context.Context) {
	defer v.settle()

	items, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		v.log.Debug(ctx, "late result dropped", "view", v.name)
		return
	}
	if err != nil {
		v.log.Error(ctx, "fetch failed", "view", v.name, "error", err)
		v.state = ListFailed
		v.err = err
		return
	}
	v.state = ListLoaded
	v.items = items
}

// Done is closed once the fetch has settled, including after Unmount.
func (v *ListView[T]) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until the fetch settles or ctx is done.
func (v *ListView[T]) Wait(ctx context.Context) error {
	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unmount cancels an in-flight fetch; its result will be ignored.
func (v *ListView[T]) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.unmounted = true
	if v.cancel != nil {
		v.cancel()
		return
	}
	v.settle()
}

func (v *ListView[T]) settle() {
	v.closeOnce.Do(func() { close(v.done) })
}

// Snapshot returns the current state with its items or error.
func (v *ListView[T]) Snapshot() (ListState, []T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.items, v.err
}
