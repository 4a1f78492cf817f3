package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/logging"
)

// Slot holds one asset that loads can replace. Only the most recently issued
// load or Set may write the slot: issuing a new one cancels the previous load,
// and a load that finishes after being superseded is reported as cancelled
// and its asset dropped.
type Slot[T any] struct {
	name   string
	logger *log.Logger

	mu         sync.Mutex
	def        T
	current    T
	generation uint64
	cancel     context.CancelFunc
	applied    func(T)
}

// NewSlot creates a slot holding def.
func NewSlot[T any](name string, def T, logger *log.Logger) *Slot[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Slot[T]{
		name:    name,
		logger:  logger.With("slot", name),
		def:     def,
		current: def,
	}
}

// Name returns the slot name.
func (s *Slot[T]) Name() string { return s.name }

// Get returns the asset currently in the slot.
func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Default returns the asset the slot started with.
func (s *Slot[T]) Default() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.def
}

// OnApply registers fn to run, under the slot lock, whenever a new asset is
// written. fn must not call back into the slot.
func (s *Slot[T]) OnApply(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = fn
}

// Set writes v, superseding any in-flight load.
func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersede()
	s.write(v)
}

// Reset writes the default asset, superseding any in-flight load.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersede()
	s.write(s.def)
}

// Load starts loading url with loader and returns a handle to the load. A
// successful outcome is written to the slot only if no later Load, Set or
// Reset was issued in the meantime. Failures leave the slot unchanged.
func (s *Slot[T]) Load(ctx context.Context, loader *asset.Loader[T], url string) *asset.Task[T] {
	s.mu.Lock()
	gen := s.supersede()
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Debug("starting load", "url", url, "generation", gen)
	return asset.Go(ctx, func(ctx context.Context) asset.Outcome[T] {
		defer cancel()
		return s.apply(gen, url, loader.LoadFromURL(ctx, url))
	})
}

// supersede cancels the in-flight load and returns the new generation.
// Callers hold s.mu.
func (s *Slot[T]) supersede() uint64 {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	return s.generation
}

func (s *Slot[T]) write(v T) {
	s.current = v
	if s.applied != nil {
		s.applied(v)
	}
}

func (s *Slot[T]) apply(gen uint64, url string, out asset.Outcome[T]) asset.Outcome[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding superseded load", "url", url, "generation", gen, "status", out.Status)
		return asset.Cancelled[T]()
	}
	s.cancel = nil

	switch out.Status {
	case asset.StatusSuccess:
		s.write(out.Asset)
		s.logger.Info("asset applied", "url", url)
	case asset.StatusCancelled:
		s.logger.Debug("load cancelled, keeping current asset", "url", url)
	default:
		s.logger.Warn("load failed, keeping current asset", "url", url, "status", out.Status, "err", out.Err)
	}
	return out
}
