package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sukalov/lyricsync/internal/lrc"
)

// ErrSuperseded is reported for a parse whose result was discarded because
// a newer one was requested for the same key.
var ErrSuperseded = errors.New("superseded by a newer request")

// ParseFunc produces a timeline. It should stop early once ctx is done.
type ParseFunc func(ctx context.Context) (*lrc.Timeline, error)

// StateManager holds the adopted timeline of every song. Each timeline is
// replaced as a whole; readers never see a partial one and never wait on a
// running parse.
type StateManager struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	current atomic.Pointer[lrc.Timeline]

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	settled chan struct{}
	err     error
}

func NewStateManager() *StateManager {
	return &StateManager{
		entries: make(map[string]*entry),
	}
}

// Current returns the adopted timeline for key, or nil.
func (sm *StateManager) Current(key string) *lrc.Timeline {
	sm.mu.RLock()
	en, ok := sm.entries[key]
	sm.mu.RUnlock()
	if !ok {
		return nil
	}
	return en.current.Load()
}

// Request runs parse on its own goroutine and adopts the result for key.
// A later Request for the same key cancels this one, and if this one still
// completes its result is dropped. The returned channel yields nil once the
// result is adopted, ErrSuperseded when it was dropped, or the error of
// parse.
func (sm *StateManager) Request(ctx context.Context, key string, parse ParseFunc) <-chan error {
	en := sm.entry(key)

	parseCtx, cancel := context.WithCancel(ctx)
	en.mu.Lock()
	if en.cancel != nil {
		en.cancel()
	}
	en.gen++
	gen := en.gen
	en.cancel = cancel
	settled := make(chan struct{})
	en.settled = settled
	en.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer cancel()
		tl, err := parse(parseCtx)

		en.mu.Lock()
		defer en.mu.Unlock()
		defer close(settled)
		if en.gen != gen {
			done <- ErrSuperseded
			return
		}
		en.cancel = nil
		en.settled = nil
		en.err = err
		if err != nil {
			done <- err
			return
		}
		if tl == nil {
			tl = lrc.Empty()
		}
		en.current.Store(tl)
		done <- nil
	}()
	return done
}

// Pending reports whether a parse for key is running.
func (sm *StateManager) Pending(key string) bool {
	sm.mu.RLock()
	en, ok := sm.entries[key]
	sm.mu.RUnlock()
	if !ok {
		return false
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.settled != nil
}

// Await waits until no parse for key is running and returns the outcome of
// the newest one: the adopted timeline, or the error of that parse. Results
// that were superseded while waiting are skipped. When nothing is running it
// returns the outcome of the last parse right away.
func (sm *StateManager) Await(ctx context.Context, key string) (*lrc.Timeline, error) {
	en := sm.entry(key)
	for {
		en.mu.Lock()
		settled, gen, err := en.settled, en.gen, en.err
		en.mu.Unlock()
		if settled == nil {
			if err != nil {
				return nil, err
			}
			return en.current.Load(), nil
		}

		select {
		case <-settled:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		en.mu.Lock()
		same := en.gen == gen
		err = en.err
		en.mu.Unlock()
		if same {
			if err != nil {
				return nil, err
			}
			return en.current.Load(), nil
		}
	}
}

// Adopt installs tl for key right away, superseding any running parse.
func (sm *StateManager) Adopt(key string, tl *lrc.Timeline) {
	en := sm.entry(key)
	en.mu.Lock()
	defer en.mu.Unlock()
	if en.cancel != nil {
		en.cancel()
		en.cancel = nil
	}
	en.settled = nil
	en.err = nil
	en.gen++
	if tl == nil {
		tl = lrc.Empty()
	}
	en.current.Store(tl)
}

// Forget drops the timeline for key and cancels a running parse.
func (sm *StateManager) Forget(key string) {
	sm.mu.Lock()
	en, ok := sm.entries[key]
	delete(sm.entries, key)
	sm.mu.Unlock()
	if !ok {
		return
	}

	en.mu.Lock()
	defer en.mu.Unlock()
	if en.cancel != nil {
		en.cancel()
		en.cancel = nil
	}
	en.settled = nil
	en.err = nil
	en.gen++
	en.current.Store(nil)
}

// Keys lists the keys that have an adopted timeline.
func (sm *StateManager) Keys() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	keys := make([]string, 0, len(sm.entries))
	for k, en := range sm.entries {
		if en.current.Load() != nil {
			keys = append(keys, k)
		}
	}
	return keys
}

func (sm *StateManager) entry(key string) *entry {
	sm.mu.RLock()
	en, ok := sm.entries[key]
	sm.mu.RUnlock()
	if ok {
		return en
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if en, ok := sm.entries[key]; ok {
		return en
	}
	en = &entry{}
	sm.entries[key] = en
	return en
}
