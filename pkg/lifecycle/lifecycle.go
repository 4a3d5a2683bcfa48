package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

type hook struct {
	fn func()
}

// Hooks is a registry of unload callbacks. It is safe for concurrent use.
type Hooks struct {
	mu    sync.Mutex
	hooks []*hook
	once  sync.Once
	done  chan struct{}
}

// New creates an empty hook registry.
func New() *Hooks {
	return &Hooks{done: make(chan struct{})}
}

// OnUnload registers fn to run on Unload. The returned function removes it
// and is safe to call more than once. Registrations after Unload are ignored.
func (h *Hooks) OnUnload(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}

	entry := &hook{fn: fn}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		return func() {}
	default:
	}
	h.hooks = append(h.hooks, entry)
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, e := range h.hooks {
			if e == entry {
				h.hooks = append(h.hooks[:i], h.hooks[i+1:]...)
				return
			}
		}
	}
}

// Unload runs every registered hook once, most recent first.
// Subsequent calls are no-ops.
func (h *Hooks) Unload() {
	h.once.Do(func() {
		h.mu.Lock()
		hooks := h.hooks
		h.hooks = nil
		h.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i].fn()
		}
		close(h.done)
	})
}

// Done is closed after Unload has run every hook.
func (h *Hooks) Done() <-chan struct{} {
	return h.done
}

// Len returns the number of registered hooks.
func (h *Hooks) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.hooks)
}

// NotifyOnSignal runs h.Unload when one of signals arrives or ctx is done.
// With no signals, os.Interrupt and SIGTERM are used.
// The returned stop function stops listening and triggers Unload.
func NotifyOnSignal(ctx context.Context, h *Hooks, signals ...os.Signal) (stop func()) {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ctx, cancel := signal.NotifyContext(ctx, signals...)
	go func() {
		<-ctx.Done()
		h.Unload()
	}()

	return cancel
}
