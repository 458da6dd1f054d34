package input

import "sync"

// State tracks which key symbols are currently held. It is safe for
// concurrent use: the reader goroutines never touch it directly, but the
// orchestrator applies events from one goroutine while diagnostics may
// snapshot it from another.
type State struct {
	mu   sync.RWMutex
	held map[string]bool
}

func NewState() *State {
	return &State{held: make(map[string]bool)}
}

// Apply folds a single transition into the state and reports whether the
// held set actually changed. Repeated presses of an already held key and
// releases of an idle key are no-ops, so callers can skip a repaint.
func (s *State) Apply(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Pressed {
		if s.held[ev.Symbol] {
			return false
		}
		s.held[ev.Symbol] = true
		return true
	}
	if !s.held[ev.Symbol] {
		return false
	}
	delete(s.held, ev.Symbol)
	return true
}

// Pressed reports whether the given symbol is currently held.
func (s *State) Pressed(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.held[symbol]
}

// Snapshot returns a copy of the held set for the renderer to consume
// without holding the lock across a frame.
func (s *State) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.held))
	for k, v := range s.held {
		out[k] = v
	}
	return out
}
