package console

import (
	"log/slog"
	"reflect"
	"sync"
)

// Slot is a substitution point holding the active Console.
//
// Thread-safety: all methods are safe for concurrent use.
type Slot struct {
	mu      sync.Mutex
	current Console
}

// NewSlot creates a slot whose active console is c.
func NewSlot(c Console) *Slot {
	return &Slot{current: c}
}

// Load returns the active console.
func (s *Slot) Load() Console {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Swap makes c the active console and returns the previous one.
func (s *Slot) Swap(c Console) Console {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.current
	s.current = c
	return old
}

// CompareAndSwap replaces the active console with next only if the active
// console is old. Identity means same dynamic type and == equality; values of
// non-comparable types are never identical.
func (s *Slot) CompareAndSwap(old, next Console) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !Same(s.current, old) {
		return false
	}
	s.current = next
	return true
}

// Is reports whether c is the active console.
func (s *Slot) Is(c Console) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Same(s.current, c)
}

// Same reports whether a and b are the same console by identity.
func Same(a, b Console) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

var global = NewSlot(NewSlog(slog.Default()))

// Global returns the process-wide slot used by the package-level helpers.
func Global() *Slot {
	return global
}

func Log(args ...any)       { global.Load().Log(args...) }
func Trace(args ...any)     { global.Load().Trace(args...) }
func Warn(args ...any)      { global.Load().Warn(args...) }
func Error(args ...any)     { global.Load().Error(args...) }
func Info(args ...any)      { global.Load().Info(args...) }
func Exception(args ...any) { global.Load().Exception(args...) }
func Dirxml(args ...any)    { global.Load().Dirxml(args...) }
func Dir(args ...any)       { global.Load().Dir(args...) }
func Debug(args ...any)     { global.Load().Debug(args...) }
func Assert(args ...any)    { global.Load().Assert(args...) }
