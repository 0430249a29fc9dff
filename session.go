package xrf

import "sync"

// Session holds at most one open value of type T, such as the spawn file
// an editor is working on. All methods are safe for concurrent use. The
// zero value is an empty session.
type Session[T any] struct {
	mu    sync.Mutex
	value T
	open  bool
}

// Open stores v and returns the value it replaced, if any.
func (s *Session[T]) Open(v T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.value, s.open
	s.value, s.open = v, true
	return prev, had
}

// Current returns the open value.
func (s *Session[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.open
}

// Close empties the session and returns the value it held, if any.
func (s *Session[T]) Close() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	prev, had := s.value, s.open
	s.value, s.open = zero, false
	return prev, had
}

// With runs fn on the open value while holding the session lock, so
// Open and Close wait for fn to return. It returns ErrNotOpen when the
// session is empty.
func (s *Session[T]) With(fn func(v T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrNotOpen
	}
	return fn(s.value)
}
