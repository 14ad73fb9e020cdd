// Package answers accumulates field values across the whole form lifetime,
// keyed by form-wide field identity, independent of which section is active.
package answers

// ChangeListener is notified after a field's value is inserted or
// overwritten. The session uses this to clear the field's displayed error the
// moment the user edits, ahead of any re-validation.
type ChangeListener func(fieldID string)

// Option configures a Store at construction time.
type Option func(*Store)

// WithChangeListener registers a listener invoked on every Set.
func WithChangeListener(listener ChangeListener) Option {
	return func(s *Store) {
		if listener != nil {
			s.listeners = append(s.listeners, listener)
		}
	}
}

// Store is the flat answer map for one form session. It is owned by a single
// session and accessed from a single goroutine, so it carries no locking.
// Values are strings or booleans by convention; absence is reported through
// Get's second return, distinct from an explicit empty string.
type Store struct {
	values    map[string]any
	listeners []ChangeListener
}

// New constructs an empty store.
func New(options ...Option) *Store {
	s := &Store{values: make(map[string]any)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Set inserts or overwrites the value for a field and fires change listeners.
func (s *Store) Set(fieldID string, value any) {
	if s == nil || fieldID == "" {
		return
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[fieldID] = value
	for _, listener := range s.listeners {
		listener(fieldID)
	}
}

// Get returns the current value for a field, or ok=false when it was never
// set.
func (s *Store) Get(fieldID string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.values[fieldID]
	return value, ok
}

// Len reports how many fields have been answered.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Snapshot returns a copy of every answered field, suitable as the submission
// bundle. Mutating the copy does not affect the store.
func (s *Store) Snapshot() map[string]any {
	if s == nil {
		return nil
	}
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
