// Package session composes the answer store, navigator, and validation engine
// with schema acquisition into the end-to-end multi-step form flow: load,
// iterate sections, submit.
package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// State names the session lifecycle phase.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateActive    State = "active"
	StateSubmitted State = "submitted"
	StateFailed    State = "failed"
	StateClosed    State = "closed"
)

// Applied when the caller's context carries no deadline, so a stalled
// provider cannot leave the session loading forever.
const defaultAcquisitionTimeout = 30 * time.Second

// SchemaProvider fetches the form schema for a user. Implemented by
// pkg/provider's HTTP client; tests substitute stubs.
type SchemaProvider interface {
	FetchForm(ctx context.Context, userID string) (model.Form, error)
}

// Submission is the finished, validated data bundle handed off at the end of
// the flow. Values holds only fields that were ever set.
type Submission struct {
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId,omitempty"`
	FormID    string         `json:"formId,omitempty"`
	FormTitle string         `json:"formTitle"`
	Values    map[string]any `json:"values"`
}

// Sink receives the submission bundle. Persistence beyond this hand-off is
// outside the engine's responsibility.
type Sink interface {
	Submit(ctx context.Context, bundle Submission) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, bundle Submission) error

func (f SinkFunc) Submit(ctx context.Context, bundle Submission) error {
	return f(ctx, bundle)
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithSink registers the submission sink.
func WithSink(sink Sink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithAcquisitionTimeout overrides the default schema fetch timeout applied
// when the caller's context has no deadline.
func WithAcquisitionTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// Session owns one answer store, one navigator, and the current section's
// error map for the lifetime of a single form walk. All state transitions are
// single-threaded reactions to user events; the session carries no locking.
// The one async operation is schema acquisition, which is tied to a load
// generation so a result landing after Close is discarded instead of applied
// to a dead session.
type Session struct {
	id       uuid.UUID
	provider SchemaProvider
	sink     Sink
	timeout  time.Duration

	state      State
	generation atomic.Uint64
	userID     string
	store      *answers.Store
	nav        *Navigator
	errs       validation.ErrorMap
}

// New constructs an idle session around a schema provider.
func New(provider SchemaProvider, options ...Option) *Session {
	s := &Session{
		id:       uuid.New(),
		provider: provider,
		timeout:  defaultAcquisitionTimeout,
		state:    StateIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// ID returns the session's unique identity.
func (s *Session) ID() string {
	return s.id.String()
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Start acquires the schema for userID and, on success, builds the store and
// navigator and activates the session. On failure no navigator is ever
// constructed: the session enters the failed state and the returned
// *AcquisitionError carries the human-readable reason; the caller is expected
// to route the user back to the login surface.
//
// Start may be retried after a failure. A result that arrives after Close (or
// after a newer Start) is discarded.
func (s *Session) Start(ctx context.Context, userID string) error {
	switch s.state {
	case StateIdle, StateFailed:
	case StateClosed:
		return ErrClosed
	default:
		return ErrAlreadyStarted
	}
	if s.provider == nil {
		s.state = StateFailed
		return &AcquisitionError{Err: fmt.Errorf("no schema provider configured")}
	}

	generation := s.generation.Add(1)
	s.state = StateLoading
	s.userID = userID

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	form, err := s.provider.FetchForm(ctx, userID)

	// The session may have been closed or restarted while the fetch was in
	// flight; a stale result must never be applied.
	if s.generation.Load() != generation || s.state == StateClosed {
		return ErrClosed
	}

	if err != nil {
		s.state = StateFailed
		return &AcquisitionError{Err: err}
	}

	nav, err := NewNavigator(form)
	if err != nil {
		// A malformed schema is as unusable as a failed fetch.
		s.state = StateFailed
		return &AcquisitionError{Err: err}
	}

	s.nav = nav
	s.errs = make(validation.ErrorMap)
	s.store = answers.New(answers.WithChangeListener(func(fieldID string) {
		delete(s.errs, fieldID)
	}))
	s.state = StateActive
	return nil
}

// Form returns the acquired schema.
func (s *Session) Form() (model.Form, error) {
	if s.nav == nil {
		return model.Form{}, ErrNotActive
	}
	return s.nav.Form(), nil
}

// CurrentSection returns the section being displayed.
func (s *Session) CurrentSection() (model.Section, error) {
	if err := s.ensureActive(); err != nil {
		return model.Section{}, err
	}
	return s.nav.Current(), nil
}

// SectionIndex returns the zero-based current index.
func (s *Session) SectionIndex() int {
	if s.nav == nil {
		return 0
	}
	return s.nav.Index()
}

// IsFirstSection reports whether the first section is displayed.
func (s *Session) IsFirstSection() bool {
	return s.nav == nil || s.nav.IsFirst()
}

// IsLastSection reports whether the final section is displayed.
func (s *Session) IsLastSection() bool {
	return s.nav != nil && s.nav.IsLast()
}

// Progress returns the completion fraction, 0 before the form is loaded.
func (s *Session) Progress() float64 {
	if s.nav == nil {
		return 0
	}
	return s.nav.Progress()
}

// SetValue records an answer. Editing a field clears its displayed error
// immediately, before any re-validation, so the user sees the edit was
// acknowledged.
func (s *Session) SetValue(fieldID string, value any) error {
	if err := s.ensureActive(); err != nil {
		return err
	}
	if _, ok := s.nav.Form().FieldByID(fieldID); !ok {
		return fmt.Errorf("session: unknown field %q", fieldID)
	}
	s.store.Set(fieldID, value)
	return nil
}

// Value returns the current answer for a field.
func (s *Session) Value(fieldID string) (any, bool) {
	if s.store == nil {
		return nil, false
	}
	return s.store.Get(fieldID)
}

// Errors returns the error map for the currently displayed section.
func (s *Session) Errors() validation.ErrorMap {
	return s.errs
}

// Advance validates the current section and moves forward when it passes.
// A non-empty returned map means the transition was rejected and the map is
// now the section's displayed error state.
func (s *Session) Advance() (validation.ErrorMap, error) {
	if err := s.ensureActive(); err != nil {
		return nil, err
	}
	errs, err := s.nav.Advance(s.store)
	if err != nil {
		return nil, err
	}
	s.errs = errs
	return errs, nil
}

// Retreat moves one section back without validating. Errors belong to the
// section being left and are discarded.
func (s *Session) Retreat() error {
	if err := s.ensureActive(); err != nil {
		return err
	}
	s.nav.Retreat()
	s.errs = make(validation.ErrorMap)
	return nil
}

// Submit validates the final section and, when it passes, hands the complete
// answer snapshot to the sink and ends the active-editing phase. A non-empty
// returned map means submission was rejected.
func (s *Session) Submit(ctx context.Context) (validation.ErrorMap, error) {
	if err := s.ensureActive(); err != nil {
		return nil, err
	}
	if !s.nav.IsLast() {
		return nil, ErrNotLastSection
	}

	valid, errs := validation.ValidateSection(s.nav.Current(), s.store)
	s.errs = errs
	if !valid {
		return errs, nil
	}

	if s.sink != nil {
		bundle := Submission{
			SessionID: s.ID(),
			UserID:    s.userID,
			FormID:    s.nav.Form().FormID,
			FormTitle: s.nav.Form().FormTitle,
			Values:    s.store.Snapshot(),
		}
		if err := s.sink.Submit(ctx, bundle); err != nil {
			return nil, fmt.Errorf("session: submit: %w", err)
		}
	}

	s.state = StateSubmitted
	return errs, nil
}

// Bundle returns the submission payload as it stands. Useful for sinks that
// pull rather than push, and for inspecting a submitted session.
func (s *Session) Bundle() (Submission, error) {
	if s.nav == nil {
		return Submission{}, ErrNotActive
	}
	return Submission{
		SessionID: s.ID(),
		UserID:    s.userID,
		FormID:    s.nav.Form().FormID,
		FormTitle: s.nav.Form().FormTitle,
		Values:    s.store.Snapshot(),
	}, nil
}

// Close tears the session down. Any in-flight acquisition result is discarded
// once Close has run.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	s.generation.Add(1)
	s.state = StateClosed
}

func (s *Session) ensureActive() error {
	if s.state != StateActive || s.nav == nil {
		return ErrNotActive
	}
	return nil
}
