package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
)

type stubProvider struct {
	form    model.Form
	err     error
	fetched chan struct{}
	release chan struct{}
}

func (p *stubProvider) FetchForm(ctx context.Context, userID string) (model.Form, error) {
	if p.fetched != nil {
		close(p.fetched)
	}
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return model.Form{}, ctx.Err()
		}
	}
	return p.form, p.err
}

type captureSink struct {
	bundles []Submission
	err     error
}

func (c *captureSink) Submit(_ context.Context, bundle Submission) error {
	if c.err != nil {
		return c.err
	}
	c.bundles = append(c.bundles, bundle)
	return nil
}

func twoSectionForm() model.Form {
	return model.Form{
		FormTitle: "Enrollment",
		FormID:    "enroll-1",
		Sections: []model.Section{
			{Title: "Identity", Fields: []model.Field{
				{FieldID: "name", Type: model.FieldTypeText, Required: true},
			}},
			{Title: "Contact", Fields: []model.Field{
				{FieldID: "email", Type: model.FieldTypeEmail, Required: true},
			}},
		},
	}
}

func startedSession(t *testing.T, form model.Form, options ...Option) *Session {
	t.Helper()
	sess := New(&stubProvider{form: form}, options...)
	if err := sess.Start(context.Background(), "RA001"); err != nil {
		t.Fatalf("start: %v", err)
	}
	return sess
}

func TestSession_StartActivates(t *testing.T) {
	sess := startedSession(t, twoSectionForm())

	if sess.State() != StateActive {
		t.Fatalf("state = %s", sess.State())
	}
	section, err := sess.CurrentSection()
	if err != nil {
		t.Fatalf("current section: %v", err)
	}
	if section.Title != "Identity" {
		t.Fatalf("section = %q", section.Title)
	}
	if sess.Progress() != 0.5 {
		t.Fatalf("progress = %v", sess.Progress())
	}
}

func TestSession_AcquisitionFailureNeverBuildsNavigator(t *testing.T) {
	sess := New(&stubProvider{err: errors.New("boom")})
	err := sess.Start(context.Background(), "RA001")

	var acq *AcquisitionError
	if !errors.As(err, &acq) {
		t.Fatalf("err = %v, want AcquisitionError", err)
	}
	if sess.State() != StateFailed {
		t.Fatalf("state = %s", sess.State())
	}
	if _, err := sess.CurrentSection(); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}
}

func TestSession_MalformedSchemaIsAcquisitionFailure(t *testing.T) {
	sess := New(&stubProvider{form: model.Form{FormTitle: "empty"}})
	err := sess.Start(context.Background(), "RA001")

	var acq *AcquisitionError
	if !errors.As(err, &acq) {
		t.Fatalf("err = %v, want AcquisitionError", err)
	}
}

func TestSession_StartRetriesAfterFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("boom")}
	sess := New(provider)

	if err := sess.Start(context.Background(), "RA001"); err == nil {
		t.Fatal("expected first start to fail")
	}

	provider.err = nil
	provider.form = twoSectionForm()
	if err := sess.Start(context.Background(), "RA001"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if sess.State() != StateActive {
		t.Fatalf("state = %s", sess.State())
	}
}

func TestSession_DoubleStartRejected(t *testing.T) {
	sess := startedSession(t, twoSectionForm())
	if err := sess.Start(context.Background(), "RA001"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("err = %v, want ErrAlreadyStarted", err)
	}
}

func TestSession_LateAcquisitionResultDiscardedAfterClose(t *testing.T) {
	provider := &stubProvider{
		form:    twoSectionForm(),
		fetched: make(chan struct{}),
		release: make(chan struct{}),
	}
	sess := New(provider)

	done := make(chan error, 1)
	go func() {
		done <- sess.Start(context.Background(), "RA001")
	}()

	<-provider.fetched
	sess.Close()
	close(provider.release)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if sess.State() != StateClosed {
		t.Fatalf("state = %s", sess.State())
	}
	if _, err := sess.CurrentSection(); !errors.Is(err, ErrNotActive) {
		t.Fatalf("closed session must not expose a form, got %v", err)
	}
}

func TestSession_EditClearsErrorImmediately(t *testing.T) {
	sess := startedSession(t, twoSectionForm())

	errs, err := sess.Advance()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if errs["name"] == "" {
		t.Fatalf("expected required error, got %v", errs)
	}

	if err := sess.SetValue("name", "Ada"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if _, stale := sess.Errors()["name"]; stale {
		t.Fatal("editing a field must clear its error before re-validation")
	}
}

func TestSession_SetValueRejectsUnknownField(t *testing.T) {
	sess := startedSession(t, twoSectionForm())
	if err := sess.SetValue("ghost", "value"); err == nil {
		t.Fatal("expected error for unknown field id")
	}
}

func TestSession_RetreatDiscardsSectionErrors(t *testing.T) {
	sess := startedSession(t, twoSectionForm())
	sess.SetValue("name", "Ada")
	if _, err := sess.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	// Fail the second section, then leave it backwards.
	if _, err := sess.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(sess.Errors()) == 0 {
		t.Fatal("expected errors on the last section")
	}
	if err := sess.Retreat(); err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if len(sess.Errors()) != 0 {
		t.Fatalf("errors must not survive leaving their section: %v", sess.Errors())
	}
}

func TestSession_SubmitBeforeLastSection(t *testing.T) {
	sess := startedSession(t, twoSectionForm())
	if _, err := sess.Submit(context.Background()); !errors.Is(err, ErrNotLastSection) {
		t.Fatalf("err = %v, want ErrNotLastSection", err)
	}
}

func TestSession_EndToEndSubmit(t *testing.T) {
	sink := &captureSink{}
	form := model.Form{
		FormTitle: "Quick",
		Sections: []model.Section{
			{Title: "Only", Fields: []model.Field{
				{FieldID: "name", Type: model.FieldTypeText, Required: true},
			}},
		},
	}
	sess := startedSession(t, form, WithSink(sink))

	// Empty submit is rejected with exactly one error.
	errs, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one entry", errs)
	}
	if len(sink.bundles) != 0 {
		t.Fatal("sink must not receive a rejected submission")
	}

	sess.SetValue("name", "Ada")
	errs, err = sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if sess.State() != StateSubmitted {
		t.Fatalf("state = %s", sess.State())
	}

	if len(sink.bundles) != 1 {
		t.Fatalf("sink received %d bundles", len(sink.bundles))
	}
	got := sink.bundles[0]
	if got.UserID != "RA001" || got.FormTitle != "Quick" {
		t.Fatalf("bundle metadata: %+v", got)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, got.Values); diff != "" {
		t.Fatalf("bundle values mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_SinkFailureKeepsSessionActive(t *testing.T) {
	sink := &captureSink{err: errors.New("downstream unavailable")}
	form := model.Form{
		FormTitle: "Quick",
		Sections: []model.Section{
			{Title: "Only", Fields: []model.Field{{FieldID: "name", Type: model.FieldTypeText}}},
		},
	}
	sess := startedSession(t, form, WithSink(sink))
	sess.SetValue("name", "Ada")

	if _, err := sess.Submit(context.Background()); err == nil {
		t.Fatal("expected sink error to propagate")
	}
	if sess.State() != StateActive {
		t.Fatalf("state = %s, want active for retry", sess.State())
	}
}

func TestSession_OperationsRequireActiveState(t *testing.T) {
	sess := New(&stubProvider{form: twoSectionForm()})

	if err := sess.SetValue("name", "Ada"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("SetValue err = %v", err)
	}
	if _, err := sess.Advance(); !errors.Is(err, ErrNotActive) {
		t.Fatalf("Advance err = %v", err)
	}
	if err := sess.Retreat(); !errors.Is(err, ErrNotActive) {
		t.Fatalf("Retreat err = %v", err)
	}
	if _, err := sess.Submit(context.Background()); !errors.Is(err, ErrNotActive) {
		t.Fatalf("Submit err = %v", err)
	}
}
