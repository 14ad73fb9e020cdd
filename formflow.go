package formflow

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Form aliases the schema model's form definition for convenience.
type Form = model.Form

// Section aliases one step of a form.
type Section = model.Section

// Field aliases a single form control definition.
type Field = model.Field

// ErrorMap carries validation messages keyed by field identifier.
type ErrorMap = validation.ErrorMap

// Session aliases the stateful walk through a form.
type Session = session.Session

// Submission aliases the bundle handed to sinks on submit.
type Submission = session.Submission

// RenderOptions describes per-request overrides renderers can use to prefill
// values or surface validation errors.
type RenderOptions = render.Options

// NewSession constructs a session backed by the given schema provider. The
// session stays idle until Start is called.
func NewSession(provider session.SchemaProvider, options ...session.Option) *session.Session {
	return session.New(provider, options...)
}

// ParseForm decodes raw JSON or YAML schema content into a validated form.
// The location hint helps pick the decoder for extensionless content.
func ParseForm(raw []byte, location string) (model.Form, error) {
	return schema.ParseForm(raw, location)
}

// ValidateSection runs the section validation pass against the supplied
// answers. It returns whether the section is valid plus per-field messages.
func ValidateSection(section model.Section, answers validation.Resolver) (bool, validation.ErrorMap) {
	return validation.ValidateSection(section, answers)
}

// RenderSectionHTML renders one section of a form as a standalone HTML
// document using the default renderer. Callers needing custom templates or
// widgets should construct html.Renderer directly.
func RenderSectionHTML(ctx context.Context, form model.Form, index int, options render.Options) ([]byte, error) {
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return renderer.RenderSection(ctx, form, index, options)
}

// DefaultRegistry returns a renderer registry with the built-in HTML renderer
// registered.
func DefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(renderer); err != nil {
		return nil, err
	}
	return registry, nil
}
