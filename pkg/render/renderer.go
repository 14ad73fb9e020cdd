package render

import (
	"context"

	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// SectionRenderer converts one section of a form into a byte representation
// (HTML, plain text, etc.). Renderers receive the whole form so they can show
// overall progress and navigation affordances around the active section.
type SectionRenderer interface {
	Name() string
	ContentType() string
	RenderSection(ctx context.Context, form model.Form, index int, options Options) ([]byte, error)
}

// Options describe per-request data renderers can use to customise their
// output without touching the form definition.
type Options struct {
	// Values pre-populates rendered controls keyed by field identifier.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field identifier.
	Errors validation.ErrorMap
	// Progress is the completion ratio for the active section, in (0, 1].
	Progress float64
	// Theme carries design tokens and variant selection for renderers that
	// support themed output. Nil means the renderer's defaults apply.
	Theme *theme.RendererConfig
}
