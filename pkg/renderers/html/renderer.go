package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
	gotemplate "github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

const templateName = "templates/section.tmpl"

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	widgetRegistry   *widgets.Registry
	sanitizer        *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgetRegistry overrides the widget resolution rules.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgetRegistry = registry
		}
	}
}

// WithSanitizer overrides the policy applied to section descriptions. Section
// descriptions may carry markup from remote schema definitions, so they are
// sanitised before being emitted unescaped.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

// Renderer turns one section of a form into a standalone HTML document with
// progress and navigation chrome around the active section.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	widgets   *widgets.Registry
	sanitizer *bluemonday.Policy
}

var _ render.SectionRenderer = (*Renderer)(nil)

// New constructs an HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if _, err := fs.Stat(cfg.templateFS, templateName); err != nil {
		return nil, fmt.Errorf("html renderer: template %q missing: %w", templateName, err)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templateRenderer = engine
	}

	registry := cfg.widgetRegistry
	if registry == nil {
		registry = widgets.NewRegistry()
	}
	sanitizer := cfg.sanitizer
	if sanitizer == nil {
		sanitizer = bluemonday.UGCPolicy()
	}

	return &Renderer{
		templates: templateRenderer,
		widgets:   registry,
		sanitizer: sanitizer,
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderSection produces an HTML document for the section at index.
func (r *Renderer) RenderSection(_ context.Context, form model.Form, index int, options render.Options) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if index < 0 || index >= form.SectionCount() {
		return nil, fmt.Errorf("html renderer: section index %d out of range", index)
	}
	section := form.Sections[index]

	fields := make([]map[string]any, 0, len(section.Fields))
	for _, field := range section.Fields {
		fields = append(fields, r.fieldContext(field, options))
	}

	data := map[string]any{
		"form": map[string]any{
			"id":    form.FormID,
			"title": form.FormTitle,
		},
		"section": map[string]any{
			"id":          section.SectionID,
			"title":       section.Title,
			"description": r.sanitizer.Sanitize(section.Description),
		},
		"fields":   fields,
		"progress": options.Progress,
		"nav": map[string]any{
			"first": index == 0,
			"last":  index == form.SectionCount()-1,
		},
		"theme": buildThemeContext(options.Theme),
	}

	rendered, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(rendered), nil
}

func (r *Renderer) fieldContext(field model.Field, options render.Options) map[string]any {
	value := options.Values[field.FieldID]

	ctx := map[string]any{
		"id":          field.FieldID,
		"label":       field.DisplayLabel(),
		"widget":      r.widgets.Resolve(field),
		"input_type":  widgets.InputType(field),
		"placeholder": field.Placeholder,
		"required":    field.Required,
		"minlength":   field.MinLength,
		"maxlength":   field.MaxLength,
		"testid":      field.DataTestID,
		"value":       stringValue(value),
		"checked":     value == true,
		"error":       options.Errors[field.FieldID],
	}

	if field.Type.HasOptions() {
		selected := stringValue(value)
		opts := make([]map[string]any, 0, len(field.Options))
		for _, option := range field.Options {
			opts = append(opts, map[string]any{
				"value":    option.Value,
				"label":    option.Label,
				"selected": option.Value == selected,
				"testid":   option.DataTestID,
			})
		}
		ctx["options"] = opts
	}
	return ctx
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

type rendererTheme struct {
	Name         string            `json:"name"`
	Variant      string            `json:"variant"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
