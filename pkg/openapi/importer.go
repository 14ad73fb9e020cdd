package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/model"
)

const widgetExtensionKey = "x-widget"

// Options configure how an OpenAPI document is turned into a form.
type Options struct {
	// OperationID selects the operation to import. When empty the first
	// operation carrying a request body wins.
	OperationID string
	// ResolveReferences validates the document and resolves external refs.
	ResolveReferences bool
	// Labeler converts property names into field labels.
	Labeler func(string) string
}

// Option mutates Options.
type Option func(*Options)

// WithOperationID pins the imported operation by its operationId.
func WithOperationID(id string) Option {
	return func(o *Options) { o.OperationID = id }
}

// WithReferenceResolution enables document validation and external refs.
func WithReferenceResolution() Option {
	return func(o *Options) { o.ResolveReferences = true }
}

// WithLabeler overrides the label derivation for property names.
func WithLabeler(labeler func(string) string) Option {
	return func(o *Options) {
		if labeler != nil {
			o.Labeler = labeler
		}
	}
}

// Importer builds form definitions from OpenAPI 3 documents.
type Importer struct {
	opts Options
}

// New constructs an Importer with the given options.
func New(options ...Option) *Importer {
	opts := Options{Labeler: DefaultLabeler}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Labeler == nil {
		opts.Labeler = DefaultLabeler
	}
	return &Importer{opts: opts}
}

// Import parses raw as an OpenAPI document and converts the selected
// operation's request body into a sectioned form. Top level scalar
// properties land in a leading section while object properties become
// sections of their own.
func (i *Importer) Import(ctx context.Context, raw []byte) (model.Form, error) {
	if err := ctx.Err(); err != nil {
		return model.Form{}, err
	}
	if len(raw) == 0 {
		return model.Form{}, errors.New("openapi import: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return model.Form{}, fmt.Errorf("openapi import: load document: %w", err)
	}
	if i.opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return model.Form{}, fmt.Errorf("openapi import: validate: %w", err)
		}
	}

	op, opID, err := i.selectOperation(spec)
	if err != nil {
		return model.Form{}, err
	}

	schema := requestSchema(op.RequestBody)
	if schema == nil {
		return model.Form{}, fmt.Errorf("openapi import: operation %q has no request body schema", opID)
	}
	if !isObject(schema) {
		return model.Form{}, fmt.Errorf("openapi import: operation %q request body is not an object", opID)
	}

	form := model.Form{
		FormID:  opID,
		Version: spec.Info.Version,
	}
	form.FormTitle = op.Summary
	if form.FormTitle == "" {
		form.FormTitle = spec.Info.Title
	}

	lead := model.Section{
		Title:       "Details",
		Description: op.Description,
	}
	var sections []model.Section

	requiredSet := stringSet(schema.Required)
	for _, name := range sortedPropertyNames(schema.Properties) {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		if isObject(prop.Value) && len(prop.Value.Properties) > 0 {
			sections = append(sections, i.sectionFromObject(name, prop.Value))
			continue
		}
		lead.Fields = append(lead.Fields, i.fieldFromSchema(name, name, prop.Value, requiredSet[name]))
	}

	if len(lead.Fields) > 0 {
		sections = append([]model.Section{lead}, sections...)
	}
	for i := range sections {
		sections[i].SectionID = i + 1
	}
	form.Sections = sections

	if err := model.Validate(form); err != nil {
		return model.Form{}, fmt.Errorf("openapi import: %w", err)
	}
	return form, nil
}

func (i *Importer) selectOperation(spec *openapi3.T) (*openapi3.Operation, string, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, "", errors.New("openapi import: document does not contain any paths")
	}

	type candidate struct {
		op *openapi3.Operation
		id string
	}
	var candidates []candidate

	paths := make([]string, 0, spec.Paths.Len())
	for path := range spec.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := spec.Paths.Map()[path]
		if item == nil {
			continue
		}
		for _, entry := range []struct {
			method string
			op     *openapi3.Operation
		}{
			{"POST", item.Post},
			{"PUT", item.Put},
			{"PATCH", item.Patch},
		} {
			if entry.op == nil || entry.op.RequestBody == nil {
				continue
			}
			id := entry.op.OperationID
			if id == "" {
				id = strings.ToLower(entry.method) + ":" + path
			}
			candidates = append(candidates, candidate{op: entry.op, id: id})
		}
	}

	if i.opts.OperationID != "" {
		for _, c := range candidates {
			if c.id == i.opts.OperationID {
				return c.op, c.id, nil
			}
		}
		return nil, "", fmt.Errorf("openapi import: operation %q not found", i.opts.OperationID)
	}
	if len(candidates) == 0 {
		return nil, "", errors.New("openapi import: no operation with a request body")
	}
	return candidates[0].op, candidates[0].id, nil
}

func (i *Importer) sectionFromObject(name string, schema *openapi3.Schema) model.Section {
	section := model.Section{
		Title:       schema.Title,
		Description: schema.Description,
	}
	if section.Title == "" {
		section.Title = i.opts.Labeler(name)
	}

	requiredSet := stringSet(schema.Required)
	for _, propName := range sortedPropertyNames(schema.Properties) {
		prop := schema.Properties[propName]
		if prop == nil || prop.Value == nil {
			continue
		}
		fieldID := name + "." + propName
		section.Fields = append(section.Fields, i.fieldFromSchema(fieldID, propName, prop.Value, requiredSet[propName]))
	}
	return section
}

func (i *Importer) fieldFromSchema(fieldID, name string, schema *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		FieldID:     fieldID,
		Type:        mapFieldType(schema),
		Label:       schema.Title,
		Placeholder: schema.Description,
		Required:    required,
		MinLength:   int(schema.MinLength),
	}
	if field.Label == "" {
		field.Label = i.opts.Labeler(name)
	}
	if schema.MaxLength != nil {
		field.MaxLength = int(*schema.MaxLength)
	}
	if len(schema.Enum) > 0 && field.Type.HasOptions() {
		field.Options = make([]model.Option, 0, len(schema.Enum))
		for _, item := range schema.Enum {
			value := fmt.Sprintf("%v", item)
			field.Options = append(field.Options, model.Option{
				Value: value,
				Label: i.opts.Labeler(value),
			})
		}
	}
	return field
}

// mapFieldType picks the closest field type for a schema. Anything that
// has no sensible single-field representation keeps its raw type name so
// downstream consumers can treat it as unsupported rather than failing.
func mapFieldType(schema *openapi3.Schema) model.FieldType {
	schemaType := firstSchemaType(schema.Type)
	switch schemaType {
	case "string":
		if len(schema.Enum) > 0 {
			if widgetHint(schema) == string(model.FieldTypeRadio) {
				return model.FieldTypeRadio
			}
			return model.FieldTypeDropdown
		}
		switch schema.Format {
		case "email":
			return model.FieldTypeEmail
		case "date", "date-time":
			return model.FieldTypeDate
		case "tel", "phone":
			return model.FieldTypeTel
		}
		if widgetHint(schema) == string(model.FieldTypeTextArea) {
			return model.FieldTypeTextArea
		}
		return model.FieldTypeText
	case "boolean":
		return model.FieldTypeCheckbox
	default:
		if schemaType == "" {
			schemaType = "unknown"
		}
		return model.FieldType(schemaType)
	}
}

func widgetHint(schema *openapi3.Schema) string {
	raw, ok := schema.Extensions[widgetExtensionKey]
	if !ok {
		return ""
	}
	hint, _ := raw.(string)
	return hint
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func isObject(schema *openapi3.Schema) bool {
	schemaType := firstSchemaType(schema.Type)
	return schemaType == "object" || (schemaType == "" && len(schema.Properties) > 0)
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func sortedPropertyNames(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
