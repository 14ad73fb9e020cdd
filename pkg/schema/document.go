package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Document wraps a raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Form decodes the payload into a form model and checks its structural
// invariants. Both JSON and YAML are accepted, and the payload may be either
// a bare form or the provider envelope {"form": {...}}.
func (d Document) Form() (model.Form, error) {
	form, err := ParseForm(d.raw, d.Location())
	if err != nil {
		return model.Form{}, err
	}
	return form, nil
}

// ParseForm decodes raw JSON or YAML into a validated form. The location is
// only used to pick the decoder (by extension) and to label errors.
func ParseForm(raw []byte, location string) (model.Form, error) {
	if len(raw) == 0 {
		return model.Form{}, errors.New("schema: document is empty")
	}

	var (
		form model.Form
		err  error
	)
	if isYAML(raw, location) {
		form, err = decodeYAML(raw)
	} else {
		form, err = decodeJSON(raw)
	}
	if err != nil {
		return model.Form{}, fmt.Errorf("schema: decode %s: %w", labelFor(location), err)
	}

	if err := model.Validate(form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func decodeJSON(raw []byte) (model.Form, error) {
	var envelope model.Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return model.Form{}, err
	}
	if len(envelope.Form.Sections) > 0 {
		return envelope.Form, nil
	}

	var form model.Form
	if err := json.Unmarshal(raw, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func decodeYAML(raw []byte) (model.Form, error) {
	var envelope model.Response
	if err := yaml.Unmarshal(raw, &envelope); err != nil {
		return model.Form{}, err
	}
	if len(envelope.Form.Sections) > 0 {
		return envelope.Form, nil
	}

	var form model.Form
	if err := yaml.Unmarshal(raw, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func isYAML(raw []byte, location string) bool {
	lower := strings.ToLower(location)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return true
	}
	if strings.HasSuffix(lower, ".json") {
		return false
	}
	trimmed := strings.TrimSpace(string(raw))
	return !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[")
}

func labelFor(location string) string {
	if location == "" {
		return "document"
	}
	return location
}
