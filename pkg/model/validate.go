package model

import (
	"errors"
	"fmt"
)

var (
	errNoSections   = errors.New("model: form has no sections")
	errEmptySection = errors.New("model: section has no fields")
)

// Validate checks the structural invariants a form must hold before a session
// may navigate it: at least one section, no empty sections, form-wide unique
// field ids, and per-field unique option values. An unsupported field type is
// deliberately not an error; such fields render as inert.
func Validate(form Form) error {
	if len(form.Sections) == 0 {
		return errNoSections
	}

	seen := make(map[string]struct{})
	for i, section := range form.Sections {
		if len(section.Fields) == 0 {
			return fmt.Errorf("%w: section %d (%q)", errEmptySection, i, section.Title)
		}
		for _, field := range section.Fields {
			if field.FieldID == "" {
				return fmt.Errorf("model: section %d (%q) contains a field without an id", i, section.Title)
			}
			if _, dup := seen[field.FieldID]; dup {
				return fmt.Errorf("model: duplicate field id %q; answers are keyed form-wide", field.FieldID)
			}
			seen[field.FieldID] = struct{}{}

			if err := validateOptions(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateOptions(field Field) error {
	if len(field.Options) == 0 {
		if field.Type.HasOptions() {
			return fmt.Errorf("model: %s field %q declares no options", field.Type, field.FieldID)
		}
		return nil
	}
	if !field.Type.HasOptions() {
		if field.Type.Supported() {
			return fmt.Errorf("model: field %q of type %s must not declare options", field.FieldID, field.Type)
		}
		// Unsupported types are inert; leave whatever they carry alone.
		return nil
	}

	values := make(map[string]struct{}, len(field.Options))
	for _, option := range field.Options {
		if option.Value == "" {
			return fmt.Errorf("model: field %q has an option without a value", field.FieldID)
		}
		if _, dup := values[option.Value]; dup {
			return fmt.Errorf("model: field %q repeats option value %q", field.FieldID, option.Value)
		}
		values[option.Value] = struct{}{}
	}
	return nil
}
