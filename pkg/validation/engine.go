// Package validation implements the per-section validation pass that gates
// forward navigation. Field-level failures are ordinary return values, never
// errors: "some fields are invalid" is an expected outcome.
package validation

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-formflow/pkg/model"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telPattern   = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)
)

// ErrorMap maps a field id to the message currently displayed for it. The map
// is rebuilt wholesale on every validation pass; at most one message per field
// survives.
type ErrorMap map[string]string

// Resolver supplies the current answer for a field. Absence (never set) is
// reported through ok and is distinct from an explicit empty string.
type Resolver interface {
	Get(fieldID string) (value any, ok bool)
}

// ValidateSection runs every field of one section against the current answers
// and returns a fresh error map. The resolver is only read, never mutated;
// persisting or clearing the returned map is the caller's job.
//
// Checks run in a fixed order per field and all write the same map key, so a
// later failing check replaces the message of an earlier one (max-length over
// min-length, and so on). That one-error-per-field behavior is intentional
// and load-bearing for the UI.
func ValidateSection(section model.Section, answers Resolver) (bool, ErrorMap) {
	errs := make(ErrorMap)

	for _, field := range section.Fields {
		var value any
		var ok bool
		if answers != nil {
			value, ok = answers.Get(field.FieldID)
		}

		if field.Required && isEmpty(value, ok) {
			errs[field.FieldID] = message(field, msgRequired)
			continue
		}
		if isEmpty(value, ok) {
			// Optional and unanswered: nothing further applies.
			continue
		}

		str, isString := value.(string)
		if !isString {
			// Boolean answers (checkbox) bypass every string check.
			continue
		}

		if field.MinLength > 0 && len(str) < field.MinLength {
			errs[field.FieldID] = message(field, fmt.Sprintf(msgMinLength, field.MinLength))
		}
		if field.MaxLength > 0 && len(str) > field.MaxLength {
			errs[field.FieldID] = message(field, fmt.Sprintf(msgMaxLength, field.MaxLength))
		}
		if field.Type == model.FieldTypeEmail && !emailPattern.MatchString(str) {
			errs[field.FieldID] = message(field, msgInvalidEmail)
		}
		if field.Type == model.FieldTypeTel && !telPattern.MatchString(str) {
			errs[field.FieldID] = message(field, msgInvalidTel)
		}
	}

	return len(errs) == 0, errs
}

// isEmpty treats never-set, nil, and the explicit empty string as absent for
// required-field purposes. A false checkbox still counts as answered.
func isEmpty(value any, ok bool) bool {
	if !ok || value == nil {
		return true
	}
	str, isString := value.(string)
	return isString && str == ""
}

func message(field model.Field, fallback string) string {
	if custom := field.CustomMessage(); custom != "" {
		return custom
	}
	return fallback
}
