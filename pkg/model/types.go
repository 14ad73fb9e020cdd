package model

// FieldType enumerates the closed set of input kinds a form schema may
// declare. Anything outside this set is carried through the model untouched
// and rendered as an inert, unsupported field rather than rejected.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Supported reports whether the type belongs to the closed set the engine
// knows how to validate and render.
func (t FieldType) Supported() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypeTextArea,
		FieldTypeDate, FieldTypeDropdown, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// StringValued reports whether answers for this type carry string values.
// Checkbox is the only supported type that collects a boolean instead.
func (t FieldType) StringValued() bool {
	return t.Supported() && t != FieldTypeCheckbox
}

// HasOptions reports whether the type selects from a declared option list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeDropdown || t == FieldTypeRadio
}

// Option is one selectable entry of a dropdown or radio field. Value must be
// unique within the owning field.
type Option struct {
	Value      string `json:"value" yaml:"value"`
	Label      string `json:"label" yaml:"label"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// Validation carries the optional custom error message that replaces every
// generated default message for the owning field.
type Validation struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Field models one input unit. FieldID is unique across the entire form, not
// just its section; the answer store is flat and keyed by it. MinLength and
// MaxLength of zero mean the bound is unset.
type Field struct {
	FieldID     string      `json:"fieldId" yaml:"fieldId"`
	Type        FieldType   `json:"type" yaml:"type"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength   int         `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   int         `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Options     []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	DataTestID  string      `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// DisplayLabel returns the label, falling back to the field id so prompts and
// markup never render empty.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.FieldID
}

// CustomMessage returns the field's validation message override, or "".
func (f Field) CustomMessage() string {
	if f.Validation == nil {
		return ""
	}
	return f.Validation.Message
}

// Section is one step of the multi-step form: an ordered, non-empty group of
// fields displayed together.
type Section struct {
	SectionID   int     `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Form is the complete schema: a title plus the ordered section sequence.
// Forms are immutable once a session has received them.
type Form struct {
	FormTitle string    `json:"formTitle" yaml:"formTitle"`
	FormID    string    `json:"formId,omitempty" yaml:"formId,omitempty"`
	Version   string    `json:"version,omitempty" yaml:"version,omitempty"`
	Sections  []Section `json:"sections" yaml:"sections"`
}

// SectionCount returns the number of sections.
func (f Form) SectionCount() int {
	return len(f.Sections)
}

// FieldByID walks every section looking for the field with the given id.
func (f Form) FieldByID(fieldID string) (Field, bool) {
	for _, section := range f.Sections {
		for _, field := range section.Fields {
			if field.FieldID == fieldID {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Response is the wire envelope the schema provider returns from get-form.
type Response struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Form    Form   `json:"form" yaml:"form"`
}

// User identifies who a fetched form belongs to. The provider keys schema
// retrieval by RollNumber.
type User struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}
