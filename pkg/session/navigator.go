package session

import (
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Navigator is the state machine over the section index. Forward movement is
// gated by the validation engine; backward movement is unconditional. The
// navigator only exists once a valid form does.
type Navigator struct {
	form  model.Form
	index int
}

// NewNavigator constructs a navigator positioned at section 0. The form must
// pass the model's structural validation.
func NewNavigator(form model.Form) (*Navigator, error) {
	if err := model.Validate(form); err != nil {
		return nil, err
	}
	return &Navigator{form: form}, nil
}

// Form returns the navigated form.
func (n *Navigator) Form() model.Form {
	return n.form
}

// Index returns the zero-based current section index.
func (n *Navigator) Index() int {
	return n.index
}

// SectionCount returns the number of sections.
func (n *Navigator) SectionCount() int {
	return len(n.form.Sections)
}

// Current returns the section at the current index.
func (n *Navigator) Current() model.Section {
	return n.form.Sections[n.index]
}

// IsFirst reports whether the current section is the first one.
func (n *Navigator) IsFirst() bool {
	return n.index == 0
}

// IsLast reports whether the current section is the final one. There is no
// separate terminal state; "last" is derived from the index.
func (n *Navigator) IsLast() bool {
	return n.index == len(n.form.Sections)-1
}

// Progress returns completion as a fraction in (0, 1]: (index+1)/count.
// Callers typically render it as a percentage.
func (n *Navigator) Progress() float64 {
	return float64(n.index+1) / float64(len(n.form.Sections))
}

// Advance validates the current section against the supplied answers. When
// the section is invalid the index stays put and the section's error map is
// returned; when valid the index moves forward and the map is empty. Calling
// Advance on the last section is a caller error: that transition belongs to
// Submit.
func (n *Navigator) Advance(answers validation.Resolver) (validation.ErrorMap, error) {
	if n.IsLast() {
		return nil, ErrLastSection
	}
	valid, errs := validation.ValidateSection(n.Current(), answers)
	if !valid {
		return errs, nil
	}
	n.index++
	return errs, nil
}

// Retreat moves one section back, flooring at 0, and never validates.
func (n *Navigator) Retreat() {
	if n.index > 0 {
		n.index--
	}
}
