package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetInput       = "input"
	WidgetTextArea    = "textarea"
	WidgetDatePicker  = "date-picker"
	WidgetSelect      = "select"
	WidgetRadioGroup  = "radio-group"
	WidgetCheckbox    = "checkbox"
	WidgetUnsupported = "unsupported"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on registered matchers. Higher
// priority wins; ties fall back to registration order. Fields that no matcher
// claims resolve to the unsupported widget so renderers can show an inert
// placeholder instead of failing.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// earliest registration wins among equal priorities.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. Fields no matcher claims
// resolve to WidgetUnsupported.
func (r *Registry) Resolve(field model.Field) string {
	if r == nil {
		return WidgetUnsupported
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return WidgetUnsupported
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetSelect, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeDropdown
	})
	r.Register(WidgetRadioGroup, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeRadio
	})
	r.Register(WidgetCheckbox, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeCheckbox
	})
	r.Register(WidgetTextArea, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeTextArea
	})
	r.Register(WidgetDatePicker, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeDate
	})
	r.Register(WidgetInput, 10, func(field model.Field) bool {
		switch field.Type {
		case model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeTel:
			return true
		default:
			return false
		}
	})
}

// InputType maps a field to the HTML input type attribute used by the input
// widget. Non-input widgets return an empty string.
func InputType(field model.Field) string {
	switch field.Type {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypeTel:
		return "tel"
	case model.FieldTypeText:
		return "text"
	default:
		return ""
	}
}
