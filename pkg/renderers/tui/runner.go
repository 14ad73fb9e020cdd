package tui

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/session"
)

const (
	actionPrevious = "Previous"
	actionNext     = "Next"
	actionSubmit   = "Submit"
)

// Runner drives a live form session through terminal prompts. Each section is
// presented in turn; rejected answers are reported inline and the section is
// replayed until it validates.
type Runner struct {
	driver PromptDriver
	theme  Theme
}

// New constructs a Runner with defaults (survey driver).
func New(options ...Option) (*Runner, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Runner{driver: driver}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver, err = newSurveyDriver()
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run walks the session until it is submitted or the user aborts. The
// session must already be active.
func (r *Runner) Run(ctx context.Context, sess *session.Session) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if sess == nil {
		return errors.New("tui: session is required")
	}
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		section, err := sess.CurrentSection()
		if err != nil {
			return err
		}
		if err := r.showSectionHeader(ctx, sess, section); err != nil {
			return err
		}
		for _, field := range section.Fields {
			if err := r.promptField(ctx, sess, field); err != nil {
				return err
			}
		}

		action, err := r.chooseAction(ctx, sess)
		if err != nil {
			return err
		}

		switch action {
		case actionPrevious:
			if err := sess.Retreat(); err != nil {
				return err
			}
		case actionNext:
			errs, err := sess.Advance()
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				if err := r.reportErrors(ctx, section, errs); err != nil {
					return err
				}
			}
		case actionSubmit:
			errs, err := sess.Submit(ctx)
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				if err := r.reportErrors(ctx, section, errs); err != nil {
					return err
				}
				continue
			}
			return r.info(ctx, "Form submitted.")
		}
	}
}

func (r *Runner) showSectionHeader(ctx context.Context, sess *session.Session, section model.Section) error {
	percent := int(math.Round(sess.Progress() * 100))
	header := fmt.Sprintf("%s (%d%%)", section.Title, percent)
	if err := r.info(ctx, header); err != nil {
		return err
	}
	if section.Description != "" {
		return r.info(ctx, section.Description)
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, sess *session.Session, field model.Field) error {
	if !field.Type.Supported() {
		return r.info(ctx, fmt.Sprintf("%s cannot be edited here.", field.DisplayLabel()))
	}

	current, _ := sess.Value(field.FieldID)

	switch field.Type {
	case model.FieldTypeCheckbox:
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: field.DisplayLabel(),
			Default: current == true,
		})
		if err != nil {
			return err
		}
		return sess.SetValue(field.FieldID, answer)
	case model.FieldTypeDropdown, model.FieldTypeRadio:
		labels := make([]string, 0, len(field.Options))
		defaultIndex := 0
		for i, option := range field.Options {
			labels = append(labels, option.Label)
			if value, ok := current.(string); ok && value == option.Value {
				defaultIndex = i
			}
		}
		choice, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.DisplayLabel(),
			Options:      labels,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(field.Options) {
			return fmt.Errorf("tui: selection out of range for %s", field.FieldID)
		}
		return sess.SetValue(field.FieldID, field.Options[choice].Value)
	case model.FieldTypeTextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: field.DisplayLabel(),
			Default: stringOr(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		return sess.SetValue(field.FieldID, answer)
	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: field.DisplayLabel(),
			Default: stringOr(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		return sess.SetValue(field.FieldID, answer)
	}
}

func (r *Runner) chooseAction(ctx context.Context, sess *session.Session) (string, error) {
	var actions []string
	if !sess.IsFirstSection() {
		actions = append(actions, actionPrevious)
	}
	if sess.IsLastSection() {
		actions = append(actions, actionSubmit)
	} else {
		actions = append(actions, actionNext)
	}

	defaultIndex := len(actions) - 1
	choice, err := r.driver.Select(ctx, SelectConfig{
		Message:      "What next?",
		Options:      actions,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return "", err
	}
	if choice < 0 || choice >= len(actions) {
		return "", errors.New("tui: action selection out of range")
	}
	return actions[choice], nil
}

func (r *Runner) reportErrors(ctx context.Context, section model.Section, errs map[string]string) error {
	for _, field := range section.Fields {
		message, ok := errs[field.FieldID]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.DisplayLabel(), message)
		if err := r.info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func stringOr(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
