package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	pkgmodel "github.com/goliatone/go-formflow/pkg/model"
	pkgschema "github.com/goliatone/go-formflow/pkg/schema"
)

// MustLoadForm reads a JSON or YAML schema fixture into a validated form.
// Testing helpers fail fast to keep contract tests concise.
func MustLoadForm(t *testing.T, path string) pkgmodel.Form {
	t.Helper()

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadForm reads a schema fixture into a Form, returning an error for
// callers managing setup outside of *testing.T.
func LoadForm(path string) (pkgmodel.Form, error) {
	if path == "" {
		return pkgmodel.Form{}, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgmodel.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	form, err := pkgschema.ParseForm(data, path)
	if err != nil {
		return pkgmodel.Form{}, fmt.Errorf("testsupport: parse form: %w", err)
	}
	return form, nil
}

// MustParseForm decodes inline schema content into a validated form.
func MustParseForm(t *testing.T, content string) pkgmodel.Form {
	t.Helper()

	form, err := pkgschema.ParseForm([]byte(content), "")
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return form
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents. Tests
// can assert the renderer returns and writes the same payload without
// duplicating buffer setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
