package schema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

const formJSON = `{
  "form": {
    "formTitle": "Student Enrollment",
    "sections": [
      {
        "title": "Identity",
        "fields": [
          {"fieldId": "name", "type": "text", "required": true},
          {"fieldId": "email", "type": "email"}
        ]
      }
    ]
  }
}`

const formYAML = `formTitle: Student Enrollment
sections:
  - title: Identity
    fields:
      - fieldId: name
        type: text
        required: true
      - fieldId: course
        type: dropdown
        options:
          - value: cs
            label: Computer Science
          - value: ee
            label: Electrical Engineering
`

func TestLoader_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/enrollment.json": {Data: []byte(formJSON)},
	}
	loader := NewLoader(LoaderOptions{FileSystem: fsys})

	form, err := loader.LoadForm(context.Background(), SourceFromFS("forms/enrollment.json"))
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	if form.FormTitle != "Student Enrollment" {
		t.Fatalf("title = %q", form.FormTitle)
	}
	if len(form.Sections) != 1 || len(form.Sections[0].Fields) != 2 {
		t.Fatalf("unexpected shape: %+v", form)
	}
}

func TestLoader_FSRequiresFilesystem(t *testing.T) {
	loader := NewLoader(LoaderOptions{})
	if _, err := loader.Load(context.Background(), SourceFromFS("missing.json")); err == nil {
		t.Fatal("expected error when no fs is configured")
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	loader := NewLoader(LoaderOptions{})
	if _, err := loader.Load(context.Background(), SourceFromURL("https://example.com/form.json")); err == nil {
		t.Fatal("expected http support disabled error")
	}
}

func TestLoader_HTTPFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(formJSON))
	}))
	defer server.Close()

	loader := NewLoader(LoaderOptions{AllowHTTPFallback: true})
	form, err := loader.LoadForm(context.Background(), SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	if form.FormTitle != "Student Enrollment" {
		t.Fatalf("title = %q", form.FormTitle)
	}
}

func TestLoader_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no form for this user"}`, http.StatusNotFound)
	}))
	defer server.Close()

	loader := NewLoader(LoaderOptions{AllowHTTPFallback: true})
	if _, err := loader.Load(context.Background(), SourceFromURL(server.URL)); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestParseForm_YAML(t *testing.T) {
	form, err := ParseForm([]byte(formYAML), "enrollment.yaml")
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	course, ok := form.FieldByID("course")
	if !ok || len(course.Options) != 2 {
		t.Fatalf("dropdown options not decoded: %+v", course)
	}
}

func TestParseForm_BareAndEnveloped(t *testing.T) {
	bare := `{"formTitle":"Bare","sections":[{"title":"S","fields":[{"fieldId":"f","type":"text"}]}]}`

	for name, payload := range map[string]string{
		"envelope": formJSON,
		"bare":     bare,
	} {
		if _, err := ParseForm([]byte(payload), name+".json"); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestParseForm_RejectsInvalidShape(t *testing.T) {
	payload := `{"formTitle":"Broken","sections":[{"title":"S","fields":[]}]}`
	if _, err := ParseForm([]byte(payload), "broken.json"); err == nil {
		t.Fatal("expected shape validation error")
	}
}

func TestParseSource(t *testing.T) {
	if src := ParseSource(""); src != nil {
		t.Fatal("empty input should return nil")
	}
	if src := ParseSource("https://example.com/f.json"); src.Kind() != SourceKindURL {
		t.Fatalf("kind = %s", src.Kind())
	}
	if src := ParseSource("testdata/f.json"); src.Kind() != SourceKindFile {
		t.Fatalf("kind = %s", src.Kind())
	}
}
