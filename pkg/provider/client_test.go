package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formflow/pkg/model"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, RequestTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestClient_CreateUser(t *testing.T) {
	var gotBody model.User
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/create-user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"created"}`))
	}))

	user, err := client.CreateUser(context.Background(), model.User{RollNumber: "RA001", Name: "Ada"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.RollNumber != "RA001" || user.Name != "Ada" {
		t.Fatalf("user = %+v", user)
	}
	if gotBody.RollNumber != "RA001" || gotBody.Name != "Ada" {
		t.Fatalf("request body = %+v", gotBody)
	}
}

func TestClient_CreateUserSurfacesServerMessage(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"user already exists"}`))
	}))

	_, err := client.CreateUser(context.Background(), model.User{RollNumber: "RA001", Name: "Ada"})
	if err == nil || !strings.Contains(err.Error(), "user already exists") {
		t.Fatalf("err = %v, want server message", err)
	}
}

func TestClient_CreateUserValidatesInput(t *testing.T) {
	client, err := New(Config{BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.CreateUser(context.Background(), model.User{}); err == nil {
		t.Fatal("expected error for missing identifier pair")
	}
}

func TestClient_FetchForm(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get-form" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("rollNumber"); got != "RA001" {
			t.Errorf("rollNumber = %q", got)
		}
		w.Write([]byte(`{
			"message": "ok",
			"form": {
				"formTitle": "Student Enrollment",
				"sections": [
					{"title": "Identity", "fields": [
						{"fieldId": "name", "type": "text", "required": true}
					]}
				]
			}
		}`))
	}))

	form, err := client.FetchForm(context.Background(), "RA001")
	if err != nil {
		t.Fatalf("fetch form: %v", err)
	}
	if form.FormTitle != "Student Enrollment" || form.SectionCount() != 1 {
		t.Fatalf("form = %+v", form)
	}
}

func TestClient_FetchFormSurfacesServerMessage(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no form assigned to this roll number"}`))
	}))

	_, err := client.FetchForm(context.Background(), "RA404")
	if err == nil || !strings.Contains(err.Error(), "no form assigned") {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_FetchFormRejectsMalformedBody(t *testing.T) {
	cases := map[string]string{
		"not json":      `<!doctype html>`,
		"empty form":    `{"form":{"formTitle":"x","sections":[]}}`,
		"empty section": `{"form":{"formTitle":"x","sections":[{"title":"s","fields":[]}]}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(payload))
			}))
			if _, err := client.FetchForm(context.Background(), "RA001"); err == nil {
				t.Fatal("expected error for malformed body")
			}
		})
	}
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "::not-a-url"}); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}
