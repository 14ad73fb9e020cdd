package answers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStore_SetAndGet(t *testing.T) {
	store := New()

	if _, ok := store.Get("name"); ok {
		t.Fatal("empty store should report absence")
	}

	store.Set("name", "Ada")
	value, ok := store.Get("name")
	if !ok || value != "Ada" {
		t.Fatalf("Get = %v, %v", value, ok)
	}

	store.Set("name", "Grace")
	if value, _ := store.Get("name"); value != "Grace" {
		t.Fatalf("overwrite failed, got %v", value)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}
}

func TestStore_EmptyStringIsAnAnswer(t *testing.T) {
	store := New()
	store.Set("nickname", "")

	value, ok := store.Get("nickname")
	if !ok {
		t.Fatal("explicit empty string must be distinguishable from absence")
	}
	if value != "" {
		t.Fatalf("value = %v", value)
	}
}

func TestStore_ChangeListenerFiresOnEverySet(t *testing.T) {
	var edits []string
	store := New(WithChangeListener(func(fieldID string) {
		edits = append(edits, fieldID)
	}))

	store.Set("name", "Ada")
	store.Set("email", "ada@example.com")
	store.Set("name", "Grace")

	want := []string{"name", "email", "name"}
	if diff := cmp.Diff(want, edits); diff != "" {
		t.Fatalf("listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	store := New()
	store.Set("name", "Ada")
	store.Set("subscribed", true)

	snap := store.Snapshot()
	want := map[string]any{"name": "Ada", "subscribed": true}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	snap["name"] = "mutated"
	if value, _ := store.Get("name"); value != "Ada" {
		t.Fatal("snapshot mutation leaked into store")
	}
}

func TestStore_IgnoresEmptyFieldID(t *testing.T) {
	fired := false
	store := New(WithChangeListener(func(string) { fired = true }))

	store.Set("", "value")
	if store.Len() != 0 || fired {
		t.Fatal("empty field id must be ignored")
	}
}
