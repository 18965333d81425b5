package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.SaveWithKey(ctx, "datasets/courses.json", "application/json", strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 bytes written, got %d", n)
	}

	rc, err := store.Open(ctx, "datasets/courses.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "[]" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside.json"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	if _, err := store.SaveWithKey(context.Background(), "/abs.json", "", strings.NewReader("x")); err == nil {
		t.Fatalf("expected absolute key to be rejected")
	}
}
