package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"tool-advisor/internal/shared/storage/object"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	obj, err := store.Save(ctx, "session-1", "comparison.csv", "text/csv", strings.NewReader("Criterion,Playwright\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if obj.SizeBytes != int64(len("Criterion,Playwright\n")) {
		t.Fatalf("unexpected size %d", obj.SizeBytes)
	}
	if !strings.HasSuffix(obj.Key, "_comparison.csv") {
		t.Fatalf("unexpected key %q", obj.Key)
	}

	rc, err := store.Open(ctx, obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "Criterion,Playwright\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Open(context.Background(), "../secrets")
	if !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSaveRejectsBadFileName(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Save(context.Background(), "s", "../x.csv", "text/csv", strings.NewReader("")); err == nil {
		t.Fatalf("expected error for traversal file name")
	}
}
