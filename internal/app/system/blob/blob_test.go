package blob_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/notehive/internal/app/system/blob"
)

func newStore(t *testing.T, baseURL string) (*blob.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := blob.NewLocal(dir, baseURL)
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	return store, dir
}

func TestStore_PutResolveDelete(t *testing.T) {
	store, dir := newStore(t, "/files/media")
	ctx := context.Background()

	if err := store.Put(ctx, "groups/g1/abc.jpg", strings.NewReader("bytes"), "image/jpeg"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "groups", "g1", "abc.jpg"))
	if err != nil {
		t.Fatalf("object not on disk: %v", err)
	}
	if string(data) != "bytes" {
		t.Errorf("content: got %q", data)
	}

	url, err := store.ResolveURL(ctx, "groups/g1/abc.jpg")
	if err != nil {
		t.Fatalf("ResolveURL failed: %v", err)
	}
	if url != "/files/media/groups/g1/abc.jpg" {
		t.Errorf("url: got %q", url)
	}

	// URL resolves back to the path it came from.
	path, err := store.PathFromURL(url)
	if err != nil {
		t.Fatalf("PathFromURL failed: %v", err)
	}
	if path != "groups/g1/abc.jpg" {
		t.Errorf("path: got %q", path)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "groups", "g1", "abc.jpg")); !os.IsNotExist(err) {
		t.Error("object still on disk after Delete")
	}
}

func TestStore_PathFromURL_ForeignURL(t *testing.T) {
	store, _ := newStore(t, "/files/media")
	if _, err := store.PathFromURL("https://elsewhere.example/x.jpg"); err == nil {
		t.Error("expected error for foreign URL")
	}
}
