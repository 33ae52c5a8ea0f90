// internal/app/system/blob/blob.go

// Package blob adapts waffle's storage backends to the surface the media
// pipeline needs: byte upload, durable URL resolution, deletion, and the
// URL-to-path mapping that deletion by URL requires.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
)

// Store wraps a waffle storage.Store. Objects resolve to URLs under
// baseURL, which must match the prefix the backend serves from.
type Store struct {
	backend storage.Store
	baseURL string
}

// New wraps an already-constructed storage backend.
func New(backend storage.Store, baseURL string) *Store {
	return &Store{
		backend: backend,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewLocal returns a Store over waffle's local-disk backend, rooted at
// basePath and serving objects under baseURL (the router mounts a file
// server at that prefix).
func NewLocal(basePath, baseURL string) (*Store, error) {
	backend, err := storage.NewLocal(storage.LocalConfig{BasePath: basePath, BaseURL: baseURL})
	if err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	return New(backend, baseURL), nil
}

// Put writes the object bytes at path.
func (s *Store) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	return s.backend.Put(ctx, path, r, &storage.PutOptions{ContentType: contentType})
}

// ResolveURL returns the durable fetch URL for an uploaded path.
func (s *Store) ResolveURL(ctx context.Context, path string) (string, error) {
	return s.backend.URL(path), nil
}

// Delete removes the object at path.
func (s *Store) Delete(ctx context.Context, path string) error {
	return s.backend.Delete(ctx, path)
}

// PathFromURL resolves a URL previously returned by ResolveURL back to
// the storage path it addresses. Foreign URLs are an error, so deletion
// by URL can never touch another store's objects.
func (s *Store) PathFromURL(url string) (string, error) {
	rest, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || rest == "" {
		return "", fmt.Errorf("url %q is not served by this store", url)
	}
	return rest, nil
}
