package media_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/system/media"
)

// fakeStore is an in-memory object store with controllable failures and
// completion-order jitter.
type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	deletes  []string
	deleted  chan string
	jitter   bool
	failPut  bool
	failURLs int // fail this many ResolveURL calls before succeeding
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		deleted: make(chan string, 16),
	}
}

func (f *fakeStore) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
	}
	if f.failPut {
		return errors.New("put refused")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.objects[path] = data
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) ResolveURL(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failURLs > 0 {
		f.failURLs--
		return "", errors.New("metadata not ready")
	}
	return "fake://" + path, nil
}

func (f *fakeStore) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, path)
	f.mu.Unlock()
	f.deleted <- path
	return nil
}

func (f *fakeStore) PathFromURL(url string) (string, error) {
	rest, ok := strings.CutPrefix(url, "fake://")
	if !ok {
		return "", fmt.Errorf("foreign url %q", url)
	}
	return rest, nil
}

func (f *fakeStore) object(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[path]
}

// jpegBytes returns an encoded w x h image.
func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.White)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func newPipeline(store media.ObjectStore) *media.Pipeline {
	// Millisecond retry base keeps the retry tests fast.
	return media.New(store, media.Config{RetryBase: time.Millisecond}, zap.NewNop())
}

func TestIngest_PreservesInputOrder(t *testing.T) {
	store := newFakeStore()
	store.jitter = true
	p := newPipeline(store)

	// Distinguishable widths: 100, 200, 300.
	images := [][]byte{
		jpegBytes(t, 100, 50),
		jpegBytes(t, 200, 50),
		jpegBytes(t, 300, 50),
	}

	urls, err := p.Ingest(context.Background(), images, "groups/g1/posts")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(urls))
	}

	for i, url := range urls {
		path, err := store.PathFromURL(url)
		if err != nil {
			t.Fatalf("url %d unresolvable: %v", i, err)
		}
		if !strings.HasPrefix(path, "groups/g1/posts/") || !strings.HasSuffix(path, ".jpg") {
			t.Errorf("path %q has wrong shape", path)
		}
		img, err := imaging.Decode(bytes.NewReader(store.object(path)))
		if err != nil {
			t.Fatalf("stored object %d not decodable: %v", i, err)
		}
		wantWidth := (i + 1) * 100
		if img.Bounds().Dx() != wantWidth {
			t.Errorf("url %d: width %d, want %d (order not preserved)", i, img.Bounds().Dx(), wantWidth)
		}
	}
}

func TestIngest_DownscalesLargeImages(t *testing.T) {
	store := newFakeStore()
	p := newPipeline(store)

	urls, err := p.Ingest(context.Background(), [][]byte{jpegBytes(t, 3000, 2000)}, "pfx")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	path, _ := store.PathFromURL(urls[0])
	img, err := imaging.Decode(bytes.NewReader(store.object(path)))
	if err != nil {
		t.Fatalf("decode stored object: %v", err)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w > 1600 || h > 1600 {
		t.Errorf("image not bounded: %dx%d", w, h)
	}
	if w != 1600 {
		t.Errorf("longest side: got %d, want 1600", w)
	}
	// 3:2 aspect preserved within rounding.
	if h < 1065 || h > 1068 {
		t.Errorf("aspect ratio not preserved: %dx%d", w, h)
	}
}

func TestIngest_SmallImagePassesThrough(t *testing.T) {
	store := newFakeStore()
	p := newPipeline(store)

	urls, err := p.Ingest(context.Background(), [][]byte{jpegBytes(t, 800, 600)}, "pfx")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	path, _ := store.PathFromURL(urls[0])
	img, err := imaging.Decode(bytes.NewReader(store.object(path)))
	if err != nil {
		t.Fatalf("decode stored object: %v", err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Errorf("dimensions changed: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestIngest_OneBadImageFailsWholeCall(t *testing.T) {
	store := newFakeStore()
	p := newPipeline(store)

	images := [][]byte{
		jpegBytes(t, 100, 100),
		[]byte("not an image"),
		jpegBytes(t, 100, 100),
	}
	urls, err := p.Ingest(context.Background(), images, "pfx")
	if err == nil {
		t.Fatal("expected failure")
	}
	if urls != nil {
		t.Errorf("expected no urls on failure, got %v", urls)
	}
	if !errors.Is(err, media.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestIngest_UploadFailure(t *testing.T) {
	store := newFakeStore()
	store.failPut = true
	p := newPipeline(store)

	_, err := p.Ingest(context.Background(), [][]byte{jpegBytes(t, 10, 10)}, "pfx")
	if !errors.Is(err, media.ErrUpload) {
		t.Errorf("expected ErrUpload, got %v", err)
	}
}

func TestIngest_URLResolutionRetriesThenSucceeds(t *testing.T) {
	store := newFakeStore()
	store.failURLs = 2 // first attempt and first retry fail
	p := newPipeline(store)

	urls, err := p.Ingest(context.Background(), [][]byte{jpegBytes(t, 10, 10)}, "pfx")
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if len(urls) != 1 || !strings.HasPrefix(urls[0], "fake://") {
		t.Errorf("unexpected urls %v", urls)
	}
}

func TestIngest_URLResolutionExhaustsRetries(t *testing.T) {
	store := newFakeStore()
	store.failURLs = 10 // more than the initial attempt plus all retries
	p := newPipeline(store)

	_, err := p.Ingest(context.Background(), [][]byte{jpegBytes(t, 10, 10)}, "pfx")
	if !errors.Is(err, media.ErrResolveURL) {
		t.Errorf("expected ErrResolveURL, got %v", err)
	}
	if errors.Is(err, media.ErrUpload) || errors.Is(err, media.ErrDecode) {
		t.Errorf("resolution failure must be distinct from upload/decode: %v", err)
	}
}

func TestDelete_BestEffort(t *testing.T) {
	store := newFakeStore()
	p := newPipeline(store)

	// One foreign URL mixed in; it is skipped without affecting the rest.
	p.Delete([]string{"fake://a.jpg", "https://elsewhere.example/b.jpg", "fake://c.jpg"})

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case path := <-store.deleted:
			got[path] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for deletes")
		}
	}
	if !got["a.jpg"] || !got["c.jpg"] {
		t.Errorf("unexpected deletes: %v", got)
	}
}
