// internal/app/system/media/pipeline.go

// Package media ingests user-supplied photos: downscale, re-encode as
// JPEG, upload to the object store, and resolve durable URLs. Ingestion is
// all-or-nothing per call; deletion is best-effort and fire-and-forget.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ObjectStore is the slice of the blob-store surface the pipeline needs.
// blob.Store satisfies it over any waffle storage backend.
type ObjectStore interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	ResolveURL(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) error
	PathFromURL(url string) (string, error)
}

// Stage-typed sentinel errors. Callers can tell which stage of ingestion
// failed with errors.Is; ErrResolveURL specifically means the bytes were
// uploaded but no durable URL could be resolved.
var (
	ErrDecode     = errors.New("media: image decode failed")
	ErrUpload     = errors.New("media: image upload failed")
	ErrResolveURL = errors.New("media: uploaded but URL unresolved")
)

// Defaults, overridable through Config.
const (
	DefaultMaxDimension = 1600
	DefaultJPEGQuality  = 60
	DefaultURLRetries   = 3
	DefaultRetryBase    = time.Second
)

// Config tunes the pipeline. Zero values keep the defaults.
type Config struct {
	MaxDimension int           // longest side after downscale, logical pixels
	JPEGQuality  int           // lossy encode quality (1-100)
	URLRetries   int           // retries after the first failed URL resolution
	RetryBase    time.Duration // delay unit: attempt n waits n*RetryBase
}

// Pipeline resizes, compresses, uploads and resolves URLs for photos.
type Pipeline struct {
	store   ObjectStore
	log     *zap.Logger
	maxDim  int
	quality int
	retries int
	base    time.Duration
}

// New returns a Pipeline writing to store.
func New(store ObjectStore, cfg Config, logger *zap.Logger) *Pipeline {
	p := &Pipeline{
		store:   store,
		log:     logger,
		maxDim:  cfg.MaxDimension,
		quality: cfg.JPEGQuality,
		retries: cfg.URLRetries,
		base:    cfg.RetryBase,
	}
	if p.maxDim <= 0 {
		p.maxDim = DefaultMaxDimension
	}
	if p.quality <= 0 {
		p.quality = DefaultJPEGQuality
	}
	if p.retries <= 0 {
		p.retries = DefaultURLRetries
	}
	if p.base <= 0 {
		p.base = DefaultRetryBase
	}
	return p
}

// Ingest processes every image and returns their durable URLs in input
// order. All images upload concurrently; if any one fails at any stage the
// whole call fails and no URLs are returned. Objects already uploaded by
// the failing call are not deleted (accepted orphan risk).
func (p *Pipeline) Ingest(ctx context.Context, images [][]byte, pathPrefix string) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range images {
		i, raw := i, raw
		g.Go(func() error {
			url, err := p.ingestOne(gctx, raw, pathPrefix)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, raw []byte, pathPrefix string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// Downscale only when a side exceeds the bound; Fit preserves aspect
	// ratio and never upscales.
	b := img.Bounds()
	if b.Dx() > p.maxDim || b.Dy() > p.maxDim {
		img = imaging.Fit(img, p.maxDim, p.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrDecode, err)
	}

	path := strings.TrimRight(pathPrefix, "/") + "/" + uuid.New().String() + ".jpg"
	if err := p.store.Put(ctx, path, &buf, "image/jpeg"); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return p.resolveURL(ctx, path)
}

// resolveURL resolves the durable URL for an uploaded path, retrying with
// linearly increasing delay. Retries block only this image's goroutine.
func (p *Pipeline) resolveURL(ctx context.Context, path string) (string, error) {
	url, err := p.store.ResolveURL(ctx, path)
	if err == nil {
		return url, nil
	}

	for attempt := 1; attempt <= p.retries; attempt++ {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrResolveURL, ctx.Err())
		case <-time.After(time.Duration(attempt) * p.base):
		}

		url, err = p.store.ResolveURL(ctx, path)
		if err == nil {
			return url, nil
		}
		p.log.Warn("url resolution retry failed",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return "", fmt.Errorf("%w: %v", ErrResolveURL, err)
}

// Delete requests removal of every object the URLs address. It returns
// immediately; failures (foreign URLs, already-deleted objects, store
// errors) are logged and never surfaced, keeping the cleanup signal
// separate from the authoritative-data signal.
func (p *Pipeline) Delete(urls []string) {
	if len(urls) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, url := range urls {
			path, err := p.store.PathFromURL(url)
			if err != nil {
				p.log.Warn("media cleanup: unresolvable url", zap.String("url", url), zap.Error(err))
				continue
			}
			if err := p.store.Delete(ctx, path); err != nil {
				p.log.Warn("media cleanup: delete failed", zap.String("path", path), zap.Error(err))
			}
		}
	}()
}
