// internal/app/features/shared/upload/upload.go

// Package upload reads image payloads out of multipart requests for the
// API features.
package upload

import (
	"fmt"
	"io"
	"net/http"
)

// maxMemory bounds the in-memory portion of multipart parsing; larger
// parts spill to temp files.
const maxMemory = 32 << 20

// maxImages caps how many photos one request may carry.
const maxImages = 10

// Images reads every file under the given form field into memory, in the
// order they appear in the request. A request with no files returns an
// empty slice, not an error.
func Images(r *http.Request, field string) ([][]byte, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	if r.MultipartForm == nil {
		return [][]byte{}, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > maxImages {
		return nil, fmt.Errorf("too many images: %d (limit %d)", len(headers), maxImages)
	}

	images := make([][]byte, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		images = append(images, data)
	}
	return images, nil
}
