// Package image persists generated image blobs as PNG files in object
// storage.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"

	"google.golang.org/genai"

	"github.com/svatrous/instept-backend/internal/file"
)

func NewWriter(io *file.IO) *Writer {
	return &Writer{
		io: io,
	}
}

type Writer struct {
	io *file.IO
}

// WriteGenAIImage normalizes a generated image blob to PNG and writes it to
// path, returning the public URL. Returns an empty URL and no error when
// storage is unconfigured.
func (w *Writer) WriteGenAIImage(ctx context.Context, path string, blob *genai.Blob) (string, error) {
	var image []byte
	if blob.MIMEType == "image/jpeg" {
		img, err := jpeg.Decode(bytes.NewReader(blob.Data))
		if err != nil {
			return "", fmt.Errorf("image: decoding jpeg image: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("image: encoding jpeg to png: %w", err)
		}
		image = buf.Bytes()
	} else if blob.MIMEType != "image/png" {
		return "", fmt.Errorf("image: unsupported mime type %s", blob.MIMEType)
	} else {
		image = blob.Data
	}

	url, err := w.io.WriteFile(ctx, path, "image/png", image)
	if err != nil {
		return "", fmt.Errorf("image: writing image to file io: %w", err)
	}
	return url, nil
}
