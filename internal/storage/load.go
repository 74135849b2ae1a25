package storage

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Load reads, decodes and validates a bundle. Call it once at startup and
// share the returned artifact; there is no caching here.
func Load(ctx context.Context, src ArtifactSource) (*Artifact, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	a, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", src.Name(), err)
	}
	a.Source = src.Name()
	return a, nil
}

// Decode parses a bundle, gunzipping it first when it is compressed.
func Decode(r io.Reader) (*Artifact, error) {
	br := bufio.NewReader(r)
	var body io.Reader = br
	if head, err := br.Peek(len(gzipMagic)); err == nil && bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		body = zr
	}

	var b bundle
	if err := json.NewDecoder(body).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: failed to decode: %v", ErrInvalidArtifact, err)
	}
	return decodeBundle(&b, "")
}
