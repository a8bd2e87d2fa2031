package snapshot

import (
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// gzipMagic is gzip's two-byte header, used to auto-detect a compressed
// payload on Decode without needing a side-channel flag.
var gzipMagic = []byte{0x1f, 0x8b}

// Encode renders doc as pretty-printed UTF-8 JSON via goccy/go-json and,
// unless compress is false, gzips the result.
func Encode(doc *Document, compress bool) ([]byte, error) {
	raw, err := gojson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("kestrel: encode snapshot: %w", err)
	}
	if !compress {
		return raw, nil
	}

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("kestrel: gzip snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("kestrel: gzip snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses data as a Document, transparently gunzipping it first if
// it carries a gzip header.
func Decode(data []byte) (*Document, error) {
	if bytes.HasPrefix(data, gzipMagic) {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("kestrel: gunzip snapshot: %w", err)
		}
		defer r.Close()
		plain, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("kestrel: gunzip snapshot: %w", err)
		}
		data = plain
	}

	var doc Document
	if err := gojson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("kestrel: decode snapshot: %w", err)
	}
	return &doc, nil
}
