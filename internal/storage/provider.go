package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// ErrNotFound is returned by a provider for a chunk it has never stored.
var ErrNotFound = errors.New("storage: chunk not found")

// Provider persists chunks. Implementations are safe for concurrent use.
type Provider interface {
	Load(pos chunk.Pos) (*chunk.Chunk, error)
	Save(c *chunk.Chunk) error
	Close() error
}

// Chunk payload compression types, as stored in the first byte of a
// region sector.
const (
	compressionGzip byte = 1
	compressionZlib byte = 2
	compressionNone byte = 3
)

// compress encodes c and prefixes it with its compression type.
func compress(c *chunk.Chunk) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(compressionZlib)
	zw := zlib.NewWriter(&buf)
	if err := chunk.Write(zw, c); err != nil {
		return nil, fmt.Errorf("encode chunk %v: %w", c.Pos(), err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress chunk %v: %w", c.Pos(), err)
	}
	return buf.Bytes(), nil
}

// decompress strips the compression type prefix and inflates the payload.
func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty chunk payload", chunk.ErrFormat)
	}
	var r io.ReadCloser
	var err error
	switch data[0] {
	case compressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(data[1:]))
	case compressionZlib:
		r, err = zlib.NewReader(bytes.NewReader(data[1:]))
	case compressionNone:
		return data[1:], nil
	default:
		return nil, fmt.Errorf("%w: unknown compression type %d", chunk.ErrFormat, data[0])
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunk.ErrFormat, err)
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunk.ErrFormat, err)
	}
	return raw, nil
}
