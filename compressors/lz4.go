package compressors

import (
	"fmt"

	lz4 "github.com/pierrec/lz4/v4"

	"github.com/INLOpen/scintbase/core"
)

// LZ4Compressor implements the Compressor interface using the LZ4
// block format. The block format does not record the original size, so
// Decompress relies on the size carried in the chunk frame.
//
// lz4.CompressBlock reports incompressible input by returning zero
// bytes; such blocks are stored raw. Decompress detects the raw case
// by comparing the stored and original sizes.
type LZ4Compressor struct{}

var _ core.Compressor = (*LZ4Compressor)(nil)

func NewLZ4Compressor() *LZ4Compressor {
	return &LZ4Compressor{}
}

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress error: %w", err)
	}
	if n == 0 || n >= len(data) {
		// Incompressible: store raw.
		raw := make([]byte, len(data))
		copy(raw, data)
		return raw, nil
	}
	return dst[:n], nil
}

func (c *LZ4Compressor) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	if uncompressedSize == 0 {
		return nil, nil
	}
	if len(data) == uncompressedSize {
		// Raw block stored by Compress.
		return data, nil
	}
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress error: %w", err)
	}
	return dst[:n], nil
}

func (c *LZ4Compressor) Type() core.CompressionType {
	return core.CompressionLZ4
}
