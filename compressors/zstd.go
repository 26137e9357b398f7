package compressors

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/INLOpen/scintbase/core"
)

// ZstdCompressor implements the Compressor interface using zstd.
// Encoder/decoder instances are pooled because their construction is
// expensive relative to a per-event chunk append.
type ZstdCompressor struct {
	encoderPool sync.Pool
	decoderPool sync.Pool
}

var _ core.Compressor = (*ZstdCompressor)(nil)

func NewZstdCompressor() *ZstdCompressor {
	return &ZstdCompressor{
		encoderPool: sync.Pool{
			New: func() interface{} {
				enc, err := zstd.NewWriter(nil)
				if err != nil {
					return nil
				}
				return enc
			},
		},
		decoderPool: sync.Pool{
			New: func() interface{} {
				dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(64*1024*1024))
				if err != nil {
					return nil
				}
				return dec
			},
		},
	}
}

func (c *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	v := c.encoderPool.Get()
	if v == nil {
		return nil, fmt.Errorf("zstd encoder unavailable")
	}
	enc := v.(*zstd.Encoder)
	defer c.encoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func (c *ZstdCompressor) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	v := c.decoderPool.Get()
	if v == nil {
		return nil, fmt.Errorf("zstd decoder unavailable")
	}
	dec := v.(*zstd.Decoder)
	defer c.decoderPool.Put(dec)

	decompressed, err := dec.DecodeAll(data, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress error: %w", err)
	}
	return decompressed, nil
}

func (c *ZstdCompressor) Type() core.CompressionType {
	return core.CompressionZSTD
}
