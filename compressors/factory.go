package compressors

import (
	"fmt"
	"strings"

	"github.com/INLOpen/scintbase/core"
)

// ForType returns the Compressor matching a CompressionType read from
// a file header.
func ForType(ct core.CompressionType) (core.Compressor, error) {
	switch ct {
	case core.CompressionNone:
		return &NoCompressionCompressor{}, nil
	case core.CompressionSnappy:
		return NewSnappyCompressor(), nil
	case core.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case core.CompressionZSTD:
		return NewZstdCompressor(), nil
	default:
		return nil, fmt.Errorf("unknown compression type %d", ct)
	}
}

// ForName returns the Compressor matching a configuration token
// ("none", "snappy", "lz4", "zstd").
func ForName(name string) (core.Compressor, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return &NoCompressionCompressor{}, nil
	case "snappy":
		return NewSnappyCompressor(), nil
	case "lz4":
		return NewLZ4Compressor(), nil
	case "zstd":
		return NewZstdCompressor(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
