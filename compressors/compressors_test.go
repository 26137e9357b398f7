package compressors

import (
	"bytes"
	"testing"

	"github.com/INLOpen/scintbase/core"
)

func TestCompressorsRoundTrip(t *testing.T) {
	comps := []core.Compressor{
		&NoCompressionCompressor{},
		NewSnappyCompressor(),
		NewLZ4Compressor(),
		NewZstdCompressor(),
	}

	testCases := []struct {
		name string
		data []byte
	}{
		{
			name: "simple string",
			data: []byte("hello world, this is a test of the chunk compressor"),
		},
		{
			name: "repetitive data",
			data: bytes.Repeat([]byte("a"), 4096),
		},
		{
			name: "empty data",
			data: []byte{},
		},
		{
			name: "less compressible data",
			data: []byte("82f7b5a3e1d9c0f4b8a6d2c1e0f3a9b8d7c6e5f4a3b2c1d0e9f8a7b6c5d4e3f2"),
		},
	}

	for _, comp := range comps {
		for _, tc := range testCases {
			t.Run(comp.Type().String()+"/"+tc.name, func(t *testing.T) {
				compressed, err := comp.Compress(tc.data)
				if err != nil {
					t.Fatalf("Compress() returned an unexpected error: %v", err)
				}

				decompressed, err := comp.Decompress(compressed, len(tc.data))
				if err != nil {
					t.Fatalf("Decompress() returned an unexpected error: %v", err)
				}

				if !bytes.Equal(tc.data, decompressed) {
					t.Errorf("decompressed data does not match original.\nOriginal: %q\nDecompressed: %q",
						string(tc.data), string(decompressed))
				}
			})
		}
	}
}

func TestForType(t *testing.T) {
	for _, ct := range []core.CompressionType{
		core.CompressionNone,
		core.CompressionSnappy,
		core.CompressionLZ4,
		core.CompressionZSTD,
	} {
		comp, err := ForType(ct)
		if err != nil {
			t.Fatalf("ForType(%v) returned error: %v", ct, err)
		}
		if comp.Type() != ct {
			t.Errorf("ForType(%v).Type() = %v", ct, comp.Type())
		}
	}

	if _, err := ForType(core.CompressionType(99)); err == nil {
		t.Error("ForType(99) should fail for an unknown type")
	}
}

func TestForName(t *testing.T) {
	testCases := []struct {
		name    string
		want    core.CompressionType
		wantErr bool
	}{
		{name: "none", want: core.CompressionNone},
		{name: "", want: core.CompressionNone},
		{name: "SNAPPY", want: core.CompressionSnappy},
		{name: "lz4", want: core.CompressionLZ4},
		{name: "zstd", want: core.CompressionZSTD},
		{name: "brotli", wantErr: true},
	}
	for _, tc := range testCases {
		comp, err := ForName(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ForName(%q) should fail", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ForName(%q) returned error: %v", tc.name, err)
		}
		if comp.Type() != tc.want {
			t.Errorf("ForName(%q).Type() = %v, want %v", tc.name, comp.Type(), tc.want)
		}
	}
}
