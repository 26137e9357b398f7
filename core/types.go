package core

// Vec3 is a position, direction, or polarization vector in the
// simulation world frame. Components are in internal units (see
// units.go) unless documented otherwise.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// SpawnHandle identifies one secondary reported by the stepping
// callback within the current event. Handles are assigned by the
// engine adapter and are only meaningful until the event resets;
// they replace raw engine object identity as a map key.
type SpawnHandle uint64

// NoSpawnHandle marks a track that was never reported as a step
// secondary (primaries, or secondaries spawned outside the scoring
// volume).
const NoSpawnHandle SpawnHandle = 0

// CompressionType identifies the compression algorithm used for
// columnar-store chunk payloads. The value is stored in the file
// header so readers know how to decompress.
type CompressionType byte

const (
	CompressionNone   CompressionType = 0
	CompressionSnappy CompressionType = 1
	CompressionLZ4    CompressionType = 2
	CompressionZSTD   CompressionType = 3
)

// Compressor defines the interface for chunk compression algorithms.
type Compressor interface {
	// Compress compresses the input block.
	Compress(data []byte) ([]byte, error)
	// Decompress decompresses the input block. uncompressedSize is the
	// exact size of the original block as recorded in the chunk frame;
	// block formats that do not self-describe their size (LZ4) rely on
	// it.
	Decompress(data []byte, uncompressedSize int) ([]byte, error)
	// Type returns the CompressionType identifier for this compressor.
	Type() CompressionType
}

// String returns the string representation of the CompressionType.
func (ct CompressionType) String() string {
	switch ct {
	case CompressionNone:
		return "none"
	case CompressionSnappy:
		return "snappy"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}
