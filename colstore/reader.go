package colstore

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/INLOpen/scintbase/compressors"
	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/sys"
)

// Reader decodes a columnar-store file back into typed row values. It
// loads the whole file eagerly; store files are event-scale, not
// database-scale.
type Reader struct {
	header  core.FileHeader
	schemas []Schema
	rows    [][]map[string]any
}

// OpenReader reads and decodes the store file at path. A torn trailing
// record is tolerated; everything before it is returned.
func OpenReader(path string) (*Reader, error) {
	file, err := sys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file %s: %w", path, err)
	}
	defer file.Close()

	r := &Reader{}
	if err := binary.Read(file, binary.LittleEndian, &r.header); err != nil {
		return nil, fmt.Errorf("failed to read store header from %s: %w", path, err)
	}
	if r.header.Magic != core.ColumnStoreMagicNumber {
		return nil, fmt.Errorf("file %s is not a columnar store (magic 0x%08X)", path, r.header.Magic)
	}
	if r.header.Version != core.FormatVersion {
		return nil, fmt.Errorf("unsupported store format version %d in %s", r.header.Version, path)
	}
	comp, err := compressors.ForType(r.header.CompressorType)
	if err != nil {
		return nil, fmt.Errorf("store file %s: %w", path, err)
	}

	br := bufio.NewReader(file)
	for {
		kind, body, err := readRecord(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, ErrCorruptRecord) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed scanning store file %s: %w", path, err)
		}

		switch kind {
		case recordKindSchema:
			schema, err := decodeSchema(body)
			if err != nil {
				return nil, fmt.Errorf("invalid schema record in %s: %w", path, err)
			}
			r.schemas = append(r.schemas, schema)
			r.rows = append(r.rows, nil)
		case recordKindChunk:
			chunk, err := decodeChunk(body)
			if err != nil {
				return nil, fmt.Errorf("invalid chunk record in %s: %w", path, err)
			}
			if int(chunk.rowSet) >= len(r.schemas) {
				return nil, fmt.Errorf("chunk references unknown row-set %d in %s", chunk.rowSet, path)
			}
			block, err := comp.Decompress(chunk.payload, int(chunk.rawLen))
			if err != nil {
				return nil, fmt.Errorf("failed decompressing chunk in %s: %w", path, err)
			}
			decoded, err := decodeRowBlock(&r.schemas[chunk.rowSet], block, int(chunk.rowCount))
			if err != nil {
				return nil, fmt.Errorf("invalid row block in %s: %w", path, err)
			}
			r.rows[chunk.rowSet] = append(r.rows[chunk.rowSet], decoded...)
		default:
			return nil, fmt.Errorf("unknown record kind %d in %s", kind, path)
		}
	}

	if len(r.schemas) == 0 {
		return nil, fmt.Errorf("store file %s carries no schema records", path)
	}
	return r, nil
}

// FileHeader returns the header of the opened file.
func (r *Reader) FileHeader() core.FileHeader { return r.header }

// Schemas returns the row-set layouts in file order.
func (r *Reader) Schemas() []Schema { return r.schemas }

// RowCount returns the number of rows decoded for the named row-set.
func (r *Reader) RowCount(rowSet string) int {
	for i := range r.schemas {
		if r.schemas[i].Name == rowSet {
			return len(r.rows[i])
		}
	}
	return 0
}

// Rows returns the decoded rows of the named row-set as field-name
// keyed maps: int64, int32, float64, or string values depending on the
// field kind. Label fields are returned with trailing NULs stripped.
func (r *Reader) Rows(rowSet string) []map[string]any {
	for i := range r.schemas {
		if r.schemas[i].Name == rowSet {
			return r.rows[i]
		}
	}
	return nil
}

func decodeRowBlock(s *Schema, block []byte, rows int) ([]map[string]any, error) {
	stride := s.Stride()
	if len(block) != rows*stride {
		return nil, fmt.Errorf("row block is %d bytes, want %d (%d rows of stride %d)",
			len(block), rows*stride, rows, stride)
	}
	out := make([]map[string]any, 0, rows)
	for i := 0; i < rows; i++ {
		row := block[i*stride : (i+1)*stride]
		m := make(map[string]any, len(s.Fields))
		off := 0
		for _, f := range s.Fields {
			w := f.Kind.width(f.Size)
			m[f.Name] = decodeFieldValue(f, row[off:off+w])
			off += w
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeFieldValue(f Field, raw []byte) any {
	switch f.Kind {
	case KindInt64:
		return int64(binary.LittleEndian.Uint64(raw))
	case KindInt32:
		return int32(binary.LittleEndian.Uint32(raw))
	case KindFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw))
	case KindBytes:
		end := len(raw)
		for end > 0 && raw[end-1] == 0 {
			end--
		}
		return string(raw[:end])
	default:
		return nil
	}
}
