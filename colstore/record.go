package colstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// Record framing shared by schema and chunk records:
//
//	kind(u8) bodyLen(u32 LE) crc32(u32 LE, IEEE over body) body
const (
	recordKindSchema byte = 1
	recordKindChunk  byte = 2

	recordHeaderSize = 1 + 4 + 4
)

// ErrCorruptRecord reports a record whose checksum does not match its
// body, or whose frame is structurally invalid.
var ErrCorruptRecord = errors.New("colstore: corrupt record")

// frameRecord builds a complete framed record ready to be written in
// one call.
func frameRecord(kind byte, body []byte) []byte {
	buf := make([]byte, recordHeaderSize+len(body))
	buf[0] = kind
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(body)))
	binary.LittleEndian.PutUint32(buf[5:9], crc32.ChecksumIEEE(body))
	copy(buf[recordHeaderSize:], body)
	return buf
}

// readRecord reads the next framed record. It returns io.EOF at a
// clean end of stream, io.ErrUnexpectedEOF when the stream ends inside
// a record, and ErrCorruptRecord on checksum mismatch.
func readRecord(r io.Reader) (kind byte, body []byte, err error) {
	var header [recordHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil, io.EOF
		}
		return 0, nil, io.ErrUnexpectedEOF
	}

	kind = header[0]
	bodyLen := binary.LittleEndian.Uint32(header[1:5])
	wantCRC := binary.LittleEndian.Uint32(header[5:9])

	body = make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, io.ErrUnexpectedEOF
	}
	if crc32.ChecksumIEEE(body) != wantCRC {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptRecord)
	}
	return kind, body, nil
}

// chunk record body:
//
//	rowSet(u8 index in schema creation order) rowCount(u32)
//	rawLen(u32, uncompressed block size) compressed payload
type chunkRecord struct {
	rowSet   uint8
	rowCount uint32
	rawLen   uint32
	payload  []byte
}

func encodeChunk(c *chunkRecord) []byte {
	buf := make([]byte, 9+len(c.payload))
	buf[0] = c.rowSet
	binary.LittleEndian.PutUint32(buf[1:5], c.rowCount)
	binary.LittleEndian.PutUint32(buf[5:9], c.rawLen)
	copy(buf[9:], c.payload)
	return buf
}

func decodeChunk(body []byte) (chunkRecord, error) {
	if len(body) < 9 {
		return chunkRecord{}, fmt.Errorf("%w: chunk body too short", ErrCorruptRecord)
	}
	return chunkRecord{
		rowSet:   body[0],
		rowCount: binary.LittleEndian.Uint32(body[1:5]),
		rawLen:   binary.LittleEndian.Uint32(body[5:9]),
		payload:  body[9:],
	}, nil
}
