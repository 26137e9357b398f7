package colstore

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/INLOpen/scintbase/compressors"
	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/sys"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	// Compressor encodes chunk payloads of newly created files. When a
	// store file created with a different codec is reopened, the file's
	// codec wins for that file.
	Compressor core.Compressor
	Logger     *slog.Logger
	Tracer     trace.Tracer
}

// Store appends normalized row-sets to a columnar-store file. It keeps
// one long-lived destination handle keyed by the currently-open path;
// requesting a different path closes the open file and opens or
// creates the new one.
//
// A Store is not internally synchronized: the event sink serializes
// all appends under one process-wide lock, matching the flat-table
// writer.
type Store struct {
	compressor core.Compressor // codec for the currently open file
	configured core.Compressor // codec for files this store creates
	logger     *slog.Logger
	tracer     trace.Tracer

	file     sys.FileInterface
	openPath string
	schemas  []Schema
	counts   []uint64
}

// NewStore creates a columnar-store writer. No file is opened until
// the first Append.
func NewStore(opts StoreOptions) *Store {
	comp := opts.Compressor
	if comp == nil {
		comp = &compressors.NoCompressionCompressor{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		configured: comp,
		compressor: comp,
		logger:     logger.With("component", "ColumnStore"),
		tracer:     opts.Tracer,
	}
}

// OpenPath returns the currently-open destination path ("" when no
// file is open).
func (s *Store) OpenPath() string { return s.openPath }

// RowCount returns the number of rows appended to the named row-set of
// the currently-open file.
func (s *Store) RowCount(rowSet string) uint64 {
	for i := range s.schemas {
		if s.schemas[i].Name == rowSet {
			return s.counts[i]
		}
	}
	return 0
}

// Append writes the given row blocks to the store at path, opening or
// creating the file as needed. Each non-empty block becomes one
// compressed chunk record; row counts grow by the block length and
// existing data is never rewritten.
func (s *Store) Append(ctx context.Context, path string, primaries []PrimaryRow, secondaries []SecondaryRow, photons []PhotonRow) error {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "ColumnStore.Append", trace.WithAttributes(
			attribute.String("colstore.path", path),
			attribute.Int("colstore.primaries", len(primaries)),
			attribute.Int("colstore.secondaries", len(secondaries)),
			attribute.Int("colstore.photons", len(photons)),
		))
		defer span.End()
	}

	err := s.append(path, primaries, secondaries, photons)
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
	}
	return err
}

func (s *Store) append(path string, primaries []PrimaryRow, secondaries []SecondaryRow, photons []PhotonRow) error {
	if err := s.ensureOpen(path); err != nil {
		return err
	}

	if err := appendRowSet(s, core.PrimariesRowSet, primaries); err != nil {
		return fmt.Errorf("failed appending %s rows to %s: %w", core.PrimariesRowSet, path, err)
	}
	if err := appendRowSet(s, core.SecondariesRowSet, secondaries); err != nil {
		return fmt.Errorf("failed appending %s rows to %s: %w", core.SecondariesRowSet, path, err)
	}
	if err := appendRowSet(s, core.PhotonsRowSet, photons); err != nil {
		return fmt.Errorf("failed appending %s rows to %s: %w", core.PhotonsRowSet, path, err)
	}

	if s.file != nil {
		if err := s.file.Sync(); err != nil {
			return fmt.Errorf("failed syncing %s: %w", path, err)
		}
	}
	return nil
}

func (s *Store) rowSetIndex(rowSet string) int {
	for i := range s.schemas {
		if s.schemas[i].Name == rowSet {
			return i
		}
	}
	return -1
}

// appendRowSet encodes rows against the stored layout of the named
// row-set and appends them as one chunk record.
func appendRowSet[T fieldEncoder](s *Store, rowSet string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	idx := s.rowSetIndex(rowSet)
	if idx < 0 {
		// A file with a frozen older layout may lack a row-set
		// entirely; those rows are dropped for this file.
		s.logger.Warn("row-set absent from stored layout, rows dropped",
			"row_set", rowSet, "rows", len(rows), "path", s.openPath)
		return nil
	}
	block := encodeRows(&s.schemas[idx], rows)
	return s.appendChunk(idx, block, len(rows))
}

func (s *Store) appendChunk(idx int, block []byte, rows int) error {
	payload, err := s.compressor.Compress(block)
	if err != nil {
		return fmt.Errorf("chunk compression: %w", err)
	}

	body := encodeChunk(&chunkRecord{
		rowSet:   uint8(idx),
		rowCount: uint32(rows),
		rawLen:   uint32(len(block)),
		payload:  payload,
	})
	if _, err := s.file.Write(frameRecord(recordKindChunk, body)); err != nil {
		return fmt.Errorf("chunk write: %w", err)
	}
	s.counts[idx] += uint64(rows)
	return nil
}

// ensureOpen makes the store ready for the requested path, reusing the
// open handle when the path is unchanged.
func (s *Store) ensureOpen(path string) error {
	if s.file != nil && s.openPath == path {
		return nil
	}
	if s.file != nil {
		if err := s.Close(); err != nil {
			s.logger.Warn("failed closing previous store file", "path", s.openPath, "error", err)
		}
	}

	if err := sys.EnsureParentDir(path); err != nil {
		return err
	}

	info, statErr := os.Stat(path)
	if statErr == nil && info.Size() > 0 {
		if err := s.openExisting(path); err != nil {
			return err
		}
	} else {
		if err := s.create(path); err != nil {
			return err
		}
	}
	s.openPath = path
	return nil
}

// create writes a fresh store file: header plus one schema record per
// canonical row-set.
func (s *Store) create(path string) error {
	file, err := sys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create store file %s: %w", path, err)
	}

	s.compressor = s.configured
	header := core.NewFileHeader(core.ColumnStoreMagicNumber, s.compressor.Type())
	if err := binary.Write(file, binary.LittleEndian, &header); err != nil {
		file.Close()
		return fmt.Errorf("failed to write store header to %s: %w", path, err)
	}

	schemas := canonicalSchemas()
	for i := range schemas {
		if _, err := file.Write(frameRecord(recordKindSchema, encodeSchema(&schemas[i]))); err != nil {
			file.Close()
			return fmt.Errorf("failed to write schema record to %s: %w", path, err)
		}
	}

	s.file = file
	s.schemas = schemas
	s.counts = make([]uint64, len(schemas))
	return nil
}

// openExisting reopens a store file for append: the header is
// verified, the stored schemas are adopted verbatim (layouts are
// frozen at file creation and never migrated), row counts are
// restored, and a torn trailing record is truncated away.
func (s *Store) openExisting(path string) error {
	file, err := sys.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open store file %s: %w", path, err)
	}

	var header core.FileHeader
	if err := binary.Read(file, binary.LittleEndian, &header); err != nil {
		file.Close()
		return fmt.Errorf("failed to read store header from %s: %w", path, err)
	}
	if header.Magic != core.ColumnStoreMagicNumber {
		file.Close()
		return fmt.Errorf("file %s is not a columnar store (magic 0x%08X)", path, header.Magic)
	}
	if header.Version != core.FormatVersion {
		file.Close()
		return fmt.Errorf("unsupported store format version %d in %s", header.Version, path)
	}

	if header.CompressorType != s.configured.Type() {
		s.logger.Info("adopting codec of existing store file",
			"path", path, "file_codec", header.CompressorType.String(),
			"configured_codec", s.configured.Type().String())
	}
	comp, err := compressors.ForType(header.CompressorType)
	if err != nil {
		file.Close()
		return fmt.Errorf("store file %s: %w", path, err)
	}
	s.compressor = comp

	var (
		schemas  []Schema
		counts   []uint64
		validEnd = int64(header.Size())
		reader   = bufio.NewReader(file)
	)

scan:
	for {
		kind, body, err := readRecord(reader)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			break scan
		case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, ErrCorruptRecord):
			s.logger.Warn("truncating torn record at end of store file",
				"path", path, "offset", validEnd, "error", err)
			if terr := file.Truncate(validEnd); terr != nil {
				file.Close()
				return fmt.Errorf("failed truncating torn tail of %s: %w", path, terr)
			}
			break scan
		default:
			file.Close()
			return fmt.Errorf("failed scanning store file %s: %w", path, err)
		}

		switch kind {
		case recordKindSchema:
			schema, err := decodeSchema(body)
			if err != nil {
				file.Close()
				return fmt.Errorf("invalid schema record in %s: %w", path, err)
			}
			schemas = append(schemas, schema)
			counts = append(counts, 0)
		case recordKindChunk:
			chunk, err := decodeChunk(body)
			if err != nil {
				file.Close()
				return fmt.Errorf("invalid chunk record in %s: %w", path, err)
			}
			if int(chunk.rowSet) >= len(counts) {
				file.Close()
				return fmt.Errorf("chunk references unknown row-set %d in %s", chunk.rowSet, path)
			}
			counts[chunk.rowSet] += uint64(chunk.rowCount)
		default:
			file.Close()
			return fmt.Errorf("unknown record kind %d in %s", kind, path)
		}
		validEnd += int64(recordHeaderSize + len(body))
	}

	if len(schemas) == 0 {
		file.Close()
		return fmt.Errorf("store file %s carries no schema records", path)
	}

	if _, err := file.Seek(validEnd, io.SeekStart); err != nil {
		file.Close()
		return fmt.Errorf("failed seeking to append position in %s: %w", path, err)
	}

	s.file = file
	s.schemas = schemas
	s.counts = counts
	return nil
}

// Close flushes and closes the open destination, if any.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.openPath = ""
	s.schemas = nil
	s.counts = nil
	return err
}
