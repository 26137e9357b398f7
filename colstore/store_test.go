package colstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/scintbase/compressors"
	"github.com/INLOpen/scintbase/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testStore(t *testing.T, comp core.Compressor) *Store {
	t.Helper()
	s := NewStore(StoreOptions{Compressor: comp, Logger: testLogger()})
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePrimary() PrimaryRow {
	return PrimaryRow{
		GunCallID:        7,
		PrimaryTrackID:   1,
		PrimarySpecies:   "n",
		PrimaryXmm:       1.5,
		PrimaryYmm:       -2.25,
		PrimaryEnergyMeV: 2.45,
	}
}

func samplePhoton() PhotonRow {
	return PhotonRow{
		GunCallID:        7,
		PrimaryTrackID:   1,
		SecondaryTrackID: 42,
		PhotonTrackID:    99,
		PhotonOriginXmm:  0.1,
		PhotonOriginYmm:  0.2,
		PhotonOriginZmm:  0.3,
		HitXmm:           10,
		HitYmm:           -4,
		HitDirZ:          1,
		HitPolX:          1,
		HitEnergyEV:      3.1,
		HitWavelengthNm:  399.95,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.cols")
	store := testStore(t, compressors.NewSnappyCompressor())

	sec := SecondaryRow{
		GunCallID:                7,
		PrimaryTrackID:           1,
		SecondaryTrackID:         42,
		SecondarySpecies:         "electron",
		SecondaryOriginXmm:       0.5,
		SecondaryOriginYmm:       0.6,
		SecondaryOriginZmm:       0.7,
		SecondaryOriginEnergyMeV: 0.8,
	}
	err := store.Append(context.Background(), path,
		[]PrimaryRow{samplePrimary()}, []SecondaryRow{sec}, []PhotonRow{samplePhoton()})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	assert.Equal(t, core.ColumnStoreMagicNumber, r.FileHeader().Magic)
	assert.Equal(t, core.CompressionSnappy, r.FileHeader().CompressorType)
	require.Len(t, r.Schemas(), 3)

	prims := r.Rows(core.PrimariesRowSet)
	require.Len(t, prims, 1)
	assert.Equal(t, int64(7), prims[0]["gun_call_id"])
	assert.Equal(t, int32(1), prims[0]["primary_track_id"])
	assert.Equal(t, "n", prims[0]["primary_species"])
	assert.Equal(t, 2.45, prims[0]["primary_energy_MeV"])

	secs := r.Rows(core.SecondariesRowSet)
	require.Len(t, secs, 1)
	assert.Equal(t, "electron", secs[0]["secondary_species"])
	assert.Equal(t, 0.8, secs[0]["secondary_origin_energy_MeV"])

	phots := r.Rows(core.PhotonsRowSet)
	require.Len(t, phots, 1)
	assert.Equal(t, int32(99), phots[0]["photon_track_id"])
	assert.Equal(t, 3.1, phots[0]["hit_energy_eV"])
	assert.Equal(t, 399.95, phots[0]["hit_wavelength_nm"])
	assert.Equal(t, 1.0, phots[0]["hit_dir_z"])
}

func TestStoreReopenAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.cols")

	store := testStore(t, compressors.NewLZ4Compressor())
	require.NoError(t, store.Append(context.Background(), path,
		[]PrimaryRow{samplePrimary()}, nil, []PhotonRow{samplePhoton()}))
	require.NoError(t, store.Close())

	// A second writer picks up where the first left off. Row counts are
	// restored from the existing records and only grow.
	store2 := testStore(t, compressors.NewLZ4Compressor())
	require.NoError(t, store2.Append(context.Background(), path,
		nil, nil, []PhotonRow{samplePhoton(), samplePhoton()}))
	assert.Equal(t, uint64(1), store2.RowCount(core.PrimariesRowSet))
	assert.Equal(t, uint64(3), store2.RowCount(core.PhotonsRowSet))
	require.NoError(t, store2.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.RowCount(core.PrimariesRowSet))
	assert.Equal(t, 3, r.RowCount(core.PhotonsRowSet))
}

func TestStoreAdoptsExistingCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.cols")

	store := testStore(t, compressors.NewZstdCompressor())
	require.NoError(t, store.Append(context.Background(), path,
		[]PrimaryRow{samplePrimary()}, nil, nil))
	require.NoError(t, store.Close())

	// Reopening with a different configured codec must keep writing in
	// the file's original codec.
	store2 := testStore(t, &compressors.NoCompressionCompressor{})
	require.NoError(t, store2.Append(context.Background(), path,
		[]PrimaryRow{samplePrimary()}, nil, nil))
	require.NoError(t, store2.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	assert.Equal(t, core.CompressionZSTD, r.FileHeader().CompressorType)
	assert.Equal(t, 2, r.RowCount(core.PrimariesRowSet))
}

func TestStoreSpeciesLabelTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.cols")
	store := testStore(t, &compressors.NoCompressionCompressor{})

	row := samplePrimary()
	row.PrimarySpecies = strings.Repeat("x", 40)
	require.NoError(t, store.Append(context.Background(), path, []PrimaryRow{row}, nil, nil))
	require.NoError(t, store.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	got := r.Rows(core.PrimariesRowSet)[0]["primary_species"].(string)
	assert.Equal(t, strings.Repeat("x", core.SpeciesLabelSize-1), got)
}

func TestStorePathChangeOpensNewFile(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "run_a.cols")
	pathB := filepath.Join(dir, "run_b.cols")
	store := testStore(t, compressors.NewSnappyCompressor())

	require.NoError(t, store.Append(context.Background(), pathA,
		[]PrimaryRow{samplePrimary()}, nil, nil))
	require.NoError(t, store.Append(context.Background(), pathB,
		[]PrimaryRow{samplePrimary()}, nil, nil))
	assert.Equal(t, pathB, store.OpenPath())
	require.NoError(t, store.Close())

	for _, path := range []string{pathA, pathB} {
		r, err := OpenReader(path)
		require.NoError(t, err)
		assert.Equal(t, 1, r.RowCount(core.PrimariesRowSet), path)
	}
}

func TestStoreTruncatesTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.cols")
	store := testStore(t, &compressors.NoCompressionCompressor{})

	require.NoError(t, store.Append(context.Background(), path,
		[]PrimaryRow{samplePrimary()}, nil, []PhotonRow{samplePhoton()}))
	require.NoError(t, store.Close())

	// Chop a few bytes off the last record to simulate a crash
	// mid-write.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-3))

	store2 := testStore(t, &compressors.NoCompressionCompressor{})
	require.NoError(t, store2.Append(context.Background(), path,
		nil, nil, []PhotonRow{samplePhoton()}))
	require.NoError(t, store2.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.RowCount(core.PrimariesRowSet))
	// The torn photon chunk was discarded; only the post-recovery
	// append remains.
	assert.Equal(t, 1, r.RowCount(core.PhotonsRowSet))
}

func TestStoreRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.cols")
	require.NoError(t, os.WriteFile(path, []byte("this is not a column store at all"), 0o644))

	store := testStore(t, &compressors.NoCompressionCompressor{})
	err := store.Append(context.Background(), path, []PrimaryRow{samplePrimary()}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a columnar store")
}
