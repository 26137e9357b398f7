// Package csvtable appends flat per-hit rows to a delimited text
// table. The column order is part of the downstream compatibility
// contract and must not change.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/INLOpen/scintbase/sys"
)

// HitRow is one flat output row per detected photon hit. Lengths are
// in millimeters and energies in MeV.
type HitRow struct {
	EventID     int64
	PrimaryID   int32
	SecondaryID int32
	PhotonID    int32

	PrimarySpecies string
	PrimaryXmm     float64
	PrimaryYmm     float64

	SecondarySpecies        string
	SecondaryOriginXmm      float64
	SecondaryOriginYmm      float64
	SecondaryOriginZmm      float64
	SecondaryOriginEnergMeV float64

	ScintOriginXmm float64
	ScintOriginYmm float64
	ScintOriginZmm float64

	HitXmm float64
	HitYmm float64
}

// Header is the canonical column ordering of the flat table.
var Header = []string{
	"event_id", "primary_id", "secondary_id", "photon_id",
	"prim_spec", "prim_x", "prim_y",
	"sec_spec", "sec_origin_x", "sec_origin_y", "sec_origin_z", "sec_origin_eng",
	"scin_orig_x", "scin_orig_y", "scin_orig_z",
	"hit_x", "hit_y",
}

func (r *HitRow) record() []string {
	return []string{
		strconv.FormatInt(r.EventID, 10),
		strconv.FormatInt(int64(r.PrimaryID), 10),
		strconv.FormatInt(int64(r.SecondaryID), 10),
		strconv.FormatInt(int64(r.PhotonID), 10),
		r.PrimarySpecies,
		formatFloat(r.PrimaryXmm),
		formatFloat(r.PrimaryYmm),
		r.SecondarySpecies,
		formatFloat(r.SecondaryOriginXmm),
		formatFloat(r.SecondaryOriginYmm),
		formatFloat(r.SecondaryOriginZmm),
		formatFloat(r.SecondaryOriginEnergMeV),
		formatFloat(r.ScintOriginXmm),
		formatFloat(r.ScintOriginYmm),
		formatFloat(r.ScintOriginZmm),
		formatFloat(r.HitXmm),
		formatFloat(r.HitYmm),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Append writes rows to the flat table at csvPath, creating parent
// directories as needed and writing the header line only when the
// target file does not yet exist or is empty. Every call opens the
// destination in append mode and closes it before returning; flat
// writes happen once per event, so correctness is preferred over
// handle reuse.
func Append(csvPath string, rows []HitRow) error {
	if err := sys.EnsureParentDir(csvPath); err != nil {
		return err
	}

	writeHeader := false
	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		writeHeader = true
	}

	f, err := sys.OpenFile(csvPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", csvPath, err)
		}
	}
	for i := range rows {
		if err := w.Write(rows[i].record()); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", csvPath, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed flushing rows to %s: %w", csvPath, err)
	}
	return nil
}
