// Command store-dump prints the contents of a columnar-store file as
// JSON, one object per row-set.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/INLOpen/scintbase/colstore"
)

type dumpSchema struct {
	Name    string   `json:"name"`
	Version uint8    `json:"version"`
	Fields  []string `json:"fields"`
}

type dumpRowSet struct {
	Schema dumpSchema       `json:"schema"`
	Rows   []map[string]any `json:"rows"`
}

type dumpFile struct {
	Path        string       `json:"path"`
	CreatedAt   string       `json:"created_at"`
	Compression string       `json:"compression"`
	RowSets     []dumpRowSet `json:"row_sets"`
}

func run() error {
	filePath := flag.String("file", "", "path to the columnar-store file (required)")
	pretty := flag.Bool("pretty", true, "indent the JSON output")
	flag.Parse()

	if *filePath == "" {
		return fmt.Errorf("missing required -file flag")
	}

	r, err := colstore.OpenReader(*filePath)
	if err != nil {
		return err
	}

	header := r.FileHeader()
	out := dumpFile{
		Path:        *filePath,
		CreatedAt:   time.Unix(0, header.CreatedAt).UTC().Format(time.RFC3339Nano),
		Compression: header.CompressorType.String(),
	}
	for _, schema := range r.Schemas() {
		ds := dumpSchema{Name: schema.Name, Version: schema.Version}
		for _, f := range schema.Fields {
			ds.Fields = append(ds.Fields, f.Name)
		}
		out.RowSets = append(out.RowSets, dumpRowSet{
			Schema: ds,
			Rows:   r.Rows(schema.Name),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
