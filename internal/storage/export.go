package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/ballpit/internal/experiment"
)

type ExportData struct {
	Run       RunMetadata         `json:"run"`
	Telemetry []experiment.Sample `json:"telemetry"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, samples []experiment.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Telemetry: samples})
}

func ExportCSV(w io.Writer, samples []experiment.Sample) error {
	return gocsv.Marshal(samples, w)
}
