package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/ballpit/internal/experiment"
)

// TelemetryWriter appends samples to a CSV file, writing the header once.
type TelemetryWriter struct {
	file          io.WriteCloser
	headerWritten bool
}

func NewTelemetryWriter(path string) (*TelemetryWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &TelemetryWriter{file: f}, nil
}

func (w *TelemetryWriter) Write(samples ...experiment.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	if !w.headerWritten {
		if err := gocsv.Marshal(samples, w.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(samples, w.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

func (w *TelemetryWriter) Close() error {
	return w.file.Close()
}
