package pivot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SinkWriteError reports a failure writing a table to its destination.
type SinkWriteError struct {
	Path string
	Err  error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("write table to %s: %v", e.Path, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

// WriteCSV writes labels as the header row followed by each row verbatim,
// field order preserved.
func WriteCSV(t *Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Labels); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFileCSV creates path (and its directory) and writes the table to it.
// Any failure is reported as *SinkWriteError.
func WriteFileCSV(t *Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &SinkWriteError{Path: path, Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return &SinkWriteError{Path: path, Err: err}
	}
	defer f.Close()

	if err := WriteCSV(t, f); err != nil {
		return &SinkWriteError{Path: path, Err: err}
	}
	return nil
}
