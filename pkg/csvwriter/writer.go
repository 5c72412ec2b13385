// Package csvwriter flushes a batch of records to a CSV file.
package csvwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/Sternrassler/randori-export/pkg/record"
)

var (
	// ErrWriteFailure wraps every filesystem error raised while writing.
	ErrWriteFailure = errors.New("csv write failure")

	// ErrNoRecords is returned for an empty batch; there is no first record
	// to take the columns from.
	ErrNoRecords = errors.New("no records to write")
)

// Columns returns the header taken from the first record.
func Columns(records []record.Record) []string {
	if len(records) == 0 {
		return nil
	}
	return records[0].Keys()
}

// Row renders r positionally against columns. Fields not in columns are
// dropped and missing fields become empty cells.
func Row(columns []string, r record.Record) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i], _ = r.Get(col)
	}
	return row
}

// Write truncates path and writes a header row followed by one row per
// record. The file is flushed and closed before Write returns.
//
// Columns follow the key order of records[0]. Batches whose records do not
// share the same key set produce ragged data: extra keys are silently
// dropped and absent keys are left blank.
func Write(path string, records []record.Record) (err error) {
	if len(records) == 0 {
		return ErrNoRecords
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrWriteFailure, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %v", ErrWriteFailure, path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	columns := Columns(records)

	if err := w.Write(columns); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrWriteFailure, err)
	}

	for i, r := range records {
		if err := w.Write(Row(columns, r)); err != nil {
			return fmt.Errorf("%w: write row %d: %v", ErrWriteFailure, i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", ErrWriteFailure, path, err)
	}

	return nil
}
