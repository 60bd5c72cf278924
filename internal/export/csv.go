// Package export contains the read-only collaborators that take query
// results out of the ledger: CSV files and Google Sheets. They consume
// record sequences and never mutate the store.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

var csvHeader = []string{"Category", "Amount", "Date", "Kind"}

// WriteCSV writes records as CSV rows of (category, amount, date, kind)
// with a header row.
func WriteCSV(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Category,
			r.Amount.String(),
			r.Timestamp.Format("2006-01-02 15:04:05"),
			string(r.Kind),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes records to a CSV file at path, replacing any
// existing file.
func WriteCSVFile(path string, records []core.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}
