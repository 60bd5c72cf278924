package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

// SheetsExporter appends ledger records to a Google spreadsheet. Like
// every exporter it only reads the ledger; credentials come from
// Application Default Credentials unless options say otherwise.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName string, opts ...goption.ClientOption) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		sheetName = "Records"
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Export appends one row per record: category, amount, date, kind.
func (e *SheetsExporter) Export(ctx context.Context, records []core.Record) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(records))
	for _, r := range records {
		values = append(values, []any{
			r.Category,
			r.Amount.Float(),
			r.Timestamp.Format("2006-01-02 15:04:05"),
			string(r.Kind),
		})
	}

	rng := fmt.Sprintf("%s!A:D", e.sheetName)
	_, err := e.svc.Spreadsheets.Values.
		Append(e.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported records to Google Sheets",
		"rows", len(values),
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName)

	return nil
}
