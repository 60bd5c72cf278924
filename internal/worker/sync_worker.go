// Package worker mirrors ledger record events to an external spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PDA080442/personal-finance-app/internal/amqp"
	"github.com/PDA080442/personal-finance-app/internal/core"
)

// RecordExporter appends records to the external destination.
type RecordExporter interface {
	Export(ctx context.Context, records []core.Record) error
}

// SyncWorker consumes record events and appends created records to the
// export destination. The destination is an append-only journal, so
// delete events are acknowledged without touching it.
type SyncWorker struct {
	exporter RecordExporter
}

func NewSyncWorker(exporter RecordExporter) *SyncWorker {
	return &SyncWorker{exporter: exporter}
}

// HandleRecordEvent processes a single event from the queue. Returning
// an error requeues the message.
func (w *SyncWorker) HandleRecordEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	switch ev.Action {
	case amqp.ActionCreated:
		rec := core.Record{
			ID:        ev.RecordID,
			Category:  ev.Category,
			Amount:    core.Money{Cents: ev.AmountCents},
			Timestamp: ev.RecordedAt,
			Kind:      core.Kind(ev.Kind),
		}
		if err := w.exporter.Export(ctx, []core.Record{rec}); err != nil {
			return fmt.Errorf("export record %d: %w", ev.RecordID, err)
		}
		slog.InfoContext(ctx, "Synced record to export destination",
			"record_id", ev.RecordID,
			"category", ev.Category)
		return nil
	case amqp.ActionDeleted:
		slog.InfoContext(ctx, "Skipping delete event, export destination is append-only",
			"record_id", ev.RecordID)
		return nil
	default:
		// Unknown actions are dropped rather than requeued forever.
		slog.WarnContext(ctx, "Dropping record event with unknown action",
			"action", ev.Action,
			"record_id", ev.RecordID)
		return nil
	}
}

// Run consumes record events until the context is cancelled.
func (w *SyncWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeRecordEvents(ctx, func(ev *amqp.RecordEvent) error {
		return w.HandleRecordEvent(ctx, ev)
	})
}
