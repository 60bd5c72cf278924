package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/core"
	"github.com/PDA080442/personal-finance-app/internal/storage"
)

// LedgerStore is the persistence surface the ledger service needs. It is
// implemented by storage.SQLiteRepository; the service receives a handle
// at construction and never reaches for shared state.
type LedgerStore interface {
	InsertRecord(ctx context.Context, rec core.Record) (core.Record, error)
	DeleteRecord(ctx context.Context, id int64) error
	ListRecords(ctx context.Context) ([]core.Record, error)
	FilteredRecords(ctx context.Context, f storage.Filter) ([]core.Record, error)
	SearchRecords(ctx context.Context, term string) ([]core.Record, error)
	RecordCategories(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	AddCategory(ctx context.Context, name string) (core.Category, error)
	RenameCategory(ctx context.Context, id int64, newName string) error
	DeleteCategory(ctx context.Context, id int64) error
	Close() error
}

// EventPublisher receives record lifecycle events for external export
// collaborators. Implemented by amqp.Client.
type EventPublisher interface {
	PublishRecordCreated(ctx context.Context, rec core.Record) error
	PublishRecordDeleted(ctx context.Context, id int64) error
	Close() error
}

// LedgerService validates input, persists through the store and publishes
// best-effort events. A nil publisher disables eventing entirely.
type LedgerService struct {
	store     LedgerStore
	publisher EventPublisher
}

func NewLedgerService(store LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// AddRecord validates and persists a new ledger entry, stamping it with
// the current time when no timestamp is supplied.
func (s *LedgerService) AddRecord(ctx context.Context, category string, amount core.Money, kind core.Kind) (core.Record, error) {
	return s.addRecordAt(ctx, category, amount, kind, time.Time{})
}

// AddRecordAt is AddRecord with an explicit timestamp.
func (s *LedgerService) AddRecordAt(ctx context.Context, category string, amount core.Money, kind core.Kind, ts time.Time) (core.Record, error) {
	return s.addRecordAt(ctx, category, amount, kind, ts)
}

func (s *LedgerService) addRecordAt(ctx context.Context, category string, amount core.Money, kind core.Kind, ts time.Time) (core.Record, error) {
	rec := core.Record{
		Category:  category,
		Amount:    amount,
		Timestamp: ts,
		Kind:      kind,
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}

	saved, err := s.store.InsertRecord(ctx, rec)
	if err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRecordCreated(ctx, saved); err != nil {
			// Record is saved locally; eventing never fails the operation.
			slog.ErrorContext(ctx, "Failed to publish record created event",
				"id", saved.ID, "error", err)
		}
	}

	return saved, nil
}

// DeleteRecord removes a record by id. Unknown ids are a silent no-op.
func (s *LedgerService) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRecordDeleted(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish record deleted event",
				"id", id, "error", err)
		}
	}

	return nil
}

func (s *LedgerService) ListRecords(ctx context.Context) ([]core.Record, error) {
	return s.store.ListRecords(ctx)
}

func (s *LedgerService) FilteredRecords(ctx context.Context, f storage.Filter) ([]core.Record, error) {
	return s.store.FilteredRecords(ctx, f)
}

func (s *LedgerService) SearchRecords(ctx context.Context, term string) ([]core.Record, error) {
	return s.store.SearchRecords(ctx, term)
}

// RecordCategories lists the distinct category names present in records,
// used to populate filter choices.
func (s *LedgerService) RecordCategories(ctx context.Context) ([]string, error) {
	return s.store.RecordCategories(ctx)
}

func (s *LedgerService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *LedgerService) AddCategory(ctx context.Context, name string) (core.Category, error) {
	if name == "" {
		return core.Category{}, core.ErrEmptyCategory
	}
	return s.store.AddCategory(ctx, name)
}

func (s *LedgerService) RenameCategory(ctx context.Context, id int64, newName string) error {
	if newName == "" {
		return core.ErrEmptyCategory
	}
	return s.store.RenameCategory(ctx, id, newName)
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

// Close releases the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
