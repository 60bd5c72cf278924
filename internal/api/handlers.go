package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/core"
	"github.com/PDA080442/personal-finance-app/internal/report"
	"github.com/PDA080442/personal-finance-app/internal/storage"
)

const timestampLayout = "2006-01-02 15:04:05"

type recordPayload struct {
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp,omitempty"`
}

type recordJSON struct {
	ID        int64  `json:"id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
	Kind      string `json:"kind"`
}

type categoryPayload struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type recurringPayload struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Interval string `json:"interval"`
	NextDue  string `json:"next_due"`
}

type recurringJSON struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Interval string `json:"interval"`
	NextDue  string `json:"next_due"`
}

func toRecordJSON(rec core.Record) recordJSON {
	return recordJSON{
		ID:        rec.ID,
		Category:  rec.Category,
		Amount:    rec.Amount.String(),
		Timestamp: rec.Timestamp.Format(timestampLayout),
		Kind:      string(rec.Kind),
	}
}

func toRecordsJSON(recs []core.Record) []recordJSON {
	out := make([]recordJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecordJSON(rec))
	}
	return out
}

func toRecurringJSON(re core.RecurringExpense) recurringJSON {
	return recurringJSON{
		ID:       re.ID,
		Category: re.Category,
		Amount:   re.Amount.String(),
		Interval: string(re.Interval),
		NextDue:  re.NextDue.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateCategory):
		status = http.StatusConflict
	case errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidInterval),
		errors.Is(err, core.ErrInvalidDate):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRecords(w, r)
	case http.MethodPost:
		s.createRecord(w, r)
	case http.MethodDelete:
		s.deleteRecord(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := storage.Filter{Category: strings.TrimSpace(q.Get("category"))}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			badRequest(w, "invalid from date")
			return
		}
		f.From = d.Time
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			badRequest(w, "invalid to date")
			return
		}
		f.To = d.Time
	}
	if v := strings.TrimSpace(q.Get("kind")); v != "" {
		kind, err := core.ParseKind(v)
		if err != nil {
			writeError(w, err)
			return
		}
		f.Kind = kind
	}

	records, err := s.ledger.FilteredRecords(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordsJSON(records))
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	var p recordPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	kind, err := core.ParseKind(p.Kind)
	if err != nil {
		writeError(w, err)
		return
	}

	var rec core.Record
	if p.Timestamp != "" {
		ts, err := time.ParseInLocation(timestampLayout, p.Timestamp, time.UTC)
		if err != nil {
			badRequest(w, "invalid timestamp, want YYYY-MM-DD HH:MM:SS")
			return
		}
		rec, err = s.ledger.AddRecordAt(r.Context(), p.Category, core.Money{Cents: cents}, kind, ts)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		rec, err = s.ledger.AddRecord(r.Context(), p.Category, core.Money{Cents: cents}, kind)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	s.reportCache.Clear()
	writeJSON(w, http.StatusCreated, toRecordJSON(rec))
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		badRequest(w, "missing or invalid id")
		return
	}
	if err := s.ledger.DeleteRecord(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	s.reportCache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	records, err := s.ledger.SearchRecords(r.Context(), term)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordsJSON(records))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.ledger.ListCategories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]categoryPayload, 0, len(categories))
		for _, cat := range categories {
			out = append(out, categoryPayload{ID: cat.ID, Name: cat.Name})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var p categoryPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		cat, err := s.ledger.AddCategory(r.Context(), p.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, categoryPayload{ID: cat.ID, Name: cat.Name})
	case http.MethodPatch:
		var p categoryPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if p.ID <= 0 {
			badRequest(w, "missing or invalid id")
			return
		}
		if err := s.ledger.RenameCategory(r.Context(), p.ID, p.Name); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		id, ok := parseID(r)
		if !ok {
			badRequest(w, "missing or invalid id")
			return
		}
		if err := s.ledger.DeleteCategory(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.scheduler.ListRecurringExpenses(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]recurringJSON, 0, len(expenses))
		for _, re := range expenses {
			out = append(out, toRecurringJSON(re))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var p recurringPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		cents, err := core.ParseDecimalToCents(p.Amount)
		if err != nil {
			writeError(w, err)
			return
		}
		interval, err := core.ParseInterval(p.Interval)
		if err != nil {
			writeError(w, err)
			return
		}
		nextDue, err := core.ParseDate(p.NextDue)
		if err != nil {
			writeError(w, err)
			return
		}
		re, err := s.scheduler.AddRecurringExpense(r.Context(), p.Category, core.Money{Cents: cents}, interval, nextDue)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRecurringJSON(re))
	case http.MethodDelete:
		id, ok := parseID(r)
		if !ok {
			badRequest(w, "missing or invalid id")
			return
		}
		if err := s.scheduler.DeleteRecurringExpense(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProcessDue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	processed, err := s.scheduler.ProcessDue(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	if processed > 0 {
		s.reportCache.Clear()
	}
	writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}

type categoryShareJSON struct {
	Category string  `json:"category"`
	Total    string  `json:"total"`
	Percent  float64 `json:"percent"`
}

type dateTotalJSON struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

type reportResponse struct {
	From       string              `json:"from"`
	To         string              `json:"to"`
	Total      string              `json:"total"`
	ByCategory []categoryShareJSON `json:"by_category"`
	ByDate     []dateTotalJSON     `json:"by_date"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cacheKey := r.URL.RawQuery
	if cached, ok := s.reportCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	q := r.URL.Query()
	period := report.Period(strings.TrimSpace(q.Get("period")))
	from, to := report.ResolvePeriod(period, time.Now().UTC())

	f := storage.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		From:     from,
		To:       to,
	}
	if v := strings.TrimSpace(q.Get("kind")); v != "" {
		kind, err := core.ParseKind(v)
		if err != nil {
			writeError(w, err)
			return
		}
		f.Kind = kind
	}

	records, err := s.ledger.FilteredRecords(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	var total core.Money
	for _, rec := range records {
		total.Cents += rec.Amount.Cents
	}

	shares := report.CategoryShares(records)
	byCategory := make([]categoryShareJSON, 0, len(shares))
	for _, share := range shares {
		byCategory = append(byCategory, categoryShareJSON{
			Category: share.Category,
			Total:    share.Total.String(),
			Percent:  share.Percent,
		})
	}

	totals := report.TotalsByDate(records)
	byDate := make([]dateTotalJSON, 0, len(totals))
	for _, dt := range totals {
		byDate = append(byDate, dateTotalJSON{Date: dt.Date.String(), Total: dt.Total.String()})
	}

	resp := reportResponse{
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		Total:      total.String(),
		ByCategory: byCategory,
		ByDate:     byDate,
	}
	s.reportCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}
