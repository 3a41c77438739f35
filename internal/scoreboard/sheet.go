package scoreboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Record is one data row of a worksheet keyed by header name.
type Record map[string]any

// Table is the content of a worksheet: its header row and the rows below it.
type Table struct {
	Header  []string
	Records []Record
}

// HasColumns reports whether every name appears in the header.
func (t Table) HasColumns(names ...string) bool {
	for _, n := range names {
		found := false
		for _, h := range t.Header {
			if h == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Worksheet is a spreadsheet tab the scoreboard lives in.
type Worksheet interface {
	Clear(ctx context.Context) error
	AppendRow(ctx context.Context, row []any) error
	AppendRows(ctx context.Context, rows [][]any) error
	GetAllRecords(ctx context.Context) (Table, error)
}

// TableFromValues treats the first row as the header.
func TableFromValues(values [][]any) Table {
	if len(values) == 0 {
		return Table{}
	}
	t := Table{Header: make([]string, len(values[0]))}
	for i, h := range values[0] {
		t.Header[i] = strings.TrimSpace(fmt.Sprint(h))
	}
	for _, row := range values[1:] {
		rec := make(Record, len(t.Header))
		for i, h := range t.Header {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

// SheetStore keeps the scoreboard in a worksheet with a Username and Score
// header. Writes from this process are serialized so a name can only be
// appended once.
type SheetStore struct {
	Sheet Worksheet

	mu sync.Mutex
}

func NewSheetStore(ws Worksheet) *SheetStore {
	return &SheetStore{Sheet: ws}
}

func header() []any {
	return []any{ColumnUsername, ColumnScore}
}

// Load reads the scoreboard. A sheet without the expected columns is wiped
// and re-initialised with the header row.
func (s *SheetStore) Load(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Sheet.GetAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading scoreboard: %w", err)
	}
	if !t.HasColumns(ColumnUsername, ColumnScore) {
		slog.Warn("Scoreboard columns missing, re-initializing", "header", t.Header)
		if err := s.reset(ctx); err != nil {
			return nil, err
		}
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(t.Records))
	for _, r := range t.Records {
		name := strings.TrimSpace(fmt.Sprint(r[ColumnUsername]))
		if name == "" {
			continue
		}
		score, err := parseScore(r[ColumnScore])
		if err != nil {
			slog.Warn("Skipping scoreboard row", "username", name, "error", err)
			continue
		}
		entries = append(entries, Entry{Username: name, Score: score})
	}
	Sort(entries)
	return entries, nil
}

// Append adds one row, or returns ErrUsernameTaken when the name is already
// on the sheet. The worksheet appends server side, so concurrent finishers
// never overwrite each other.
func (s *SheetStore) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Sheet.GetAllRecords(ctx)
	if err != nil {
		return fmt.Errorf("reading scoreboard: %w", err)
	}
	for _, r := range t.Records {
		if v, ok := r[ColumnUsername]; ok && strings.EqualFold(strings.TrimSpace(fmt.Sprint(v)), e.Username) {
			return ErrUsernameTaken
		}
	}
	if err := s.Sheet.AppendRow(ctx, []any{e.Username, e.Score}); err != nil {
		return fmt.Errorf("appending %s to scoreboard: %w", e.Username, err)
	}
	return nil
}

// Replace rewrites the sheet with entries.
func (s *SheetStore) Replace(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reset(ctx); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.Username, e.Score}
	}
	if err := s.Sheet.AppendRows(ctx, rows); err != nil {
		return fmt.Errorf("writing scoreboard rows: %w", err)
	}
	return nil
}

func (s *SheetStore) Close() error {
	return nil
}

func (s *SheetStore) reset(ctx context.Context) error {
	if err := s.Sheet.Clear(ctx); err != nil {
		return fmt.Errorf("clearing scoreboard: %w", err)
	}
	if err := s.Sheet.AppendRow(ctx, header()); err != nil {
		return fmt.Errorf("writing scoreboard header: %w", err)
	}
	return nil
}

func parseScore(v any) (int, error) {
	switch s := v.(type) {
	case int:
		return s, nil
	case int64:
		return int(s), nil
	case float64:
		if s != math.Trunc(s) {
			return 0, fmt.Errorf("score %v is not a whole number", s)
		}
		return int(s), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("score %q: %w", s, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("score has unexpected type %T", v)
	}
}
