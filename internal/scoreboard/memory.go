package scoreboard

import (
	"context"
	"sync"
)

// MemorySheet is an in-process Worksheet. Nothing survives a restart.
type MemorySheet struct {
	mu   sync.Mutex
	rows [][]any
}

func NewMemorySheet(rows ...[]any) *MemorySheet {
	return &MemorySheet{rows: rows}
}

func (m *MemorySheet) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.rows = nil
	m.mu.Unlock()
	return nil
}

func (m *MemorySheet) AppendRow(ctx context.Context, row []any) error {
	return m.AppendRows(ctx, [][]any{row})
}

func (m *MemorySheet) AppendRows(ctx context.Context, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.rows = append(m.rows, append([]any(nil), r...))
	}
	return nil
}

func (m *MemorySheet) GetAllRecords(ctx context.Context) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return TableFromValues(m.rows), nil
}

// Rows returns a copy of the raw sheet content, header included.
func (m *MemorySheet) Rows() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]any, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}
