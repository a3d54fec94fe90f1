// Package table provides the in-memory tabular data source, roaring-backed
// filtered views, and per-format adapters (CSV, JSON, YAML, SQLite).
package table

import (
	"fmt"

	"github.com/realmforge/rwgen/api"
)

// Memory is the canonical Table implementation. Every adapter normalizes
// its input into one of these.
type Memory struct {
	headers []string
	rows    [][]string
}

// New builds a Memory table, padding every row to the header width.
// Cells beyond the header width are kept (the header row is widened with
// empty headings), so ColumnCount is the widest row seen.
func New(headers []string, rows [][]string) *Memory {
	width := len(headers)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for len(headers) < width {
		headers = append(headers, "")
	}
	padded := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, width)
		copy(row, r)
		padded[i] = row
	}
	return &Memory{headers: headers, rows: padded}
}

func (m *Memory) RowCount() int    { return len(m.rows) }
func (m *Memory) ColumnCount() int { return len(m.headers) }

func (m *Memory) Header(col int) string {
	if col < 0 || col >= len(m.headers) {
		return ""
	}
	return m.headers[col]
}

func (m *Memory) Cell(row, col int) string {
	if row < 0 || row >= len(m.rows) || col < 0 || col >= len(m.headers) {
		return ""
	}
	return m.rows[row][col]
}

// RowIdentity derives the topic id token for a base row. Row 0 maps to
// "topic_1" so that identities stay aligned with the 1-based ids the
// target system shows to users.
func (m *Memory) RowIdentity(row int) string {
	return fmt.Sprintf("topic_%d", row+1)
}

func (m *Memory) Base() api.Table { return m }

func (m *Memory) FilterEquals(col int, value string) api.Table {
	return filterOf(m, m, col, value)
}

// HeaderIndex returns the index of the named column, or -1.
func (m *Memory) HeaderIndex(name string) int {
	for i, h := range m.headers {
		if h == name {
			return i
		}
	}
	return -1
}
