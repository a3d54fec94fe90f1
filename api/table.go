package api

// Table is the tabular data source contract consumed by the expansion
// engine. Concrete adapters (CSV, JSON, YAML, SQLite) live in
// internal/table; the engine never knows which one it is talking to.
//
// Row and column indices are zero-based. The header row is not counted as
// a data row. Adapters must pad short rows so that every row is
// ColumnCount() cells wide.
type Table interface {
	RowCount() int
	ColumnCount() int

	// Header returns the column heading, or "" when col is out of range.
	Header(col int) string

	// Cell returns the value at (row, col), or "" when out of range.
	Cell(row, col int) string

	// FilterEquals returns a read-only view containing only the rows whose
	// value in col equals value, preserving row order. Views compose:
	// filtering a view narrows it further.
	FilterEquals(col int, value string) Table

	// RowIdentity returns a stable identity token for the row, suitable
	// for cross-referencing the topic generated from it. Views report the
	// identity of the underlying base row.
	RowIdentity(row int) string

	// Base returns the unfiltered table this view was derived from.
	// Relationship cross-matching always runs against the base, never a
	// filtered view. A base table returns itself.
	Base() Table
}
