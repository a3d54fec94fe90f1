package table

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads every row of the named table from a SQLite database.
// Column names become headers in the table's declared order; NULLs become
// empty cells.
func LoadSQLite(dbPath, tableName string) (*Memory, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", tableName))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tableName, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", tableName, err)
	}

	var data [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(headers))
		dest := make([]any, len(headers))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(headers))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", tableName, err)
	}
	return New(headers, data), nil
}
