// Package contents holds the mutable tree the user edits: one Topic per
// category instance, Sections per partition and Snippets per facet, each
// carrying the data bindings that map table columns (or fixed text) onto
// the template's slots.
package contents

import "github.com/realmforge/rwgen/api"

// Binding is the user's choice for one field: either fixed literal text
// or "the value of column N in the current record". The zero value is
// undefined (no column, empty text).
type Binding struct {
	col      int
	isCol    bool
	fixed    string
	onChange func()
}

// ColumnBinding returns a binding referencing a table column.
func ColumnBinding(col int) Binding { return Binding{col: col, isCol: true} }

// FixedBinding returns a binding carrying literal text.
func FixedBinding(text string) Binding { return Binding{fixed: text} }

// IsDefined reports whether the binding produces anything: a column
// reference always does, fixed text only when non-empty.
func (b *Binding) IsDefined() bool { return b.isCol || b.fixed != "" }

// Column returns the referenced column, if any.
func (b *Binding) Column() (int, bool) { return b.col, b.isCol }

// FixedText returns the literal text of a non-column binding.
func (b *Binding) FixedText() string { return b.fixed }

// SetColumn points the binding at a column and clears any fixed text.
func (b *Binding) SetColumn(col int) {
	b.col, b.isCol, b.fixed = col, true, ""
	b.fire()
}

// SetFixedText sets literal text and clears any column reference.
func (b *Binding) SetFixedText(text string) {
	b.col, b.isCol, b.fixed = 0, false, text
	b.fire()
}

// SetOnChange installs the modified hook fired by both mutators. The GUI
// layer uses this to mark the project dirty; the engine never mutates.
func (b *Binding) SetOnChange(f func()) { b.onChange = f }

func (b *Binding) fire() {
	if b.onChange != nil {
		b.onChange()
	}
}

// Resolve evaluates the binding against one record. The offset shifts
// column references during repeated-section expansion; it is threaded
// explicitly through every call so no ambient state needs restoring.
func (b *Binding) Resolve(tbl api.Table, row, offset int) string {
	if !b.isCol {
		return b.fixed
	}
	c := b.col + offset
	if c < 0 || c >= tbl.ColumnCount() {
		return ""
	}
	return tbl.Cell(row, c)
}
