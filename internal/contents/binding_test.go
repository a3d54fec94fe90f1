package contents

import (
	"testing"

	"github.com/realmforge/rwgen/internal/table"
)

func TestBinding_ZeroValueIsUndefined(t *testing.T) {
	var b Binding
	if b.IsDefined() {
		t.Error("zero binding must be undefined")
	}
}

func TestBinding_DefinednessInvariant(t *testing.T) {
	tests := []struct {
		name    string
		b       Binding
		defined bool
	}{
		{"column zero", ColumnBinding(0), true},
		{"column", ColumnBinding(5), true},
		{"fixed text", FixedBinding("hello"), true},
		{"empty fixed text", FixedBinding(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.IsDefined(); got != tt.defined {
				t.Errorf("IsDefined() = %v, want %v", got, tt.defined)
			}
		})
	}
}

func TestBinding_MutatorsAreExclusive(t *testing.T) {
	b := FixedBinding("keep")
	b.SetColumn(3)
	if b.FixedText() != "" {
		t.Error("SetColumn must clear fixed text")
	}
	if col, ok := b.Column(); !ok || col != 3 {
		t.Errorf("Column() = %d,%v, want 3,true", col, ok)
	}

	b.SetFixedText("now fixed")
	if _, ok := b.Column(); ok {
		t.Error("SetFixedText must clear the column reference")
	}
	if b.FixedText() != "now fixed" {
		t.Errorf("FixedText() = %q", b.FixedText())
	}
}

func TestBinding_MutationFiresChangeHook(t *testing.T) {
	var fired int
	var b Binding
	b.SetOnChange(func() { fired++ })
	b.SetColumn(1)
	b.SetFixedText("x")
	if fired != 2 {
		t.Errorf("change hook fired %d times, want 2", fired)
	}
}

func TestBinding_Resolve(t *testing.T) {
	tbl := table.New([]string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})

	b := FixedBinding("literal")
	if got := b.Resolve(tbl, 0, 0); got != "literal" {
		t.Errorf("fixed resolve = %q", got)
	}
	if got := b.Resolve(tbl, 0, 2); got != "literal" {
		t.Error("offset must not affect fixed bindings")
	}

	c := ColumnBinding(0)
	if got := c.Resolve(tbl, 0, 0); got != "1" {
		t.Errorf("column resolve = %q, want 1", got)
	}
	if got := c.Resolve(tbl, 0, 2); got != "3" {
		t.Errorf("offset resolve = %q, want 3", got)
	}
	if got := c.Resolve(tbl, 0, 5); got != "" {
		t.Errorf("out-of-range resolve = %q, want empty", got)
	}
}
