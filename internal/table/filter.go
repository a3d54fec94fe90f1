package table

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/realmforge/rwgen/api"
)

// view is a read-only narrowing of a base table. It holds a bitmap of
// selected base-row indices, so stacked filters narrow the bitmap rather
// than copying rows.
type view struct {
	base api.Table
	rows *roaring.Bitmap
}

// filterOf scans the candidate rows of src (all of them when src is the
// base) and keeps those whose col value equals value.
func filterOf(base, src api.Table, col int, value string) *view {
	bm := roaring.New()
	if v, ok := src.(*view); ok {
		it := v.rows.Iterator()
		for it.HasNext() {
			r := it.Next()
			if base.Cell(int(r), col) == value {
				bm.Add(r)
			}
		}
	} else {
		for i := 0; i < src.RowCount(); i++ {
			if src.Cell(i, col) == value {
				bm.Add(uint32(i))
			}
		}
	}
	return &view{base: base, rows: bm}
}

func (v *view) RowCount() int    { return int(v.rows.GetCardinality()) }
func (v *view) ColumnCount() int { return v.base.ColumnCount() }

func (v *view) baseRow(row int) (int, bool) {
	if row < 0 || row >= v.RowCount() {
		return 0, false
	}
	r, err := v.rows.Select(uint32(row))
	if err != nil {
		return 0, false
	}
	return int(r), true
}

func (v *view) Header(col int) string { return v.base.Header(col) }

func (v *view) Cell(row, col int) string {
	r, ok := v.baseRow(row)
	if !ok {
		return ""
	}
	return v.base.Cell(r, col)
}

func (v *view) RowIdentity(row int) string {
	r, ok := v.baseRow(row)
	if !ok {
		return ""
	}
	return v.base.RowIdentity(r)
}

func (v *view) Base() api.Table { return v.base.Base() }

func (v *view) FilterEquals(col int, value string) api.Table {
	return filterOf(v.base, v, col, value)
}
