package tabular

import (
	"sort"
)

// Row maps column names to cell values. Absent columns read as missing.
type Row map[string]Value

// Get returns the cell for col, or missing when the row has no such column.
func (r Row) Get(col string) Value {
	if v, ok := r[col]; ok {
		return v
	}
	return Missing()
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows with a declared column order.
// Pipeline stages treat tables as values: every transform returns a new
// table and never mutates its input after returning.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string{}, columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row to the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// HasColumn reports whether the table declares col.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// AddColumn declares col if not already present.
func (t *Table) AddColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// DropColumns returns a copy of the table without the named columns.
func (t *Table) DropColumns(cols ...string) *Table {
	drop := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		drop[c] = struct{}{}
	}
	out := New()
	for _, c := range t.Columns {
		if _, ok := drop[c]; !ok {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			if _, ok := drop[k]; !ok {
				nr[k] = v
			}
		}
		out.Append(nr)
	}
	return out
}

// Filter returns the rows for which keep returns true, preserving order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Columns...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Append(r.Clone())
		}
	}
	return out
}

// Map returns a copy of the table with transform applied to every row.
// The transform may return a different row; returning nil drops the row.
func (t *Table) Map(transform func(Row) Row) *Table {
	out := New(t.Columns...)
	for _, r := range t.Rows {
		if nr := transform(r.Clone()); nr != nil {
			out.Append(nr)
		}
	}
	return out
}

// Concat returns a new table holding the rows of all inputs; columns are
// the union in first-seen order.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		for _, c := range t.Columns {
			out.AddColumn(c)
		}
		for _, r := range t.Rows {
			out.Append(r.Clone())
		}
	}
	return out
}

// SortByRenderedDesc stably sorts rows by the rendered value of col in
// descending order, with missing values last regardless of how their
// placeholder text would collate.
func (t *Table) SortByRenderedDesc(col string) *Table {
	out := New(t.Columns...)
	for _, r := range t.Rows {
		out.Append(r.Clone())
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		vi, vj := out.Rows[i].Get(col), out.Rows[j].Get(col)
		mi, mj := vi.IsMissing(), vj.IsMissing()
		if mi != mj {
			return !mi
		}
		if mi {
			return false
		}
		return vi.Render() > vj.Render()
	})
	return out
}

// LookupBy builds a first-seen-wins index of rows keyed by the rendered
// value of keyCol. Rows whose key is missing are skipped.
func (t *Table) LookupBy(keyCol string) map[string]Row {
	out := make(map[string]Row, len(t.Rows))
	for _, r := range t.Rows {
		k := r.Get(keyCol)
		if k.IsMissing() {
			continue
		}
		key := k.Render()
		if _, seen := out[key]; !seen {
			out[key] = r
		}
	}
	return out
}

// GroupSum sums the numeric value of valueCol per rendered key of keyCol.
// Cells that do not coerce to a number contribute zero.
func (t *Table) GroupSum(keyCol, valueCol string) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range t.Rows {
		k := r.Get(keyCol)
		if k.IsMissing() {
			continue
		}
		n, _ := r.Get(valueCol).AsNumber()
		out[k.Render()] += n
	}
	return out
}
