// Package frame implements a minimal ordered-column table used to carry
// transaction records through the collection pipeline. Cells are strings;
// the empty string doubles as the null value. Column order is significant
// and survives every operation.
package frame

import "fmt"

type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New creates an empty frame with the given columns. Duplicate names are
// ignored; the first occurrence wins.
func New(cols ...string) *Frame {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		f.AddColumn(c)
	}
	return f
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Has reports whether the column exists.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// AddColumn appends a column, padding existing rows with empty cells.
// Adding an existing column is a no-op.
func (f *Frame) AddColumn(col string) {
	if _, ok := f.index[col]; ok {
		return
	}
	f.index[col] = len(f.cols)
	f.cols = append(f.cols, col)
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], "")
	}
}

// Append adds a row. The row length must match the column count.
func (f *Frame) Append(row []string) error {
	if len(row) != len(f.cols) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(row), len(f.cols))
	}
	cp := make([]string, len(row))
	copy(cp, row)
	f.rows = append(f.rows, cp)
	return nil
}

// Get returns the cell at row i, or "" when the column does not exist.
func (f *Frame) Get(i int, col string) string {
	j, ok := f.index[col]
	if !ok {
		return ""
	}
	return f.rows[i][j]
}

// Set writes the cell at row i, adding the column first if needed.
func (f *Frame) Set(i int, col, v string) {
	j, ok := f.index[col]
	if !ok {
		f.AddColumn(col)
		j = f.index[col]
	}
	f.rows[i][j] = v
}

// Row returns a copy of row i aligned to Columns().
func (f *Frame) Row(i int) []string {
	out := make([]string, len(f.rows[i]))
	copy(out, f.rows[i])
	return out
}

// Rename renames columns per the mapping. Columns absent from the frame are
// skipped silently; mapping targets must not collide with existing columns.
func (f *Frame) Rename(mapping map[string]string) {
	for i, c := range f.cols {
		n, ok := mapping[c]
		if !ok {
			continue
		}
		delete(f.index, c)
		f.cols[i] = n
		f.index[n] = i
	}
}

// Select returns a new frame whose columns follow the given order: first the
// ordered names that are present, then every remaining column in its original
// relative order. Ordered names missing from the frame are omitted.
func (f *Frame) Select(order []string) *Frame {
	picked := make(map[string]bool, len(order))
	var cols []string
	for _, c := range order {
		if f.Has(c) && !picked[c] {
			picked[c] = true
			cols = append(cols, c)
		}
	}
	for _, c := range f.cols {
		if !picked[c] {
			cols = append(cols, c)
		}
	}

	out := New(cols...)
	src := make([]int, len(cols))
	for i, c := range cols {
		src[i] = f.index[c]
	}
	for _, row := range f.rows {
		cp := make([]string, len(cols))
		for i, j := range src {
			cp[i] = row[j]
		}
		out.rows = append(out.rows, cp)
	}
	return out
}

// Concat merges frames top to bottom into a new frame. The result's columns
// are the union of all input columns in first-seen order; cells missing from
// a source frame stay empty.
func Concat(frames []*Frame) *Frame {
	out := New()
	for _, f := range frames {
		for _, c := range f.cols {
			out.AddColumn(c)
		}
	}
	for _, f := range frames {
		for _, row := range f.rows {
			cp := make([]string, len(out.cols))
			for j, c := range f.cols {
				cp[out.index[c]] = row[j]
			}
			out.rows = append(out.rows, cp)
		}
	}
	return out
}
