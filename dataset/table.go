package dataset

import (
	"fmt"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// Table is an in-memory record table. Operations never modify a table in
// place; they return a new one.
type Table struct {
	Schema Schema
	Rows   [][]Value
}

// NewTable validates that every row matches the schema width.
func NewTable(schema Schema, rows [][]Value) (*Table, error) {
	for i, row := range rows {
		if len(row) != schema.Len() {
			return nil, errors.NewSchemaError("NewTable",
				fmt.Sprintf("row %d has %d cells", i, len(row)), schema.Len())
		}
	}
	return &Table{Schema: schema, Rows: rows}, nil
}

// FromStrings builds a table of parsed cells with an inferred schema.
// It is mainly a convenience for tests and small literals.
func FromStrings(records [][]string) (*Table, error) {
	rows := make([][]Value, len(records))
	for i, rec := range records {
		rows[i] = make([]Value, len(rec))
		for j, raw := range rec {
			rows[i][j] = Parse(raw)
		}
	}
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	t, err := NewTable(Schema{Columns: make([]Column, width)}, rows)
	if err != nil {
		return nil, err
	}
	schema, err := InferSchema(t, InferRaw, "", nil, nil)
	if err != nil {
		return nil, err
	}
	t.Schema = schema
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t.Schema.Len() > 0 {
		return t.Schema.Len()
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// Cell returns the value at row i, column j.
func (t *Table) Cell(i, j int) Value { return t.Rows[i][j] }

// Column returns a copy of column j.
func (t *Table) Column(j int) []Value {
	col := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	rows := make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]Value(nil), row...)
	}
	return &Table{Schema: t.Schema.Clone(), Rows: rows}
}

// Subset returns the rows at idx, in idx order.
func (t *Table) Subset(idx []int) *Table {
	rows := make([][]Value, len(idx))
	for k, i := range idx {
		rows[k] = append([]Value(nil), t.Rows[i]...)
	}
	return &Table{Schema: t.Schema.Clone(), Rows: rows}
}

// CountMissing returns the number of missing cells.
func (t *Table) CountMissing() int {
	n := 0
	for _, row := range t.Rows {
		for _, v := range row {
			if v.IsMissing() {
				n++
			}
		}
	}
	return n
}

// Equal reports whether both tables hold equal cells in the same shape.
func (t *Table) Equal(o *Table) bool {
	if t.NumRows() != o.NumRows() || t.NumCols() != o.NumCols() {
		return false
	}
	for i := range t.Rows {
		for j := range t.Rows[i] {
			if !t.Rows[i][j].Equal(o.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}
