package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// Frame is an encoded, fully numeric table: a dense matrix with one name
// per column. The last column is the target.
type Frame struct {
	Names []string
	Data  *mat.Dense
}

// NewFrame checks that names matches the column count of data.
func NewFrame(names []string, data *mat.Dense) (*Frame, error) {
	_, c := data.Dims()
	if len(names) != c {
		return nil, errors.NewSchemaError("NewFrame", fmt.Sprintf("%d names for the matrix", len(names)), c)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, errors.NewSchemaError("NewFrame", fmt.Sprintf("duplicate column name %q", n), c)
		}
		seen[n] = struct{}{}
	}
	return &Frame{Names: append([]string(nil), names...), Data: data}, nil
}

// Dims returns rows and columns.
func (f *Frame) Dims() (int, int) {
	return f.Data.Dims()
}

// FeatureNames returns every column name except the last.
func (f *Frame) FeatureNames() []string {
	if len(f.Names) == 0 {
		return nil
	}
	return append([]string(nil), f.Names[:len(f.Names)-1]...)
}

// TargetName returns the name of the last column.
func (f *Frame) TargetName() string {
	if len(f.Names) == 0 {
		return ""
	}
	return f.Names[len(f.Names)-1]
}

// Index returns the position of the named column, or -1.
func (f *Frame) Index(name string) int {
	for i, n := range f.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Reindex conforms f to names: columns f lacks are added filled with fill,
// columns not in names are dropped, and the result follows names' order.
// f must have at least one row and names at least one entry.
func (f *Frame) Reindex(names []string, fill float64) *Frame {
	r, _ := f.Dims()
	pos := make(map[string]int, len(f.Names))
	for i, n := range f.Names {
		pos[n] = i
	}

	out := mat.NewDense(r, len(names), nil)
	for k, n := range names {
		src, ok := pos[n]
		for i := 0; i < r; i++ {
			if ok {
				out.Set(i, k, f.Data.At(i, src))
			} else {
				out.Set(i, k, fill)
			}
		}
	}
	return &Frame{Names: append([]string(nil), names...), Data: out}
}
