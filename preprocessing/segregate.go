package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// SplitFeaturesTarget separates the last column of f (the target) from the
// feature columns before it.
func SplitFeaturesTarget(f *Frame) (X *mat.Dense, y *mat.VecDense, err error) {
	r, c := f.Dims()
	if c < 2 {
		return nil, nil, errors.NewSchemaError("SplitFeaturesTarget", "need at least 2 columns", c)
	}

	X = mat.DenseCopyOf(f.Data.Slice(0, r, 0, c-1))
	y = mat.NewVecDense(r, nil)
	y.CopyVec(f.Data.ColView(c - 1))
	return X, y, nil
}
