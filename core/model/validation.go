package model

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// ValidateFitInput checks the classifier contract: a non-empty X, a column
// vector y with as many rows as X, and only finite values. A row count
// mismatch between X and y is a ShapeMismatchError.
func ValidateFitInput(op string, X, y mat.Matrix) (nSamples, nFeatures int, err error) {
	nSamples, nFeatures = X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return 0, 0, errors.NewShapeMismatchError(op, nSamples, yRows)
	}
	if yCols != 1 {
		return 0, 0, errors.NewDimensionError(op, 1, yCols, 1)
	}
	if err := errors.CheckMatrix(op, X, nSamples, nFeatures, 0); err != nil {
		return 0, 0, err
	}
	if err := errors.CheckMatrix(op, y, yRows, 1, 0); err != nil {
		return 0, 0, err
	}
	return nSamples, nFeatures, nil
}

// ValidatePredictInput checks a prediction input against the fitted state.
func ValidatePredictInput(op, modelName, method string, s *StateManager, X mat.Matrix) error {
	if err := s.RequireFitted(modelName, method); err != nil {
		return err
	}
	r, c := X.Dims()
	if r == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if err := s.CheckFeatures(op, c); err != nil {
		return err
	}
	return errors.CheckMatrix(op, X, r, c, 0)
}

// UniqueClasses returns the distinct integer labels of a column vector,
// ascending.
func UniqueClasses(y mat.Matrix) []int {
	rows, _ := y.Dims()
	seen := make(map[int]struct{})
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}

// ClassIndex maps each label of y to its position in classes.
func ClassIndex(y mat.Matrix, classes []int) []int {
	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}
	rows, _ := y.Dims()
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = pos[int(y.At(i, 0))]
	}
	return idx
}

// ArgmaxPredict turns a probability matrix into labels.
func ArgmaxPredict(proba mat.Matrix, classes []int) *mat.Dense {
	r, c := proba.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		for k := 1; k < c; k++ {
			if proba.At(i, k) > proba.At(i, best) {
				best = k
			}
		}
		out.Set(i, 0, float64(classes[best]))
	}
	return out
}

// Columns copies X into feature-major slices for split searches.
func Columns(X mat.Matrix) [][]float64 {
	_, c := X.Dims()
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = mat.Col(nil, j, X)
	}
	return cols
}
