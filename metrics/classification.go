// Package metrics provides classification metrics over label vectors.
package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// validatePair checks that both vectors are present, non-empty and of equal length.
func validatePair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "input vectors must not be nil")
	}
	n := yTrue.Len()
	if n == 0 || yPred.Len() == 0 {
		return 0, errors.NewValueError(op, "input vectors must not be empty")
	}
	if yPred.Len() != n {
		return 0, errors.NewShapeMismatchError(op, n, yPred.Len())
	}
	return n, nil
}

func checkBinaryLabels(op string, y *mat.VecDense) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, fmt.Sprintf("labels must be 0 or 1, got %v at index %d", v, i))
		}
	}
	return nil
}

// Accuracy returns the fraction of positions where yPred equals yTrue.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError returns 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "ClassificationError")
	}
	return 1 - acc, nil
}

// Confusion is a confusion matrix over a sorted label domain. Counts has one
// row per true label and one column per predicted label, both in Labels order.
type Confusion struct {
	Labels []float64
	Counts *mat.Dense
}

// ConfusionMatrix tabulates (true, predicted) pairs over the union of the
// labels observed in either vector.
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*Confusion, error) {
	n, err := validatePair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}

	seen := make(map[float64]struct{})
	for i := 0; i < n; i++ {
		seen[yTrue.AtVec(i)] = struct{}{}
		seen[yPred.AtVec(i)] = struct{}{}
	}
	labels := make([]float64, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Float64s(labels)

	pos := make(map[float64]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	counts := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		r, c := pos[yTrue.AtVec(i)], pos[yPred.AtVec(i)]
		counts.Set(r, c, counts.At(r, c)+1)
	}
	return &Confusion{Labels: labels, Counts: counts}, nil
}

func (c *Confusion) index(label float64) (int, bool) {
	i := sort.SearchFloat64s(c.Labels, label)
	return i, i < len(c.Labels) && c.Labels[i] == label
}

// Count returns how many samples with true label trueLabel were predicted as
// pred. Labels outside the domain count zero.
func (c *Confusion) Count(pred, trueLabel float64) int {
	p, okP := c.index(pred)
	t, okT := c.index(trueLabel)
	if !okP || !okT {
		return 0
	}
	return int(c.Counts.At(t, p))
}

// Total returns the number of tabulated samples.
func (c *Confusion) Total() int {
	return int(mat.Sum(c.Counts))
}

// Rows returns the counts as nested slices, rows by true label.
func (c *Confusion) Rows() [][]int {
	n := len(c.Labels)
	rows := make([][]int, n)
	for i := range rows {
		rows[i] = make([]int, n)
		for j := range rows[i] {
			rows[i][j] = int(c.Counts.At(i, j))
		}
	}
	return rows
}

// MarshalJSON encodes the matrix as its labels and nested counts.
func (c *Confusion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Labels []float64 `json:"labels"`
		Counts [][]int   `json:"counts"`
	}{c.Labels, c.Rows()})
}

// String renders the matrix with true labels down and predictions across.
func (c *Confusion) String() string {
	var b strings.Builder
	width := len("true\\pred")
	for _, row := range c.Rows() {
		for _, v := range row {
			if w := len(strconv.Itoa(v)) + 1; w > width {
				width = w
			}
		}
	}
	fmt.Fprintf(&b, "%*s", width, "true\\pred")
	for _, l := range c.Labels {
		fmt.Fprintf(&b, " %*s", width, strconv.FormatFloat(l, 'g', -1, 64))
	}
	b.WriteByte('\n')
	for i, row := range c.Rows() {
		fmt.Fprintf(&b, "%*s", width, strconv.FormatFloat(c.Labels[i], 'g', -1, 64))
		for _, v := range row {
			fmt.Fprintf(&b, " %*d", width, v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// PrecisionRecallF1 returns the binary scores for the given positive label.
// A zero denominator yields 0 for that score and raises an
// UndefinedMetricWarning.
func PrecisionRecallF1(yTrue, yPred *mat.VecDense, positive float64) (precision, recall, f1 float64, err error) {
	n, err := validatePair("PrecisionRecallF1", yTrue, yPred)
	if err != nil {
		return 0, 0, 0, err
	}
	var tp, fp, fn float64
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i) == positive, yPred.AtVec(i) == positive
		switch {
		case t && p:
			tp++
		case p:
			fp++
		case t:
			fn++
		}
	}

	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples of the positive label", 0))
	} else {
		precision = tp / (tp + fp)
	}
	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples of the positive label", 0))
	} else {
		recall = tp / (tp + fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1, nil
}

// BinaryLogLoss returns the mean negative log-likelihood of 0/1 labels under
// the predicted positive-class probabilities, clipped to [1e-15, 1-1e-15].
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	const op = "BinaryLogLoss"
	n, err := validatePair(op, yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels(op, yTrue); err != nil {
		return 0, err
	}
	const eps = 1e-15
	loss := 0.0
	for i := 0; i < n; i++ {
		p := errors.ClipValue(yPred.AtVec(i), eps, 1-eps)
		if yTrue.AtVec(i) == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}

// AUC returns the area under the ROC curve computed from average ranks
// (Mann-Whitney U). With a single class present it warns and returns 0.5.
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	const op = "AUC"
	n, err := validatePair(op, yTrue, yScore)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels(op, yTrue); err != nil {
		return 0, err
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return yScore.AtVec(order[a]) < yScore.AtVec(order[b]) })

	var nPos, rankSum float64
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(order[j+1]) == yScore.AtVec(order[i]) {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if yTrue.AtVec(order[k]) == 1 {
				nPos++
				rankSum += avg
			}
		}
		i = j + 1
	}
	nNeg := float64(n) - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present in y_true", 0.5))
		return 0.5, nil
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}

// AUCMatrix computes AUC from the first column of each matrix.
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("AUCMatrix", "input matrices must not be nil")
	}
	r1, c1 := yTrue.Dims()
	r2, c2 := yScore.Dims()
	if r1 == 0 || c1 == 0 || r2 == 0 || c2 == 0 {
		return 0, errors.NewValueError("AUCMatrix", "input matrices must not be empty")
	}
	return AUC(mat.NewVecDense(r1, mat.Col(nil, 0, yTrue)), mat.NewVecDense(r2, mat.Col(nil, 0, yScore)))
}
