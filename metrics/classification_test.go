package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

func vec(v []float64) *mat.VecDense {
	if len(v) == 0 {
		return nil
	}
	return mat.NewVecDense(len(v), v)
}

func TestAccuracyAndError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{0, 1, 2, 1, 0}, yPred: []float64{0, 1, 2, 1, 0}, want: 1.0},
		{name: "one miss", yTrue: []float64{0, 1, 2, 1, 0}, yPred: []float64{0, 1, 1, 1, 0}, want: 0.8},
		{name: "all wrong", yTrue: []float64{0, 0, 0}, yPred: []float64{1, 1, 1}, want: 0.0},
		{name: "approval example", yTrue: []float64{1, 0, 0, 1}, yPred: []float64{1, 0, 1, 1}, want: 0.75},
		{name: "empty", wantErr: true},
		{name: "length mismatch", yTrue: []float64{0, 1}, yPred: []float64{0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := Accuracy(vec(tt.yTrue), vec(tt.yPred))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, acc, 1e-12)

			e, err := ClassificationError(vec(tt.yTrue), vec(tt.yPred))
			require.NoError(t, err)
			assert.InDelta(t, 1-tt.want, e, 1e-12)
		})
	}
}

func TestAccuracyErrorTypes(t *testing.T) {
	_, err := Accuracy(vec([]float64{0, 1}), vec([]float64{0}))
	var shape *errors.ShapeMismatchError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, 2, shape.Expected)
	assert.Equal(t, 1, shape.Got)

	_, err = Accuracy(nil, nil)
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestConfusionMatrix(t *testing.T) {
	// predictions [1,0,1,1] against truth [1,0,0,1]
	cm, err := ConfusionMatrix(vec([]float64{1, 0, 0, 1}), vec([]float64{1, 0, 1, 1}))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1}, cm.Labels)
	assert.Equal(t, 2, cm.Count(1, 1))
	assert.Equal(t, 1, cm.Count(0, 0))
	assert.Equal(t, 1, cm.Count(1, 0))
	assert.Equal(t, 0, cm.Count(0, 1))
	assert.Equal(t, 0, cm.Count(5, 1))
	assert.Equal(t, 4, cm.Total())

	// rows are true labels
	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, cm.Rows())
	assert.Equal(t, "true\\pred         0         1\n        0         1         1\n        1         0         2\n", cm.String())
}

func TestConfusionMatrixLabelUnion(t *testing.T) {
	cm, err := ConfusionMatrix(vec([]float64{0, 0, 0}), vec([]float64{0, 2, 2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, cm.Labels)
	assert.Equal(t, 2, cm.Count(2, 0))

	_, err = ConfusionMatrix(vec([]float64{0}), vec([]float64{0, 1}))
	var shape *errors.ShapeMismatchError
	assert.True(t, errors.As(err, &shape))
}

func TestPrecisionRecallF1(t *testing.T) {
	p, r, f1, err := PrecisionRecallF1(vec([]float64{1, 0, 0, 1}), vec([]float64{1, 0, 1, 1}), 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, p, 1e-12)
	assert.InDelta(t, 1.0, r, 1e-12)
	assert.InDelta(t, 0.8, f1, 1e-12)

	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	p, r, f1, err = PrecisionRecallF1(vec([]float64{0, 0}), vec([]float64{0, 0}), 1)
	require.NoError(t, err)
	assert.Zero(t, p)
	assert.Zero(t, r)
	assert.Zero(t, f1)
	require.Len(t, warnings, 2)
	var uw *errors.UndefinedMetricWarning
	require.True(t, errors.As(warnings[0], &uw))
	assert.Equal(t, "precision", uw.Metric)
}

func TestBinaryLogLoss(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{0, 0, 1, 1}, yPred: []float64{0, 0, 1, 1}, want: 0.0},
		{name: "typical", yTrue: []float64{0, 0, 1, 1}, yPred: []float64{0.1, 0.2, 0.8, 0.9}, want: 0.164252},
		{name: "worst", yTrue: []float64{0, 0, 1, 1}, yPred: []float64{0.9, 0.9, 0.1, 0.1}, want: 2.302585},
		{name: "non-binary labels", yTrue: []float64{0, 0.5, 1}, yPred: []float64{0.1, 0.5, 0.9}, wantErr: true},
		{name: "empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinaryLogLoss(vec(tt.yTrue), vec(tt.yPred))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-5)
		})
	}
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yScore  []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{0, 0, 0, 1, 1, 1}, yScore: []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}, want: 1.0},
		{name: "inverted", yTrue: []float64{0, 0, 0, 1, 1, 1}, yScore: []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1}, want: 0.0},
		{name: "all ties", yTrue: []float64{0, 1, 0, 1}, yScore: []float64{0.5, 0.5, 0.5, 0.5}, want: 0.5},
		{name: "typical", yTrue: []float64{0, 0, 1, 1}, yScore: []float64{0.1, 0.4, 0.35, 0.8}, want: 0.75},
		{name: "single class", yTrue: []float64{1, 1, 1, 1}, yScore: []float64{0.1, 0.4, 0.35, 0.8}, want: 0.5},
		{name: "non-binary labels", yTrue: []float64{0, 0.5, 1}, yScore: []float64{0.1, 0.5, 0.9}, wantErr: true},
		{name: "length mismatch", yTrue: []float64{0, 1}, yScore: []float64{0.5}, wantErr: true},
		{name: "empty", wantErr: true},
	}

	errors.SetWarningHandler(func(error) {})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(vec(tt.yTrue), vec(tt.yScore))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAUCMatrix(t *testing.T) {
	got, err := AUCMatrix(
		mat.NewDense(4, 2, []float64{0, 9, 0, 9, 1, 9, 1, 9}),
		mat.NewDense(4, 2, []float64{0.1, 9, 0.4, 9, 0.35, 9, 0.8, 9}),
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-9)

	_, err = AUCMatrix(nil, mat.NewDense(1, 1, []float64{0.5}))
	assert.Error(t, err)
	_, err = AUCMatrix(&mat.Dense{}, &mat.Dense{})
	assert.Error(t, err)
}

func BenchmarkAUC(b *testing.B) {
	n := 1000
	yTrue := make([]float64, n)
	yScore := make([]float64, n)
	for i := 0; i < n; i++ {
		if i >= n/2 {
			yTrue[i] = 1
		}
		yScore[i] = math.Mod(float64(i)*0.618, 1)
	}
	yTrueVec := mat.NewVecDense(n, yTrue)
	yScoreVec := mat.NewVecDense(n, yScore)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AUC(yTrueVec, yScoreVec)
	}
}

func TestConfusionMarshalJSON(t *testing.T) {
	cm, err := ConfusionMatrix(vec([]float64{1, 0, 0, 1}), vec([]float64{1, 0, 1, 1}))
	require.NoError(t, err)
	b, err := json.Marshal(cm)
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels":[0,1],"counts":[[1,1],[0,2]]}`, string(b))
}
