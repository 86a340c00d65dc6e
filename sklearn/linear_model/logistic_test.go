package linear_model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// TestLogisticRegression_FitPredict_Binary tests binary classification
func TestLogisticRegression_FitPredict_Binary(t *testing.T) {
	// Class 0: points around (1, 1)
	// Class 1: points around (3, 3)
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})

	y := mat.NewDense(6, 1, []float64{
		0, 0, 0,
		1, 1, 1,
	})

	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRTol(1e-4),
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	predictions, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	for i := 0; i < 6; i++ {
		pred := predictions.At(i, 0)
		actual := y.At(i, 0)
		if pred != actual {
			t.Errorf("Sample %d: expected %v, got %v", i, actual, pred)
		}
	}

	XTest := mat.NewDense(2, 2, []float64{
		1.0, 1.0,
		3.0, 3.0,
	})

	testPreds, err := lr.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict on test data: %v", err)
	}

	if testPreds.At(0, 0) != 0 {
		t.Errorf("Test point (1,1) should be class 0, got %v", testPreds.At(0, 0))
	}
	if testPreds.At(1, 0) != 1 {
		t.Errorf("Test point (3,3) should be class 1, got %v", testPreds.At(1, 0))
	}
}

// TestLogisticRegression_PredictProba tests probability predictions
func TestLogisticRegression_PredictProba(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 3, 4})
	y := mat.NewVecDense(4, []float64{0, 0, 1, 1})

	lr := NewLogisticRegression(WithLRMaxIter(500))
	require.NoError(t, lr.Fit(X, y))

	proba, err := lr.PredictProba(X)
	require.NoError(t, err)

	rows, cols := proba.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 2, cols)

	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-9)
	}
	// monotone in the single feature
	for i := 1; i < rows; i++ {
		assert.Greater(t, proba.At(i, 1), proba.At(i-1, 1))
	}
	assert.Equal(t, []int{0, 1}, lr.Classes())
}

func TestLogisticRegression_Multiclass(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		0, 0, 0.2, 0.1, 0.1, 0.3,
		5, 0, 5.2, 0.1, 4.9, 0.2,
		0, 5, 0.1, 5.2, 0.2, 4.8,
	})
	y := mat.NewVecDense(9, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	lr := NewLogisticRegression(WithLRC(100), WithLRMaxIter(2000), WithLRLearningRate(0.2))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, []int{0, 1, 2}, lr.Classes())

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	proba, err := lr.PredictProba(X)
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		assert.InDelta(t, 1.0, mat.Sum(proba.(*mat.Dense).RowView(i)), 1e-9)
	}
}

func TestLogisticRegression_Regularization(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := mat.NewVecDense(6, []float64{0, 0, 0, 1, 1, 1})

	weak := NewLogisticRegression(WithLRC(100), WithLRMaxIter(300))
	strong := NewLogisticRegression(WithLRC(0.01), WithLRMaxIter(300))
	require.NoError(t, weak.Fit(X, y))
	require.NoError(t, strong.Fit(X, y))

	assert.Greater(t, math.Abs(weak.Coef().At(0, 0)), math.Abs(strong.Coef().At(0, 0)))
}

func TestLogisticRegression_ConvergenceWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	X := mat.NewDense(4, 1, []float64{0, 1000, 2000, 3000})
	y := mat.NewVecDense(4, []float64{0, 1, 0, 1})

	lr := NewLogisticRegression(WithLRMaxIter(3))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, 3, lr.NIter())

	require.NotEmpty(t, warnings)
	var cw *errors.ConvergenceWarning
	assert.True(t, errors.As(warnings[0], &cw))
	assert.Equal(t, "LogisticRegression", cw.Algorithm)
}

func TestLogisticRegression_Errors(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	t.Run("not fitted", func(t *testing.T) {
		_, err := NewLogisticRegression().Predict(X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("row mismatch", func(t *testing.T) {
		err := NewLogisticRegression().Fit(X, mat.NewVecDense(2, []float64{0, 1}))
		var shapeErr *errors.ShapeMismatchError
		assert.True(t, errors.As(err, &shapeErr))
	})

	t.Run("single class", func(t *testing.T) {
		err := NewLogisticRegression().Fit(X, mat.NewVecDense(3, []float64{1, 1, 1}))
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("nan input", func(t *testing.T) {
		bad := mat.NewDense(2, 1, []float64{math.NaN(), 1})
		err := NewLogisticRegression().Fit(bad, mat.NewVecDense(2, []float64{0, 1}))
		var inst *errors.NumericalInstabilityError
		assert.True(t, errors.As(err, &inst))
	})

	t.Run("invalid C", func(t *testing.T) {
		err := NewLogisticRegression(WithLRC(0)).Fit(X, mat.NewVecDense(3, []float64{0, 1, 0}))
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("feature mismatch", func(t *testing.T) {
		lr := NewLogisticRegression()
		require.NoError(t, lr.Fit(X, mat.NewVecDense(3, []float64{0, 1, 0})))
		_, err := lr.Predict(mat.NewDense(1, 3, nil))
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 1, dimErr.Axis)
	})
}

func TestLogisticRegression_GetParamsAndString(t *testing.T) {
	lr := NewLogisticRegression(WithLRC(0.5), WithLogisticFitIntercept(false))
	params := lr.GetParams()
	assert.Equal(t, 0.5, params["C"])
	assert.Equal(t, false, params["fit_intercept"])
	assert.Equal(t, "LogisticRegression(C=0.5, max_iter=100)", lr.String())
	assert.False(t, lr.IsFitted())
}
