package ensemble

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// blobs returns two noisy clusters in three dimensions. The third feature
// is pure noise.
func blobs(n int, seed int64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		label := float64(i % 2)
		X.Set(i, 0, label*4+rng.NormFloat64())
		X.Set(i, 1, label*3+rng.NormFloat64())
		X.Set(i, 2, rng.NormFloat64())
		y.SetVec(i, label)
	}
	return X, y
}

func accuracy(t *testing.T, pred mat.Matrix, y *mat.VecDense) float64 {
	t.Helper()
	correct := 0
	for i := 0; i < y.Len(); i++ {
		if pred.At(i, 0) == y.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(y.Len())
}

func TestRandomForestClassifier_FitPredict(t *testing.T) {
	X, y := blobs(200, 1)
	Xt, yt := blobs(100, 2)

	rf := NewRandomForestClassifier(WithNEstimators(25), WithForestRandomState(42))
	require.NoError(t, rf.Fit(X, y))
	assert.Len(t, rf.Estimators(), 25)
	assert.Equal(t, []int{0, 1}, rf.Classes())

	pred, err := rf.Predict(Xt)
	require.NoError(t, err)
	assert.Greater(t, accuracy(t, pred, yt), 0.9)

	proba, err := rf.PredictProba(Xt)
	require.NoError(t, err)
	r, c := proba.Dims()
	require.Equal(t, 100, r)
	require.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-9)
	}

	imp := rf.FeatureImportances()
	require.Len(t, imp, 3)
	assert.Less(t, imp[2], imp[0])
	assert.InDelta(t, 1.0, imp[0]+imp[1]+imp[2], 1e-9)
}

func TestRandomForestClassifier_DeterministicAcrossWorkers(t *testing.T) {
	X, y := blobs(80, 3)

	probaWith := func(jobs int) []float64 {
		rf := NewRandomForestClassifier(WithNEstimators(12), WithForestRandomState(7), WithNJobs(jobs))
		require.NoError(t, rf.Fit(X, y))
		p, err := rf.PredictProba(X)
		require.NoError(t, err)
		return mat.Col(nil, 1, p)
	}
	assert.Equal(t, probaWith(1), probaWith(4))
}

func TestRandomForestClassifier_WithoutBootstrap(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{0, 1, 2, 10, 11, 12})
	y := mat.NewVecDense(6, []float64{0, 0, 0, 1, 1, 1})

	rf := NewRandomForestClassifier(WithNEstimators(5), WithBootstrap(false))
	require.NoError(t, rf.Fit(X, y))
	proba, err := rf.PredictProba(X)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		assert.Equal(t, y.AtVec(i), proba.At(i, 1))
	}
}

func TestRandomForestClassifier_Errors(t *testing.T) {
	var nf *errors.NotFittedError
	_, err := NewRandomForestClassifier().Predict(mat.NewDense(1, 1, nil))
	assert.True(t, errors.As(err, &nf))

	var ve *errors.ValidationError
	err = NewRandomForestClassifier(WithNEstimators(0)).Fit(mat.NewDense(2, 1, []float64{0, 1}), mat.NewVecDense(2, []float64{0, 1}))
	assert.True(t, errors.As(err, &ve))

	var se *errors.ShapeMismatchError
	err = NewRandomForestClassifier().Fit(mat.NewDense(2, 1, []float64{0, 1}), mat.NewVecDense(3, nil))
	assert.True(t, errors.As(err, &se))
}

func TestGradientBoostingClassifier_FitPredict(t *testing.T) {
	X, y := blobs(200, 4)
	Xt, yt := blobs(100, 5)

	gb := NewGradientBoostingClassifier(WithBoostingEstimators(30), WithBoostingMaxDepth(3), WithLearningRate(0.3))
	require.NoError(t, gb.Fit(X, y))

	pred, err := gb.Predict(Xt)
	require.NoError(t, err)
	assert.Greater(t, accuracy(t, pred, yt), 0.9)

	loss := gb.TrainLoss()
	require.Len(t, loss, 30)
	assert.InDelta(t, math.Log(2), loss[0], 1e-9)
	assert.Less(t, loss[len(loss)-1], loss[0])

	imp := gb.FeatureImportances()
	assert.Greater(t, imp[0], imp[2])
}

func TestGradientBoostingClassifier_NewtonStep(t *testing.T) {
	// A single round of depth 1 on a separable stump: each leaf moves by
	// -G/(H+lambda) scaled by the learning rate.
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewVecDense(4, []float64{0, 0, 1, 1})

	gb := NewGradientBoostingClassifier(
		WithBoostingEstimators(1),
		WithBoostingMaxDepth(1),
		WithLearningRate(1),
		WithLambda(0),
		WithMinChildWeight(0),
	)
	require.NoError(t, gb.Fit(X, y))

	scores, err := gb.DecisionFunction(X)
	require.NoError(t, err)
	// p = 0.5 everywhere: right leaf G = -1, H = 0.5 -> +2; left leaf -> -2
	assert.InDelta(t, -2.0, scores.AtVec(0), 1e-9)
	assert.InDelta(t, 2.0, scores.AtVec(3), 1e-9)
	assert.Equal(t, 1.5, gb.trees[0].nodes[0].threshold)
}

func TestGradientBoostingClassifier_AdjacentValues(t *testing.T) {
	lo := math.Nextafter(1, 2)
	hi := math.Nextafter(lo, 2)
	X := mat.NewDense(4, 1, []float64{lo, lo, hi, hi})
	y := mat.NewVecDense(4, []float64{0, 0, 1, 1})

	gb := NewGradientBoostingClassifier(
		WithBoostingEstimators(1),
		WithBoostingMaxDepth(1),
		WithLearningRate(1),
		WithLambda(0),
		WithMinChildWeight(0),
	)
	require.NoError(t, gb.Fit(X, y))
	assert.Equal(t, lo, gb.trees[0].nodes[0].threshold)

	scores, err := gb.DecisionFunction(X)
	require.NoError(t, err)
	assert.Less(t, scores.AtVec(0), 0.0)
	assert.Greater(t, scores.AtVec(3), 0.0)
}

func TestGradientBoostingClassifier_InitScore(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{5, 5, 5, 5})
	y := mat.NewVecDense(4, []float64{1, 0, 0, 0})

	gb := NewGradientBoostingClassifier(WithBoostingEstimators(1), WithLambda(1))
	require.NoError(t, gb.Fit(X, y))
	assert.InDelta(t, math.Log(1.0/3.0), gb.initScore, 1e-12)

	// constant feature: the only tree is a single leaf
	assert.Len(t, gb.trees[0].nodes, 1)
}

func TestGradientBoostingClassifier_Errors(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 1, 2})

	var ve *errors.ValueError
	err := NewGradientBoostingClassifier().Fit(X, mat.NewVecDense(3, []float64{0, 1, 2}))
	assert.True(t, errors.As(err, &ve))

	var val *errors.ValidationError
	err = NewGradientBoostingClassifier(WithLearningRate(0)).Fit(X, mat.NewVecDense(3, []float64{0, 1, 1}))
	assert.True(t, errors.As(err, &val))

	var nf *errors.NotFittedError
	_, err = NewGradientBoostingClassifier().PredictProba(X)
	assert.True(t, errors.As(err, &nf))
}

func TestBoostingParams(t *testing.T) {
	p := DefaultBoostingParams()
	require.NoError(t, p.Validate())

	gb := NewGradientBoostingClassifier(WithBoostingParams(BoostingParams{
		NEstimators: 10, LearningRate: 0.1, MaxDepth: 2, Lambda: 1,
	}))
	assert.Equal(t, 10, gb.GetParams()["n_estimators"])
	assert.Equal(t, "GradientBoostingClassifier(n_estimators=10, learning_rate=0.1, max_depth=2)", gb.String())
}
