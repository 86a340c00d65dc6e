// Package ensemble provides tree ensembles: bagged random forests and
// second-order gradient boosting.
package ensemble

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/core/parallel"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
	"github.com/madankc71/Credit-Card-Approval-Prediction/sklearn/tree"
)

// RandomForestClassifier averages the class probabilities of decision trees
// fitted on bootstrap samples with a random feature subset per split.
type RandomForestClassifier struct {
	state *model.StateManager

	nEstimators     int
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	bootstrap       bool
	randomState     int64
	nJobs           int

	estimators []*tree.DecisionTreeClassifier
	// columns of each estimator's PredictProba in the forest's class order
	classMap [][]int
	classes  []int

	logger log.Logger
}

// ForestOption configures a RandomForestClassifier.
type ForestOption func(*RandomForestClassifier)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) ForestOption {
	return func(rf *RandomForestClassifier) { rf.nEstimators = n }
}

// WithForestCriterion sets the split criterion of every tree.
func WithForestCriterion(criterion string) ForestOption {
	return func(rf *RandomForestClassifier) { rf.criterion = criterion }
}

// WithForestMaxDepth limits tree depth. Zero or less means unlimited.
func WithForestMaxDepth(depth int) ForestOption {
	return func(rf *RandomForestClassifier) { rf.maxDepth = depth }
}

// WithForestMinSamplesSplit sets min_samples_split of every tree.
func WithForestMinSamplesSplit(n int) ForestOption {
	return func(rf *RandomForestClassifier) { rf.minSamplesSplit = n }
}

// WithForestMinSamplesLeaf sets min_samples_leaf of every tree.
func WithForestMinSamplesLeaf(n int) ForestOption {
	return func(rf *RandomForestClassifier) { rf.minSamplesLeaf = n }
}

// WithForestMaxFeatures sets max_features of every tree, see tree.WithMaxFeatures.
func WithForestMaxFeatures(n int) ForestOption {
	return func(rf *RandomForestClassifier) { rf.maxFeatures = n }
}

// WithBootstrap toggles bootstrap sampling. Without it every tree sees all rows.
func WithBootstrap(bootstrap bool) ForestOption {
	return func(rf *RandomForestClassifier) { rf.bootstrap = bootstrap }
}

// WithForestRandomState seeds the forest.
func WithForestRandomState(seed int64) ForestOption {
	return func(rf *RandomForestClassifier) { rf.randomState = seed }
}

// WithNJobs sets the number of goroutines fitting trees. Zero or less uses
// every CPU. The fitted forest does not depend on it.
func WithNJobs(n int) ForestOption {
	return func(rf *RandomForestClassifier) { rf.nJobs = n }
}

// NewRandomForestClassifier creates a forest with sklearn's defaults.
func NewRandomForestClassifier(opts ...ForestOption) *RandomForestClassifier {
	rf := &RandomForestClassifier{
		state:           model.NewStateManager(),
		nEstimators:     100,
		criterion:       tree.CriterionGini,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     tree.MaxFeaturesSqrt,
		bootstrap:       true,
		logger:          log.GetLoggerWithName("RandomForestClassifier"),
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// Fit grows nEstimators trees concurrently. Each tree draws its bootstrap
// sample and feature permutations from its own seed, taken in order from
// the forest's seed, so results are reproducible for any nJobs.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	const op = "RandomForestClassifier.Fit"
	if rf.nEstimators <= 0 {
		return errors.NewValidationError("n_estimators", "must be positive", rf.nEstimators)
	}
	nSamples, nFeatures, err := model.ValidateFitInput(op, X, y)
	if err != nil {
		return err
	}

	rf.state.Reset()
	rf.classes = model.UniqueClasses(y)

	master := rand.New(rand.NewSource(rf.randomState))
	seeds := make([]int64, rf.nEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	estimators := make([]*tree.DecisionTreeClassifier, rf.nEstimators)
	fitErrs := make([]error, rf.nEstimators)

	parallel.ForEach(rf.nEstimators, rf.nJobs, func(i int) {
		rng := rand.New(rand.NewSource(seeds[i]))
		Xb, yb := X, y
		if rf.bootstrap {
			Xb, yb = bootstrapSample(X, y, rng)
		}
		est := tree.NewDecisionTreeClassifier(
			tree.WithCriterion(rf.criterion),
			tree.WithMaxDepth(rf.maxDepth),
			tree.WithMinSamplesSplit(rf.minSamplesSplit),
			tree.WithMinSamplesLeaf(rf.minSamplesLeaf),
			tree.WithMaxFeatures(rf.maxFeatures),
			tree.WithRandomState(rng.Int63()),
		)
		fitErrs[i] = errors.SafeExecute(op, func() error { return est.Fit(Xb, yb) })
		estimators[i] = est
	})

	for i, err := range fitErrs {
		if err != nil {
			return errors.Wrapf(err, "%s: estimator %d", op, i)
		}
	}

	pos := make(map[int]int, len(rf.classes))
	for k, c := range rf.classes {
		pos[c] = k
	}
	rf.classMap = make([][]int, len(estimators))
	for i, est := range estimators {
		for _, c := range est.Classes() {
			rf.classMap[i] = append(rf.classMap[i], pos[c])
		}
	}
	rf.estimators = estimators

	rf.state.SetDimensions(nFeatures, nSamples)
	rf.state.SetFitted()

	rf.logger.Debug("Model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.EstimatorsKey, rf.nEstimators,
	)
	return nil
}

// bootstrapSample draws len(y) rows with replacement.
func bootstrapSample(X, y mat.Matrix, rng *rand.Rand) (*mat.Dense, *mat.VecDense) {
	n, p := X.Dims()
	Xb := mat.NewDense(n, p, nil)
	yb := mat.NewVecDense(n, nil)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		src := rng.Intn(n)
		mat.Row(row, src, X)
		Xb.SetRow(i, row)
		yb.SetVec(i, y.At(src, 0))
	}
	return Xb, yb
}

// PredictProba averages the estimators' probabilities. Classes a tree never
// saw in its bootstrap sample contribute zero.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := model.ValidatePredictInput("RandomForestClassifier.PredictProba", "RandomForestClassifier", "PredictProba", rf.state, X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	sum := mat.NewDense(r, len(rf.classes), nil)
	for t, est := range rf.estimators {
		p, err := est.PredictProba(X)
		if err != nil {
			return nil, errors.Wrapf(err, "RandomForestClassifier.PredictProba: estimator %d", t)
		}
		for i := 0; i < r; i++ {
			for k, col := range rf.classMap[t] {
				sum.Set(i, col, sum.At(i, col)+p.At(i, k))
			}
		}
	}
	sum.Scale(1/float64(len(rf.estimators)), sum)
	return sum, nil
}

// Predict returns the class with the highest averaged probability.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, errors.Wrap(err, "RandomForestClassifier.Predict")
	}
	return model.ArgmaxPredict(proba, rf.classes), nil
}

// Classes returns the fitted labels in ascending order.
func (rf *RandomForestClassifier) Classes() []int {
	return append([]int(nil), rf.classes...)
}

// Estimators returns the fitted trees.
func (rf *RandomForestClassifier) Estimators() []*tree.DecisionTreeClassifier {
	return append([]*tree.DecisionTreeClassifier(nil), rf.estimators...)
}

// FeatureImportances averages the trees' normalized importances.
func (rf *RandomForestClassifier) FeatureImportances() []float64 {
	if len(rf.estimators) == 0 {
		return nil
	}
	nFeatures, _ := rf.state.GetDimensions()
	imp := make([]float64, nFeatures)
	for _, est := range rf.estimators {
		floats.Add(imp, est.GetFeatureImportances())
	}
	floats.Scale(1/float64(len(rf.estimators)), imp)
	return imp
}

// IsFitted reports whether Fit has completed.
func (rf *RandomForestClassifier) IsFitted() bool {
	return rf.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (rf *RandomForestClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      rf.nEstimators,
		"criterion":         rf.criterion,
		"max_depth":         rf.maxDepth,
		"min_samples_split": rf.minSamplesSplit,
		"min_samples_leaf":  rf.minSamplesLeaf,
		"max_features":      rf.maxFeatures,
		"bootstrap":         rf.bootstrap,
		"random_state":      rf.randomState,
	}
}

// String returns a short description of the model.
func (rf *RandomForestClassifier) String() string {
	return fmt.Sprintf("RandomForestClassifier(n_estimators=%d, criterion=%s)", rf.nEstimators, rf.criterion)
}
