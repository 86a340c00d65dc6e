// Package tree provides CART decision tree classifiers.
package tree

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// Criterion names accepted by WithCriterion.
const (
	CriterionGini    = "gini"
	CriterionEntropy = "entropy"
)

// MaxFeaturesAll and MaxFeaturesSqrt are sentinel values for WithMaxFeatures.
const (
	MaxFeaturesAll  = 0
	MaxFeaturesSqrt = -1
)

// node is a tree node. Leaves carry the class distribution of their samples.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	proba     []float64
	nSamples  int
	impurity  float64
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// DecisionTreeClassifier is a CART classifier.
type DecisionTreeClassifier struct {
	state *model.StateManager

	criterion       string
	maxDepth        int // <= 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	randomState     int64

	root        *node
	classes     []int
	nClasses    int
	importances []float64
	depth       int
	nLeaves     int

	logger log.Logger
}

// Option configures a DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

// WithCriterion sets the impurity measure, "gini" or "entropy".
func WithCriterion(criterion string) Option {
	return func(dt *DecisionTreeClassifier) { dt.criterion = criterion }
}

// WithMaxDepth limits the depth of the tree. Zero or less means unlimited.
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) { dt.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum number of samples needed to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) { dt.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(dt *DecisionTreeClassifier) { dt.minSamplesLeaf = n }
}

// WithMaxFeatures sets how many features are considered per split:
// MaxFeaturesAll, MaxFeaturesSqrt or a positive count.
func WithMaxFeatures(n int) Option {
	return func(dt *DecisionTreeClassifier) { dt.maxFeatures = n }
}

// WithRandomState seeds the feature permutation drawn at every node.
func WithRandomState(seed int64) Option {
	return func(dt *DecisionTreeClassifier) { dt.randomState = seed }
}

// NewDecisionTreeClassifier creates a classifier with sklearn's defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		criterion:       CriterionGini,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     MaxFeaturesAll,
		logger:          log.GetLoggerWithName("DecisionTreeClassifier"),
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

func (dt *DecisionTreeClassifier) validateParams() error {
	if dt.criterion != CriterionGini && dt.criterion != CriterionEntropy {
		return errors.NewValidationError("criterion", "must be 'gini' or 'entropy'", dt.criterion)
	}
	if dt.minSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be at least 2", dt.minSamplesSplit)
	}
	if dt.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", dt.minSamplesLeaf)
	}
	if dt.maxFeatures < MaxFeaturesSqrt {
		return errors.NewValidationError("max_features", "must be a positive count, 0 (all) or -1 (sqrt)", dt.maxFeatures)
	}
	return nil
}

// builder holds the per-fit working state.
type builder struct {
	dt       *DecisionTreeClassifier
	cols     [][]float64
	labels   []int
	rng      *rand.Rand
	nFeat    int
	tryFeat  int
	nTotal   float64
	gains    []float64
	values   []float64
	order    []int
	maxDepth int
	nLeaves  int
}

// Fit builds the tree from X and the integer labels in y.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	const op = "DecisionTreeClassifier.Fit"
	if err := dt.validateParams(); err != nil {
		return err
	}
	nSamples, nFeatures, err := model.ValidateFitInput(op, X, y)
	if err != nil {
		return err
	}

	dt.state.Reset()
	dt.classes = model.UniqueClasses(y)
	dt.nClasses = len(dt.classes)

	b := &builder{
		dt:      dt,
		cols:    model.Columns(X),
		labels:  model.ClassIndex(y, dt.classes),
		rng:     rand.New(rand.NewSource(dt.randomState)),
		nFeat:   nFeatures,
		tryFeat: dt.featuresPerSplit(nFeatures),
		nTotal:  float64(nSamples),
		gains:   make([]float64, nFeatures),
		values:  make([]float64, nSamples),
		order:   make([]int, nSamples),
	}

	idx := make([]int, nSamples)
	for i := range idx {
		idx[i] = i
	}
	dt.root = b.build(idx, 0)
	dt.depth = b.maxDepth
	dt.nLeaves = b.nLeaves

	if total := floats.Sum(b.gains); total > 0 {
		floats.Scale(1/total, b.gains)
	}
	dt.importances = b.gains

	dt.state.SetDimensions(nFeatures, nSamples)
	dt.state.SetFitted()

	dt.logger.Debug("Model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, dt.nClasses,
		log.MaxDepthKey, dt.depth,
	)
	return nil
}

func (dt *DecisionTreeClassifier) featuresPerSplit(nFeatures int) int {
	switch {
	case dt.maxFeatures == MaxFeaturesSqrt:
		return int(math.Max(1, math.Floor(math.Sqrt(float64(nFeatures)))))
	case dt.maxFeatures == MaxFeaturesAll || dt.maxFeatures > nFeatures:
		return nFeatures
	default:
		return dt.maxFeatures
	}
}

func (b *builder) counts(idx []int) []float64 {
	c := make([]float64, b.dt.nClasses)
	for _, i := range idx {
		c[b.labels[i]]++
	}
	return c
}

func (b *builder) impurity(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	imp := 0.0
	if b.dt.criterion == CriterionEntropy {
		for _, c := range counts {
			if c > 0 {
				p := c / n
				imp -= p * math.Log2(p)
			}
		}
		return imp
	}
	imp = 1.0
	for _, c := range counts {
		p := c / n
		imp -= p * p
	}
	return imp
}

func (b *builder) build(idx []int, depth int) *node {
	counts := b.counts(idx)
	n := float64(len(idx))
	nd := &node{
		nSamples: len(idx),
		impurity: b.impurity(counts, n),
		proba:    make([]float64, len(counts)),
	}
	floats.ScaleTo(nd.proba, 1/n, counts)
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	if nd.impurity <= 1e-12 ||
		len(idx) < b.dt.minSamplesSplit ||
		len(idx) < 2*b.dt.minSamplesLeaf ||
		(b.dt.maxDepth > 0 && depth >= b.dt.maxDepth) {
		b.nLeaves++
		return nd
	}

	feature, threshold, childImp, ok := b.bestSplit(idx, counts)
	if !ok {
		b.nLeaves++
		return nd
	}

	var left, right []int
	for _, i := range idx {
		if b.cols[feature][i] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.gains[feature] += n / b.nTotal * (nd.impurity - childImp)
	nd.feature = feature
	nd.threshold = threshold
	nd.left = b.build(left, depth+1)
	nd.right = b.build(right, depth+1)
	return nd
}

// bestSplit scans the candidate features in a seeded random order and
// returns the split with the lowest weighted child impurity. The first
// candidate found wins ties.
func (b *builder) bestSplit(idx []int, parent []float64) (feature int, threshold, childImp float64, ok bool) {
	n := len(idx)
	nf := float64(n)
	minLeaf := b.dt.minSamplesLeaf
	best := math.Inf(1)

	order := b.order[:n]
	values := b.values[:n]
	leftCounts := make([]float64, len(parent))
	rightCounts := make([]float64, len(parent))

	perm := b.rng.Perm(b.nFeat)
	visited := 0
	for _, f := range perm {
		if visited >= b.tryFeat && ok {
			break
		}
		visited++

		col := b.cols[f]
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return col[order[a]] < col[order[c]] })
		for k, i := range order {
			values[k] = col[i]
		}
		if values[0] == values[n-1] {
			continue
		}

		for k := range leftCounts {
			leftCounts[k] = 0
		}
		copy(rightCounts, parent)

		for k := 0; k < n-1; k++ {
			c := b.labels[order[k]]
			leftCounts[c]++
			rightCounts[c]--

			nl := k + 1
			if values[k] == values[k+1] || nl < minLeaf || n-nl < minLeaf {
				continue
			}
			fl := float64(nl)
			imp := (fl*b.impurity(leftCounts, fl) + (nf-fl)*b.impurity(rightCounts, nf-fl)) / nf
			if imp < best {
				best = imp
				feature = f
				threshold = SplitThreshold(values[k], values[k+1])
				childImp = imp
				ok = true
			}
		}
	}
	return feature, threshold, childImp, ok
}

func (dt *DecisionTreeClassifier) leaf(X mat.Matrix, i int) *node {
	nd := dt.root
	for !nd.isLeaf() {
		if X.At(i, nd.feature) <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd
}

// PredictProba returns the class distribution of the leaf each sample falls in.
// Columns follow Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := model.ValidatePredictInput("DecisionTreeClassifier.PredictProba", "DecisionTreeClassifier", "PredictProba", dt.state, X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	proba := mat.NewDense(r, dt.nClasses, nil)
	for i := 0; i < r; i++ {
		proba.SetRow(i, dt.leaf(X, i).proba)
	}
	return proba, nil
}

// Predict returns the majority class of each sample's leaf.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := dt.PredictProba(X)
	if err != nil {
		return nil, errors.Wrap(err, "DecisionTreeClassifier.Predict")
	}
	return model.ArgmaxPredict(proba, dt.classes), nil
}

// Score returns the mean accuracy on the given data.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	pr, _ := pred.Dims()
	if rows != pr {
		return 0, errors.NewShapeMismatchError("DecisionTreeClassifier.Score", pr, rows)
	}
	correct := 0
	for i := 0; i < rows; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(rows), nil
}

// Classes returns the fitted labels in ascending order.
func (dt *DecisionTreeClassifier) Classes() []int {
	return append([]int(nil), dt.classes...)
}

// GetFeatureImportances returns the normalized impurity decrease per feature.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return append([]float64(nil), dt.importances...)
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeClassifier) GetDepth() int {
	return dt.depth
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	return dt.nLeaves
}

// IsFitted reports whether Fit has completed.
func (dt *DecisionTreeClassifier) IsFitted() bool {
	return dt.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
		"min_samples_leaf":  dt.minSamplesLeaf,
		"max_features":      dt.maxFeatures,
		"random_state":      dt.randomState,
	}
}

// SetParams updates hyperparameters by name. The model must be refitted.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			v, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			dt.criterion = v
		case "max_depth", "min_samples_split", "min_samples_leaf", "max_features":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			switch key {
			case "max_depth":
				dt.maxDepth = v
			case "min_samples_split":
				dt.minSamplesSplit = v
			case "min_samples_leaf":
				dt.minSamplesLeaf = v
			default:
				dt.maxFeatures = v
			}
		case "random_state":
			v, ok := value.(int64)
			if !ok {
				return errors.NewValidationError(key, "must be an int64", value)
			}
			dt.randomState = v
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	dt.state.Reset()
	return dt.validateParams()
}

// String returns a short description of the model.
func (dt *DecisionTreeClassifier) String() string {
	if !dt.state.IsFitted() {
		return fmt.Sprintf("DecisionTreeClassifier(criterion=%s, max_depth=%d)", dt.criterion, dt.maxDepth)
	}
	return fmt.Sprintf("DecisionTreeClassifier(criterion=%s, depth=%d, leaves=%d)", dt.criterion, dt.depth, dt.nLeaves)
}

// SplitThreshold returns the midpoint of two consecutive distinct sorted
// values lo < hi. When lo and hi are adjacent floats the midpoint can round
// up to hi, which would send both sides left; lo is returned instead.
func SplitThreshold(lo, hi float64) float64 {
	mid := lo + (hi-lo)/2
	if mid >= hi || math.IsInf(mid, 0) {
		return lo
	}
	return mid
}
