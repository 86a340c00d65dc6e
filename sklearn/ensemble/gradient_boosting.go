package ensemble

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
	"github.com/madankc71/Credit-Card-Approval-Prediction/sklearn/tree"
)

// BoostingParams holds the hyperparameters of GradientBoostingClassifier.
// Defaults follow XGBoost's binary:logistic booster.
type BoostingParams struct {
	NEstimators    int     `json:"n_estimators" mapstructure:"n_estimators" yaml:"n_estimators"`
	LearningRate   float64 `json:"learning_rate" mapstructure:"learning_rate" yaml:"learning_rate"`
	MaxDepth       int     `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
	Lambda         float64 `json:"reg_lambda" mapstructure:"reg_lambda" yaml:"reg_lambda"`
	MinChildWeight float64 `json:"min_child_weight" mapstructure:"min_child_weight" yaml:"min_child_weight"`
	MinGainToSplit float64 `json:"gamma" mapstructure:"gamma" yaml:"gamma"`
}

// DefaultBoostingParams returns XGBoost's defaults.
func DefaultBoostingParams() BoostingParams {
	return BoostingParams{
		NEstimators:    100,
		LearningRate:   0.3,
		MaxDepth:       6,
		Lambda:         1.0,
		MinChildWeight: 1.0,
	}
}

// Validate checks parameter ranges.
func (p BoostingParams) Validate() error {
	switch {
	case p.NEstimators <= 0:
		return errors.NewValidationError("n_estimators", "must be positive", p.NEstimators)
	case !(p.LearningRate > 0):
		return errors.NewValidationError("learning_rate", "must be positive", p.LearningRate)
	case p.MaxDepth <= 0:
		return errors.NewValidationError("max_depth", "must be positive", p.MaxDepth)
	case p.Lambda < 0:
		return errors.NewValidationError("reg_lambda", "must be non-negative", p.Lambda)
	case p.MinChildWeight < 0:
		return errors.NewValidationError("min_child_weight", "must be non-negative", p.MinChildWeight)
	case p.MinGainToSplit < 0:
		return errors.NewValidationError("gamma", "must be non-negative", p.MinGainToSplit)
	}
	return nil
}

// BoostingOption configures a GradientBoostingClassifier.
type BoostingOption func(*BoostingParams)

// WithBoostingEstimators sets the number of boosting rounds.
func WithBoostingEstimators(n int) BoostingOption {
	return func(p *BoostingParams) { p.NEstimators = n }
}

// WithLearningRate sets the shrinkage applied to every leaf value.
func WithLearningRate(rate float64) BoostingOption {
	return func(p *BoostingParams) { p.LearningRate = rate }
}

// WithBoostingMaxDepth sets the depth of every regression tree.
func WithBoostingMaxDepth(depth int) BoostingOption {
	return func(p *BoostingParams) { p.MaxDepth = depth }
}

// WithLambda sets the L2 penalty on leaf values.
func WithLambda(lambda float64) BoostingOption {
	return func(p *BoostingParams) { p.Lambda = lambda }
}

// WithMinChildWeight sets the minimum hessian sum of a child.
func WithMinChildWeight(w float64) BoostingOption {
	return func(p *BoostingParams) { p.MinChildWeight = w }
}

// WithMinGainToSplit sets the minimum loss reduction of a split.
func WithMinGainToSplit(gain float64) BoostingOption {
	return func(p *BoostingParams) { p.MinGainToSplit = gain }
}

// WithBoostingParams replaces all parameters at once.
func WithBoostingParams(params BoostingParams) BoostingOption {
	return func(p *BoostingParams) { *p = params }
}

// regNode is a node of a regression tree stored in a flat slice.
// Leaves have left == -1.
type regNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	gain      float64
}

type regTree struct {
	nodes []regNode
}

func (t *regTree) predict(row func(int) float64) float64 {
	i := 0
	for t.nodes[i].left >= 0 {
		if row(t.nodes[i].feature) <= t.nodes[i].threshold {
			i = t.nodes[i].left
		} else {
			i = t.nodes[i].right
		}
	}
	return t.nodes[i].value
}

// GradientBoostingClassifier is a binary classifier boosting regression
// trees on the logistic loss with Newton steps: leaf value -G/(H+lambda)
// and split gain 0.5*(GL²/(HL+λ) + GR²/(HR+λ) - G²/(H+λ)).
type GradientBoostingClassifier struct {
	state  *model.StateManager
	params BoostingParams

	trees     []regTree
	initScore float64
	classes   []int
	trainLoss []float64

	logger log.Logger
}

// NewGradientBoostingClassifier creates a classifier with XGBoost's defaults.
func NewGradientBoostingClassifier(opts ...BoostingOption) *GradientBoostingClassifier {
	params := DefaultBoostingParams()
	for _, opt := range opts {
		opt(&params)
	}
	return &GradientBoostingClassifier{
		state:  model.NewStateManager(),
		params: params,
		logger: log.GetLoggerWithName("GradientBoostingClassifier"),
	}
}

// boostBuilder grows one regression tree over presorted feature orders.
type boostBuilder struct {
	params BoostingParams
	cols   [][]float64
	grad   []float64
	hess   []float64
	raw    []float64
	goLeft []bool
	nodes  []regNode
}

// Fit runs NEstimators boosting rounds starting from the log-odds of the
// positive class rate.
func (gb *GradientBoostingClassifier) Fit(X, y mat.Matrix) error {
	const op = "GradientBoostingClassifier.Fit"
	if err := gb.params.Validate(); err != nil {
		return err
	}
	nSamples, nFeatures, err := model.ValidateFitInput(op, X, y)
	if err != nil {
		return err
	}

	classes := model.UniqueClasses(y)
	if len(classes) != 2 {
		return errors.NewValueError(op, fmt.Sprintf("binary classification only, got %d classes", len(classes)))
	}

	gb.state.Reset()
	gb.classes = classes
	target := make([]float64, nSamples)
	positives := 0.0
	for i, c := range model.ClassIndex(y, classes) {
		target[i] = float64(c)
		positives += target[i]
	}
	rate := positives / float64(nSamples)
	gb.initScore = math.Log(rate / (1 - rate))

	b := &boostBuilder{
		params: gb.params,
		cols:   model.Columns(X),
		grad:   make([]float64, nSamples),
		hess:   make([]float64, nSamples),
		raw:    make([]float64, nSamples),
		goLeft: make([]bool, nSamples),
	}
	for i := range b.raw {
		b.raw[i] = gb.initScore
	}

	sorted := make([][]int, nFeatures)
	for f := range sorted {
		order := make([]int, nSamples)
		for i := range order {
			order[i] = i
		}
		col := b.cols[f]
		sort.SliceStable(order, func(a, c int) bool { return col[order[a]] < col[order[c]] })
		sorted[f] = order
	}

	gb.trees = make([]regTree, 0, gb.params.NEstimators)
	gb.trainLoss = make([]float64, 0, gb.params.NEstimators)
	for iter := 0; iter < gb.params.NEstimators; iter++ {
		loss := 0.0
		for i, r := range b.raw {
			p := errors.Sigmoid(r)
			b.grad[i] = p - target[i]
			b.hess[i] = math.Max(p*(1-p), 1e-16)
			loss -= target[i]*errors.StabilizeLog(p) + (1-target[i])*errors.StabilizeLog(1-p)
		}
		loss /= float64(nSamples)
		if err := errors.CheckScalar(op, loss, iter); err != nil {
			return err
		}
		gb.trainLoss = append(gb.trainLoss, loss)

		b.nodes = nil
		b.build(sorted, 0)
		gb.trees = append(gb.trees, regTree{nodes: b.nodes})
	}

	gb.state.SetDimensions(nFeatures, nSamples)
	gb.state.SetFitted()

	gb.logger.Debug("Model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.EstimatorsKey, len(gb.trees),
		log.LossKey, gb.trainLoss[len(gb.trainLoss)-1],
	)
	return nil
}

// build grows the subtree for the samples listed in sorted, where sorted[f]
// holds the node's samples ordered by feature f. Leaf values are added to
// the raw training scores as they are created.
func (b *boostBuilder) build(sorted [][]int, depth int) int {
	idx := sorted[0]
	var G, H float64
	for _, i := range idx {
		G += b.grad[i]
		H += b.hess[i]
	}

	nodeIdx := len(b.nodes)
	b.nodes = append(b.nodes, regNode{left: -1, right: -1})

	best := regNode{gain: b.params.MinGainToSplit, left: -1}
	found := false
	if depth < b.params.MaxDepth && len(idx) >= 2 {
		for f, order := range sorted {
			col := b.cols[f]
			var GL, HL float64
			for k := 0; k < len(order)-1; k++ {
				i := order[k]
				GL += b.grad[i]
				HL += b.hess[i]
				v, next := col[i], col[order[k+1]]
				if v == next {
					continue
				}
				GR, HR := G-GL, H-HL
				if HL < b.params.MinChildWeight || HR < b.params.MinChildWeight {
					continue
				}
				gain := b.splitGain(GL, HL, GR, HR, G, H)
				if gain > best.gain {
					best = regNode{feature: f, threshold: tree.SplitThreshold(v, next), gain: gain}
					found = true
				}
			}
		}
	}

	if !found {
		value := -G / (H + b.params.Lambda) * b.params.LearningRate
		b.nodes[nodeIdx].value = value
		for _, i := range idx {
			b.raw[i] += value
		}
		return nodeIdx
	}

	col := b.cols[best.feature]
	for _, i := range idx {
		b.goLeft[i] = col[i] <= best.threshold
	}
	left := make([][]int, len(sorted))
	right := make([][]int, len(sorted))
	for f, order := range sorted {
		for _, i := range order {
			if b.goLeft[i] {
				left[f] = append(left[f], i)
			} else {
				right[f] = append(right[f], i)
			}
		}
	}

	b.nodes[nodeIdx].feature = best.feature
	b.nodes[nodeIdx].threshold = best.threshold
	b.nodes[nodeIdx].gain = best.gain
	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[nodeIdx].left = l
	b.nodes[nodeIdx].right = r
	return nodeIdx
}

func (b *boostBuilder) splitGain(GL, HL, GR, HR, G, H float64) float64 {
	lambda := b.params.Lambda
	return 0.5 * (GL*GL/(HL+lambda) + GR*GR/(HR+lambda) - G*G/(H+lambda))
}

// DecisionFunction returns the raw log-odds score of each sample.
func (gb *GradientBoostingClassifier) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if err := model.ValidatePredictInput("GradientBoostingClassifier.DecisionFunction", "GradientBoostingClassifier", "DecisionFunction", gb.state, X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	scores := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		row := func(j int) float64 { return X.At(i, j) }
		s := gb.initScore
		for t := range gb.trees {
			s += gb.trees[t].predict(row)
		}
		scores.SetVec(i, s)
	}
	return scores, nil
}

// PredictProba returns [P(classes[0]), P(classes[1])] per sample.
func (gb *GradientBoostingClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := gb.DecisionFunction(X)
	if err != nil {
		return nil, errors.Wrap(err, "GradientBoostingClassifier.PredictProba")
	}
	r := scores.Len()
	proba := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		p := errors.Sigmoid(scores.AtVec(i))
		proba.Set(i, 0, 1-p)
		proba.Set(i, 1, p)
	}
	return proba, nil
}

// Predict returns classes[1] when its probability exceeds 0.5.
func (gb *GradientBoostingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := gb.PredictProba(X)
	if err != nil {
		return nil, errors.Wrap(err, "GradientBoostingClassifier.Predict")
	}
	return model.ArgmaxPredict(proba, gb.classes), nil
}

// Classes returns the fitted labels in ascending order.
func (gb *GradientBoostingClassifier) Classes() []int {
	return append([]int(nil), gb.classes...)
}

// TrainLoss returns the mean training log loss before each round.
func (gb *GradientBoostingClassifier) TrainLoss() []float64 {
	return append([]float64(nil), gb.trainLoss...)
}

// FeatureImportances returns the total split gain per feature, normalized.
func (gb *GradientBoostingClassifier) FeatureImportances() []float64 {
	nFeatures, _ := gb.state.GetDimensions()
	imp := make([]float64, nFeatures)
	total := 0.0
	for _, t := range gb.trees {
		for _, n := range t.nodes {
			if n.left >= 0 {
				imp[n.feature] += n.gain
				total += n.gain
			}
		}
	}
	for j := range imp {
		imp[j] = errors.SafeDivide(imp[j], total)
	}
	return imp
}

// IsFitted reports whether Fit has completed.
func (gb *GradientBoostingClassifier) IsFitted() bool {
	return gb.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (gb *GradientBoostingClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":     gb.params.NEstimators,
		"learning_rate":    gb.params.LearningRate,
		"max_depth":        gb.params.MaxDepth,
		"reg_lambda":       gb.params.Lambda,
		"min_child_weight": gb.params.MinChildWeight,
		"gamma":            gb.params.MinGainToSplit,
	}
}

// String returns a short description of the model.
func (gb *GradientBoostingClassifier) String() string {
	return fmt.Sprintf("GradientBoostingClassifier(n_estimators=%d, learning_rate=%g, max_depth=%d)",
		gb.params.NEstimators, gb.params.LearningRate, gb.params.MaxDepth)
}
