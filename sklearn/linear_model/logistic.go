// Package linear_model provides linear classifiers.
package linear_model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// LogisticRegression はL2正則化付きロジスティック回帰分類器
//
// 勾配降下法で学習する。3クラス以上の場合はOne-vs-Restで二値分類器を組み合わせる。
type LogisticRegression struct {
	state *model.StateManager

	// ハイパーパラメータ
	c            float64 // 正則化強度の逆数
	fitIntercept bool
	maxIter      int
	tol          float64
	learningRate float64

	// 学習済みパラメータ
	coef      *mat.Dense // (nClasses or 1) x nFeatures
	intercept []float64
	classes   []int
	nIter     int

	logger log.Logger
}

// LogisticRegressionOption は設定オプション
type LogisticRegressionOption func(*LogisticRegression)

// WithLRC は正則化強度の逆数を設定
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithLogisticFitIntercept は切片の学習有無を設定
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMaxIter は最大反復回数を設定
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol は収束判定の許容誤差を設定
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRLearningRate は初期学習率を設定
func WithLRLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.learningRate = rate
	}
}

// NewLogisticRegression は新しいLogisticRegressionを作成
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
		learningRate: 1.0,
		logger:       log.GetLoggerWithName("LogisticRegression"),
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

func (lr *LogisticRegression) validateParams() error {
	if !(lr.c > 0) {
		return errors.NewValidationError("C", "must be positive", lr.c)
	}
	if lr.maxIter <= 0 {
		return errors.NewValidationError("max_iter", "must be positive", lr.maxIter)
	}
	if !(lr.tol > 0) {
		return errors.NewValidationError("tol", "must be positive", lr.tol)
	}
	if !(lr.learningRate > 0) {
		return errors.NewValidationError("learning_rate", "must be positive", lr.learningRate)
	}
	return nil
}

// Fit はモデルを訓練データで学習
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	const op = "LogisticRegression.Fit"
	if err := lr.validateParams(); err != nil {
		return err
	}
	nSamples, nFeatures, err := model.ValidateFitInput(op, X, y)
	if err != nil {
		return err
	}

	classes := model.UniqueClasses(y)
	if len(classes) < 2 {
		return errors.NewValueError(op, fmt.Sprintf("needs samples of at least 2 classes, got %d", len(classes)))
	}

	lr.state.Reset()
	lr.classes = classes
	idx := model.ClassIndex(y, classes)

	nModels := len(classes)
	if nModels == 2 {
		nModels = 1
	}
	lr.coef = mat.NewDense(nModels, nFeatures, nil)
	lr.intercept = make([]float64, nModels)
	lr.nIter = 0

	for k := 0; k < nModels; k++ {
		// 二値の場合は classes[1] を陽性とする
		positive := k
		if nModels == 1 {
			positive = 1
		}
		target := mat.NewVecDense(nSamples, nil)
		for i, c := range idx {
			if c == positive {
				target.SetVec(i, 1)
			}
		}
		w, b, iters, err := lr.fitBinary(X, target)
		if err != nil {
			return err
		}
		lr.coef.SetRow(k, w)
		lr.intercept[k] = b
		if iters > lr.nIter {
			lr.nIter = iters
		}
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()

	lr.logger.Debug("Model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, len(classes),
		log.IterationKey, lr.nIter,
	)
	return nil
}

// fitBinary は勾配降下法で二値ロジスティック回帰を学習
//
// 目的関数は平均ログ損失 + ||w||^2 / (2 C n)。
func (lr *LogisticRegression) fitBinary(X mat.Matrix, y *mat.VecDense) ([]float64, float64, int, error) {
	const op = "LogisticRegression.fitBinary"
	nSamples, nFeatures := X.Dims()
	n := float64(nSamples)
	lambda := 1.0 / (lr.c * n)

	w := mat.NewVecDense(nFeatures, nil)
	grad := mat.NewVecDense(nFeatures, nil)
	z := mat.NewVecDense(nSamples, nil)
	resid := mat.NewVecDense(nSamples, nil)
	b := 0.0

	for iter := 0; iter < lr.maxIter; iter++ {
		z.MulVec(X, w)
		for i := 0; i < nSamples; i++ {
			resid.SetVec(i, errors.Sigmoid(z.AtVec(i)+b)-y.AtVec(i))
		}

		grad.MulVec(X.T(), resid)
		grad.ScaleVec(1/n, grad)
		grad.AddScaledVec(grad, lambda, w)

		gradB := 0.0
		if lr.fitIntercept {
			gradB = mat.Sum(resid) / n
		}

		maxGrad := math.Max(floats.Norm(grad.RawVector().Data, math.Inf(1)), math.Abs(gradB))
		if err := errors.CheckScalar(op, maxGrad, iter); err != nil {
			return nil, 0, iter, err
		}
		if maxGrad < lr.tol {
			return mat.Col(nil, 0, w), b, iter + 1, nil
		}

		step := lr.learningRate / (1 + 0.1*float64(iter))
		w.AddScaledVec(w, -step, grad)
		b -= step * gradB
	}

	errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter,
		"gradient descent did not converge; scale the features or increase max_iter"))
	return mat.Col(nil, 0, w), b, lr.maxIter, nil
}

func (lr *LogisticRegression) decision(X mat.Matrix) *mat.Dense {
	r, _ := X.Dims()
	nModels, _ := lr.coef.Dims()
	scores := mat.NewDense(r, nModels, nil)
	scores.Mul(X, lr.coef.T())
	for k := 0; k < nModels; k++ {
		b := lr.intercept[k]
		for i := 0; i < r; i++ {
			scores.Set(i, k, scores.At(i, k)+b)
		}
	}
	return scores
}

// PredictProba はクラス確率を予測
//
// 列の並びは Classes() と同じ。多クラスの場合はOvRの確率を行ごとに正規化する。
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := model.ValidatePredictInput("LogisticRegression.PredictProba", "LogisticRegression", "PredictProba", lr.state, X); err != nil {
		return nil, err
	}
	scores := lr.decision(X)
	r, _ := X.Dims()
	proba := mat.NewDense(r, len(lr.classes), nil)

	if len(lr.classes) == 2 {
		for i := 0; i < r; i++ {
			p := errors.Sigmoid(scores.At(i, 0))
			proba.Set(i, 0, 1-p)
			proba.Set(i, 1, p)
		}
		return proba, nil
	}

	row := make([]float64, len(lr.classes))
	for i := 0; i < r; i++ {
		for k := range row {
			row[k] = errors.Sigmoid(scores.At(i, k))
		}
		sum := floats.Sum(row)
		for k := range row {
			row[k] = errors.SafeDivide(row[k], sum)
		}
		proba.SetRow(i, row)
	}
	return proba, nil
}

// Predict はクラスラベルを予測
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, errors.Wrap(err, "LogisticRegression.Predict")
	}
	return model.ArgmaxPredict(proba, lr.classes), nil
}

// Score は正解率を返す
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	pr, _ := pred.Dims()
	if rows != pr {
		return 0, errors.NewShapeMismatchError("LogisticRegression.Score", pr, rows)
	}
	correct := 0
	for i := 0; i < rows; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(rows), nil
}

// Classes は学習したクラスラベルを昇順で返す
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes...)
}

// Coef は学習済み係数を返す
func (lr *LogisticRegression) Coef() *mat.Dense {
	if lr.coef == nil {
		return nil
	}
	return mat.DenseCopyOf(lr.coef)
}

// Intercept は学習済み切片を返す
func (lr *LogisticRegression) Intercept() []float64 {
	return append([]float64(nil), lr.intercept...)
}

// NIter は実行された反復回数の最大値を返す
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// IsFitted は学習済みかどうかを返す
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams はハイパーパラメータを返す
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"learning_rate": lr.learningRate,
	}
}

// String はモデルの文字列表現
func (lr *LogisticRegression) String() string {
	if !lr.state.IsFitted() {
		return fmt.Sprintf("LogisticRegression(C=%g, max_iter=%d)", lr.c, lr.maxIter)
	}
	return fmt.Sprintf("LogisticRegression(C=%g, max_iter=%d, n_classes=%d)", lr.c, lr.maxIter, len(lr.classes))
}
