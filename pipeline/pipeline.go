package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/dataset"
	"github.com/madankc71/Credit-Card-Approval-Prediction/metrics"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// Result is the evaluation of one classifier on one feature variant.
type Result struct {
	Model         string             `json:"model"`
	Variant       string             `json:"variant"`
	TrainAccuracy float64            `json:"train_accuracy"`
	TestAccuracy  float64            `json:"test_accuracy"`
	Precision     float64            `json:"precision"`
	Recall        float64            `json:"recall"`
	F1            float64            `json:"f1"`
	AUC           float64            `json:"auc"`
	Confusion     *metrics.Confusion `json:"confusion_matrix"`
	FitDuration   time.Duration      `json:"fit_duration_ns"`

	Params map[string]interface{} `json:"params,omitempty"`
}

// Job names one classifier/variant combination of a run.
type Job struct {
	Model   string
	Variant string
}

// Jobs lists the combinations Run evaluates, in order.
func (c Config) Jobs() []Job {
	var jobs []Job
	for _, name := range c.Models.Enabled {
		for _, v := range c.variants(name) {
			jobs = append(jobs, Job{Model: name, Variant: v})
		}
	}
	return jobs
}

// Evaluate fits clf on the training subset and scores it on both subsets.
// Precision, recall and AUC treat label 1 as positive.
func Evaluate(clf model.Classifier, XTrain mat.Matrix, yTrain *mat.VecDense, XTest mat.Matrix, yTest *mat.VecDense) (*Result, error) {
	start := time.Now()
	if err := clf.Fit(XTrain, yTrain); err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageTrain)
	}
	res := &Result{FitDuration: time.Since(start)}
	if pg, ok := clf.(model.ParameterGetter); ok {
		res.Params = pg.GetParams()
	}

	trainPred, err := predictVec(clf, XTrain)
	if err != nil {
		return nil, err
	}
	testPred, err := predictVec(clf, XTest)
	if err != nil {
		return nil, err
	}

	if res.TrainAccuracy, err = metrics.Accuracy(yTrain, trainPred); err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageEvaluate)
	}
	if res.TestAccuracy, err = metrics.Accuracy(yTest, testPred); err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageEvaluate)
	}
	if res.Confusion, err = metrics.ConfusionMatrix(yTest, testPred); err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageEvaluate)
	}
	if res.Precision, res.Recall, res.F1, err = metrics.PrecisionRecallF1(yTest, testPred, 1); err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageEvaluate)
	}

	res.AUC = 0.5
	if pos := classIndex(clf.Classes(), 1); pos >= 0 {
		proba, err := clf.PredictProba(XTest)
		if err != nil {
			return nil, errors.Wrapf(err, "stage %s", log.StageEvaluate)
		}
		r, _ := proba.Dims()
		scores := mat.NewVecDense(r, mat.Col(nil, pos, proba))
		if auc, err := metrics.AUC(yTest, scores); err == nil {
			res.AUC = auc
		}
	}
	return res, nil
}

func predictVec(clf model.Classifier, X mat.Matrix) (*mat.VecDense, error) {
	pred, err := clf.Predict(X)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageEvaluate)
	}
	r, _ := pred.Dims()
	return mat.NewVecDense(r, mat.Col(nil, 0, pred)), nil
}

func classIndex(classes []int, label int) int {
	for i, c := range classes {
		if c == label {
			return i
		}
	}
	return -1
}

// Report is the outcome of a run.
type Report struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	DataPath      string    `json:"data_path,omitempty"`
	Rows          int       `json:"rows"`
	Columns       int       `json:"columns"`
	TrainRows     int       `json:"train_rows"`
	TestRows      int       `json:"test_rows"`
	Features      int       `json:"features"`
	TargetName    string    `json:"target"`
	PositiveLabel string    `json:"positive_label"`
	TestSize      float64   `json:"test_size"`
	Seed          int64     `json:"seed"`
	Results       []Result  `json:"results"`
}

// RunOption configures Run and RunTable.
type RunOption func(*runOptions)

type runOptions struct {
	observer func(Result)
	runID    string
}

// WithObserver is called after each classifier/variant is evaluated.
func WithObserver(fn func(Result)) RunOption {
	return func(o *runOptions) { o.observer = fn }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) RunOption {
	return func(o *runOptions) { o.runID = id }
}

// Run loads cfg.Data.Path and evaluates every configured classifier.
func Run(ctx context.Context, cfg Config, opts ...RunOption) (report *Report, err error) {
	defer errors.Recover(&err, "pipeline.Run")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loadOpts, err := cfg.LoadOptions()
	if err != nil {
		return nil, err
	}
	table, err := dataset.Load(cfg.Data.Path, loadOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageLoad)
	}
	report, err = RunTable(ctx, table, cfg, opts...)
	if report != nil {
		report.DataPath = cfg.Data.Path
	}
	return report, err
}

// RunTable evaluates every configured classifier on an already loaded table.
// The context is checked before each fit; a cancelled run returns ctx.Err()
// and no partial report.
func RunTable(ctx context.Context, table *dataset.Table, cfg Config, opts ...RunOption) (report *Report, err error) {
	defer errors.Recover(&err, "pipeline.RunTable")

	o := runOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	logger := log.GetLoggerWithName("pipeline").With(log.RunIDKey, o.runID)

	report = &Report{
		RunID:     o.runID,
		StartedAt: time.Now().UTC(),
		Rows:      table.NumRows(),
		Columns:   table.NumCols(),
		TestSize:  cfg.Split.TestSize,
		Seed:      cfg.Split.Seed,
	}

	prep, err := Prepare(table, cfg)
	if err != nil {
		logger.Error("Preprocessing failed", err)
		return nil, err
	}
	report.TrainRows = prep.YTrain.Len()
	report.TestRows = prep.YTest.Len()
	report.Features = len(prep.FeatureNames)
	report.TargetName = prep.TargetName
	report.PositiveLabel = prep.PositiveLabel

	for _, job := range cfg.Jobs() {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run cancelled", log.ModelNameKey, job.Model)
			return nil, errors.WithStack(err)
		}

		XTrain, XTest, err := prep.Features(job.Variant)
		if err != nil {
			return nil, err
		}
		clf, err := NewClassifier(job.Model, cfg.Models)
		if err != nil {
			return nil, err
		}
		res, err := Evaluate(clf, XTrain, prep.YTrain, XTest, prep.YTest)
		if err != nil {
			logger.Error("Evaluation failed", err, log.ModelNameKey, job.Model, log.VariantKey, job.Variant)
			return nil, errors.Wrapf(err, "%s (%s)", job.Model, job.Variant)
		}
		res.Model = job.Model
		res.Variant = job.Variant

		logger.Info("Evaluated classifier",
			log.StageKey, log.StageEvaluate,
			log.ModelNameKey, job.Model,
			log.VariantKey, job.Variant,
			log.AccuracyKey, res.TestAccuracy,
			"train_accuracy", res.TrainAccuracy,
			log.DurationMsKey, res.FitDuration,
		)
		report.Results = append(report.Results, *res)
		if o.observer != nil {
			o.observer(*res)
		}
	}
	return report, nil
}
