package pipeline

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/dataset"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
	"github.com/madankc71/Credit-Card-Approval-Prediction/preprocessing"
)

// Prepared holds both subsets after preprocessing. The evaluation matrices
// share the training column order given by FeatureNames.
type Prepared struct {
	FeatureNames  []string
	TargetName    string
	PositiveLabel string

	XTrain *mat.Dense
	YTrain *mat.VecDense
	XTest  *mat.Dense
	YTest  *mat.VecDense

	// Scaled features, nil when normalization is disabled.
	XTrainScaled mat.Matrix
	XTestScaled  mat.Matrix
	Scaler       *preprocessing.MinMaxScaler

	// Cells filled by the imputers.
	ImputedTrain int
	ImputedTest  int
}

// Features returns the training and evaluation matrices of a variant.
func (p *Prepared) Features(variant string) (train, test mat.Matrix, err error) {
	switch variant {
	case VariantRaw:
		return p.XTrain, p.XTest, nil
	case VariantNormalized:
		if p.Scaler == nil {
			return nil, nil, errors.NewValueError("Prepared.Features", "normalization is disabled")
		}
		return p.XTrainScaled, p.XTestScaled, nil
	default:
		return nil, nil, errors.NewValidationError("variant", "must be raw or normalized", variant)
	}
}

// Prepare runs every preprocessing stage on a loaded table.
func Prepare(table *dataset.Table, cfg Config) (*Prepared, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.GetLoggerWithName("pipeline")
	start := time.Now()

	sanitized := dataset.Sanitize(table, cfg.Data.Placeholder)
	logger.Info("Sanitized table",
		log.StageKey, log.StageSanitize,
		log.MissingKey, sanitized.CountMissing(),
	)

	train, test, err := dataset.TrainTestSplit(sanitized, cfg.Split.TestSize, cfg.Split.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageSplit)
	}
	logger.Info("Split table",
		log.StageKey, log.StageSplit,
		log.RandomSeedKey, cfg.Split.Seed,
		"train_rows", train.NumRows(),
		"test_rows", test.NumRows(),
	)

	// statistics are computed per subset
	trainImp, err := preprocessing.NewSimpleImputer(preprocessing.WithSubset(log.PhaseTraining)).FitTransform(train)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageImpute)
	}
	testImp, err := preprocessing.NewSimpleImputer(preprocessing.WithSubset(log.PhaseEvaluation)).FitTransform(test)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageImpute)
	}

	trainFrame, testFrame, enc, err := preprocessing.EncodeAligned(trainImp, testImp,
		preprocessing.WithPositiveLabel(cfg.Data.PositiveLabel),
		preprocessing.WithLabelIndicators(cfg.Data.LabelIndicators))
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageEncode)
	}

	XTrain, yTrain, err := preprocessing.SplitFeaturesTarget(trainFrame)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageSegregate)
	}
	XTest, yTest, err := preprocessing.SplitFeaturesTarget(testFrame)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %s", log.StageSegregate)
	}

	p := &Prepared{
		FeatureNames:  trainFrame.FeatureNames(),
		TargetName:    trainFrame.TargetName(),
		PositiveLabel: enc.PositiveLabel(),
		XTrain:        XTrain,
		YTrain:        yTrain,
		XTest:         XTest,
		YTest:         yTest,
		ImputedTrain:  train.CountMissing(),
		ImputedTest:   test.CountMissing(),
	}

	if cfg.Normalize.Enabled {
		scaler := preprocessing.NewMinMaxScaler([2]float64{cfg.Normalize.Min, cfg.Normalize.Max})
		if p.XTrainScaled, err = scaler.FitTransform(XTrain); err != nil {
			return nil, errors.Wrapf(err, "stage %s", log.StageNormalize)
		}
		if p.XTestScaled, err = scaler.Transform(XTest); err != nil {
			return nil, errors.Wrapf(err, "stage %s", log.StageNormalize)
		}
		p.Scaler = scaler
	}

	logger.Info("Prepared features",
		log.StageKey, log.StageSegregate,
		log.FeaturesKey, len(p.FeatureNames),
		"target", p.TargetName,
		"positive_label", p.PositiveLabel,
		"normalized", cfg.Normalize.Enabled,
		log.DurationMsKey, time.Since(start),
	)
	return p, nil
}
