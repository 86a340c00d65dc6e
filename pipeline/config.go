package pipeline

import (
	"fmt"
	"math"

	"github.com/madankc71/Credit-Card-Approval-Prediction/dataset"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/sklearn/ensemble"
	"github.com/madankc71/Credit-Card-Approval-Prediction/sklearn/tree"
)

// Classifier names accepted in ModelsConfig.Enabled.
const (
	ModelLogisticRegression = "logistic_regression"
	ModelRandomForest       = "random_forest"
	ModelDecisionTree       = "decision_tree"
	ModelGradientBoosting   = "gradient_boosting"
)

// Feature set variants a classifier can be trained on.
const (
	VariantRaw        = "raw"
	VariantNormalized = "normalized"
)

// Config drives a pipeline run.
type Config struct {
	Data      DataConfig      `mapstructure:"data" yaml:"data" json:"data"`
	Split     SplitConfig     `mapstructure:"split" yaml:"split" json:"split"`
	Normalize NormalizeConfig `mapstructure:"normalize" yaml:"normalize" json:"normalize"`
	Models    ModelsConfig    `mapstructure:"models" yaml:"models" json:"models"`
}

// DataConfig describes the input file.
type DataConfig struct {
	Path          string `mapstructure:"path" yaml:"path" json:"path"`
	Delimiter     string `mapstructure:"delimiter" yaml:"delimiter" json:"delimiter"`
	Header        bool   `mapstructure:"header" yaml:"header" json:"header"`
	Placeholder   string `mapstructure:"placeholder" yaml:"placeholder" json:"placeholder"`
	Infer         string `mapstructure:"infer" yaml:"infer" json:"infer"`
	PositiveLabel string `mapstructure:"positive_label" yaml:"positive_label" json:"positive_label"`
	// LabelIndicators keeps the non-positive label indicators as features,
	// reproducing a get_dummies over the whole frame. They leak the target.
	LabelIndicators bool `mapstructure:"label_indicators" yaml:"label_indicators" json:"label_indicators"`
}

// SplitConfig controls the train/test partition.
type SplitConfig struct {
	TestSize float64 `mapstructure:"test_size" yaml:"test_size" json:"test_size"`
	Seed     int64   `mapstructure:"seed" yaml:"seed" json:"seed"`
}

// NormalizeConfig controls min-max scaling of the features.
type NormalizeConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Min     float64 `mapstructure:"min" yaml:"min" json:"min"`
	Max     float64 `mapstructure:"max" yaml:"max" json:"max"`
}

// ModelsConfig selects classifiers, the variants each is trained on and
// their hyperparameters.
type ModelsConfig struct {
	Enabled  []string                `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Variants map[string][]string     `mapstructure:"variants" yaml:"variants" json:"variants"`
	Logistic LogisticConfig          `mapstructure:"logistic_regression" yaml:"logistic_regression" json:"logistic_regression"`
	Forest   ForestConfig            `mapstructure:"random_forest" yaml:"random_forest" json:"random_forest"`
	Tree     TreeConfig              `mapstructure:"decision_tree" yaml:"decision_tree" json:"decision_tree"`
	Boosting ensemble.BoostingParams `mapstructure:"gradient_boosting" yaml:"gradient_boosting" json:"gradient_boosting"`
}

// LogisticConfig holds LogisticRegression hyperparameters.
type LogisticConfig struct {
	C            float64 `mapstructure:"c" yaml:"c" json:"c"`
	MaxIter      int     `mapstructure:"max_iter" yaml:"max_iter" json:"max_iter"`
	Tol          float64 `mapstructure:"tol" yaml:"tol" json:"tol"`
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate" json:"learning_rate"`
}

// ForestConfig holds RandomForestClassifier hyperparameters.
type ForestConfig struct {
	NEstimators int    `mapstructure:"n_estimators" yaml:"n_estimators" json:"n_estimators"`
	Criterion   string `mapstructure:"criterion" yaml:"criterion" json:"criterion"`
	MaxDepth    int    `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth"`
	RandomState int64  `mapstructure:"random_state" yaml:"random_state" json:"random_state"`
	NJobs       int    `mapstructure:"n_jobs" yaml:"n_jobs" json:"n_jobs"`
}

// TreeConfig holds DecisionTreeClassifier hyperparameters.
type TreeConfig struct {
	Criterion       string `mapstructure:"criterion" yaml:"criterion" json:"criterion"`
	MaxDepth        int    `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth"`
	MinSamplesSplit int    `mapstructure:"min_samples_split" yaml:"min_samples_split" json:"min_samples_split"`
	MinSamplesLeaf  int    `mapstructure:"min_samples_leaf" yaml:"min_samples_leaf" json:"min_samples_leaf"`
	RandomState     int64  `mapstructure:"random_state" yaml:"random_state" json:"random_state"`
}

// DefaultConfig reproduces the reference experiment: a 25% evaluation
// split with seed 2, features scaled to [0, 1], logistic regression and the
// random forest on both feature sets, the single tree and the boosted trees
// on raw features.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Delimiter:   ",",
			Placeholder: dataset.DefaultPlaceholder,
			Infer:       dataset.InferRaw.String(),
		},
		Split: SplitConfig{TestSize: 0.25, Seed: 2},
		Normalize: NormalizeConfig{
			Enabled: true,
			Min:     0,
			Max:     1,
		},
		Models: ModelsConfig{
			Enabled: []string{ModelLogisticRegression, ModelRandomForest, ModelDecisionTree, ModelGradientBoosting},
			Variants: map[string][]string{
				ModelLogisticRegression: {VariantRaw, VariantNormalized},
				ModelRandomForest:       {VariantRaw, VariantNormalized},
				ModelDecisionTree:       {VariantRaw},
				ModelGradientBoosting:   {VariantRaw},
			},
			Logistic: LogisticConfig{C: 1, MaxIter: 100, Tol: 1e-4, LearningRate: 1},
			Forest:   ForestConfig{NEstimators: 100, Criterion: tree.CriterionGini},
			Tree:     TreeConfig{Criterion: tree.CriterionGini, MinSamplesSplit: 2, MinSamplesLeaf: 1},
			Boosting: ensemble.DefaultBoostingParams(),
		},
	}
}

// Validate checks the settings that Prepare and Run depend on. Estimator
// hyperparameters are validated by the estimators themselves.
func (c Config) Validate() error {
	if math.IsNaN(c.Split.TestSize) || c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return errors.NewValidationError("split.test_size", "must be in (0, 1)", c.Split.TestSize)
	}
	if len([]rune(c.Data.Delimiter)) > 1 {
		return errors.NewValidationError("data.delimiter", "must be a single character", c.Data.Delimiter)
	}
	if _, err := dataset.ParseInferMode(c.Data.Infer); err != nil {
		return err
	}
	if c.Normalize.Enabled && !(c.Normalize.Min < c.Normalize.Max) {
		return errors.NewValidationError("normalize", "min must be less than max", [2]float64{c.Normalize.Min, c.Normalize.Max})
	}
	if len(c.Models.Enabled) == 0 {
		return errors.NewValidationError("models.enabled", "at least one classifier is required", c.Models.Enabled)
	}
	for _, name := range c.Models.Enabled {
		switch name {
		case ModelLogisticRegression, ModelRandomForest, ModelDecisionTree, ModelGradientBoosting:
		default:
			return errors.NewValidationError("models.enabled", fmt.Sprintf("unknown classifier %q", name), name)
		}
		for _, v := range c.variants(name) {
			if v != VariantRaw && v != VariantNormalized {
				return errors.NewValidationError("models.variants", fmt.Sprintf("unknown variant %q for %s", v, name), v)
			}
		}
	}
	return nil
}

// variants returns the feature sets name is trained on. Unlisted classifiers
// train on raw features. Normalized variants are dropped when normalization
// is disabled.
func (c Config) variants(name string) []string {
	vs, ok := c.Models.Variants[name]
	if !ok || len(vs) == 0 {
		vs = []string{VariantRaw}
	}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v == VariantNormalized && !c.Normalize.Enabled {
			continue
		}
		out = append(out, v)
	}
	return out
}

// LoadOptions turns DataConfig into loader options.
func (c Config) LoadOptions() (dataset.Options, error) {
	opts := dataset.DefaultOptions()
	if r := []rune(c.Data.Delimiter); len(r) == 1 {
		opts.Delimiter = r[0]
	}
	opts.Header = c.Data.Header
	opts.Placeholder = c.Data.Placeholder
	mode, err := dataset.ParseInferMode(c.Data.Infer)
	if err != nil {
		return opts, err
	}
	opts.Infer = mode
	return opts, nil
}
