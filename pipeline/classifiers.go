package pipeline

import (
	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/sklearn/ensemble"
	"github.com/madankc71/Credit-Card-Approval-Prediction/sklearn/linear_model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/sklearn/tree"
)

var (
	_ model.Classifier      = (*linear_model.LogisticRegression)(nil)
	_ model.Classifier      = (*ensemble.RandomForestClassifier)(nil)
	_ model.Classifier      = (*tree.DecisionTreeClassifier)(nil)
	_ model.Classifier      = (*ensemble.GradientBoostingClassifier)(nil)
	_ model.ParameterGetter = (*ensemble.GradientBoostingClassifier)(nil)
)

// NewClassifier builds an unfitted classifier from its configuration.
func NewClassifier(name string, cfg ModelsConfig) (model.Classifier, error) {
	switch name {
	case ModelLogisticRegression:
		c := cfg.Logistic
		return linear_model.NewLogisticRegression(
			linear_model.WithLRC(c.C),
			linear_model.WithLRMaxIter(c.MaxIter),
			linear_model.WithLRTol(c.Tol),
			linear_model.WithLRLearningRate(c.LearningRate),
		), nil
	case ModelRandomForest:
		c := cfg.Forest
		criterion := c.Criterion
		if criterion == "" {
			criterion = tree.CriterionGini
		}
		return ensemble.NewRandomForestClassifier(
			ensemble.WithNEstimators(c.NEstimators),
			ensemble.WithForestCriterion(criterion),
			ensemble.WithForestMaxDepth(c.MaxDepth),
			ensemble.WithForestRandomState(c.RandomState),
			ensemble.WithNJobs(c.NJobs),
		), nil
	case ModelDecisionTree:
		c := cfg.Tree
		opts := []tree.Option{
			tree.WithMaxDepth(c.MaxDepth),
			tree.WithRandomState(c.RandomState),
		}
		if c.Criterion != "" {
			opts = append(opts, tree.WithCriterion(c.Criterion))
		}
		if c.MinSamplesSplit > 0 {
			opts = append(opts, tree.WithMinSamplesSplit(c.MinSamplesSplit))
		}
		if c.MinSamplesLeaf > 0 {
			opts = append(opts, tree.WithMinSamplesLeaf(c.MinSamplesLeaf))
		}
		return tree.NewDecisionTreeClassifier(opts...), nil
	case ModelGradientBoosting:
		return ensemble.NewGradientBoostingClassifier(ensemble.WithBoostingParams(cfg.Boosting)), nil
	default:
		return nil, errors.NewValidationError("models.enabled", "unknown classifier", name)
	}
}
